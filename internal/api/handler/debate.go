package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/Rrens/ai-debate/internal/api/response"
	"github.com/Rrens/ai-debate/internal/domain"
	"github.com/Rrens/ai-debate/internal/service"
	"github.com/go-chi/chi/v5"
)

// maxDebateBody bounds the JSON body of debate requests
const maxDebateBody = 16 << 10

// DebateHandler handles debate endpoints
type DebateHandler struct {
	debateService *service.DebateService
}

// NewDebateHandler creates a new debate handler
func NewDebateHandler(debateService *service.DebateService) *DebateHandler {
	return &DebateHandler{debateService: debateService}
}

// debateRequest accepts turns as a JSON number or string
type debateRequest struct {
	Topic string          `json:"topic"`
	Turns json.RawMessage `json:"turns,omitempty"`
}

func decodeDebateRequest(r *http.Request) (domain.DebateRequest, error) {
	var body debateRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxDebateBody))
	if err := dec.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.DebateRequest{}, domain.InvalidInput("request body is required")
		}
		return domain.DebateRequest{}, domain.InvalidInput("invalid request body")
	}
	return domain.DebateRequest{Topic: body.Topic, Turns: turnsString(body.Turns)}, nil
}

// turnsString renders 3, "3" and null the way the issuer expects
func turnsString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// Create issues a new debate session without calling any model
func (h *DebateHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := decodeDebateRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	ticket, err := h.debateService.CreateSession(req)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, ticket)
}

// Start triggers the debate of an issued session in the background
func (h *DebateHandler) Start(w http.ResponseWriter, r *http.Request) {
	req, err := decodeDebateRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	ticket, err := h.debateService.Start(chi.URLParam(r, "sessionID"), req)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Accepted(w, ticket)
}

// runResponse is the result of a synchronous debate
type runResponse struct {
	SessionID string         `json:"sessionId"`
	DebateLog []domain.Entry `json:"debateLog"`
	TurnLimit int            `json:"turnLimit"`
	Outcome   string         `json:"outcome"`
	Failure   string         `json:"failure,omitempty"`
}

// Run executes a whole debate within the request
func (h *DebateHandler) Run(w http.ResponseWriter, r *http.Request) {
	req, err := decodeDebateRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}

	record, err := h.debateService.RunSync(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	log := record.Transcript
	if log == nil {
		log = []domain.Entry{}
	}
	response.OK(w, runResponse{
		SessionID: record.SessionID,
		DebateLog: log,
		TurnLimit: record.TurnLimit,
		Outcome:   record.Outcome,
		Failure:   record.Failure,
	})
}

// Active lists running debates
func (h *DebateHandler) Active(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]any{
		"sessions":  h.debateService.Active(),
		"max_turns": h.debateService.MaxTurns(),
	})
}

// Recent lists archived debates, newest first. ?limit=N bounds the list.
func (h *DebateHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.BadRequest(w, "limit must be a positive integer")
			return
		}
		limit = n
	}

	records, err := h.debateService.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, map[string]any{"debates": records})
}

// Get returns the transcript of a running or archived debate
func (h *DebateHandler) Get(w http.ResponseWriter, r *http.Request) {
	record, err := h.debateService.Transcript(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, record)
}
