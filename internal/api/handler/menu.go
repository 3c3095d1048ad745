package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Rrens/ai-debate/internal/api/response"
	"github.com/Rrens/ai-debate/internal/domain"
	"github.com/Rrens/ai-debate/internal/service"
	"github.com/go-chi/chi/v5"
)

// MenuHandler handles navigation menu endpoints
type MenuHandler struct {
	menuService *service.MenuService
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(menuService *service.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

// Active lists the menus shown in the sidebar
func (h *MenuHandler) Active(w http.ResponseWriter, r *http.Request) {
	menus, err := h.menuService.ActiveMenus(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, menus)
}

// List lists every stored menu
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	menus, err := h.menuService.AllMenus(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, menus)
}

// Get returns one menu
func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := menuID(w, r)
	if !ok {
		return
	}
	menu, err := h.menuService.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, menu)
}

// Create stores a new menu
func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, ok := decodeMenuInput(w, r)
	if !ok {
		return
	}
	menu, err := h.menuService.Create(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Created(w, menu)
}

// Update overwrites a menu
func (h *MenuHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := menuID(w, r)
	if !ok {
		return
	}
	input, ok := decodeMenuInput(w, r)
	if !ok {
		return
	}
	menu, err := h.menuService.Update(r.Context(), id, input)
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, menu)
}

// Toggle flips a menu's active flag
func (h *MenuHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := menuID(w, r)
	if !ok {
		return
	}
	menu, err := h.menuService.Toggle(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, menu)
}

// Delete removes a menu
func (h *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := menuID(w, r)
	if !ok {
		return
	}
	if err := h.menuService.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	response.NoContent(w)
}

type reorderRequest struct {
	IDs []int64 `json:"ids" validate:"required,min=1"`
}

// Reorder sets the display order from the posted ID list
func (h *MenuHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, validationMessage(err))
		return
	}
	if err := h.menuService.Reorder(r.Context(), req.IDs); err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, map[string]string{"message": "menu order updated"})
}

func menuID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "invalid menu ID")
		return 0, false
	}
	return id, true
}

func decodeMenuInput(w http.ResponseWriter, r *http.Request) (domain.MenuInput, bool) {
	var input domain.MenuInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return input, false
	}
	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationMessage(err))
		return input, false
	}
	return input, true
}
