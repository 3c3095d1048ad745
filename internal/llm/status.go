package llm

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
)

const errorSnippetLimit = 512

// StatusError describes a non-2xx provider reply. The upstream body can
// carry request details, so it is logged and kept out of the error text.
func StatusError(provider string, resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorSnippetLimit))
	log.Warn().
		Str("provider", provider).
		Int("status", resp.StatusCode).
		Bytes("body", bytes.TrimSpace(snippet)).
		Msg("provider returned an error status")

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s rejected the API key", provider)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%s rate limit exceeded, try again later", provider)
	}
	return fmt.Errorf("%s returned status %d", provider, resp.StatusCode)
}
