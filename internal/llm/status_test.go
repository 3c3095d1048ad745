package llm

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusError(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusUnauthorized, "openrouter rejected the API key"},
		{http.StatusForbidden, "openrouter rejected the API key"},
		{http.StatusTooManyRequests, "openrouter rate limit exceeded, try again later"},
		{http.StatusBadGateway, "openrouter returned status 502"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			resp := &http.Response{
				StatusCode: tt.status,
				Body:       io.NopCloser(strings.NewReader(`{"error":"key sk-live-123 for org acme is over quota"}`)),
			}

			err := StatusError("openrouter", resp)
			assert.EqualError(t, err, tt.want)
			assert.NotContains(t, err.Error(), "sk-live-123")
		})
	}
}
