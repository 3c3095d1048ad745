package llm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Rrens/ai-debate/internal/domain"
	"github.com/Rrens/ai-debate/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name       string
	configured bool
	text       string
	err        error
	lastReq    llm.Request
}

func (p *stubProvider) Name() string              { return p.name }
func (p *stubProvider) AvailableModels() []string { return []string{"stub-model"} }
func (p *stubProvider) DefaultModel() string      { return "stub-model" }
func (p *stubProvider) IsConfigured() bool        { return p.configured }

func (p *stubProvider) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	p.lastReq = req
	if p.err != nil {
		return nil, p.err
	}
	return &llm.Response{Text: p.text, Model: req.Model}, nil
}

func TestRouter_Invoke(t *testing.T) {
	ctx := context.Background()

	t.Run("default provider", func(t *testing.T) {
		p := &stubProvider{name: "openrouter", configured: true, text: "hello"}
		r := llm.NewRouter("openrouter")
		r.RegisterProvider(p)

		resp, err := r.Invoke(ctx, llm.Request{Model: "m", Prompt: "p", MaxTokens: 300, Temperature: 0.7})
		require.NoError(t, err)
		assert.Equal(t, "hello", resp.Text)
		assert.Equal(t, 300, p.lastReq.MaxTokens)
		assert.InDelta(t, 0.7, p.lastReq.Temperature, 1e-9)
	})

	t.Run("unknown provider", func(t *testing.T) {
		r := llm.NewRouter("openrouter")
		_, err := r.Invoke(ctx, llm.Request{Provider: "nope"})
		assert.True(t, errors.Is(err, domain.ErrModelInvocation))
	})

	t.Run("missing credential", func(t *testing.T) {
		r := llm.NewRouter("openrouter")
		r.RegisterProvider(&stubProvider{name: "openrouter"})
		_, err := r.Invoke(ctx, llm.Request{})
		assert.True(t, errors.Is(err, domain.ErrModelInvocation))
		assert.Contains(t, err.Error(), "not configured")
	})

	t.Run("upstream error", func(t *testing.T) {
		r := llm.NewRouter("openrouter")
		r.RegisterProvider(&stubProvider{name: "openrouter", configured: true, err: errors.New("status 500")})
		_, err := r.Invoke(ctx, llm.Request{})
		assert.True(t, errors.Is(err, domain.ErrModelInvocation))
		assert.Contains(t, err.Error(), "status 500")
	})

	t.Run("empty body", func(t *testing.T) {
		r := llm.NewRouter("openrouter")
		r.RegisterProvider(&stubProvider{name: "openrouter", configured: true, text: "  "})
		_, err := r.Invoke(ctx, llm.Request{})
		assert.True(t, errors.Is(err, domain.ErrModelInvocation))
	})
}

func TestRouter_ListProviders(t *testing.T) {
	r := llm.NewRouter("b")
	r.RegisterProvider(&stubProvider{name: "b", configured: true})
	r.RegisterProvider(&stubProvider{name: "a", configured: true})
	r.RegisterProvider(&stubProvider{name: "c"})

	assert.Equal(t, []string{"a", "b"}, r.ListProviders())

	infos := r.GetProvidersInfo()
	require.Len(t, infos, 3)
	assert.Equal(t, "a", infos[0].Name)
	assert.True(t, infos[1].Default)
	assert.False(t, infos[2].Configured)
}
