package textgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weddingbudget/internal/allocation"
)

func TestParseLines(t *testing.T) {
	t.Run("strips markers and blanks", func(t *testing.T) {
		lines, err := ParseLines("1. Book early\n\n- Compare caterers\n* **Rent the suit**\n  2) Skip favours  \n")
		require.NoError(t, err)
		assert.Equal(t, []string{"Book early", "Compare caterers", "Rent the suit", "Skip favours"}, lines)
	})

	t.Run("caps output", func(t *testing.T) {
		var b strings.Builder
		for i := 0; i < 20; i++ {
			fmt.Fprintf(&b, "- tip %d\n", i)
		}
		lines, err := ParseLines(b.String())
		require.NoError(t, err)
		assert.Len(t, lines, MaxLines)
		assert.Equal(t, "tip 0", lines[0])
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ParseLines(" \n-\n\n")
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})
}

func TestBuildPrompt(t *testing.T) {
	engine, err := allocation.NewEngine(allocation.DefaultTables(), nil)
	require.NoError(t, err)
	in := allocation.Input{TotalBudget: 15000, GuestCount: 80, VenueType: "hotel", Style: "elegant", Season: "summer"}

	prompt := BuildPrompt(in, engine.Calculate(in))

	assert.Contains(t, prompt, "Total budget: 15000")
	assert.Contains(t, prompt, "Guests: 80")
	assert.Contains(t, prompt, "Budget per guest: 187.50 (medium efficiency)")
	assert.Contains(t, prompt, "Season: summer")
	assert.Contains(t, prompt, "- Venue: 10368 (69%)")
}

func TestBuildPrompt_NoGuests(t *testing.T) {
	engine, err := allocation.NewEngine(allocation.DefaultTables(), nil)
	require.NoError(t, err)
	in := allocation.Input{TotalBudget: 1000, VenueType: "barn", Style: "rustic", Season: "autumn"}

	prompt := BuildPrompt(in, engine.Calculate(in))
	assert.NotContains(t, prompt, "Budget per guest")
}

func TestGeneratorFunc(t *testing.T) {
	var g Generator = GeneratorFunc(func(_ context.Context, prompt string) (string, error) {
		return "echo: " + prompt, nil
	})
	out, err := g.Generate(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "echo: hi", out)
}

func geminiServer(t *testing.T, status int, text string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"code": status, "message": "boom", "status": "INTERNAL"},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{
					"role":  "model",
					"parts": []map[string]any{{"text": text}},
				}},
			},
		})
	}))
}

func TestGenAIGenerator_Generate(t *testing.T) {
	server := geminiServer(t, http.StatusOK, "- Book early\n- Compare caterers\n")
	defer server.Close()

	g, err := NewGenAIGenerator(context.Background(), GenAIConfig{
		APIKey:     "test-key",
		Model:      "test-model",
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})
	require.NoError(t, err)
	assert.Equal(t, "test-model", g.Model())

	out, err := g.Generate(context.Background(), "advice please")
	require.NoError(t, err)
	assert.Equal(t, "- Book early\n- Compare caterers", out)
}

func TestGenAIGenerator_ServerError(t *testing.T) {
	server := geminiServer(t, http.StatusInternalServerError, "")
	defer server.Close()

	g, err := NewGenAIGenerator(context.Background(), GenAIConfig{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), "advice please")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrEmptyResponse))
}

func TestGenAIGenerator_EmptyResponse(t *testing.T) {
	server := geminiServer(t, http.StatusOK, "   ")
	defer server.Close()

	g, err := NewGenAIGenerator(context.Background(), GenAIConfig{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), "advice please")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestNewGenAIGenerator_RequiresKey(t *testing.T) {
	_, err := NewGenAIGenerator(context.Background(), GenAIConfig{})
	require.Error(t, err)
}
