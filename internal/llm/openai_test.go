package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSendsGreedySampling(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"안녕하세요! 저는 SYU-GPT입니다."}}]}`)
	}))
	defer srv.Close()

	t.Setenv("LLM_TEST_KEY", "test-key")
	c := NewOpenAIClient(Config{
		BaseURL:   srv.URL + "/v1",
		APIKeyEnv: "LLM_TEST_KEY",
		Model:     "gemini-pro",
		MaxTokens: 2048,
	})

	answer, err := c.Generate(context.Background(), "안녕")
	require.NoError(t, err)
	assert.Equal(t, "안녕하세요! 저는 SYU-GPT입니다.", answer)

	assert.Equal(t, "gemini-pro", got["model"])
	assert.Equal(t, float64(2048), got["max_tokens"])
	// Temperature must be present in the request body and effectively zero:
	// an absent field would let the server pick its own sampling default.
	temp, ok := got["temperature"].(float64)
	require.True(t, ok, "temperature field absent from request body: %v", got)
	assert.Greater(t, temp, 0.0)
	assert.Less(t, temp, 1e-30)
}

func TestGenerateNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer srv.Close()

	t.Setenv("LLM_TEST_KEY", "test-key")
	c := NewOpenAIClient(Config{BaseURL: srv.URL + "/v1", APIKeyEnv: "LLM_TEST_KEY", Model: "gemini-pro"})

	_, err := c.Generate(context.Background(), "안녕")
	assert.Error(t, err)
}
