package llm

import "context"

// Client submits a filled prompt to a remote generative model and returns
// its free-text response. Each call is independent: no conversation state is
// carried between calls.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
