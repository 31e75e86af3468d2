// Package oracle is the language-model boundary. The model is a
// best-effort, fallible classifier: every response is untrusted free text
// that callers must validate against a closed schema, and every call site
// owns its own timeout so a slow or dead provider can never hang the
// classification cascade.
package oracle

import "context"

// Client is the completion interface implemented by each provider.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
