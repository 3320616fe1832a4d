package llm

import "context"

// Client sends one prompt, optionally with an image, and returns the raw
// text of the model reply.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

type Request struct {
	Prompt    string
	Image     *Image
	MaxTokens int
}

// Image is attached to a request as a base64 content block.
type Image struct {
	MediaType string
	Data      []byte
}

const (
	AnalysisMaxTokens = 1024
	ImageMaxTokens    = 512
	DigestMaxTokens   = 2048
)
