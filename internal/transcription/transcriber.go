package transcription

import "context"

// Result is the normalized output of a transcription run.
type Result struct {
	TranscriptID string
	Text         string
	DurationSec  int
	Confidence   float64
}

// Transcriber turns a media URL into text. Implementations block until the
// upstream job finishes or ctx is canceled.
type Transcriber interface {
	Transcribe(ctx context.Context, mediaURL string) (*Result, error)
}
