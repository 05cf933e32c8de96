package ai

import (
	"context"
	"encoding/json"

	"sermonforge_backend/internal/models"
)

// SermonInfo carries the context the prompts embed alongside the transcript.
type SermonInfo struct {
	Title         string
	Speaker       string
	ScriptureRefs string
	Transcript    string
}

// Generator produces one structured content payload per call. The returned
// JSON matches the payload shape for the requested content type.
type Generator interface {
	Generate(ctx context.Context, info SermonInfo, contentType models.ContentType) (json.RawMessage, error)
}
