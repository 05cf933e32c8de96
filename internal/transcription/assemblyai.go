package transcription

import (
	"context"
	"fmt"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"sermonforge_backend/internal/logger"
)

// AssemblyAITranscriber transcribes sermon media through AssemblyAI.
type AssemblyAITranscriber struct {
	client *aai.Client
}

func NewAssemblyAITranscriber(apiKey string) *AssemblyAITranscriber {
	return &AssemblyAITranscriber{client: aai.NewClient(apiKey)}
}

func (t *AssemblyAITranscriber) Transcribe(ctx context.Context, mediaURL string) (*Result, error) {
	params := &aai.TranscriptOptionalParams{
		Punctuate:  aai.Bool(true),
		FormatText: aai.Bool(true),
	}

	// TranscribeFromURL polls until the upstream job reaches a final state.
	transcript, err := t.client.Transcripts.TranscribeFromURL(ctx, mediaURL, params)
	if err != nil {
		return nil, fmt.Errorf("assemblyai transcription: %w", err)
	}

	if transcript.Status == aai.TranscriptStatusError {
		reason := "unknown error"
		if transcript.Error != nil {
			reason = *transcript.Error
		}
		return nil, fmt.Errorf("assemblyai transcription failed: %s", reason)
	}

	result := &Result{}
	if transcript.ID != nil {
		result.TranscriptID = *transcript.ID
	}
	if transcript.Text != nil {
		result.Text = *transcript.Text
	}
	if transcript.AudioDuration != nil {
		result.DurationSec = int(*transcript.AudioDuration)
	}
	if transcript.Confidence != nil {
		result.Confidence = *transcript.Confidence
	}

	logger.CtxInfo(ctx, "Transcription completed",
		"transcript_id", result.TranscriptID,
		"duration_sec", result.DurationSec,
		"chars", len(result.Text),
	)
	return result, nil
}
