package domain

import "context"

// FuriganaMode selects how furigana annotations are placed.
type FuriganaMode string

const (
	// FuriganaNormal annotates every kanji run with a ruby reading.
	FuriganaNormal FuriganaMode = "normal"
	// FuriganaPlus annotates only the first occurrence of each distinct
	// kanji word; repeats stay plain text. The recurrence tracking is done
	// by the model itself, so correctness degrades for inputs longer than
	// the model's effective context.
	FuriganaPlus FuriganaMode = "plus"
)

// DefaultOCRTemperature favors deterministic transcription.
const DefaultOCRTemperature = 0.1

// AIGateway wraps the hosted AI service. Each operation is a single blocking
// request/response call: no retries, no local fallback. Failures are typed
// errors (ErrServiceUnavailable, ErrRateLimited, ErrInvalidResponse), never
// error-labeled result strings.
type AIGateway interface {
	// OCR extracts the Japanese text embedded in a PNG image.
	OCR(ctx context.Context, imagePNG []byte, temperature float64) (string, error)
	// AnnotateFurigana returns the text converted to HTML ruby markup.
	AnnotateFurigana(ctx context.Context, text string, mode FuriganaMode) (string, error)
	// SynthesizeSpeech returns MP3 audio for the text. Input beyond 4000
	// characters is silently truncated (service limit); callers needing
	// longer narration must chunk themselves.
	SynthesizeSpeech(ctx context.Context, text, voice string) ([]byte, error)
	// Ask answers a free-form question about the given context text.
	Ask(ctx context.Context, contextText, question string) (string, error)
	// Analyze produces a grammar/structure analysis of a Japanese passage.
	Analyze(ctx context.Context, text string) (string, error)
	// WordList produces a vocabulary table for a Japanese passage.
	WordList(ctx context.Context, text string) (string, error)
}
