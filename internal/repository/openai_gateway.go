package repository

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"japanese-doc-reader/internal/domain"

	"github.com/sashabaranov/go-openai"
)

// speechInputLimit is the service-side character limit for speech synthesis.
const speechInputLimit = 4000

const (
	ocrMaxTokens      = 2000
	furiganaMaxTokens = 3500
	chatMaxTokens     = 2000
)

const (
	ocrPrompt = "Extract the Japanese text embedded in this image. Return only the text itself, with no commentary."

	furiganaTask = "TASK: convert the Japanese text below to HTML <ruby> markup.\n" +
		"Respond with HTML only.\n"

	furiganaNormalRule = "RULE: attach furigana to every kanji using <ruby> tags."

	furiganaPlusRule = "RULE 1: scan every kanji word in the text. If a kanji word appeared earlier, " +
		"leave it as plain text. Wrap ONLY its first occurrence in <ruby>.\n" +
		"RULE 2: never add furigana to a repeated kanji word."

	analyzePrompt = "Analyze the grammar and sentence structure of the following Japanese text. " +
		"Explain the notable grammar points, particles and conjugations, in Markdown."

	wordListPrompt = "Build a vocabulary table for the following Japanese text in Markdown: " +
		"one row per distinct word, with columns for the word, its reading and its meaning."
)

// OpenAIGateway implements domain.AIGateway against the OpenAI API. Every
// operation is a single bounded call; failures surface as the domain's typed
// sentinels rather than being folded into the result string.
type OpenAIGateway struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  domain.Logger
}

// NewOpenAIGateway creates a new gateway using the given client and chat
// model. timeout bounds every outbound call; 0 disables the bound.
func NewOpenAIGateway(client *openai.Client, model string, timeout time.Duration, logger domain.Logger) *OpenAIGateway {
	return &OpenAIGateway{
		client:  client,
		model:   model,
		timeout: timeout,
		logger:  logger,
	}
}

// OCR extracts the Japanese text embedded in a PNG image.
func (g *OpenAIGateway) OCR(ctx context.Context, imagePNG []byte, temperature float64) (string, error) {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	dataURI := "data:image/png;base64," + base64.StdEncoding.EncodeToString(imagePNG)

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: ocrPrompt},
				{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: dataURI}},
			},
		}},
		MaxTokens:   ocrMaxTokens,
		Temperature: nonZeroTemperature(temperature),
	})
	if err != nil {
		return "", g.wrapErr("ocr", err)
	}
	return completionText("ocr", resp)
}

// AnnotateFurigana returns the text converted to ruby markup. In plus mode
// the first-occurrence rule is evaluated by the model's own scan of the
// prompt; no local deduplication happens here.
func (g *OpenAIGateway) AnnotateFurigana(ctx context.Context, text string, mode domain.FuriganaMode) (string, error) {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	rule := furiganaNormalRule
	if mode == domain.FuriganaPlus {
		rule = furiganaPlusRule
	}
	prompt := furiganaTask + rule + "\nTEXT: " + text

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
		MaxTokens:   furiganaMaxTokens,
		Temperature: nonZeroTemperature(0),
	})
	if err != nil {
		return "", g.wrapErr("furigana", err)
	}
	raw, err := completionText("furigana", resp)
	if err != nil {
		return "", err
	}
	return cleanRubyHTML(raw), nil
}

// SynthesizeSpeech returns MP3 audio for the text, truncated to the service
// input limit before submission.
func (g *OpenAIGateway) SynthesizeSpeech(ctx context.Context, text, voice string) ([]byte, error) {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	if runes := []rune(text); len(runes) > speechInputLimit {
		g.logger.Warn("speech input truncated", "limit", speechInputLimit, "length", len(runes))
		text = string(runes[:speechInputLimit])
	}

	resp, err := g.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model: openai.TTSModel1,
		Voice: openai.SpeechVoice(voice),
		Input: text,
	})
	if err != nil {
		return nil, g.wrapErr("speech", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: speech: read audio stream: %v", domain.ErrInvalidResponse, err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("%w: speech: empty audio stream", domain.ErrInvalidResponse)
	}
	return audio, nil
}

// Ask answers a free-form question about the given context text.
func (g *OpenAIGateway) Ask(ctx context.Context, contextText, question string) (string, error) {
	prompt := fmt.Sprintf("CONTEXT:\n%s\n\nQUESTION: %s", contextText, question)
	return g.chat(ctx, "ask", prompt)
}

// Analyze produces a grammar/structure analysis of a Japanese passage.
func (g *OpenAIGateway) Analyze(ctx context.Context, text string) (string, error) {
	return g.chat(ctx, "analyze", analyzePrompt+"\n\n"+text)
}

// WordList produces a vocabulary table for a Japanese passage.
func (g *OpenAIGateway) WordList(ctx context.Context, text string) (string, error) {
	return g.chat(ctx, "word_list", wordListPrompt+"\n\n"+text)
}

// chat issues a plain single-message completion.
func (g *OpenAIGateway) chat(ctx context.Context, op, prompt string) (string, error) {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
		MaxTokens: chatMaxTokens,
	})
	if err != nil {
		return "", g.wrapErr(op, err)
	}
	return completionText(op, resp)
}

func (g *OpenAIGateway) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, g.timeout)
}

// wrapErr maps transport and API failures onto the domain taxonomy.
func (g *OpenAIGateway) wrapErr(op string, err error) error {
	g.logger.Error("ai call failed", err, "op", op)

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %s: %v", domain.ErrRateLimited, op, err)
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrServiceUnavailable, op, err)
}

// completionText pulls the first choice out of a chat response.
func completionText(op string, resp openai.ChatCompletionResponse) (string, error) {
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%w: %s: empty completion", domain.ErrInvalidResponse, op)
	}
	return resp.Choices[0].Message.Content, nil
}

// cleanRubyHTML strips markdown code fences and, when the response contains
// extraneous prose, trims it to the substring between the first '<' and the
// last '>'.
func cleanRubyHTML(raw string) string {
	s := strings.ReplaceAll(raw, "```html", "")
	s = strings.ReplaceAll(s, "```", "")
	s = strings.TrimSpace(s)

	start := strings.Index(s, "<")
	end := strings.LastIndex(s, ">")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return s
}

// nonZeroTemperature keeps an explicit zero from being dropped by the
// client's omitempty serialization, which would silently fall back to the
// API default of 1.0.
func nonZeroTemperature(t float64) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}
