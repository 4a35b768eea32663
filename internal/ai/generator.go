package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"content-bot/internal/channel"
	"content-bot/internal/storage"
)

// ErrNotConfigured distinguishes a missing API key from a transient
// provider failure; the operator gets a different message for each.
var ErrNotConfigured = errors.New("ai: generator API key is not configured")

type Generator struct {
	model    *genai.GenerativeModel
	language string
}

// NewGenerator builds the Gemini-backed generator. An empty API key is
// not fatal: the generator is returned disabled and every call reports
// ErrNotConfigured so draft flows degrade gracefully.
func NewGenerator(ctx context.Context, apiKey, modelName, language string) (*Generator, error) {
	if apiKey == "" {
		return &Generator{language: language}, nil
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &Generator{
		model:    client.GenerativeModel(modelName),
		language: language,
	}, nil
}

// GeneratePost writes post copy for the given plan topic under the
// channel's length policy. Output is sanitized and truncated to the
// ceiling even when the model ignores the instruction.
func (g *Generator) GeneratePost(ctx context.Context, topic, hint string, policy channel.Policy, hasPhoto bool) (string, error) {
	if g.model == nil {
		return "", ErrNotConfigured
	}

	limit := policy.TextLimit
	shape := "a long-form article"
	if hasPhoto {
		limit = policy.CaptionLimit
		shape = "a short post to accompany a photo"
	}

	prompt := fmt.Sprintf(
		"You are the author of a popular %s channel. Write a post.\n"+
			"Topic: %s. Details: %s.\n"+
			"Language: %s.\n"+
			"Requirements:\n"+
			"1. %s.\n"+
			"2. Maximum length is %d characters. This is critical.\n"+
			"3. No Markdown (no asterisks or hashes). Plain text and emoji only.",
		policy.Platform, topic, hint, g.language, shape, limit)

	text, err := g.generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return TruncateToLimit(SanitizeMarkup(text), limit), nil
}

// GenerateQuiz asks for the strict pipe-delimited quiz format and
// parses it into a structured payload.
func (g *Generator) GenerateQuiz(ctx context.Context, topic, hint string) (*storage.Quiz, error) {
	if g.model == nil {
		return nil, ErrNotConfigured
	}

	prompt := fmt.Sprintf(
		"Create a quiz for a %s-language Telegram poll. Topic: %s. Context: %s.\n"+
			"Answer strictly in this format, on a single line, nothing else:\n"+
			"Question?|Answer1|Answer2|Answer3|CorrectIndex(0-2)",
		g.language, topic, hint)

	text, err := g.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	quiz, err := ParseQuizPayload(text)
	if err != nil {
		return nil, fmt.Errorf("model returned malformed quiz: %w", err)
	}
	return quiz, nil
}

func (g *Generator) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("received an empty response from AI")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response format from AI")
	}
	return string(text), nil
}
