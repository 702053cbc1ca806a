// Package gemini generates insights with Google's Gemini models.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/insights"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

// ErrEmptyResponse is returned when the model answers without text.
var ErrEmptyResponse = errors.New("empty response from model")

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Generator struct {
	models  contentGenerator
	model   string
	timeout time.Duration
}

// New creates a Gemini client. The API key is read from GEMINI_API_KEY or
// GOOGLE_API_KEY by the client library. A zero timeout means the caller's
// context alone bounds each request.
func New(ctx context.Context, model string, timeout time.Duration) (*Generator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return newGenerator(client.Models, model, timeout), nil
}

func newGenerator(models contentGenerator, model string, timeout time.Duration) *Generator {
	if model == "" {
		model = DefaultModel
	}
	return &Generator{models: models, model: model, timeout: timeout}
}

func (g *Generator) Generate(ctx context.Context, summary core.Summary) ([]core.Insight, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(insights.SystemInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		Temperature:       genai.Ptr[float32](0.7),
	}
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(insights.BuildPrompt(summary)), config)
	if err != nil {
		return nil, fmt.Errorf("gemini %s: %w", g.model, err)
	}

	text := responseText(resp)
	if text == "" {
		return nil, ErrEmptyResponse
	}
	return insights.ParseResponse(text)
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}
