package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/insights"

	"google.golang.org/genai"
)

type fakeModels struct {
	text   string
	err    error
	model  string
	prompt string
	config *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.config = config
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: f.text}}},
		}},
	}, nil
}

func TestGenerate(t *testing.T) {
	fake := &fakeModels{text: `[{"type":"spending","title":"Dining up","message":"Dining doubled."},{"type":"saving","title":"Cut subs","message":"Drop one."}]`}
	g := newGenerator(fake, "", 0)

	entries, err := g.Generate(context.Background(), core.DefaultSnapshot().Summarize(insights.RecentTransactions))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(entries) != 2 || entries[0].Title != "Dining up" {
		t.Fatalf("unexpected entries %+v", entries)
	}
	if fake.model != DefaultModel {
		t.Fatalf("model = %q", fake.model)
	}
	if fake.config.ResponseMIMEType != "application/json" {
		t.Fatalf("expected JSON response type")
	}
	if !strings.Contains(fake.prompt, "Current Balance: $16,420.65") {
		t.Fatalf("prompt missing balance:\n%s", fake.prompt)
	}
}

func TestGenerateErrors(t *testing.T) {
	summary := core.DefaultSnapshot().Summarize(insights.RecentTransactions)

	boom := errors.New("quota exceeded")
	if _, err := newGenerator(&fakeModels{err: boom}, "m", 0).Generate(context.Background(), summary); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped API error, got %v", err)
	}
	if _, err := newGenerator(&fakeModels{text: ""}, "m", 0).Generate(context.Background(), summary); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
	if _, err := newGenerator(&fakeModels{text: "not json"}, "m", 0).Generate(context.Background(), summary); !errors.Is(err, insights.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestResponseText(t *testing.T) {
	if responseText(nil) != "" {
		t.Fatalf("nil response should yield empty text")
	}
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []*genai.Part{{Text: "[1"}, nil, {Text: "]"}}},
	}}}
	if got := responseText(resp); got != "[1]" {
		t.Fatalf("got %q", got)
	}
}
