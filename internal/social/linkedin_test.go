package social

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/warpzoneai/newsradar/internal/article"
	"github.com/warpzoneai/newsradar/internal/llm"
)

type mockProvider struct {
	reply  string
	err    error
	prompt string
}

func (m *mockProvider) Complete(_ context.Context, req llm.Request) (string, error) {
	m.prompt = req.Messages[0].Content
	return m.reply, m.err
}

func (m *mockProvider) IsConfigured() bool { return true }

func TestPostInterpolatesArticleFields(t *testing.T) {
	provider := &mockProvider{reply: "  A great post  "}
	g := NewGenerator(provider)

	post, err := g.Post(context.Background(), article.Article{
		Title:    "AI NPCs everywhere",
		Summary:  "NPCs are getting smarter",
		Keywords: "ai, npc",
		URL:      "https://example.com/npc",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post != "A great post" {
		t.Errorf("expected trimmed reply, got %q", post)
	}

	for _, want := range []string{"AI NPCs everywhere", "NPCs are getting smarter", "ai, npc", "https://example.com/npc"} {
		if !strings.Contains(provider.prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestPostPropagatesFailure(t *testing.T) {
	g := NewGenerator(&mockProvider{err: errors.New("down")})
	if _, err := g.Post(context.Background(), article.Article{Title: "x"}); err == nil {
		t.Fatal("expected error")
	}
}
