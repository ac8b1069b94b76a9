package enrich

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/warpzoneai/newsradar/internal/article"
	"github.com/warpzoneai/newsradar/internal/llm"
)

type mockProvider struct {
	prompts  []string
	failWhen func(userPrompt string) bool
}

func (m *mockProvider) Complete(_ context.Context, req llm.Request) (string, error) {
	user := req.Messages[len(req.Messages)-1].Content
	m.prompts = append(m.prompts, user)
	if m.failWhen != nil && m.failWhen(user) {
		return "", errors.New("model unavailable")
	}
	return "Key News Item: generated", nil
}

func (m *mockProvider) IsConfigured() bool { return true }

func scored(title string, score int) article.Article {
	return article.Article{Title: title, Content: "content of " + title, RelevanceScore: &score}
}

func TestEnrichSelectsQualifyingHead(t *testing.T) {
	provider := &mockProvider{}
	e := New(provider, 7, 5, nil)

	articles := []article.Article{
		scored("first", 10),
		scored("second", 9),
		scored("third", 8),
		scored("fourth", 7), // at threshold, not above
		scored("fifth", 3),
		{Title: "unscored"},
	}

	got := e.Enrich(context.Background(), articles)

	for i, want := range []bool{true, true, true, false, false, false} {
		hasBullets := got[i].BulletPoints != ""
		if hasBullets != want {
			t.Errorf("article %d (%s): bullet points %v, want %v", i, got[i].Title, hasBullets, want)
		}
	}
}

func TestEnrichCapsAtTopN(t *testing.T) {
	provider := &mockProvider{}
	e := New(provider, 7, 5, nil)

	articles := make([]article.Article, 8)
	for i := range articles {
		articles[i] = scored(fmt.Sprintf("a%d", i), 9)
	}

	got := e.Enrich(context.Background(), articles)

	enriched := 0
	for _, a := range got {
		if a.BulletPoints != "" {
			enriched++
		}
	}
	if enriched != 5 {
		t.Errorf("expected exactly 5 enriched articles, got %d", enriched)
	}
	// The cap takes the head of the already-sorted sequence.
	for i := 0; i < 5; i++ {
		if got[i].BulletPoints == "" {
			t.Errorf("expected head article %d to be enriched", i)
		}
	}
}

func TestEnrichFailureIsIsolated(t *testing.T) {
	provider := &mockProvider{failWhen: func(p string) bool { return strings.Contains(p, "second") }}
	e := New(provider, 7, 5, nil)

	articles := []article.Article{scored("first", 9), scored("second", 9), scored("third", 8)}
	got := e.Enrich(context.Background(), articles)

	if got[0].BulletPoints == "" || got[2].BulletPoints == "" {
		t.Error("siblings of a failed article must still be enriched")
	}
	if got[1].BulletPoints != "" {
		t.Error("failed article must keep BulletPoints unset")
	}
}

func TestEnrichFallsBackToSummary(t *testing.T) {
	provider := &mockProvider{}
	e := New(provider, 7, 5, nil)

	score := 9
	articles := []article.Article{{
		Title:          "no content",
		Summary:        "the summary text",
		RelevanceScore: &score,
	}}
	e.Enrich(context.Background(), articles)

	if len(provider.prompts) != 1 || !strings.Contains(provider.prompts[0], "the summary text") {
		t.Errorf("expected summary fallback in prompt, got %v", provider.prompts)
	}
}

func TestEnrichNoQualifiersMakesNoCalls(t *testing.T) {
	provider := &mockProvider{}
	e := New(provider, 7, 5, nil)

	got := e.Enrich(context.Background(), []article.Article{scored("low", 4), {Title: "unscored"}})
	if len(provider.prompts) != 0 {
		t.Errorf("expected no provider calls, got %d", len(provider.prompts))
	}
	for _, a := range got {
		if a.BulletPoints != "" {
			t.Errorf("unexpected bullet points on %q", a.Title)
		}
	}
}
