package enrich

import (
	"context"
	"fmt"
	"log"

	"github.com/warpzoneai/newsradar/internal/article"
	"github.com/warpzoneai/newsradar/internal/llm"
)

const systemPrompt = `You are an expert at analyzing gaming and AI news articles.
Create a detailed bullet points summary of the article following this exact format:

Key News Item: [Title] (Link)
● [Main point 1]
● [Main point 2]
● [Main point 3]
● [Main point 4]
● [Main point 5]
● <strong>Why does this matter to AI x Gaming:</strong> [Explanation of the article's significance to AI in gaming]

Make sure to:
1. Extract the most important points from the article
2. Focus on facts, numbers, and specific details
3. End with a clear explanation of why this matters to AI in gaming
4. Keep each bullet point concise but informative
5. Each bullet point should be 300 to 500 characters long
6. Use the exact format shown above`

const (
	defaultThreshold = 7
	defaultTopN      = 5
	bulletMaxTokens  = 1000
)

// Enricher generates bullet-point narratives for the highest-ranked
// articles.
type Enricher struct {
	provider  llm.Provider
	threshold int
	topN      int
	progress  func(string)
}

// New creates an enricher. Zero threshold/topN fall back to defaults.
func New(provider llm.Provider, threshold, topN int, progress func(string)) *Enricher {
	e := &Enricher{provider: provider, threshold: threshold, topN: topN, progress: progress}
	if e.threshold <= 0 {
		e.threshold = defaultThreshold
	}
	if e.topN <= 0 {
		e.topN = defaultTopN
	}
	if e.progress == nil {
		e.progress = func(string) {}
	}
	return e
}

// Enrich attaches BulletPoints to articles scoring above the threshold,
// capped at topN. The input is expected to be sorted by score descending
// already, so selection is simply the qualifying head of the sequence. A
// failed call for one article is logged and skipped; siblings are not
// affected.
func (e *Enricher) Enrich(ctx context.Context, articles []article.Article) []article.Article {
	out := make([]article.Article, len(articles))
	copy(out, articles)

	var selected []int
	for i, a := range out {
		if len(selected) == e.topN {
			break
		}
		if a.RelevanceScore != nil && *a.RelevanceScore > e.threshold {
			selected = append(selected, i)
		}
	}

	if len(selected) == 0 {
		return out
	}
	e.progress(fmt.Sprintf("Generating bullet points for top %d articles...", len(selected)))

	for _, i := range selected {
		text, err := e.bulletPoints(ctx, out[i])
		if err != nil {
			log.Printf("Error generating bullet points for %q: %v", out[i].Title, err)
			continue
		}
		out[i].BulletPoints = text
		e.progress(fmt.Sprintf("Generated bullet points for: %s", truncate(out[i].Title, 50)))
	}

	return out
}

func (e *Enricher) bulletPoints(ctx context.Context, a article.Article) (string, error) {
	content := a.Content
	if content == "" {
		content = a.Summary
	}

	return e.provider.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf("Title: %s\n\nContent: %s", a.Title, content)},
		},
		Temperature: 0.7,
		MaxTokens:   bulletMaxTokens,
	})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
