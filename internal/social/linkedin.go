// Package social turns a ranked article into a ready-to-paste LinkedIn post.
package social

import (
	"context"
	"fmt"
	"strings"

	"github.com/warpzoneai/newsradar/internal/article"
	"github.com/warpzoneai/newsradar/internal/llm"
)

const postPromptTemplate = `You are the Head of Content for WarpzoneAI, a 200M euro investment fund dedicated to mobile gaming with a focus on AI integration. Create an engaging LinkedIn post about the following article that positions WarpzoneAI as a thought leader and sparks engagement from founders, developers, and industry peers.

Article Title: %s
Article Summary: %s
Keywords: %s

Guidelines for the post:
1. Start with a strong hook that grabs attention within the first 3 lines
2. Highlight the strategic implications for the gaming industry
3. Add a unique point of view or bold insight that goes beyond the article
4. Keep the tone professional but conversational, as if written by a founder or investor
5. Include relevant hashtags (3-5)
6. Add 3-5 well-placed emojis to break the text and add personality
7. End with a thought-provoking question or clear call to action
8. Keep it within 1300 characters (LinkedIn's limit)
9. Include the article URL at the end

Article URL: %s

Write the post in a format ready to be copied and pasted to LinkedIn:`

const postMaxTokens = 800

// Generator produces LinkedIn posts through a language model.
type Generator struct {
	provider llm.Provider
}

// NewGenerator creates a post generator.
func NewGenerator(provider llm.Provider) *Generator {
	return &Generator{provider: provider}
}

// Post generates a LinkedIn post for one article. Failures propagate to the
// caller; the dashboard shows them next to the article.
func (g *Generator) Post(ctx context.Context, a article.Article) (string, error) {
	prompt := fmt.Sprintf(postPromptTemplate, a.Title, a.Summary, a.Keywords, a.URL)

	text, err := g.provider.Complete(ctx, llm.Request{
		Messages:    llm.UserMessage(prompt),
		Temperature: 0.7,
		MaxTokens:   postMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("generating LinkedIn post: %w", err)
	}
	return strings.TrimSpace(text), nil
}
