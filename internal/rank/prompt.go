package rank

import (
	"fmt"
	"strings"

	"github.com/warpzoneai/newsradar/internal/article"
)

// DefaultPrompt is the built-in relevance rubric. It can be replaced
// wholesale through configuration; the per-article sections are appended
// after it regardless of which template is active.
const DefaultPrompt = `You are curating daily tech news for the founder of a 200M euro AI Gaming fund to help him grow his thought leadership on LinkedIn.

For each article summary, assign a relevance score from 1 to 10, based on the following logic:

Relevance Rules

1. AI is required to score well.
   - Articles that do not focus on AI should receive low scores (1-3), even if they talk about gaming, Web3, or hardware.

2. AI + Gaming = top priority.
   - Articles where AI is applied to games (design, prototyping, monetization, NPCs, tools, studios...) should get the highest scores (9-10).

3. AI Agents = strong bonus.
   - Strategic or technical advances in AI agents, even outside of gaming, can score high (8-10).
   - Commentary or business use of agents = 6-7.

4. Generic AI without gaming or agents = capped at 6.
   - Infrastructure, LLMs, AI in healthcare, marketing, etc. should not exceed 6, even if well written.
   - Use 6 for solid articles with limited direct relevance.

5. Product / Tech announcements = evaluate for depth.
   - If mostly marketing (e.g. chip launch, vague AI claims): score low (4-6).
   - If showing real architecture, benchmarks, or demo: score higher (7-9).

6. Web3 or Crypto = important but capped.
   - AI applied to Web3 (e.g. crypto agents, blockchain gaming) is relevant, but should never exceed 8/10.
   - Apply a -1 penalty to strong articles that are mostly Web3-driven to keep them out of the top stories.

7. Highlight strategic breakthroughs.
   - Open protocols and game-changing frameworks (e.g. Google Agent2Agent) may deserve a 10, even outside gaming, if they shape the future of AI or agents.

8. Strategic reports or reflections = valuable.
   - Score high (8-10) if the article is a major industry report (e.g. Stanford AI Index) or a structured reflection on how AI impacts creation, ethics, design, or future interactions.
   - Score lower (4-7) if it is more opinion-based or lacks original depth.

Scoring Scale:

- 10 = AI + Gaming + strategic depth OR major agentic breakthrough
- 8-9 = AI + Gaming (less deep) OR strong agent article OR insightful AI use case
- 6-7 = Agent business news, AI in Web3, product with real depth
- 4-5 = Generic AI product/infra news, limited insight
- 1-3 = No real AI relevance (even if gaming, Web3, or flashy)

Web3 articles cannot score higher than 8, regardless of content.

Output Format:
Article 1: 7
Article 2: 3
...

Ask yourself: would this make a strong LinkedIn post for someone leading a 200M euro AI Gaming fund, focusing on the future of AI in gaming and interactivity?`

// buildPrompt appends one labeled section per article to the rubric. The
// summary is preferred; empty summaries fall back to the title so every
// article still occupies its index.
func buildPrompt(template string, batch []article.Article) string {
	var b strings.Builder
	b.WriteString(template)
	for i, a := range batch {
		text := strings.TrimSpace(a.Summary)
		if text == "" {
			text = strings.TrimSpace(a.Title)
		}
		fmt.Fprintf(&b, "\n---\nArticle %d:\n%s\n", i+1, text)
	}
	return b.String()
}
