package rank

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"github.com/warpzoneai/newsradar/internal/article"
	"github.com/warpzoneai/newsradar/internal/llm"
)

const (
	defaultBatchSize = 15
	scoreMaxTokens   = 500
)

// ScoringError reports a failed language-model call for one batch. Scores
// gathered from earlier batches are retained; the caller decides whether a
// partial result is acceptable.
type ScoringError struct {
	Batch int
	Err   error
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("scoring batch %d: %v", e.Batch, e.Err)
}

func (e *ScoringError) Unwrap() error { return e.Err }

// Config tunes a Scorer. Zero values fall back to defaults; a zero Throttle
// disables the inter-batch pause, which is what tests want.
type Config struct {
	Prompt    string
	BatchSize int
	Throttle  time.Duration
	Progress  func(string)
}

// Scorer assigns relevance scores to articles in fixed-size batches through
// a language model. Batches run strictly sequentially; the limiter spaces
// the calls as a courtesy to the provider's rate limits.
type Scorer struct {
	provider  llm.Provider
	prompt    string
	batchSize int
	limiter   *rate.Limiter
	progress  func(string)
}

// NewScorer creates a scorer on top of an LLM provider.
func NewScorer(provider llm.Provider, cfg Config) *Scorer {
	s := &Scorer{
		provider:  provider,
		prompt:    cfg.Prompt,
		batchSize: cfg.BatchSize,
		progress:  cfg.Progress,
	}
	if s.prompt == "" {
		s.prompt = DefaultPrompt
	}
	if s.batchSize <= 0 {
		s.batchSize = defaultBatchSize
	}
	if cfg.Throttle > 0 {
		s.limiter = rate.NewLimiter(rate.Every(cfg.Throttle), 1)
	}
	if s.progress == nil {
		s.progress = func(string) {}
	}
	return s
}

// Score sends the articles through the model batch by batch, merges the
// parsed scores, and returns the articles stable-sorted by score descending
// (unscored last). When a batch call fails, the articles carrying every
// score gathered so far are returned together with a *ScoringError for that
// batch; remaining batches are not attempted.
func (s *Scorer) Score(ctx context.Context, articles []article.Article) ([]article.Article, error) {
	out := make([]article.Article, len(articles))
	copy(out, articles)
	if len(out) == 0 {
		return out, nil
	}

	nBatches := (len(out) + s.batchSize - 1) / s.batchSize
	s.progress("Starting article scoring...")

	var failure error
	for b := 0; b < nBatches; b++ {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				failure = &ScoringError{Batch: b + 1, Err: err}
				break
			}
		}

		start := b * s.batchSize
		end := min(start+s.batchSize, len(out))
		batch := out[start:end]

		s.progress(fmt.Sprintf("Scoring batch %d/%d", b+1, nBatches))

		reply, err := s.provider.Complete(ctx, llm.Request{
			Messages:    llm.UserMessage(buildPrompt(s.prompt, batch)),
			Temperature: 0,
			MaxTokens:   scoreMaxTokens,
		})
		if err != nil {
			failure = &ScoringError{Batch: b + 1, Err: err}
			break
		}

		for i, score := range ParseScores(reply, len(batch)) {
			if score != nil {
				out[start+i].RelevanceScore = score
			}
		}
	}

	sortByScore(out)
	return out, failure
}

// sortByScore orders articles by relevance descending. The sort is stable so
// ties and unscored articles keep their prior relative order; unscored sorts
// last.
func sortByScore(articles []article.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		si, sj := articles[i].RelevanceScore, articles[j].RelevanceScore
		if si == nil {
			return false
		}
		if sj == nil {
			return true
		}
		return *si > *sj
	})
}
