// Package pipeline wires the stages together: token refresh, paginated
// fetch, normalization, batched scoring, and enrichment. Everything runs
// strictly sequentially; the only shared mutable state is the credential,
// threaded explicitly through the fetch.
package pipeline

import (
	"context"
	"log"

	"github.com/warpzoneai/newsradar/internal/article"
	"github.com/warpzoneai/newsradar/internal/config"
	"github.com/warpzoneai/newsradar/internal/enrich"
	"github.com/warpzoneai/newsradar/internal/feedly"
	"github.com/warpzoneai/newsradar/internal/llm"
	"github.com/warpzoneai/newsradar/internal/rank"
)

// Pipeline runs one stateless aggregation pass. Nothing is persisted
// between runs.
type Pipeline struct {
	feed     *feedly.Client
	scorer   *rank.Scorer
	enricher *enrich.Enricher
	progress func(string)
}

// New builds a pipeline from configuration. The progress callback receives
// human-readable status lines during fetch, scoring, and enrichment; nil
// falls back to the standard logger.
func New(cfg *config.Config, creds config.Credentials, provider llm.Provider, progress func(string)) *Pipeline {
	if progress == nil {
		progress = func(msg string) { log.Println(msg) }
	}

	scorer := rank.NewScorer(provider, rank.Config{
		Prompt:    cfg.Scoring.Prompt,
		BatchSize: cfg.Scoring.BatchSize,
		Throttle:  cfg.Scoring.Throttle(),
		Progress:  progress,
	})
	enricher := enrich.New(provider, cfg.Scoring.Threshold, cfg.Scoring.TopN, progress)

	return &Pipeline{
		feed:     feedly.NewClient(cfg.Feedly, creds),
		scorer:   scorer,
		enricher: enricher,
		progress: progress,
	}
}

// Run fetches, normalizes, scores, and enriches articles from the last
// `days` days.
//
// Auth and feed failures are fatal and return an error with no result. A
// scoring-batch failure is not: the run is logged and continues with every
// score gathered before the failure, so one flaky model call does not throw
// away an otherwise complete fetch. Callers wanting strictness should score
// through rank.Scorer directly, which propagates the error.
func (p *Pipeline) Run(ctx context.Context, days int) ([]article.Article, error) {
	cred, err := p.feed.Refresh(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := p.feed.Fetch(ctx, &cred, days, p.progress)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		p.progress("No articles found.")
		return nil, nil
	}

	articles := article.Normalize(raw)

	scored, err := p.scorer.Score(ctx, articles)
	if err != nil {
		log.Printf("Scoring incomplete, continuing with partial result: %v", err)
		p.progress("Some articles could not be scored; showing partial ranking.")
	}

	return p.enricher.Enrich(ctx, scored), nil
}
