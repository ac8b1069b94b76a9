package article

// NoDate is the publication-date sentinel used when the source item carries
// no timestamp.
const NoDate = "No date available"

// Article is the canonical record flowing through the pipeline. Instances
// are created during normalization, gain RelevanceScore during scoring,
// optionally gain BulletPoints during enrichment, and are read-only after
// that.
type Article struct {
	Title             string
	URL               string
	Content           string
	Author            string
	Summary           string
	PublicationDate   string
	Keywords          string
	MentionedEntities string
	TopicScores       map[string]float64

	// RelevanceScore is nil until the scorer assigns a value in [1,10].
	// Unparseable or out-of-range model output leaves it nil rather than
	// guessing.
	RelevanceScore *int

	// BulletPoints holds the enrichment narrative, set only for articles
	// that cross the relevance threshold.
	BulletPoints string
}

// Scored reports whether the article has a relevance score.
func (a Article) Scored() bool { return a.RelevanceScore != nil }
