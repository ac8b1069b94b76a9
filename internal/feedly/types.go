package feedly

import "fmt"

// RawItem is an article entry as returned by the Feedly streams API. Only
// the fields the normalizer consumes are decoded; the rest of the payload is
// ignored.
type RawItem struct {
	Title        string   `json:"title"`
	Alternate    []Link   `json:"alternate"`
	FullContent  string   `json:"fullContent"`
	Author       string   `json:"author"`
	Summary      Summary  `json:"summary"`
	Published    *int64   `json:"published"` // epoch millis, absent on some items
	Keywords     []string `json:"keywords"`
	Entities     []Entity `json:"entities"`
	CommonTopics []Topic  `json:"commonTopics"`
}

// Link is an alternate link on a feed item.
type Link struct {
	Href string `json:"href"`
}

// Summary wraps the HTML summary body of a feed item.
type Summary struct {
	Content string `json:"content"`
}

// Entity is a named entity Feedly detected in an article.
type Entity struct {
	Label string `json:"label"`
}

// Topic is a common-topic classification with an affinity score. Score is a
// pointer because Feedly omits it for some topics.
type Topic struct {
	Label string   `json:"label"`
	Score *float64 `json:"score"`
}

// AuthError reports a credential refresh or validation failure. It is fatal
// to the fetch in progress.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string { return fmt.Sprintf("feedly auth: %v", e.Err) }
func (e *AuthError) Unwrap() error { return e.Err }

// FeedError reports a non-auth HTTP or network failure during paging. The
// fetch aborts and no partial data is returned.
type FeedError struct {
	StatusCode int
	Err        error
}

func (e *FeedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("feedly stream: %v", e.Err)
	}
	return fmt.Sprintf("feedly stream: HTTP %d", e.StatusCode)
}

func (e *FeedError) Unwrap() error { return e.Err }
