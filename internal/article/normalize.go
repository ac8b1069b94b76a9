package article

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/warpzoneai/newsradar/internal/feedly"
)

const dateLayout = "2006-01-02 15:04:05"

// Normalize maps raw feed items into canonical Articles: field extraction,
// markup stripping, and title deduplication (first occurrence wins).
// Order is preserved apart from the removed duplicates.
func Normalize(items []feedly.RawItem) []Article {
	articles := make([]Article, 0, len(items))
	for _, item := range items {
		articles = append(articles, fromRaw(item))
	}
	return dedupe(articles)
}

func fromRaw(item feedly.RawItem) Article {
	var url string
	if len(item.Alternate) > 0 {
		url = item.Alternate[0].Href
	}

	pubDate := NoDate
	if item.Published != nil {
		pubDate = time.UnixMilli(*item.Published).UTC().Format(dateLayout)
	}

	labels := make([]string, 0, len(item.Entities))
	for _, e := range item.Entities {
		labels = append(labels, e.Label)
	}

	topics := make(map[string]float64, len(item.CommonTopics))
	for _, t := range item.CommonTopics {
		if t.Score != nil {
			topics[t.Label] = *t.Score
		}
	}

	return Article{
		Title:             item.Title,
		URL:               url,
		Content:           CleanHTML(item.FullContent),
		Author:            item.Author,
		Summary:           CleanHTML(item.Summary.Content),
		PublicationDate:   pubDate,
		Keywords:          strings.Join(item.Keywords, ", "),
		MentionedEntities: strings.Join(labels, ", "),
		TopicScores:       topics,
	}
}

// CleanHTML strips markup from a fragment and collapses it to trimmed text.
// Blank or unparseable input degrades to the empty string.
func CleanHTML(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Text())
}

// dedupe removes articles whose exact Title was already seen. Titles are not
// case- or whitespace-folded; "Foo" and "foo " are distinct. A known
// limitation inherited from the upstream feed behavior.
func dedupe(articles []Article) []Article {
	seen := make(map[string]struct{}, len(articles))
	out := articles[:0]
	for _, a := range articles {
		if _, ok := seen[a.Title]; ok {
			continue
		}
		seen[a.Title] = struct{}{}
		out = append(out, a)
	}
	return out
}
