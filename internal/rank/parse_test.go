package rank

import (
	"strconv"
	"testing"
)

func TestParseScoresRecoversFromMalformedLines(t *testing.T) {
	reply := "Article 1: 7\nArticle 2: banana\nArticle 3: 15\ngarbage line\nArticle 4: 3"

	got := ParseScores(reply, 4)

	want := []*int{intPtr(7), nil, nil, intPtr(3)}
	for i := range want {
		if !eq(got[i], want[i]) {
			t.Errorf("index %d: got %s, want %s", i, show(got[i]), show(want[i]))
		}
	}
}

func TestParseScoresRange(t *testing.T) {
	cases := []struct {
		reply string
		want  *int
	}{
		{"Article 1: 1", intPtr(1)},
		{"Article 1: 10", intPtr(10)},
		{"Article 1: 0", nil},
		{"Article 1: 11", nil},
		{"Article 1: -5", intPtr(5)}, // first digit run is "5"
	}
	for _, tc := range cases {
		got := ParseScores(tc.reply, 1)
		if !eq(got[0], tc.want) {
			t.Errorf("ParseScores(%q): got %s, want %s", tc.reply, show(got[0]), show(tc.want))
		}
	}
}

func TestParseScoresIndexHandling(t *testing.T) {
	// Out-of-range and unparsable indices are dropped without affecting
	// other lines.
	got := ParseScores("Article 0: 5\nArticle 9: 5\nArticle two: 5\nArticle 2: 6", 3)
	if got[0] != nil || got[2] != nil {
		t.Errorf("out-of-range indices must not assign: %s %s", show(got[0]), show(got[2]))
	}
	if !eq(got[1], intPtr(6)) {
		t.Errorf("valid line should still parse, got %s", show(got[1]))
	}
}

func TestParseScoresScoreAfterExtraText(t *testing.T) {
	got := ParseScores("Article 1: score 8 (AI + gaming)", 1)
	if !eq(got[0], intPtr(8)) {
		t.Errorf("expected first digit run to win, got %s", show(got[0]))
	}
}

func TestParseScoresEmptyReply(t *testing.T) {
	got := ParseScores("", 3)
	for i, s := range got {
		if s != nil {
			t.Errorf("index %d: expected nil, got %s", i, show(s))
		}
	}
}

func intPtr(v int) *int { return &v }

func eq(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func show(v *int) string {
	if v == nil {
		return "nil"
	}
	return strconv.Itoa(*v)
}
