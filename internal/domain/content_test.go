package domain

import (
	"strings"
	"testing"
)

func TestReadingTime(t *testing.T) {
	t.Parallel()

	cases := []struct {
		body string
		want int
	}{
		{"", 1},
		{"three short words", 1},
		{strings.Repeat("word ", 200), 1},
		{strings.Repeat("word ", 201), 2},
		{strings.Repeat("word ", 1000), 5},
	}

	for _, tc := range cases {
		if got := ReadingTime(tc.body); got != tc.want {
			t.Fatalf("ReadingTime(%d words) = %d, want %d", len(strings.Fields(tc.body)), got, tc.want)
		}
	}
}

func TestArticlePayloadComplete(t *testing.T) {
	t.Parallel()

	full := ArticlePayload{Title: "t", Body: "b", Excerpt: "e", Tags: []string{"x"}}
	if !full.Complete() {
		t.Fatal("expected complete payload")
	}

	partials := []ArticlePayload{
		{Body: "b", Excerpt: "e", Tags: []string{"x"}},
		{Title: "t", Excerpt: "e", Tags: []string{"x"}},
		{Title: "t", Body: "b", Tags: []string{"x"}},
		{Title: "t", Body: "b", Excerpt: "e"},
		{Title: "  ", Body: "b", Excerpt: "e", Tags: []string{"x"}},
	}
	for i, p := range partials {
		if p.Complete() {
			t.Fatalf("case %d: expected incomplete payload", i)
		}
	}
}
