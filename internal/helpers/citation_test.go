package helpers

import "testing"

func TestFormatCitation(t *testing.T) {
	t.Parallel()
	c := Citation{
		Index: 1,
		Title: "Microgravity  induces pelvic bone loss",
		URL:   "https://www.ncbi.nlm.nih.gov/pmc/articles/PMC3630201/",
	}

	got := FormatCitation(c)
	want := `[1] Microgravity induces pelvic bone loss (ncbi.nlm.nih.gov) <https://www.ncbi.nlm.nih.gov/pmc/articles/PMC3630201/>`
	if got != want {
		t.Fatalf("FormatCitation() = %q, want %q", got, want)
	}
}

func TestFormatCitationTruncatesSnippet(t *testing.T) {
	t.Parallel()
	c := Citation{
		Index:   2,
		Title:   "Plant growth",
		Snippet: "A very long snippet that should be truncated for neat citation summaries.",
		URL:     "https://example.com/article",
	}

	got := FormatCitation(c, WithMaxSnippetLength(40))
	want := `[2] Plant growth: "A very long snippet that should be trunc…" (example.com) <https://example.com/article>`
	if got != want {
		t.Fatalf("FormatCitation() = %q, want %q", got, want)
	}
}

func TestFormatCitationsBatch(t *testing.T) {
	t.Parallel()
	list := []Citation{
		{Index: 1, Title: "First", URL: "https://a.example.com"},
		{Index: 2, Title: "Second", URL: "https://b.example.com"},
	}
	items := FormatCitations(list)
	if len(items) != 2 {
		t.Fatalf("expected 2 citations, got %d", len(items))
	}
	if items[0] == items[1] {
		t.Fatalf("expected unique entries, got %#v", items)
	}
	if FormatCitations(nil) != nil {
		t.Fatalf("expected nil for empty input")
	}
}
