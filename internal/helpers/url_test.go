package helpers

import (
	"net/url"
	"testing"
)

func TestCanonicalURL(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "defaults https and cleans path",
			in:   "Example.com/pmc/../articles/PMC42",
			want: "https://example.com/articles/PMC42",
		},
		{
			name: "removes default port and tracking params",
			in:   "http://www.ncbi.nlm.nih.gov:80/pmc/articles/PMC1?id=123&utm_source=rss#section",
			want: "http://www.ncbi.nlm.nih.gov/pmc/articles/PMC1?id=123",
		},
		{
			name: "sorts query parameters and preserves trailing slash",
			in:   "https://example.com/path/?b=2&a=1&fbclid=xyz",
			want: "https://example.com/path/?a=1&b=2",
		},
		{
			name: "handles schemeless url with double slash",
			in:   "//pubs.example.com/post/42?utm_medium=email",
			want: "https://pubs.example.com/post/42",
		},
		{
			name: "normalises repeated slashes",
			in:   "https://example.com//a//b///c",
			want: "https://example.com/a/b/c",
		},
		{
			name: "root path",
			in:   "https://example.com",
			want: "https://example.com/",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanonicalURL(tt.in)
			if err != nil {
				t.Fatalf("CanonicalURL() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("CanonicalURL() got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCanonicalURLErrors(t *testing.T) {
	t.Parallel()
	if _, err := CanonicalURL(""); err == nil {
		t.Fatalf("expected error for empty input")
	}
	if _, err := CanonicalURL(":///invalid"); err == nil {
		t.Fatalf("expected error for malformed url")
	}
}

func TestAbsoluteURL(t *testing.T) {
	t.Parallel()
	base, _ := url.Parse("https://host/articles/42")
	tests := map[string]string{
		"/fig1.png":                       "https://host/fig1.png",
		"fig2.png":                        "https://host/articles/fig2.png",
		"//cdn.host/x.jpg":                "https://cdn.host/x.jpg",
		"https://other.test/y.png":        "https://other.test/y.png",
		"data:image/png;base64,AAAA":      "",
		"javascript:alert(1)":             "",
		"mailto:someone@example.com":      "",
		"   ":                             "",
	}
	for in, want := range tests {
		if got := AbsoluteURL(base, in); got != want {
			t.Fatalf("AbsoluteURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestOriginAndIsHTTPURL(t *testing.T) {
	t.Parallel()
	if got := Origin("https://pmc.ncbi.nlm.nih.gov/articles/PMC1/"); got != "https://pmc.ncbi.nlm.nih.gov/" {
		t.Fatalf("Origin() = %q", got)
	}
	if got := Origin("ftp://x.test/a"); got != "" {
		t.Fatalf("Origin() for ftp = %q, want empty", got)
	}
	if !IsHTTPURL("http://x.test/1") || IsHTTPURL("/relative") || IsHTTPURL("x.test/1") {
		t.Fatalf("IsHTTPURL classification mismatch")
	}
}
