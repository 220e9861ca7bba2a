package helpers

import (
	"strings"
	"testing"
)

func TestSanitizeHTMLStrict_RemovesTagsAndScripts(t *testing.T) {
	input := `<p>Hello <strong>world</strong><script>alert('x')</script></p>`
	got := SanitizeHTMLStrict(input)
	want := "Hello world"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestSanitizeArticleHTML_DropsHandlersAndScriptURLs(t *testing.T) {
	input := `<p onclick="evil()">Hi <strong>there</strong> <a href="javascript:alert(1)">click</a></p><script>bad()</script>`
	got := SanitizeArticleHTML(input)
	want := `<p>Hi <strong>there</strong> click</p>`
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestSanitizeArticleHTML_KeepsFiguresAndLazyImages(t *testing.T) {
	input := `<figure style="width: 50%"><img src="https://x.test/a.png" alt="bone" loading="lazy" decoding="async" onerror="x()" crossorigin="anonymous"><figcaption>Fig 1</figcaption></figure>`
	got := SanitizeArticleHTML(input)
	for _, want := range []string{`<figure`, `src="https://x.test/a.png"`, `loading="lazy"`, `decoding="async"`, `<figcaption>Fig 1</figcaption>`} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in %q", want, got)
		}
	}
	for _, bad := range []string{"onerror", "crossorigin"} {
		if strings.Contains(got, bad) {
			t.Fatalf("did not expect %q in %q", bad, got)
		}
	}
}

func TestSanitizeArticleHTML_LinksOpenInNewTab(t *testing.T) {
	got := SanitizeArticleHTML(`<p><a href="https://nasa.gov/x">NASA</a></p>`)
	for _, want := range []string{`target="_blank"`, `noopener`, `noreferrer`, `nofollow`} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in %q", want, got)
		}
	}
}

func TestSanitizeArticleHTML_Empty(t *testing.T) {
	if got := SanitizeArticleHTML("   "); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
	if got := SanitizeArticleHTML(`<script>x()</script>`); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestPlainText(t *testing.T) {
	if got := PlainText(`<h2 onclick="x()">Bone &amp; muscle &lt;loss&gt;</h2>`); got != "Bone & muscle <loss>" {
		t.Fatalf("unexpected plain text %q", got)
	}
	if got := PlainText("  <script>alert(1)</script> "); got != "" {
		t.Fatalf("expected script to vanish, got %q", got)
	}
}
