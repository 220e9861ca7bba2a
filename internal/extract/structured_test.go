package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const structuredPage = `<html><head><meta charset="utf-8"><link rel="stylesheet" href="/s.css"></head>
<body>
<nav><ul><li>Site menu</li></ul></nav>
<article>
  <h2 onclick="x()">Results</h2>
  <p style="color:red">Bone density fell <a href="/refs/1" onmouseover="y()">[1]</a>
     and <a href="javascript:steal()">click</a>.</p>
  <div class="wrapper"><p>Nested paragraph</p><iframe src="https://ads.test"></iframe></div>
  <figure style="width: 50%"><img src="/f1.png" srcset="/f1@2x.png 2x" onerror="z()" crossorigin="anonymous" integrity="sha-1" style="width: 300px" alt="one"><figcaption>One</figcaption></figure>
  <figure><img data-lazy-src="f2.png" alt="two"></figure>
  <figure><img src="/f3.png" alt="three"></figure>
  <img src="data:image/png;base64,AAAA">
  <table><tr><td>cell</td></tr></table>
  <script>evil()</script>
  <noscript><p>enable js</p></noscript>
</article>
</body></html>`

func parseFragment(t *testing.T, s string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	require.NoError(t, err)
	return doc
}

func TestStructuredFromHTMLRewritesAndFilters(t *testing.T) {
	out := StructuredFromHTML(structuredPage, "https://journal.test/articles/7", HTMLOptions{NodeLimit: 50, FigureLimit: 2}, DefaultTreePolicy)
	require.NotEmpty(t, out)
	doc := parseFragment(t, out)

	assert.Equal(t, 1, doc.Find("h2").Length())
	assert.Equal(t, 2, doc.Find("p").Length())
	assert.Equal(t, 2, doc.Find("figure").Length())
	assert.Equal(t, 1, doc.Find("table").Length())

	link := doc.Find("a[href]").First()
	assert.Equal(t, "https://journal.test/refs/1", link.AttrOr("href", ""))
	assert.Equal(t, "_blank", link.AttrOr("target", ""))
	assert.Contains(t, link.AttrOr("rel", ""), "noopener")
	assert.Equal(t, 1, doc.Find("a[href]").Length(), "javascript link must lose its href")

	imgs := doc.Find("img")
	require.Equal(t, 2, imgs.Length())
	first := imgs.Eq(0)
	assert.Equal(t, "https://journal.test/f1.png", first.AttrOr("src", ""))
	assert.Equal(t, "lazy", first.AttrOr("loading", ""))
	assert.Equal(t, "async", first.AttrOr("decoding", ""))
	assert.Contains(t, first.AttrOr("style", ""), "width")
	assert.Equal(t, "https://journal.test/articles/f2.png", imgs.Eq(1).AttrOr("src", ""))

	for _, bad := range []string{"onclick", "onmouseover", "onerror", "srcset", "crossorigin", "integrity",
		"<script", "<iframe", "<noscript", "enable js", "Site menu", "color:red", "data:image", "<meta", "<link"} {
		assert.NotContains(t, out, bad)
	}
}

func TestStructuredFromHTMLNodeLimit(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body><main>")
	for i := 0; i < 10; i++ {
		b.WriteString("<p>paragraph</p>")
	}
	b.WriteString("</main></body></html>")

	out := StructuredFromHTML(b.String(), "https://h.test/", HTMLOptions{NodeLimit: 3}, DefaultTreePolicy)
	assert.Equal(t, 3, parseFragment(t, out).Find("p").Length())
}

func TestStructuredFromHTMLKeepsTopMostOnly(t *testing.T) {
	page := `<html><body><article><blockquote><p>quoted</p></blockquote><ul><li><p>item</p></li></ul></article></body></html>`
	out := StructuredFromHTML(page, "https://h.test/", HTMLOptions{NodeLimit: 2}, DefaultTreePolicy)
	doc := parseFragment(t, out)
	assert.Equal(t, 1, doc.Find("blockquote").Length())
	assert.Equal(t, 1, doc.Find("ul").Length())
	assert.Equal(t, 2, doc.Find("p").Length())
}

func TestStructuredFromHTMLEmpty(t *testing.T) {
	assert.Empty(t, StructuredFromHTML(`<html><body><script>x()</script></body></html>`, "https://h.test/", HTMLOptions{}, DefaultTreePolicy))
	assert.Empty(t, StructuredFromHTML(`<html><body><article><div>only divs</div></article></body></html>`, "https://h.test/", HTMLOptions{}, DefaultTreePolicy))
}

func TestStructuredFromHTMLWithoutKnownContainer(t *testing.T) {
	para := strings.Repeat("Spaceflight alters gene expression in murine liver tissue. ", 20)
	page := `<html><body><div id="wrap"><div class="x"><h2>Findings</h2><p>` + para + `</p><p>` + para + `</p></div></div></body></html>`
	out := StructuredFromHTML(page, "https://h.test/", HTMLOptions{}, DefaultTreePolicy)
	require.NotEmpty(t, out)
	assert.Contains(t, out, "Spaceflight alters gene expression")
}

func TestDefaultTreePolicyIsDeclarative(t *testing.T) {
	custom := DefaultTreePolicy
	custom.Keep = []string{"h2"}
	out := StructuredFromHTML(structuredPage, "https://journal.test/", HTMLOptions{}, custom)
	doc := parseFragment(t, out)
	assert.Equal(t, 1, doc.Find("h2").Length())
	assert.Equal(t, 0, doc.Find("p").Length())
}
