package helpers

import (
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicyOnce sync.Once
	strictPolicy     *bluemonday.Policy

	articlePolicyOnce sync.Once
	articlePolicy     *bluemonday.Policy
)

// StrictHTMLPolicy returns a singleton bluemonday policy that strips every HTML
// element and attribute.
func StrictHTMLPolicy() *bluemonday.Policy {
	strictPolicyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

// ArticleHTMLPolicy returns the allow-list applied to structured article
// excerpts: headings, paragraphs, lists, quotes, code, tables, figures and
// lazily loaded images. Links may only point to http(s) URLs and always open
// in a new tab without a referrer.
func ArticleHTMLPolicy() *bluemonday.Policy {
	articlePolicyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements("h1", "h2", "h3", "h4", "p", "br", "hr",
			"blockquote", "pre", "code", "em", "strong", "b", "i", "u",
			"sub", "sup", "small", "span", "figure", "figcaption")
		p.AllowLists()
		p.AllowTables()
		p.AllowImages()
		p.AllowAttrs("loading").Matching(regexp.MustCompile(`^lazy$`)).OnElements("img")
		p.AllowAttrs("decoding").Matching(regexp.MustCompile(`^async$`)).OnElements("img")
		p.AllowStyles("width", "height", "max-width", "float").OnElements("img", "figure")
		p.AllowAttrs("href").OnElements("a")
		p.AllowAttrs("title").Globally()
		p.AllowURLSchemes("http", "https")
		p.RequireParseableURLs(true)
		p.RequireNoFollowOnLinks(true)
		p.RequireNoReferrerOnLinks(true)
		p.AddTargetBlankToFullyQualifiedLinks(true)
		articlePolicy = p
	})
	return articlePolicy
}

// SanitizeHTMLStrict removes every HTML tag from s while stripping leading and
// trailing whitespace.
func SanitizeHTMLStrict(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return strings.TrimSpace(StrictHTMLPolicy().Sanitize(s))
}

// PlainText strips every tag from s and decodes entities, for values that
// are displayed as text rather than markup.
func PlainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(SanitizeHTMLStrict(s)))
}

// SanitizeArticleHTML cleans an extracted article fragment with
// ArticleHTMLPolicy.
func SanitizeArticleHTML(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return strings.TrimSpace(ArticleHTMLPolicy().Sanitize(s))
}
