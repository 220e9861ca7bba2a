package pipeline

import (
	"fmt"
	"html"
	"strings"

	"github.com/mohammad-safakhou/spacebio/internal/helpers"
	"github.com/mohammad-safakhou/spacebio/internal/intent"
	"github.com/mohammad-safakhou/spacebio/models"
)

// Kind tells the caller how to render a Response.
type Kind string

const (
	KindChitchat       Kind = "chitchat"
	KindCapability     Kind = "capability"
	KindGeneric        Kind = "generic"
	KindFused          Kind = "fused"
	KindStructuredHTML Kind = "structured_html"
	KindArticleList    Kind = "article_list"
)

// Response is the outcome of one turn. Which fields are set depends on Kind.
type Response struct {
	RequestID string        `json:"request_id"`
	Kind      Kind          `json:"kind"`
	Intent    intent.Intent `json:"intent"`
	Trail     Trail         `json:"trail"`

	// chitchat, capability, generic
	Text string `json:"text,omitempty"`

	// fused
	Language string                 `json:"language,omitempty"`
	Sections []models.FusionSection `json:"sections,omitempty"`
	Sources  []models.ArticleRef    `json:"sources,omitempty"`

	// structured_html
	HTML   []models.StructuredHTMLResult `json:"html,omitempty"`
	Bundle string                        `json:"bundle,omitempty"`

	// article_list
	Articles  []models.ArticleRef `json:"articles,omitempty"`
	Citations []string            `json:"citations,omitempty"`
}

// Bundle concatenates structured excerpts, each under a header linking to
// its article.
func Bundle(results []models.StructuredHTMLResult) string {
	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "<section class=\"source\" data-index=\"%d\">\n", i+1)
		fmt.Fprintf(&b, "<h2><a href=\"%s\" target=\"_blank\" rel=\"noopener noreferrer\">[%d] %s</a></h2>\n",
			html.EscapeString(r.Article.Link), i+1, html.EscapeString(r.Article.Title))
		b.WriteString(strings.TrimSpace(r.HTML))
		b.WriteString("\n</section>\n")
	}
	return b.String()
}

// Citations formats refs as numbered citation lines. snippets, keyed by
// link, is optional.
func Citations(refs []models.ArticleRef, snippets map[string]string) []string {
	cs := make([]helpers.Citation, len(refs))
	for i, r := range refs {
		cs[i] = helpers.Citation{Index: i + 1, Title: r.Title, URL: r.Link, Snippet: snippets[r.Link]}
	}
	return helpers.FormatCitations(cs)
}
