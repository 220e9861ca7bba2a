package extract

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/mohammad-safakhou/spacebio/internal/helpers"
	"golang.org/x/net/html"
)

const (
	DefaultNodeLimit   = 120
	DefaultFigureLimit = 6
)

// HTMLOptions bounds structured-HTML extraction. Zero values select the
// defaults.
type HTMLOptions struct {
	NodeLimit   int `json:"node_limit"`
	FigureLimit int `json:"figure_limit"`
}

func (o HTMLOptions) withDefaults() HTMLOptions {
	if o.NodeLimit <= 0 {
		o.NodeLimit = DefaultNodeLimit
	}
	if o.FigureLimit <= 0 {
		o.FigureLimit = DefaultFigureLimit
	}
	return o
}

// StructuredFromHTML cuts a sanitized excerpt of headings, paragraphs,
// lists, tables and figures out of raw. It returns "" when nothing survives.
func StructuredFromHTML(raw, pageURL string, opts HTMLOptions, p TreePolicy) string {
	opts = opts.withDefaults()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return ""
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	root := selectContainer(doc, raw, base, p)
	if root == nil || root.Length() == 0 {
		return ""
	}
	return SanitizeTree(root, base, opts, p)
}

// selectContainer tries the policy's selectors, then a readability
// extraction of the whole page, then <body>.
func selectContainer(doc *goquery.Document, raw string, base *url.URL, p TreePolicy) *goquery.Selection {
	for _, selector := range p.Containers {
		sel := doc.Find(selector).First()
		if sel.Length() > 0 && strings.TrimSpace(sel.Text()) != "" {
			return sel
		}
	}
	if article, err := readability.FromReader(strings.NewReader(raw), base); err == nil && strings.TrimSpace(article.Content) != "" {
		if frag, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content)); err == nil {
			if body := frag.Find("body").First(); body.Length() > 0 {
				return body
			}
		}
	}
	if body := doc.Find("body").First(); body.Length() > 0 {
		return body
	}
	return doc.Selection
}

// SanitizeTree rewrites root in place according to p and returns the
// serialized, allow-listed excerpt.
func SanitizeTree(root *goquery.Selection, base *url.URL, opts HTMLOptions, p TreePolicy) string {
	root.Find(strings.Join(p.Drop, ", ")).Remove()

	root.Find("a").Each(func(_ int, a *goquery.Selection) {
		if abs := helpers.AbsoluteURL(base, a.AttrOr("href", "")); abs != "" {
			a.SetAttr("href", abs)
		} else {
			a.RemoveAttr("href")
		}
		a.SetAttr("target", p.LinkTarget)
		a.SetAttr("rel", p.LinkRel)
	})

	root.Find("figure").Each(func(i int, fig *goquery.Selection) {
		if i >= opts.FigureLimit {
			fig.Remove()
		}
	})

	root.Find("img").Each(func(_ int, img *goquery.Selection) {
		src := resolveImageSource(img, base)
		if src == "" {
			img.Remove()
			return
		}
		img.SetAttr("src", src)
		for _, attr := range p.ImageAttrs {
			img.RemoveAttr(attr)
		}
		img.SetAttr("loading", "lazy")
		img.SetAttr("decoding", "async")
	})
	root.Find("source").Remove()

	styleOn := setOf(p.StyleOn)
	for _, n := range root.Nodes {
		stripAttributes(n, styleOn)
	}

	kept := collectKept(root.Nodes, setOf(p.Keep), opts.NodeLimit)
	var buf bytes.Buffer
	for _, n := range kept {
		if err := html.Render(&buf, n); err != nil {
			continue
		}
		buf.WriteByte('\n')
	}
	return helpers.SanitizeArticleHTML(buf.String())
}

// stripAttributes removes event handlers everywhere and inline styles from
// elements outside styleOn.
func stripAttributes(n *html.Node, styleOn map[string]struct{}) {
	if n.Type == html.ElementNode {
		_, keepStyle := styleOn[n.Data]
		attrs := n.Attr[:0]
		for _, a := range n.Attr {
			key := strings.ToLower(a.Key)
			if strings.HasPrefix(key, "on") {
				continue
			}
			if key == "style" && !keepStyle {
				continue
			}
			attrs = append(attrs, a)
		}
		n.Attr = attrs
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		stripAttributes(c, styleOn)
	}
}

// collectKept walks the roots in document order and returns the top-most
// elements whose tag is in keep, at most limit of them.
func collectKept(roots []*html.Node, keep map[string]struct{}, limit int) []*html.Node {
	var out []*html.Node
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if len(out) >= limit {
			return false
		}
		if n.Type == html.ElementNode {
			if _, ok := keep[n.Data]; ok {
				out = append(out, n)
				return len(out) < limit
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !walk(c) {
				return false
			}
		}
		return true
	}
	for _, r := range roots {
		if !walk(r) {
			break
		}
	}
	return out
}
