package extract

import (
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mohammad-safakhou/spacebio/internal/helpers"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// regionStrategy picks the main content region of a document, or returns an
// empty selection when its heuristic does not apply.
type regionStrategy func(doc *goquery.Document) *goquery.Selection

func firstWithText(selector string) regionStrategy {
	return func(doc *goquery.Document) *goquery.Selection {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 || strings.TrimSpace(sel.Text()) == "" {
			return &goquery.Selection{}
		}
		return sel
	}
}

func wholeDocument(doc *goquery.Document) *goquery.Selection { return doc.Selection }

var mainRegionStrategies = []regionStrategy{
	firstWithText("main"),
	firstWithText("article"),
	firstWithText("body"),
	wholeDocument,
}

func selectRegion(doc *goquery.Document, strategies []regionStrategy) *goquery.Selection {
	for _, strategy := range strategies {
		if sel := strategy(doc); sel != nil && sel.Length() > 0 {
			return sel
		}
	}
	return doc.Selection
}

// sourceStrategy proposes a raw image URL for scope, which is either a
// <figure> or a single <img>.
type sourceStrategy func(scope *goquery.Selection) string

var imageSourceStrategies = []sourceStrategy{
	imgAttr("src"),
	imgAttr("data-src", "data-original", "data-lazy-src"),
	imgSrcset("srcset", "data-srcset"),
	pictureSource,
	imageLink,
}

// resolveImageSource runs the strategy chain and returns the first candidate
// that absolutizes to an http(s) URL.
func resolveImageSource(scope *goquery.Selection, base *url.URL) string {
	for _, strategy := range imageSourceStrategies {
		if abs := helpers.AbsoluteURL(base, strategy(scope)); abs != "" {
			return abs
		}
	}
	return ""
}

func scopeImage(scope *goquery.Selection) *goquery.Selection {
	if goquery.NodeName(scope) == "img" {
		return scope
	}
	return scope.Find("img").First()
}

func imgAttr(names ...string) sourceStrategy {
	return func(scope *goquery.Selection) string {
		img := scopeImage(scope)
		for _, name := range names {
			if v := strings.TrimSpace(img.AttrOr(name, "")); v != "" && !isDataURI(v) {
				return v
			}
		}
		return ""
	}
}

func imgSrcset(names ...string) sourceStrategy {
	return func(scope *goquery.Selection) string {
		img := scopeImage(scope)
		for _, name := range names {
			if v := firstSrcsetURL(img.AttrOr(name, "")); v != "" {
				return v
			}
		}
		return ""
	}
}

func pictureSource(scope *goquery.Selection) string {
	sources := scope.Find("picture source")
	if sources.Length() == 0 {
		sources = scopeImage(scope).Closest("picture").Find("source")
	}
	var out string
	sources.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for _, name := range []string{"srcset", "data-srcset"} {
			if v := firstSrcsetURL(s.AttrOr(name, "")); v != "" {
				out = v
				return false
			}
		}
		return true
	})
	return out
}

func imageLink(scope *goquery.Selection) string {
	links := scope.Find("a[href]")
	if goquery.NodeName(scope) == "img" {
		links = scope.Closest("a[href]")
	}
	var out string
	links.EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if href := strings.TrimSpace(a.AttrOr("href", "")); hasImageExtension(href) {
			out = href
			return false
		}
		return true
	})
	return out
}

func firstSrcsetURL(srcset string) string {
	first, _, _ := strings.Cut(strings.TrimSpace(srcset), ",")
	fields := strings.Fields(first)
	if len(fields) == 0 || isDataURI(fields[0]) {
		return ""
	}
	return fields[0]
}

func isDataURI(s string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(s)), "data:")
}

var imageExtensions = setOf([]string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".avif", ".svg", ".bmp", ".tif", ".tiff"})

func hasImageExtension(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	_, ok := imageExtensions[strings.ToLower(path.Ext(u.Path))]
	return ok
}

// insideFigure walks the ancestors of n looking for a <figure>.
func insideFigure(n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.DataAtom == atom.Figure {
			return true
		}
	}
	return false
}
