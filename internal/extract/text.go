package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mohammad-safakhou/spacebio/internal/helpers"
	"github.com/mohammad-safakhou/spacebio/models"
	"golang.org/x/net/html"
)

const (
	DefaultTextMaxChars = 20000
	DefaultMaxImages    = 16
	DefaultMaxFigures   = 12
	captionMaxChars     = 400
	altFromCaptionChars = 160
)

// Options bounds text-mode extraction.
type Options struct {
	TextMaxChars int
	MaxImages    int
	MaxFigures   int
}

func (o Options) withDefaults() Options {
	if o.TextMaxChars <= 0 || o.TextMaxChars > DefaultTextMaxChars {
		o.TextMaxChars = DefaultTextMaxChars
	}
	if o.MaxImages <= 0 {
		o.MaxImages = DefaultMaxImages
	}
	if o.MaxFigures <= 0 {
		o.MaxFigures = DefaultMaxFigures
	}
	return o
}

// TextFromHTML extracts the main text and figures of a page. It never fails:
// unparsable input yields an empty extraction.
func TextFromHTML(raw, pageURL string, opts Options) models.Extraction {
	opts = opts.withDefaults()
	empty := models.Extraction{Images: []models.ScrapedImage{}}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return empty
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return empty
	}

	doc.Find(strings.Join(boilerplate, ", ")).Remove()
	region := selectRegion(doc, mainRegionStrategies)

	text := helpers.TruncateRunes(helpers.CollapseWhitespace(visibleText(region)), opts.TextMaxChars)
	return models.Extraction{
		Text:   strings.TrimSpace(text),
		Images: discoverImages(region, base, opts),
	}
}

// visibleText concatenates text nodes under sel, separating elements with a
// space so adjacent blocks do not run together.
func visibleText(sel *goquery.Selection) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.CommentNode:
			return
		case html.ElementNode:
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode {
			b.WriteByte(' ')
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return b.String()
}

// discoverImages collects figures first, then standalone images, until the
// image cap. Results are absolute and unique by URL.
func discoverImages(region *goquery.Selection, base *url.URL, opts Options) []models.ScrapedImage {
	images := make([]models.ScrapedImage, 0, opts.MaxImages)
	seen := make(map[string]struct{})
	add := func(img models.ScrapedImage) {
		if _, dup := seen[img.Src]; dup {
			return
		}
		seen[img.Src] = struct{}{}
		images = append(images, img)
	}

	region.Find("figure").EachWithBreak(func(i int, fig *goquery.Selection) bool {
		if i >= opts.MaxFigures || len(images) >= opts.MaxImages {
			return false
		}
		src := resolveImageSource(fig, base)
		if src == "" {
			return true
		}
		caption := helpers.TruncateRunes(helpers.CollapseWhitespace(fig.Find("figcaption").First().Text()), captionMaxChars)
		alt := helpers.CollapseWhitespace(scopeImage(fig).AttrOr("alt", ""))
		if alt == "" {
			alt = helpers.TruncateRunes(caption, altFromCaptionChars)
		}
		add(models.ScrapedImage{Src: src, Alt: alt, Caption: caption})
		return true
	})

	if len(images) >= opts.MaxImages {
		return images
	}
	region.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		if len(images) >= opts.MaxImages {
			return false
		}
		if insideFigure(img.Nodes[0]) {
			return true
		}
		if src := resolveImageSource(img, base); src != "" {
			add(models.ScrapedImage{Src: src, Alt: helpers.CollapseWhitespace(img.AttrOr("alt", ""))})
		}
		return true
	})
	return images
}
