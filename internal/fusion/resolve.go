package fusion

import (
	"net/url"
	"sort"
	"strings"

	"github.com/mohammad-safakhou/spacebio/internal/helpers"
	"github.com/mohammad-safakhou/spacebio/models"
)

// ResolveStats counts what happened to the model's image references.
type ResolveStats struct {
	Kept     int
	Dangling int
	Trimmed  int
}

type candidate struct {
	image   models.ResolvedImage
	overlap int
}

// Resolve validates every section of reply against docs. Image references
// that do not point at an existing {doc, img} pair are dropped. Of the rest,
// at most MaxImagesPerSection are kept, highest token overlap between the
// section text and question and the scraped alt, caption and document title
// first; when nothing overlaps only the first
// ZeroOverlapKeep survive. Sections left with neither heading nor text are
// dropped.
func Resolve(reply Reply, docs []models.FusionDocument, question string, opts Options) ([]models.FusionSection, ResolveStats) {
	opts = opts.withDefaults()
	var stats ResolveStats
	out := make([]models.FusionSection, 0, len(reply.Sections))
	for _, sec := range reply.Sections {
		heading := helpers.PlainText(sec.Heading)
		body := strings.TrimSpace(sec.Body())
		if heading == "" && body == "" {
			continue
		}

		want := helpers.TokenSet(body + " " + question)
		var cands []candidate
		seen := map[[2]int]struct{}{}
		for _, ref := range sec.ImageRefs {
			doc, img, ok := lookup(docs, ref)
			if !ok {
				stats.Dangling++
				continue
			}
			key := [2]int{doc.Index, img.Index}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			caption := helpers.PlainText(ref.Caption)
			if caption == "" {
				caption = helpers.PlainText(img.Caption)
			}
			cands = append(cands, candidate{
				image: models.ResolvedImage{
					Src:       ProxyURL(opts.ImageProxyPath, img.Src),
					Alt:       helpers.PlainText(img.Alt),
					Caption:   caption,
					CiteIndex: doc.Index,
				},
				overlap: overlap(want, img.Alt+" "+img.Caption+" "+doc.Title),
			})
		}

		kept := selectImages(cands, opts.MaxImagesPerSection, opts.ZeroOverlapKeep)
		stats.Kept += len(kept)
		stats.Trimmed += len(cands) - len(kept)
		out = append(out, models.FusionSection{Heading: heading, Markdown: body, Images: kept})
	}
	return out, stats
}

// lookup maps a reference onto its document (1-based) and image (0-based).
func lookup(docs []models.FusionDocument, ref ImageRef) (models.FusionDocument, models.FusionImage, bool) {
	if !ref.Doc.Valid || !ref.Img.Valid {
		return models.FusionDocument{}, models.FusionImage{}, false
	}
	d := ref.Doc.Value - 1
	if d < 0 || d >= len(docs) {
		return models.FusionDocument{}, models.FusionImage{}, false
	}
	doc := docs[d]
	if ref.Img.Value < 0 || ref.Img.Value >= len(doc.Images) {
		return models.FusionDocument{}, models.FusionImage{}, false
	}
	return doc, doc.Images[ref.Img.Value], true
}

func overlap(want map[string]struct{}, text string) int {
	n := 0
	for tok := range helpers.TokenSet(text) {
		if _, ok := want[tok]; ok {
			n++
		}
	}
	return n
}

func selectImages(cands []candidate, limit, zeroKeep int) []models.ResolvedImage {
	best := 0
	for _, c := range cands {
		best = max(best, c.overlap)
	}
	if best == 0 {
		limit = min(limit, zeroKeep)
	} else {
		sort.SliceStable(cands, func(i, j int) bool { return cands[i].overlap > cands[j].overlap })
	}
	limit = min(limit, len(cands))
	out := make([]models.ResolvedImage, 0, limit)
	for _, c := range cands[:limit] {
		out = append(out, c.image)
	}
	return out
}

// ProxyURL routes src through the image proxy at base.
func ProxyURL(base, src string) string {
	return base + url.QueryEscape(src)
}
