package fusion

import (
	"strings"

	"github.com/mohammad-safakhou/spacebio/internal/helpers"
	"github.com/mohammad-safakhou/spacebio/models"
)

// BuildDocuments turns scraped articles into the numbered documents shown
// to the model. Articles without text are skipped; the rest are numbered
// from 1 in input order, and their images from 0.
func BuildDocuments(articles []models.ScrapedArticle, opts Options) []models.FusionDocument {
	opts = opts.withDefaults()
	docs := make([]models.FusionDocument, 0, min(len(articles), opts.MaxDocuments))
	for _, a := range articles {
		if len(docs) == opts.MaxDocuments {
			break
		}
		text := strings.TrimSpace(a.Text)
		if text == "" {
			continue
		}
		images := make([]models.FusionImage, 0, min(len(a.Images), opts.ImagesPerDoc))
		for _, img := range a.Images {
			if len(images) == opts.ImagesPerDoc {
				break
			}
			images = append(images, models.FusionImage{
				Index:   len(images),
				Src:     img.Src,
				Alt:     img.Alt,
				Caption: img.Caption,
			})
		}
		docs = append(docs, models.FusionDocument{
			Index:  len(docs) + 1,
			Title:  a.Title,
			URL:    a.Link,
			Text:   helpers.TruncateRunes(text, opts.DocTextChars),
			Images: images,
		})
	}
	return docs
}

// Sources returns the article references behind docs, in citation order.
func Sources(docs []models.FusionDocument) []models.ArticleRef {
	out := make([]models.ArticleRef, len(docs))
	for i, d := range docs {
		out[i] = models.ArticleRef{Title: d.Title, Link: d.URL}
	}
	return out
}
