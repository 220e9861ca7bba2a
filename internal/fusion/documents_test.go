package fusion

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/mohammad-safakhou/spacebio/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scraped(title, text string, images int) models.ScrapedArticle {
	a := models.ScrapedArticle{ArticleRef: models.ArticleRef{Title: title, Link: "https://pmc.test/" + title}, Text: text}
	for i := 0; i < images; i++ {
		a.Images = append(a.Images, models.ScrapedImage{Src: "https://pmc.test/" + title + "/" + string(rune('a'+i)) + ".png"})
	}
	return a
}

func TestBuildDocuments(t *testing.T) {
	in := []models.ScrapedArticle{
		scraped("one", strings.Repeat("é", 5000), 9),
		scraped("empty", "  ", 3),
		scraped("two", "short", 0),
	}
	docs := BuildDocuments(in, Options{})
	require.Len(t, docs, 2)

	assert.Equal(t, 1, docs[0].Index)
	assert.Equal(t, 4000, utf8.RuneCountInString(docs[0].Text))
	require.Len(t, docs[0].Images, 6)
	for i, img := range docs[0].Images {
		assert.Equal(t, i, img.Index)
	}

	assert.Equal(t, 2, docs[1].Index)
	assert.Equal(t, "two", docs[1].Title)
	assert.NotNil(t, docs[1].Images)

	assert.Equal(t, []models.ArticleRef{
		{Title: "one", Link: "https://pmc.test/one"},
		{Title: "two", Link: "https://pmc.test/two"},
	}, Sources(docs))
}

func TestBuildDocumentsCapsCount(t *testing.T) {
	var in []models.ScrapedArticle
	for i := 0; i < 12; i++ {
		in = append(in, scraped("t", "text", 1))
	}
	assert.Len(t, BuildDocuments(in, Options{}), 8)
	assert.Len(t, BuildDocuments(in, Options{MaxDocuments: 3}), 3)
}

func TestBuildPrompt(t *testing.T) {
	docs := BuildDocuments([]models.ScrapedArticle{scraped("one", "Bone text", 1)}, Options{})
	docs[0].Images[0].Caption = "hidden caption"
	req, err := BuildPrompt("¿Qué pasa con los huesos?", docs)
	require.NoError(t, err)
	assert.True(t, req.JSON)
	assert.Contains(t, req.System, `"imageRefs"`)
	assert.Contains(t, req.User, `"question":"¿Qué pasa con los huesos?"`)
	assert.Contains(t, req.User, `"index":1`)
	assert.NotContains(t, req.User, "hidden caption")
}
