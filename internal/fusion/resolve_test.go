package fusion

import (
	"net/url"
	"strings"
	"testing"

	"github.com/mohammad-safakhou/spacebio/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocs() []models.FusionDocument {
	return []models.FusionDocument{
		{Index: 1, Title: "Bone loss in microgravity", URL: "https://pmc.test/1", Images: []models.FusionImage{
			{Index: 0, Src: "https://pmc.test/femur.png", Alt: "Femur scan", Caption: "Femur density after flight"},
			{Index: 1, Src: "https://pmc.test/logo.png", Alt: "Logo"},
		}},
		{Index: 2, Title: "Plant roots", URL: "https://pmc.test/2", Images: []models.FusionImage{
			{Index: 0, Src: "https://pmc.test/roots.png?a=1&b=2", Alt: "Roots in orbit"},
		}},
	}
}

func ref(doc, img int) ImageRef {
	return ImageRef{Doc: Int(doc), Img: Int(img)}
}

func TestResolveDropsDanglingRefs(t *testing.T) {
	reply := Reply{Sections: []ReplySection{{
		Heading:      "Bone",
		TextMarkdown: "Femur density drops [1].",
		ImageRefs:    []ImageRef{ref(5, 2), ref(1, 7), ref(0, 0), {Doc: Int(1)}, ref(1, 0)},
	}}}
	sections, stats := Resolve(reply, testDocs(), "bone density", Options{})
	require.Len(t, sections, 1)
	require.Len(t, sections[0].Images, 1)
	assert.Equal(t, 4, stats.Dangling)
	assert.Equal(t, 1, stats.Kept)

	img := sections[0].Images[0]
	assert.Equal(t, "/api/image-proxy?url="+url.QueryEscape("https://pmc.test/femur.png"), img.Src)
	assert.Equal(t, 1, img.CiteIndex)
	assert.Equal(t, "Femur scan", img.Alt)
	assert.Equal(t, "Femur density after flight", img.Caption)
}

func TestResolveKeepsTopOverlapUpToCap(t *testing.T) {
	docs := testDocs()
	docs[0].Images = append(docs[0].Images,
		models.FusionImage{Index: 2, Src: "https://pmc.test/a.png", Alt: "Bone"},
		models.FusionImage{Index: 3, Src: "https://pmc.test/b.png", Alt: "Bone density femur"},
	)
	reply := Reply{Sections: []ReplySection{{
		Heading:      "Skeleton",
		TextMarkdown: "Femur bone density [1]",
		ImageRefs:    []ImageRef{ref(2, 0), ref(1, 1), ref(1, 2), ref(1, 3), ref(1, 0), ref(1, 0)},
	}}}
	sections, stats := Resolve(reply, docs, "", Options{})
	require.Len(t, sections[0].Images, 3)
	var srcs []string
	for _, img := range sections[0].Images {
		u, err := url.QueryUnescape(strings.TrimPrefix(img.Src, DefaultImageProxyPath))
		require.NoError(t, err)
		srcs = append(srcs, u)
	}
	// b and femur tie on three shared tokens; logo and a share "bone" via the title
	assert.Equal(t, []string{"https://pmc.test/b.png", "https://pmc.test/femur.png", "https://pmc.test/logo.png"}, srcs)
	assert.Equal(t, 2, stats.Trimmed)
}

func TestResolveScoresScrapedTextNotModelCaption(t *testing.T) {
	logo := ref(1, 1)
	logo.Caption = "Femur scans femur"
	reply := Reply{Sections: []ReplySection{{
		Heading:      "Scans",
		TextMarkdown: "Femur scans [1]",
		ImageRefs:    []ImageRef{logo, ref(1, 0)},
	}}}
	sections, _ := Resolve(reply, testDocs(), "", Options{MaxImagesPerSection: 2})
	require.Len(t, sections[0].Images, 2)
	assert.Contains(t, sections[0].Images[0].Src, url.QueryEscape("https://pmc.test/femur.png"))
	assert.Contains(t, sections[0].Images[1].Src, url.QueryEscape("https://pmc.test/logo.png"))
	assert.Equal(t, "Femur scans femur", sections[0].Images[1].Caption)
}

func TestResolveZeroOverlapKeepsFirst(t *testing.T) {
	reply := Reply{Sections: []ReplySection{{
		Heading:      "Overview",
		TextMarkdown: "General remarks.",
		ImageRefs:    []ImageRef{ref(1, 1), ref(2, 0)},
	}}}
	// "Plant roots" and "Bone loss in microgravity" share nothing with the text
	sections, _ := Resolve(reply, testDocs(), "xyz", Options{})
	require.Len(t, sections[0].Images, 1)
	assert.Contains(t, sections[0].Images[0].Src, url.QueryEscape("https://pmc.test/logo.png"))

	sections, _ = Resolve(reply, testDocs(), "xyz", Options{ZeroOverlapKeep: -1})
	assert.Empty(t, sections[0].Images)
}

func TestResolveSanitizesAndDropsEmptySections(t *testing.T) {
	reply := Reply{Sections: []ReplySection{
		{Heading: "<b>Roots</b> &amp; light", Markdown: "Roots bend [2]", ImageRefs: []ImageRef{{Doc: Int(2), Img: Int(0), Caption: "<i>Roots</i>"}}},
		{Heading: "  ", TextMarkdown: " "},
		{Heading: "<script>x()</script>"},
	}}
	sections, _ := Resolve(reply, testDocs(), "roots", Options{ImageProxyPath: "https://proxy.test/img?u="})
	require.Len(t, sections, 1)
	assert.Equal(t, "Roots & light", sections[0].Heading)
	assert.Equal(t, "Roots bend [2]", sections[0].Markdown)
	require.Len(t, sections[0].Images, 1)
	assert.Equal(t, "Roots", sections[0].Images[0].Caption)
	assert.Equal(t, "https://proxy.test/img?u="+url.QueryEscape("https://pmc.test/roots.png?a=1&b=2"), sections[0].Images[0].Src)
	assert.Equal(t, 2, sections[0].Images[0].CiteIndex)
	assert.NotNil(t, sections[0].Images)
}
