package articles

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mohammad-safakhou/spacebio/models"
	"github.com/stretchr/testify/assert"
)

func TestParseCSV(t *testing.T) {
	data := "\uFEFFTitle,Link\r\n" +
		"Mice in space,https://pmc.test/1\r\n" +
		"\"A, B\",https://x.test/1\r\n" +
		"\"She said \"\"hi\"\"\",https://x.test/2\r\n" +
		",https://x.test/empty-title\r\n" +
		"No link,\r\n" +
		"Relative link,/articles/3\r\n" +
		"\r\n" +
		// unquoted comma: the naive split puts text in the link column
		"Plants, roots and light,https://x.test/naive\n"

	want := []models.ArticleRef{
		{Title: "Mice in space", Link: "https://pmc.test/1"},
		{Title: "A, B", Link: "https://x.test/1"},
		{Title: `She said "hi"`, Link: "https://x.test/2"},
	}
	got := ParseCSV(data)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCSVHeaderVariants(t *testing.T) {
	got := ParseCSV("id,Title of publication,URL\n7,Bone loss,https://h.test/7\n")
	assert.Equal(t, []models.ArticleRef{{Title: "Bone loss", Link: "https://h.test/7"}}, got)

	got = ParseCSV(`"Title","Link"` + "\n" + `"Quoted title",https://h.test/q` + "\n")
	assert.Equal(t, []models.ArticleRef{{Title: "Quoted title", Link: "https://h.test/q"}}, got)

	got = ParseCSV("id,quoted,Title,Link\n1,\"x, y\",Cells,https://h.test/c\n")
	assert.Equal(t, []models.ArticleRef{{Title: "Cells", Link: "https://h.test/c"}}, got)
}

func TestParseCSVQuotedHeaderAndPlainFields(t *testing.T) {
	got := ParseCSV("\"Title\",\"Link\"\n\"A, B\",https://x.test/1\n")
	assert.Equal(t, []models.ArticleRef{{Title: "A, B", Link: "https://x.test/1"}}, got)

	got = ParseCSV("\"id\",\"Title\",\"Link\"\n" +
		"7,\"Cells, in orbit\",https://x.test/7\n" +
		"\"8\",\"Muscle\",\"https://x.test/8\"\n")
	assert.Equal(t, []models.ArticleRef{
		{Title: "Cells, in orbit", Link: "https://x.test/7"},
		{Title: "Muscle", Link: "https://x.test/8"},
	}, got)
}

func TestParseCSVWithoutUsableHeader(t *testing.T) {
	assert.Empty(t, ParseCSV("name,address\nfoo,https://h.test\n"))
	assert.Empty(t, ParseCSV(""))
	assert.NotNil(t, ParseCSV(""))
}

func TestParseCSVDeterministic(t *testing.T) {
	data := "Title,Link\n"
	for i := 0; i < 50; i++ {
		data += "Study,https://h.test/" + string(rune('a'+i%26)) + "\n"
	}
	first := ParseCSV(data)
	assert.Len(t, first, 50)
	assert.Equal(t, first, ParseCSV(data))
}
