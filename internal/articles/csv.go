package articles

import (
	"regexp"
	"strings"

	"github.com/mohammad-safakhou/spacebio/internal/helpers"
	"github.com/mohammad-safakhou/spacebio/models"
)

// quotedRow matches a row with exactly one double-quoted field ("" escapes
// a quote) surrounded by plain comma-separated fields.
var quotedRow = regexp.MustCompile(`^((?:[^",]*,)*)"((?:[^"]|"")*)"((?:,[^,]*)*)$`)

// ParseCSV reads article references out of a CSV document. The header row
// must name a column starting with "title" and a column called "link" or
// "url". Rows missing either value, or whose link is not an absolute http(s)
// URL, are skipped.
func ParseCSV(data string) []models.ArticleRef {
	data = helpers.TrimBOM(data)
	lines := strings.Split(strings.ReplaceAll(data, "\r\n", "\n"), "\n")

	out := []models.ArticleRef{}
	titleCol, linkCol := -1, -1
	header := true
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if header {
			titleCol, linkCol = headerColumns(splitRow(line))
			if titleCol < 0 || linkCol < 0 {
				return out
			}
			header = false
			continue
		}
		fields := splitRow(line)
		if titleCol >= len(fields) || linkCol >= len(fields) {
			continue
		}
		title := strings.TrimSpace(fields[titleCol])
		link := strings.TrimSpace(fields[linkCol])
		if title == "" || !helpers.IsHTTPURL(link) {
			continue
		}
		out = append(out, models.ArticleRef{Title: title, Link: link})
	}
	return out
}

func headerColumns(names []string) (title, link int) {
	title, link = -1, -1
	for i, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if title < 0 && strings.HasPrefix(name, "title") {
			title = i
		}
		if link < 0 && (name == "link" || name == "url") {
			link = i
		}
	}
	return title, link
}

// splitRow tries the quoted-field pattern first and falls back to a plain
// comma split. Quotes around plain fields are stripped either way.
func splitRow(line string) []string {
	m := quotedRow.FindStringSubmatch(line)
	if m == nil {
		return unquote(strings.Split(line, ","))
	}
	var fields []string
	if m[1] != "" {
		fields = append(fields, unquote(strings.Split(strings.TrimSuffix(m[1], ","), ","))...)
	}
	fields = append(fields, strings.ReplaceAll(m[2], `""`, `"`))
	if m[3] != "" {
		fields = append(fields, unquote(strings.Split(strings.TrimPrefix(m[3], ","), ","))...)
	}
	return fields
}

func unquote(fields []string) []string {
	for i, f := range fields {
		fields[i] = strings.Trim(f, `"`)
	}
	return fields
}
