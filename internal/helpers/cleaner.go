package helpers

import (
	"errors"
	"strings"
)

// ErrNoJSONCandidate is returned when a model reply contains nothing that
// looks like a JSON object.
var ErrNoJSONCandidate = errors.New("no JSON candidate found")

// ExtractMarkdown returns the content of the first fenced code block.
// When langFilter is given only blocks whose info string matches one of the
// languages (case-insensitive) are considered. Both ``` and ~~~ fences work.
func ExtractMarkdown(s string, langFilter ...string) (string, error) {
	s = TrimBOM(strings.TrimSpace(s))
	if s == "" {
		return "", errors.New("empty input")
	}

	var want map[string]struct{}
	for _, lf := range langFilter {
		lf = strings.ToLower(strings.TrimSpace(lf))
		if lf == "" {
			continue
		}
		if want == nil {
			want = make(map[string]struct{}, len(langFilter))
		}
		want[lf] = struct{}{}
	}

	for _, fence := range []string{"```", "~~~"} {
		if out, ok := findFence(s, fence, want); ok {
			return out, nil
		}
	}
	return "", errors.New("no fenced markdown block found")
}

func findFence(s, fence string, want map[string]struct{}) (string, bool) {
	start := 0
	for {
		i := strings.Index(s[start:], fence)
		if i == -1 {
			return "", false
		}
		open := start + i + len(fence)
		nl := strings.IndexByte(s[open:], '\n')
		if nl == -1 {
			return "", false
		}
		info := strings.TrimSpace(s[open : open+nl])
		body := open + nl + 1
		j := strings.Index(s[body:], fence)
		if j == -1 {
			return "", false
		}
		closeAt := body + j
		if want != nil {
			lang := ""
			if fields := strings.Fields(info); len(fields) > 0 {
				lang = strings.ToLower(fields[0])
			}
			if _, ok := want[lang]; !ok {
				// Skip the whole block, not just its opening fence.
				start = closeAt + len(fence)
				continue
			}
		}
		return strings.TrimSpace(s[body:closeAt]), true
	}
}

// JSONCandidate picks the part of a model reply most likely to be the JSON
// payload: a ```json block, then any fenced block, then the span from the
// first '{' to the last '}'.
func JSONCandidate(s string) (string, error) {
	s = TrimBOM(strings.TrimSpace(s))
	if out, err := ExtractMarkdown(s, "json"); err == nil && strings.Contains(out, "{") {
		return out, nil
	}
	if out, err := ExtractMarkdown(s); err == nil && strings.Contains(out, "{") {
		return out, nil
	}
	first := strings.IndexByte(s, '{')
	last := strings.LastIndexByte(s, '}')
	if first == -1 || last <= first {
		return "", ErrNoJSONCandidate
	}
	return s[first : last+1], nil
}

// RepairJSONEscapes doubles every backslash that does not start a valid JSON
// escape sequence. Models often emit LaTeX or Windows paths verbatim.
func RepairJSONEscapes(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if i+1 < len(s) {
			next := s[i+1]
			switch next {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
				b.WriteByte(c)
				b.WriteByte(next)
				i++
				continue
			case 'u':
				if i+5 < len(s) && isHex4(s[i+2:i+6]) {
					b.WriteString(s[i : i+6])
					i += 5
					continue
				}
			}
		}
		b.WriteString(`\\`)
	}
	return b.String()
}

func isHex4(s string) bool {
	if len(s) != 4 {
		return false
	}
	for i := 0; i < 4; i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}

// TrimBOM removes an optional UTF-8 byte order mark.
func TrimBOM(s string) string {
	return strings.TrimPrefix(s, "\uFEFF")
}
