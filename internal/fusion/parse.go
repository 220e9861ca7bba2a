package fusion

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mohammad-safakhou/spacebio/internal/helpers"
)

// ErrUnparseable means the model reply held no usable JSON object, even
// after the escape repair.
var ErrUnparseable = errors.New("fusion reply is not valid JSON")

// Reply is the validated shape of the model's answer.
type Reply struct {
	Language string         `json:"language"`
	Sections []ReplySection `json:"sections"`
}

type ReplySection struct {
	Heading      string     `json:"heading"`
	TextMarkdown string     `json:"text_markdown"`
	Markdown     string     `json:"markdown"`
	ImageRefs    []ImageRef `json:"imageRefs"`
}

// Body returns text_markdown, or markdown when the model used that key.
func (s ReplySection) Body() string {
	if strings.TrimSpace(s.TextMarkdown) != "" {
		return s.TextMarkdown
	}
	return s.Markdown
}

type ImageRef struct {
	Doc       FlexInt `json:"doc"`
	Img       FlexInt `json:"img"`
	Caption   string  `json:"caption"`
	CiteIndex FlexInt `json:"citeIndex"`
}

// FlexInt decodes an integer given as a JSON number or a numeric string.
// Anything else leaves Valid false instead of failing the whole reply.
type FlexInt struct {
	Value int
	Valid bool
}

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	*f = FlexInt{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		s = strings.TrimSpace(s)
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
		return nil
	}
	*f = FlexInt{Value: int(n), Valid: true}
	return nil
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(f.Value)), nil
}

// Int builds a valid FlexInt.
func Int(n int) FlexInt { return FlexInt{Value: n, Valid: true} }

// ParseReply extracts and decodes the JSON object in raw. A candidate that
// fails to decode is retried once after doubling stray backslashes.
func ParseReply(raw string) (Reply, error) {
	var reply Reply
	candidate, err := helpers.JSONCandidate(raw)
	if err != nil {
		return reply, fmt.Errorf("%w: %w", ErrUnparseable, err)
	}
	firstErr := json.Unmarshal([]byte(candidate), &reply)
	if firstErr == nil {
		return reply, nil
	}
	reply = Reply{}
	if err := json.Unmarshal([]byte(helpers.RepairJSONEscapes(candidate)), &reply); err != nil {
		return Reply{}, fmt.Errorf("%w: %w", ErrUnparseable, firstErr)
	}
	return reply, nil
}
