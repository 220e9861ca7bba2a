package fusion

import (
	"context"
	"strings"
	"unicode"

	"github.com/mohammad-safakhou/spacebio/models"
)

const translatePrompt = "Translate the user's text into English. Reply with the translation only, without quotes or commentary. If it is already English, repeat it unchanged."

// Completer is the completion contract fusion depends on.
type Completer interface {
	Complete(ctx context.Context, req models.CompletionRequest) (string, error)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// TranslateToEnglish returns text in English. Pure-ASCII text is returned
// as-is; any failure returns the original text.
func TranslateToEnglish(ctx context.Context, llm Completer, text string) string {
	if llm == nil || isASCII(text) {
		return text
	}
	out, err := llm.Complete(ctx, models.CompletionRequest{System: translatePrompt, User: text})
	if err != nil {
		return text
	}
	out = strings.Trim(strings.TrimSpace(out), `"“”`)
	if out == "" {
		return text
	}
	return out
}
