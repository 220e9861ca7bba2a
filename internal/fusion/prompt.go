package fusion

import (
	"encoding/json"
	"fmt"

	"github.com/mohammad-safakhou/spacebio/models"
)

const systemPrompt = `You are a science communicator answering questions about NASA space biology research.
You receive a user question and a numbered list of source documents. Each document has an index, title, url, text and a list of images, each image with its own 0-based index.

Write one answer that merges what the documents say. Rules:
- Reply with ONLY a JSON object, no prose before or after it, matching exactly:
  {"language": string, "sections": [{"heading": string, "text_markdown": string, "imageRefs": [{"doc": int, "img": int, "caption": string, "citeIndex": int}]}]}
- "language" is the language of the user's question; write headings and text in that language.
- Cite sources inline as [n] where n is the document index.
- Use between 2 and 6 sections. Each section may reference at most 3 images.
- "doc" is the document index and "img" the image index inside that document. Only reference images that appear in the documents; never invent doc or img numbers.
- "citeIndex" is the document index the image comes from.
- Do not include HTML in headings or captions.
- The output must be valid JSON: escape quotes and backslashes inside strings and do not use trailing commas.`

type promptPayload struct {
	Question  string                  `json:"question"`
	Documents []models.FusionDocument `json:"documents"`
}

// BuildPrompt assembles the single fusion request for question over docs.
func BuildPrompt(question string, docs []models.FusionDocument) (models.CompletionRequest, error) {
	payload, err := json.Marshal(promptPayload{Question: question, Documents: docs})
	if err != nil {
		return models.CompletionRequest{}, fmt.Errorf("encode fusion payload: %w", err)
	}
	return models.CompletionRequest{
		System: systemPrompt,
		User:   string(payload),
		JSON:   true,
	}, nil
}
