package models

// ArticleRef is one row of the publication index. Link is an absolute
// http(s) URL and doubles as the article's identity.
type ArticleRef struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// ScrapedImage is an image found on an article page. Src is absolute.
type ScrapedImage struct {
	Src     string `json:"src"`
	Alt     string `json:"alt,omitempty"`
	Caption string `json:"caption,omitempty"`
}

// Extraction is the text-mode output of a single page. The zero value means
// the page was unavailable.
type Extraction struct {
	Text   string         `json:"text"`
	Images []ScrapedImage `json:"images"`
}

// Empty reports whether nothing usable was extracted.
func (e Extraction) Empty() bool {
	return e.Text == "" && len(e.Images) == 0
}

// ScrapedArticle pairs an index row with what was extracted from its page.
type ScrapedArticle struct {
	ArticleRef
	Text   string         `json:"text"`
	Images []ScrapedImage `json:"images"`
}

// StructuredHTMLResult holds a sanitized markup excerpt of one article.
type StructuredHTMLResult struct {
	Article ArticleRef `json:"article"`
	HTML    string     `json:"html"`
}

// FusionImage is an image offered to the model, indexed from zero within its document.
type FusionImage struct {
	Index int    `json:"index"`
	Src   string `json:"src"`
	Alt   string `json:"alt,omitempty"`

	// Caption feeds relevance scoring only; the model never sees it.
	Caption string `json:"-"`
}

// FusionDocument is one source as presented to the model. Index is 1-based
// and is what the model cites as [n].
type FusionDocument struct {
	Index  int           `json:"index"`
	Title  string        `json:"title"`
	URL    string        `json:"url"`
	Text   string        `json:"text"`
	Images []FusionImage `json:"images"`
}

// ResolvedImage is an image reference that was validated against the
// documents and rewritten to go through the image proxy.
type ResolvedImage struct {
	Src       string `json:"src"`
	Alt       string `json:"alt"`
	Caption   string `json:"caption"`
	CiteIndex int    `json:"citeIndex"`
}

// FusionSection is one narrative block of a fused answer.
type FusionSection struct {
	Heading  string          `json:"heading"`
	Markdown string          `json:"markdown"`
	Images   []ResolvedImage `json:"images"`
}

// CompletionRequest is one call to the language model: a system instruction
// plus the user payload. JSON asks for a JSON-only reply where the service
// supports it.
type CompletionRequest struct {
	System string
	User   string
	JSON   bool
}
