package extract

// TreePolicy declares how a structured-HTML excerpt is cut out of a page.
// StructuredFromHTML applies it without touching the network.
type TreePolicy struct {
	// Containers are tried in order; the first with visible text is the excerpt root.
	Containers []string
	// Keep lists the tags collected as top-level excerpt nodes. Collection
	// does not descend into a kept node.
	Keep []string
	// Drop lists elements removed wherever they appear inside the root.
	Drop []string
	// StyleOn lists the only elements allowed to keep an inline style.
	StyleOn []string
	// ImageAttrs are removed from images once their src has been resolved.
	ImageAttrs []string
	LinkTarget string
	LinkRel    string
}

// DefaultTreePolicy is the policy used by Extractor.
var DefaultTreePolicy = TreePolicy{
	Containers: []string{
		"article",
		"main",
		"[role=main]",
		"#content",
		"#main-content",
		".article-content",
		".article-body",
		".post-content",
		".entry-content",
		".content",
	},
	Keep:       []string{"h1", "h2", "h3", "h4", "p", "ul", "ol", "blockquote", "pre", "figure", "img", "table"},
	Drop:       []string{"script", "style", "meta", "link", "iframe", "object", "embed", "noscript"},
	StyleOn:    []string{"img", "figure"},
	ImageAttrs: []string{"srcset", "data-srcset", "sizes", "data-src", "data-original", "data-lazy-src", "integrity", "crossorigin"},
	LinkTarget: "_blank",
	LinkRel:    "noopener noreferrer nofollow",
}

// boilerplate is stripped before plain-text extraction.
var boilerplate = []string{"script", "style", "nav", "header", "footer", "aside", "noscript", "template", "svg"}

func setOf(items []string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, it := range items {
		out[it] = struct{}{}
	}
	return out
}
