package pipeline

// State is a step of a single turn. A domain turn moves along
//
//	Received → Ranked → Scraped → FusionAttempted → FusionResolved
//	                                              ↘ FusionFailed → StructuredHTMLAttempted → HTMLResolved
//	                                                                                       ↘ HTMLFailed → ArticleListOnly
//
// and skips straight from Ranked to StructuredHTMLAttempted when no model is
// configured.
type State string

const (
	Received                State = "received"
	Ranked                  State = "ranked"
	Scraped                 State = "scraped"
	FusionAttempted         State = "fusion_attempted"
	FusionResolved          State = "fusion_resolved"
	FusionFailed            State = "fusion_failed"
	StructuredHTMLAttempted State = "structured_html_attempted"
	HTMLResolved            State = "html_resolved"
	HTMLFailed              State = "html_failed"
	ArticleListOnly         State = "article_list_only"
	Replied                 State = "replied"
)

// Trail records the states a turn went through, in order.
type Trail []State

func (t *Trail) enter(s State) { *t = append(*t, s) }

// Last returns the most recent state.
func (t Trail) Last() State {
	if len(t) == 0 {
		return ""
	}
	return t[len(t)-1]
}
