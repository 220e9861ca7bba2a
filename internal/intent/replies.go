package intent

const (
	chitchatReply = "Hi! I answer questions about NASA space biology research: microgravity, radiation, " +
		"bone and muscle loss, plants and microbes in orbit, and more. Ask me about a topic and I will " +
		"pull together what the publications say."

	capabilityReply = "I search a collection of NASA space biology publications, read the most relevant " +
		"articles and summarise them with citations and figures. You can ask things like " +
		"\"How does spaceflight affect bone density?\" or \"What happens to plant roots in microgravity?\""

	domainCapabilityReply = "Yes, that is exactly my area. I search NASA space biology publications, read " +
		"the best matching articles and give you a cited summary with figures. Ask your question directly, " +
		"for example \"What does microgravity do to muscle?\""
)

// Reply returns the canned answer for chitchat and capability results and
// "" for everything else.
func Reply(r Result) string {
	switch r.Intent {
	case Chitchat:
		return chitchatReply
	case Capability:
		if r.Domain {
			return domainCapabilityReply
		}
		return capabilityReply
	}
	return ""
}
