package tracing

// Span names and attribute keys exported with every trace. Downstream
// tooling matches on these exact strings; do not rename.
const (
	spanPrefixUpdate = "update."
	spanPrefixAPI    = "api."

	attrUpdateType = "update.type"
	attrUpdateBody = "update.body"
	attrAPIMethod  = "api.method"
	attrBody       = "body"

	eventAPIRequest  = "api.request"
	eventAPIResponse = "api.response"
)
