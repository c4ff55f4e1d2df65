package postservice

import "regexp"

var (
	scriptTagPattern      = regexp.MustCompile(`(?is)<\s*script[^>]*>(.*?)<\s*/\s*script\s*>`)
	eventAttributePattern = regexp.MustCompile(`(?i)\son\w+\s*=\s*("[^"]*"|'[^']*'|[^\s>]+)`)
)

// sanitizeRichText strips script tags and inline event handlers from editor
// output before it is persisted.
func sanitizeRichText(body string) string {
	body = scriptTagPattern.ReplaceAllString(body, "")
	return eventAttributePattern.ReplaceAllString(body, "")
}
