// Package copywriter wraps a task's core text in the copy style of a tone
// variant.
package copywriter

import "fmt"

const (
	emotionalTemplate = "🔥 Build your confidence: %s\nIt doesn't have to be perfect. Doing this means you're already growing today."
	outcomeTemplate   = "💡 Turn it into results: %s\nThis leaves you with a real artifact you can put to use right away."
)

// Render formats coreText for variant "A" (emotional) or "B" (outcome).
// Any other variant gets coreText back untouched.
func Render(coreText, variant string) string {
	switch variant {
	case "A":
		return fmt.Sprintf(emotionalTemplate, coreText)
	case "B":
		return fmt.Sprintf(outcomeTemplate, coreText)
	default:
		return coreText
	}
}
