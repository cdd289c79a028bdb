package guardrail

import "strings"

// DismissalValid reports whether a dismissal of similar threads recorded for
// dismissedTitle still applies to title. It stays valid until the length of
// the title moves by more than maxDelta characters.
func DismissalValid(dismissedTitle, title string, maxDelta int) bool {
	dismissedTitle = strings.TrimSpace(dismissedTitle)
	if dismissedTitle == "" {
		return false
	}

	delta := len([]rune(strings.TrimSpace(title))) - len([]rune(dismissedTitle))
	if delta < 0 {
		delta = -delta
	}

	return delta <= maxDelta
}

// Ready reports whether the content can be submitted. Similar threads never
// block a submission, only flagged content does.
func Ready(title string, profanity ProfanityResult, minTitleLength int) bool {
	return len([]rune(strings.TrimSpace(title))) >= minTitleLength && !profanity.Flagged
}
