package contact

import "regexp"

// spamPatterns is the static blocklist applied to free-text fields. Bare
// URLs are rejected outright: legitimate inquiries do not need to include
// one, and most scripted spam does.
var spamPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(viagra|cialis|casino|porn|sex|xxx)\b`),
	regexp.MustCompile(`(?i)\b(loan|investment|bitcoin|crypto|make money)\b`),
	regexp.MustCompile(`https?://\S+`),
}

func containsSpam(text string) bool {
	for _, pattern := range spamPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}
