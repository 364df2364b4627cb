package domain

import "strings"

// distressKeywords are matched as substrings of the upper-cased message.
var distressKeywords = []string{"HELP", "SOS"}

// DetectDistress reports whether text contains an emergency keyword, ignoring case.
// Empty text is never a distress signal.
func DetectDistress(text string) bool {
	if text == "" {
		return false
	}
	upper := strings.ToUpper(text)
	for _, kw := range distressKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}
