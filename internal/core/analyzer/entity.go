package analyzer

import "regexp"

// Name-bearing patterns, checked in order. Korean person names in the
// reports run 2 to 4 hangul syllables, attached to a customer marker,
// an honorific, or a dative/comitative particle.
var entityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`([가-힣]{2,4})\s*고객`),
	regexp.MustCompile(`고객\s*([가-힣]{2,4})`),
	regexp.MustCompile(`([가-힣]{2,4})(?:님|씨)`),
	regexp.MustCompile(`([가-힣]{2,4})(?:에게|와|과)`),
}

// ExtractEntityNames pulls candidate person names out of the query,
// deduplicated in first-seen order.
func ExtractEntityNames(text string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, pattern := range entityPatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			name := m[1]
			n := len([]rune(name))
			if n < 2 || n > 4 {
				continue
			}
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

var timeSlotPattern = regexp.MustCompile(`(\d{2}:\d{2})\s*[-~]\s*(\d{2}:\d{2})`)

// ExtractTimeSlot returns the first HH:MM-HH:MM range found in text,
// normalized to "HH:MM-HH:MM", or "" when absent.
func ExtractTimeSlot(text string) string {
	m := timeSlotPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1] + "-" + m[2]
}
