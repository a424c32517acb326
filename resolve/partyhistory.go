package resolve

import "strings"

// ParsePartyHistory splits the registry's slash-delimited affiliation string
// into an ordered list, oldest first. Blank entries are dropped; the last
// entry is the current affiliation.
func ParsePartyHistory(history string) []string {
	if history == "" {
		return nil
	}

	var parties []string
	for _, part := range strings.Split(history, "/") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		parties = append(parties, part)
	}
	return parties
}
