package selection

import "strings"

// Exclude returns codes minus every code in excluded, preserving order.
// Excluded codes that do not occur in codes are ignored.
func Exclude(codes []string, excluded []string) []string {
	skip := make(map[string]struct{}, len(excluded))
	for _, code := range excluded {
		skip[strings.ToUpper(strings.TrimSpace(code))] = struct{}{}
	}

	result := make([]string, 0, len(codes))
	for _, code := range codes {
		if _, ok := skip[strings.ToUpper(code)]; ok {
			continue
		}
		result = append(result, code)
	}
	return result
}
