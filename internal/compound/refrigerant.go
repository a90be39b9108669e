package compound

import (
	"regexp"
	"strings"
)

var reRefrigerant = regexp.MustCompile(`(?i)(R-?\d{2,4}[a-zA-Z]?)`)

// ParseRefrigerant extracts the first refrigerant code from free text like
// "Hydrocarbon, natural refrigerant (R290)".
func ParseRefrigerant(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	m := reRefrigerant.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.ToUpper(strings.ReplaceAll(m[1], "-", "")), true
}
