package compound

import (
	"regexp"
	"strconv"
	"strings"
)

// ShelfConfig is the decoded result of ParseShelfConfig.
type ShelfConfig struct {
	ShelfCount              int
	ShelfType               string
	ShelfAdjustmentIncrement string
	ShelfFeatures           []string
}

var shelfCountWords = []struct {
	word  string
	count int
}{
	{"one", 1}, {"two", 2}, {"three", 3}, {"four", 4}, {"five", 5},
	{"six", 6}, {"seven", 7}, {"eight", 8}, {"ten", 10},
}

var (
	reShelfCount      = regexp.MustCompile(`(\d+)\s*(total\s+)?shelv`)
	reShelfIncrement  = regexp.MustCompile(`adjustable in ([\d½¼¾⅛⅜⅝⅞/\s"]+)\s*increment`)
)

// ParseShelfConfig parses strings like
// "Four adjustable shelves (adjustable in ½\" increments)".
func ParseShelfConfig(text string) ShelfConfig {
	var s ShelfConfig
	if text == "" {
		return s
	}
	t := strings.ToLower(text)

	found := false
	for _, w := range shelfCountWords {
		if strings.Contains(t, w.word) {
			s.ShelfCount = w.count
			found = true
			break
		}
	}
	if !found {
		if m := reShelfCount.FindStringSubmatch(t); m != nil {
			if v, err := strconv.Atoi(m[1]); err == nil {
				s.ShelfCount = v
			}
		}
	}

	switch {
	case strings.Contains(t, "adjustable") && strings.Contains(t, "fixed"):
		s.ShelfType = "mixed"
	case strings.Contains(t, "adjustable"):
		s.ShelfType = "adjustable"
	case strings.Contains(t, "fixed"):
		s.ShelfType = "fixed"
	}

	if m := reShelfIncrement.FindStringSubmatch(t); m != nil {
		s.ShelfAdjustmentIncrement = strings.TrimSpace(m[1])
	}

	if strings.Contains(t, "guard rail") {
		s.ShelfFeatures = []string{"guard_rail"}
	}

	return s
}
