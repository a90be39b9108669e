package compound

import "strings"

// DoorConfig is the decoded result of ParseDoorConfig.
type DoorConfig struct {
	DoorCount    int
	DoorType     string
	DoorHinge    string
	DoorFeatures []string
}

var doorCountWords = []struct {
	word  string
	count int
}{
	{"one", 1}, {"two", 2}, {"three", 3}, {"four", 4},
	{"double", 2}, {"single", 1}, {"1", 1}, {"2", 2},
}

// ParseDoorConfig parses strings like
// "One swing solid door, self-closing, right hinged".
func ParseDoorConfig(text string) DoorConfig {
	var d DoorConfig
	if text == "" {
		return d
	}
	t := strings.ToLower(text)

	for _, w := range doorCountWords {
		if strings.Contains(t, w.word) {
			d.DoorCount = w.count
			break
		}
	}

	switch {
	case strings.Contains(t, "glass") && strings.Contains(t, "sliding"):
		d.DoorType = "glass_sliding"
	case strings.Contains(t, "glass"):
		d.DoorType = "glass"
	case strings.Contains(t, "solid"):
		d.DoorType = "solid"
	case strings.Contains(t, "stainless"):
		d.DoorType = "stainless_steel"
	}

	switch {
	case strings.Contains(t, "right and left") || strings.Contains(t, "right & left"):
		d.DoorHinge = "both"
	case strings.Contains(t, "right"):
		d.DoorHinge = "right"
	case strings.Contains(t, "left"):
		d.DoorHinge = "left"
	}

	var feats []string
	if strings.Contains(t, "self-closing") || strings.Contains(t, "self closing") {
		feats = append(feats, "self_closing")
	}
	if strings.Contains(t, "magnetic") {
		feats = append(feats, "magnetic_gasket")
	}
	if strings.Contains(t, "vacuum insulated") {
		feats = append(feats, "vacuum_insulated")
	}
	if strings.Contains(t, "double pane") {
		feats = append(feats, "double_pane")
	}
	if strings.Contains(t, "not reversible") || strings.Contains(t, "non-reversible") {
		feats = append(feats, "non_reversible")
	}
	d.DoorFeatures = feats

	return d
}
