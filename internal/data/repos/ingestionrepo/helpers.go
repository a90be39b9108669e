package ingestionrepo

import (
	"encoding/json"
	"strconv"

	"gorm.io/gorm"
)

func ftoa(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

// mustMarshalLogEntry marshals a value known at compile time to be
// marshalable (a plain struct with string/time fields); a marshal failure
// here would indicate a programming error, not a runtime condition.
func mustMarshalLogEntry(v any) string {
	b, err := json.Marshal([]any{v})
	if err != nil {
		panic(err)
	}
	return string(b)
}

func isNotFound(err error) bool {
	return err == gorm.ErrRecordNotFound
}
