package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrEmptyCatalog is returned when a catalog file has no data rows.
var ErrEmptyCatalog = errors.New("no tracks found")

// MissingColumnsError is returned when a catalog header lacks required columns.
type MissingColumnsError struct {
	Missing []string
	Found   []string
}

func (e *MissingColumnsError) Error() string {
	missing := append([]string(nil), e.Missing...)
	found := append([]string(nil), e.Found...)
	sort.Strings(missing)
	sort.Strings(found)
	return fmt.Sprintf("CSV is missing columns: %s. Found columns: %s",
		strings.Join(missing, ", "), strings.Join(found, ", "))
}
