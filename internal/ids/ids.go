package ids

import (
	"strings"

	"github.com/segmentio/ksuid"
)

// New returns a k-sortable unique identifier.
func New() string {
	return ksuid.New().String()
}

// NewPrefixed returns New() prefixed with the given tag, e.g. "dev_2Ab...".
func NewPrefixed(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return New()
	}
	return prefix + "_" + New()
}
