// Package output holds presentation helpers shared by the report renderers.
package output

import (
	"github.com/dustin/go-humanize"

	"github.com/arthur-debert/texmerge/pkg/output/styles"
)

// LoadStylesFromFile loads a custom styles configuration from the specified file path.
// This allows users to override the default styles at runtime.
func LoadStylesFromFile(path string) error {
	return styles.LoadStyles(path)
}

// Size formats a byte count for people, such as "12 kB".
func Size(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}
