package strings

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// DefaultSummaryWidth is the terminal width given to headings and
// descriptions in spec listings.
const DefaultSummaryWidth = 48

// MinSummaryWidth leaves room for one cell of content plus the ellipsis.
const MinSummaryWidth = 4

const ellipsis = "..."

// Summary flattens s onto one line and cuts it to at most width terminal
// cells, ending in "..." when cut. Wide runes (CJK, emoji) count as two
// cells and are never split. Widths below MinSummaryWidth are raised to it.
func Summary(s string, width int) string {
	width = max(width, MinSummaryWidth)
	s = strings.Join(strings.Fields(s), " ")
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, ellipsis)
}
