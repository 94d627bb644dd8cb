package timeexpr

import (
	"fmt"
	"time"
)

// FormatLocal renders t in loc as 「2025年9月15日 8:00」.
// Only the minutes are zero padded.
func FormatLocal(t time.Time, loc *time.Location) string {
	l := t.In(loc)
	return fmt.Sprintf("%d年%d月%d日 %d:%02d", l.Year(), int(l.Month()), l.Day(), l.Hour(), l.Minute())
}

// Format renders t in the parser's local zone.
func (p *Parser) Format(t time.Time) string {
	return FormatLocal(t, p.loc)
}
