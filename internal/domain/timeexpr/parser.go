// Package timeexpr extracts a due time and a task from short Japanese
// reminder requests such as 「明日の朝8時にゴミ出し」.
package timeexpr

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind identifies which grammar produced a match.
type Kind int

const (
	KindTomorrow Kind = iota + 1
	KindToday
	KindAbsolute
	KindNextWeekday
)

func (k Kind) String() string {
	switch k {
	case KindTomorrow:
		return "tomorrow"
	case KindToday:
		return "today"
	case KindAbsolute:
		return "absolute"
	case KindNextWeekday:
		return "next_weekday"
	default:
		return "unknown"
	}
}

// Result is a successful parse.
type Result struct {
	Kind  Kind
	Local time.Time // due time in the parser's local zone
	DueAt time.Time // the same instant in UTC
	Task  string
}

// matcher is one grammar. resolve receives the submatches of pattern and the
// reference time already converted to the parser's zone.
type matcher struct {
	kind    Kind
	pattern *regexp.Regexp
	resolve func(m []string, now time.Time) (time.Time, string, bool)
}

// Patterns are anchored at both ends, so surrounding noise never matches.
// [\s　] also accepts the full-width space common in Japanese input.
var (
	tomorrowPattern    = regexp.MustCompile(`^明日の(朝|夜|午前|午後)(\d{1,2})時に(.+)$`)
	todayPattern       = regexp.MustCompile(`^今日の(\d{1,2})時に(.+)$`)
	absolutePattern    = regexp.MustCompile(`^(\d{4})年(\d{1,2})月(\d{1,2})日[\s　]+(\d{1,2}[:：]\d{1,2}|\d{2,4})に(.+)$`)
	nextWeekdayPattern = regexp.MustCompile(`^来週の(月|火|水|木|金|土|日)曜日[\s　]+(\d{1,2})時に(.+)$`)
)

var weekdays = map[string]time.Weekday{
	"日": time.Sunday,
	"月": time.Monday,
	"火": time.Tuesday,
	"水": time.Wednesday,
	"木": time.Thursday,
	"金": time.Friday,
	"土": time.Saturday,
}

// defaultMatchers in priority order.
var defaultMatchers = []matcher{
	{kind: KindTomorrow, pattern: tomorrowPattern, resolve: resolveTomorrow},
	{kind: KindToday, pattern: todayPattern, resolve: resolveToday},
	{kind: KindAbsolute, pattern: absolutePattern, resolve: resolveAbsolute},
	{kind: KindNextWeekday, pattern: nextWeekdayPattern, resolve: resolveNextWeekday},
}

// Parser is safe for concurrent use.
type Parser struct {
	loc      *time.Location
	matchers []matcher
}

// NewParser returns a parser that interprets and resolves times in loc.
func NewParser(loc *time.Location) *Parser {
	return &Parser{loc: loc, matchers: defaultMatchers}
}

// Location returns the parser's local zone.
func (p *Parser) Location() *time.Location {
	return p.loc
}

// Parse tries every grammar in priority order against the whole of text.
// The first grammar that matches and resolves to a valid time wins.
// ok is false when nothing matched; that is a normal outcome, not an error.
func (p *Parser) Parse(text string, now time.Time) (Result, bool) {
	localNow := now.In(p.loc)
	for _, m := range p.matchers {
		sub := m.pattern.FindStringSubmatch(text)
		if sub == nil {
			continue
		}
		local, task, ok := m.resolve(sub, localNow)
		if !ok {
			continue
		}
		return Result{
			Kind:  m.kind,
			Local: local,
			DueAt: local.UTC(),
			Task:  task,
		}, true
	}
	return Result{}, false
}

func resolveTomorrow(m []string, now time.Time) (time.Time, string, bool) {
	hour, ok := parseHour(m[2])
	if !ok {
		return time.Time{}, "", false
	}
	day := now.AddDate(0, 0, 1)
	return atHour(day, hour), m[3], true
}

// resolveToday keeps today's date even when the hour has already passed.
func resolveToday(m []string, now time.Time) (time.Time, string, bool) {
	hour, ok := parseHour(m[1])
	if !ok {
		return time.Time{}, "", false
	}
	return atHour(now, hour), m[2], true
}

func resolveAbsolute(m []string, now time.Time) (time.Time, string, bool) {
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, "", false
	}

	for _, clock := range clockSplits(m[4]) {
		hour, hourOK := parseHour(clock[0])
		minute, err := strconv.Atoi(clock[1])
		if !hourOK || err != nil || minute > 59 {
			continue
		}
		t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, now.Location())
		// time.Date normalizes 2月30日 into March; treat that as no match.
		if t.Day() != day || int(t.Month()) != month {
			return time.Time{}, "", false
		}
		return t, m[5], true
	}
	return time.Time{}, "", false
}

// clockSplits returns the [hour, minute] readings of a clock token, preferred
// first. "9:05" has one reading; "905" is tried as 90:5 and then 9:05.
func clockSplits(s string) [][2]string {
	s = strings.ReplaceAll(s, "：", ":")
	if hour, minute, ok := strings.Cut(s, ":"); ok {
		return [][2]string{{hour, minute}}
	}
	var out [][2]string
	for _, hourLen := range []int{2, 1} {
		if hourLen < len(s) && len(s)-hourLen <= 2 {
			out = append(out, [2]string{s[:hourLen], s[hourLen:]})
		}
	}
	return out
}

func resolveNextWeekday(m []string, now time.Time) (time.Time, string, bool) {
	target := weekdays[m[1]]
	hour, ok := parseHour(m[2])
	if !ok {
		return time.Time{}, "", false
	}
	day := now.AddDate(0, 0, 7)
	ahead := (int(target) - int(day.Weekday()) + 7) % 7
	day = day.AddDate(0, 0, ahead)
	return atHour(day, hour), m[3], true
}

func parseHour(s string) (int, bool) {
	hour, err := strconv.Atoi(s)
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	return hour, true
}

func atHour(day time.Time, hour int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
}
