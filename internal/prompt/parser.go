// Package prompt pulls rental fields out of free-form Chinese or English text.
// Extraction is heuristic and never fails: anything not recognised is left at
// its zero value.
package prompt

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/en"

	"rental-manager/internal/clock"
	"rental-manager/internal/domain"
	"rental-manager/internal/utils"
)

// NotesSeparator joins several notes found in one prompt.
const NotesSeparator = "；"

// Fields holds what could be extracted from a prompt.
type Fields struct {
	Start   domain.Date  // first date mentioned, today when none
	End     *domain.Date // second date mentioned, if any
	Days    int          // 0 when no duration was mentioned
	Address string
	Notes   string
}

var (
	durationPattern = regexp.MustCompile(`(?i)(\d+)\s*(?:天|days?\b)`)
	addressPattern  = regexp.MustCompile(`(?i)(?:送至|送到|地址|收货|取机|交付|\bdeliver(?:ed)? to\b|\baddress\b|\bpick\s?up\b)[:：\s]*([^，。,.\n]+)`)
	notesPattern    = regexp.MustCompile(`(?i)(?:备注|用途|用于|场景|\bnotes?\b|\bpurpose\b)[:：\s]*([^。！？!?.\n]+)`)

	fullDatePattern    = regexp.MustCompile(`(\d{4})\s*[-/.年]\s*(\d{1,2})\s*[-/.月]\s*(\d{1,2})\s*[日号]?`)
	monthDayPattern    = regexp.MustCompile(`(\d{1,2})\s*月\s*(\d{1,2})\s*[日号]`)
	relativeDayPattern = regexp.MustCompile(`大后天|后天|明天|今天|(\d+)\s*天后`)
	relativeDayOffsets = map[string]int{"今天": 0, "明天": 1, "后天": 2, "大后天": 3}
)

// Parser extracts Fields relative to the clock's current day.
type Parser struct {
	clock   clock.Clock
	english *when.Parser
}

func NewParser(c clock.Clock) *Parser {
	w := when.New(nil)
	w.Add(en.All...)
	return &Parser{clock: c, english: w}
}

// Parse extracts dates, duration, address and notes from text.
func (p *Parser) Parse(text string) Fields {
	now := p.clock.Now()
	today := domain.DateOf(now)

	fields := Fields{
		Start:   today,
		Days:    parseDuration(text),
		Address: parseAddress(text),
		Notes:   parseNotes(text),
	}

	dates := p.findDates(text, now)
	if len(dates) > 0 {
		fields.Start = dates[0].date
	}
	if len(dates) > 1 && !dates[1].date.Before(fields.Start) {
		end := dates[1].date
		fields.End = &end
	}
	return fields
}

type dateMention struct {
	start, end int
	date       domain.Date
}

// findDates returns non-overlapping date mentions in order of appearance.
func (p *Parser) findDates(text string, now time.Time) []dateMention {
	today := domain.DateOf(now)

	var found []dateMention
	found = append(found, findFullDates(text)...)
	found = append(found, findMonthDays(text, today)...)
	found = append(found, findRelativeDays(text, today)...)
	found = append(found, p.findEnglish(text, now)...)

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].start != found[j].start {
			return found[i].start < found[j].start
		}
		return found[i].end > found[j].end
	})

	var mentions []dateMention
	lastEnd := -1
	for _, m := range found {
		if m.start < lastEnd {
			continue
		}
		mentions = append(mentions, m)
		lastEnd = m.end
	}
	return mentions
}

func findFullDates(text string) []dateMention {
	var out []dateMention
	for _, idx := range fullDatePattern.FindAllStringSubmatchIndex(text, -1) {
		y := atoi(text[idx[2]:idx[3]])
		m := atoi(text[idx[4]:idx[5]])
		d := atoi(text[idx[6]:idx[7]])
		if date, ok := makeDate(y, m, d); ok {
			out = append(out, dateMention{start: idx[0], end: idx[1], date: date})
		}
	}
	return out
}

// findMonthDays resolves year-less dates to the next occurrence on or after today.
func findMonthDays(text string, today domain.Date) []dateMention {
	var out []dateMention
	for _, idx := range monthDayPattern.FindAllStringSubmatchIndex(text, -1) {
		m := atoi(text[idx[2]:idx[3]])
		d := atoi(text[idx[4]:idx[5]])
		date, ok := makeDate(today.Year(), m, d)
		if ok && date.Before(today) {
			date, ok = makeDate(today.Year()+1, m, d)
		}
		if ok {
			out = append(out, dateMention{start: idx[0], end: idx[1], date: date})
		}
	}
	return out
}

func findRelativeDays(text string, today domain.Date) []dateMention {
	var out []dateMention
	for _, idx := range relativeDayPattern.FindAllStringSubmatchIndex(text, -1) {
		offset, ok := relativeDayOffsets[text[idx[0]:idx[1]]]
		if !ok {
			offset = atoi(text[idx[2]:idx[3]])
		}
		out = append(out, dateMention{start: idx[0], end: idx[1], date: today.AddDays(offset)})
	}
	return out
}

// findEnglish runs the English phrase rules repeatedly over the remaining text.
func (p *Parser) findEnglish(text string, now time.Time) []dateMention {
	var out []dateMention
	offset := 0
	for offset < len(text) {
		r, err := p.english.Parse(text[offset:], now)
		if err != nil || r == nil || len(r.Text) == 0 {
			break
		}
		start := offset + r.Index
		end := start + len(r.Text)
		out = append(out, dateMention{start: start, end: end, date: domain.DateOf(r.Time)})
		offset = end
	}
	return out
}

func parseDuration(text string) int {
	m := durationPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	return atoi(m[1])
}

func parseAddress(text string) string {
	m := addressPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func parseNotes(text string) string {
	var notes []string
	for _, m := range notesPattern.FindAllStringSubmatch(text, -1) {
		if note := strings.TrimSpace(m[1]); note != "" {
			notes = append(notes, note)
		}
	}
	return strings.Join(notes, NotesSeparator)
}

func makeDate(year, month, day int) (domain.Date, bool) {
	if month < 1 || month > 12 || day < 1 || day > utils.DaysInMonth(year, time.Month(month)) {
		return domain.Date{}, false
	}
	return domain.NewDate(year, time.Month(month), day), true
}

// atoi is only called on \d+ captures; oversized numbers become 0.
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
