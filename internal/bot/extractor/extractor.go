// Package extractor recognizes typed fields (ids, dates, amounts,
// statuses, names) in raw query text using deterministic pattern
// matching. It never fails: unmatched fields are simply absent.
package extractor

import (
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"talentops-bot/internal/models"
)

type Extractor struct {
	dates *when.Parser
	now   func() time.Time
}

func New() *Extractor {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Extractor{
		dates: w,
		now:   time.Now,
	}
}

// NewWithClock builds an extractor with a fixed clock, for tests and
// anywhere date defaults must be reproducible.
func NewWithClock(now func() time.Time) *Extractor {
	e := New()
	e.now = now
	return e
}

// Extract scans text for every known field. When multiple candidates
// match the same field, the first left-to-right match wins; no semantic
// disambiguation happens here.
func (e *Extractor) Extract(text string) models.ExtractedEntities {
	var ents models.ExtractedEntities

	ents.TimesheetID = strings.ToUpper(timesheetIDPattern.FindString(text))
	ents.InvoiceNumber = strings.ToUpper(invoiceNumberPattern.FindString(text))

	e.extractProjectAndTalent(text, &ents)
	e.extractExpenseID(text, &ents)
	e.extractDates(text, &ents)

	if m := statusPattern.FindString(text); m != "" {
		ents.Status = strings.ToLower(m)
	}

	e.extractNumbers(text, &ents)

	if ents.Currency == "" {
		ents.Currency = currencyPattern.FindString(strings.ToUpper(text))
	}

	return ents
}

func (e *Extractor) extractProjectAndTalent(text string, ents *models.ExtractedEntities) {
	if m := projectPattern.FindStringSubmatch(text); m != nil {
		if uuidPattern.MatchString(expandRef(text, m[1])) {
			ents.ProjectID = expandRef(text, m[1])
		} else {
			ents.ProjectName = m[1]
		}
	}
	if m := talentPattern.FindStringSubmatch(text); m != nil {
		if uuidPattern.MatchString(expandRef(text, m[1])) {
			ents.TalentID = expandRef(text, m[1])
		} else {
			ents.TalentName = m[1]
		}
	}
}

// expandRef grows a captured token to the full UUID when the token is the
// leading segment of one. The name patterns capture up to the first
// non-word character, which splits UUIDs at their dashes.
func expandRef(text, token string) string {
	idx := strings.Index(text, token)
	if idx < 0 {
		return token
	}
	if m := uuidPattern.FindString(text[idx:]); m != "" && strings.HasPrefix(strings.ToLower(m), strings.ToLower(token)) {
		return strings.ToLower(m)
	}
	return token
}

// extractExpenseID assigns the first UUID not already claimed as a
// project or talent reference.
func (e *Extractor) extractExpenseID(text string, ents *models.ExtractedEntities) {
	for _, m := range uuidPattern.FindAllString(text, -1) {
		id := strings.ToLower(m)
		if id == ents.ProjectID || id == ents.TalentID {
			continue
		}
		ents.ExpenseID = id
		return
	}
}

func (e *Extractor) extractDates(text string, ents *models.ExtractedEntities) {
	// Explicit ISO dates first.
	iso := isoDatePattern.FindAllStringIndex(text, -1)
	for _, loc := range iso {
		e.assignDate(text, loc[0], text[loc[0]:loc[1]], ents)
	}

	// Natural month-day phrasing ("Oct 1 to Oct 31"). Year defaults to the
	// current year, matching the source data convention.
	if ents.StartDate == "" || ents.EndDate == "" {
		year := e.now().Year()
		for _, loc := range monthDayPattern.FindAllStringSubmatchIndex(text, -1) {
			monthTok := strings.ToLower(text[loc[2]:loc[3]])
			day, err := strconv.Atoi(text[loc[4]:loc[5]])
			if err != nil || day < 1 || day > 31 {
				continue
			}
			month := monthNumbers[monthTok[:3]]
			date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
			e.assignDate(text, loc[0], date, ents)
		}
	}

	// Relative phrasing ("today", "next monday") as a last resort.
	if ents.StartDate == "" && ents.EndDate == "" {
		if r, err := e.dates.Parse(text, e.now()); err == nil && r != nil {
			ents.StartDate = r.Time.Format("2006-01-02")
		}
	}
}

// assignDate slots a date into start or end based on the word right
// before it; without a marker, the first date becomes the start and the
// second the end.
func (e *Extractor) assignDate(text string, pos int, date string, ents *models.ExtractedEntities) {
	word := precedingWord(text, pos)
	switch {
	case startMarkers[word]:
		if ents.StartDate == "" {
			ents.StartDate = date
		}
	case endMarkers[word]:
		if ents.EndDate == "" {
			ents.EndDate = date
		}
	default:
		if ents.StartDate == "" {
			ents.StartDate = date
		} else if ents.EndDate == "" {
			ents.EndDate = date
		}
	}
}

func precedingWord(text string, pos int) string {
	fields := strings.Fields(strings.ToLower(text[:pos]))
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[len(fields)-1], ",.;:")
}

func (e *Extractor) extractNumbers(text string, ents *models.ExtractedEntities) {
	for _, p := range hoursPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				ents.Hours = &v
				break
			}
		}
	}

	for _, p := range amountPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				ents.Amount = &v
				if len(m) > 2 && m[2] != "" {
					ents.Currency = strings.ToUpper(m[2])
				}
				break
			}
		}
	}
}
