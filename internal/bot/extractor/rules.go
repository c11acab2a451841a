package extractor

import "regexp"

// Extraction rule tables. Compiled once at init and never mutated; every
// concurrent query shares them by reference.

var (
	timesheetIDPattern   = regexp.MustCompile(`(?i)\bTS-\d{6}-\d+\b`)
	invoiceNumberPattern = regexp.MustCompile(`(?i)\bINV-\d{6}-\d+\b`)
	uuidPattern          = regexp.MustCompile(`(?i)\b[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\b`)

	projectPattern = regexp.MustCompile(`(?i)\bproject\s+([A-Za-z0-9][\w-]*)`)
	talentPattern  = regexp.MustCompile(`(?i)\btalent\s+([A-Za-z0-9][\w-]*)`)

	isoDatePattern  = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	monthDayPattern = regexp.MustCompile(`(?i)\b(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?\s+(\d{1,2})\b`)

	hoursPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(?:hours?|hrs?)\b`),
		regexp.MustCompile(`(?i)\bhours?(?:\s+per\s+day)?\s*(?:to|:)\s*(\d+(?:\.\d+)?)\b`),
	}

	amountPatterns = []*regexp.Regexp{
		regexp.MustCompile(`[$€£]\s?(\d+(?:\.\d+)?)`),
		regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(USD|EUR|GBP|AUD|CAD|JPY)\b`),
		regexp.MustCompile(`(?i)\bamount\s*(?:of|:)?\s*(\d+(?:\.\d+)?)\b`),
	}

	statusPattern = regexp.MustCompile(`(?i)\b(draft|submitted|approved|rejected|sent|paid|pending|cancelled)\b`)

	currencyPattern = regexp.MustCompile(`\b(USD|EUR|GBP|AUD|CAD|JPY)\b`)
)

var monthNumbers = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// Words that, immediately before a date, anchor it to the start or end of
// a range.
var (
	startMarkers = map[string]bool{"from": true, "start": true, "starting": true, "since": true, "beginning": true}
	endMarkers   = map[string]bool{"to": true, "until": true, "till": true, "through": true, "end": true, "ending": true}
)
