package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// rule locates one field in noisy OCR text. Rules for a field are tried
// in priority order; the first rule whose normalized capture is non-empty
// wins. Rules marked collapsed run against the whitespace-collapsed view
// of the text so labels split across visual lines still match.
type rule struct {
	re        *regexp.Regexp
	group     int
	collapsed bool
	normalize func(string) string
}

func applyRules(fields map[string]*string, key string, rules []rule, upper, collapsed string) {
	if has(fields, key) {
		return
	}
	for _, r := range rules {
		text := upper
		if r.collapsed {
			text = collapsed
		}
		m := r.re.FindStringSubmatch(text)
		if m == nil || len(m) <= r.group {
			continue
		}
		val := m[r.group]
		if r.normalize != nil {
			val = r.normalize(val)
		} else {
			val = cleanText(val)
		}
		if val != "" {
			set(fields, key, val)
			return
		}
	}
}

var spaceRe = regexp.MustCompile(`\s+`)

// collapse folds all whitespace runs, line breaks included, into single
// spaces. OCR line breaks carry no reliable meaning.
func collapse(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

func cleanText(s string) string {
	return collapse(s)
}

// dateBody is the loose date shape tolerated on document labels: day and
// month with 1 or 2 digits, year with 2 or 4, any of / . - separators.
const dateBody = `(\d{1,2})[/.\-](\d{1,2})[/.\-](\d{2,4})`

var dateRe = regexp.MustCompile(`^` + dateBody + `$`)

// dateCutoffYY is the two-digit year above which a date is read as 19xx.
const dateCutoffYY = 30

// normalizeDate canonicalizes a matched date to DD/MM/YYYY, expanding
// two-digit years with the fixed pivot. Implausible day or month values
// reject the match so the next rule gets a chance.
func normalizeDate(s string) string {
	m := dateRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return ""
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return ""
	}
	switch len(m[3]) {
	case 2:
		if year > dateCutoffYY {
			year += 1900
		} else {
			year += 2000
		}
	case 4:
	default:
		return ""
	}
	return fmt.Sprintf("%02d/%02d/%04d", day, month, year)
}
