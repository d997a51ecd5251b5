// Package mrz parses the Machine Readable Zone of travel documents per
// ICAO Doc 9303: TD3 (passports, 2 lines x 44) and TD1 (ID cards,
// 3 lines x 30). Fields are extracted by column offset; every check digit
// is the 7-3-1 weighted modulo-10 sum of its field, with letters valued
// A=10..Z=35 and the filler character counted as 0.
package mrz

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFormat reports input whose line count or line width does not match
// any supported MRZ layout.
var ErrFormat = errors.New("malformed machine readable zone")

// Format identifies the MRZ layout of a parsed record.
type Format string

const (
	FormatTD1 Format = "TD1"
	FormatTD3 Format = "TD3"
)

const (
	td3Width = 44
	td1Width = 30
	filler   = '<'
)

// Record holds the fields extracted from an MRZ together with the outcome
// of each per-field check digit. A false per-field flag means the check
// digit did not match; the extracted value is still reported so callers
// can decide how much to trust it. ChecksumValid reflects the composite
// final check digit over the whole record.
type Record struct {
	Format       Format
	DocumentCode string
	IssuingState string
	Surname      string
	GivenNames   string

	DocumentNumber   string
	DocumentNumberOK bool

	Nationality string

	BirthDate   string // DD/MM/YYYY
	BirthDateOK bool

	Sex string

	ExpiryDate   string // DD/MM/YYYY
	ExpiryDateOK bool

	PersonalNumber   string
	PersonalNumberOK bool

	// ChecksumValid is the composite final check digit outcome.
	ChecksumValid bool

	// Lines are the normalized fixed-width lines the record was parsed from.
	Lines []string
}

// Parse parses MRZ lines into a Record. Two lines select the TD3 layout,
// three lines select TD1; any other line count, or lines too far from the
// layout's fixed width, fail with ErrFormat. Short lines within tolerance
// are padded with filler (trailing filler is the most common OCR loss).
func Parse(lines []string) (Record, error) {
	cleaned := make([]string, 0, len(lines))
	for _, l := range lines {
		c := normalizeLine(l)
		if c != "" {
			cleaned = append(cleaned, c)
		}
	}

	switch len(cleaned) {
	case 2:
		return parseTD3(cleaned)
	case 3:
		return parseTD1(cleaned)
	default:
		return Record{}, fmt.Errorf("%w: got %d lines, want 2 or 3", ErrFormat, len(cleaned))
	}
}

// Locate scans raw OCR text for MRZ-shaped lines and returns them
// normalized, or nil when no plausible zone is found. TD3 lines are long
// enough to be unambiguous; TD1 lines are only accepted when three of
// them appear, since 30-character runs show up in regular text too.
func Locate(rawText string) []string {
	var td3, td1 []string
	for _, line := range strings.Split(rawText, "\n") {
		c := normalizeLine(line)
		if !strings.ContainsRune(c, filler) {
			continue
		}
		switch {
		case len(c) >= td3Width-4 && len(c) <= td3Width+2:
			td3 = append(td3, c)
		case len(c) >= td1Width-4 && len(c) <= td1Width+2:
			td1 = append(td1, c)
		}
	}
	if len(td3) >= 2 {
		return td3[:2]
	}
	if len(td1) >= 3 {
		return td1[:3]
	}
	return nil
}

func parseTD3(lines []string) (Record, error) {
	l1, err := fitLine(lines[0], td3Width)
	if err != nil {
		return Record{}, err
	}
	l2, err := fitLine(lines[1], td3Width)
	if err != nil {
		return Record{}, err
	}

	r := Record{Format: FormatTD3, Lines: []string{l1, l2}}

	r.DocumentCode = cleanField(l1[0:2])
	r.IssuingState = cleanField(l1[2:5])
	r.Surname, r.GivenNames = splitNames(l1[5:])

	r.DocumentNumber = cleanField(l2[0:9])
	r.DocumentNumberOK = checkDigitOK(l2[0:9], l2[9])

	r.Nationality = cleanField(l2[10:13])

	r.BirthDate, r.BirthDateOK = dateField(l2[13:19], l2[19], true)
	r.Sex = sexField(l2[20])
	r.ExpiryDate, r.ExpiryDateOK = dateField(l2[21:27], l2[27], false)

	r.PersonalNumber = cleanField(l2[28:42])
	r.PersonalNumberOK = optionalCheckDigitOK(l2[28:42], l2[42])

	r.ChecksumValid = checkDigitOK(l2[0:10]+l2[13:20]+l2[21:43], l2[43])
	return r, nil
}

func parseTD1(lines []string) (Record, error) {
	fitted := make([]string, 3)
	for i, l := range lines {
		f, err := fitLine(l, td1Width)
		if err != nil {
			return Record{}, err
		}
		fitted[i] = f
	}
	l1, l2, l3 := fitted[0], fitted[1], fitted[2]

	r := Record{Format: FormatTD1, Lines: fitted}

	r.DocumentCode = cleanField(l1[0:2])
	r.IssuingState = cleanField(l1[2:5])
	r.DocumentNumber = cleanField(l1[5:14])
	r.DocumentNumberOK = checkDigitOK(l1[5:14], l1[14])

	r.BirthDate, r.BirthDateOK = dateField(l2[0:6], l2[6], true)
	r.Sex = sexField(l2[7])
	r.ExpiryDate, r.ExpiryDateOK = dateField(l2[8:14], l2[14], false)
	r.Nationality = cleanField(l2[15:18])
	r.PersonalNumber = cleanField(l2[18:29])
	r.PersonalNumberOK = true // TD1 optional data has no dedicated check digit

	r.Surname, r.GivenNames = splitNames(l3)

	composite := l1[5:30] + l2[0:7] + l2[8:15] + l2[18:29]
	r.ChecksumValid = checkDigitOK(composite, l2[29])
	return r, nil
}

// CheckDigit computes the 7-3-1 weighted modulo-10 check digit of s.
func CheckDigit(s string) int {
	weights := [3]int{7, 3, 1}
	sum := 0
	for i := 0; i < len(s); i++ {
		sum += charValue(s[i]) * weights[i%3]
	}
	return sum % 10
}

func charValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	default: // filler
		return 0
	}
}

func checkDigitOK(field string, digit byte) bool {
	if digit < '0' || digit > '9' {
		return false
	}
	return CheckDigit(field) == int(digit-'0')
}

// optionalCheckDigitOK treats an all-filler field with a filler or zero
// check digit as valid, which TD3 allows for the personal number.
func optionalCheckDigitOK(field string, digit byte) bool {
	if cleanField(field) == "" && (digit == filler || digit == '0') {
		return true
	}
	return checkDigitOK(field, digit)
}

// dateField converts a YYMMDD field to DD/MM/YYYY and validates its check
// digit. Common OCR letter-for-digit substitutions are repaired first,
// since these fields are numeric by definition. Birth years use the
// 19xx/20xx pivot; expiry dates always resolve to 20xx.
func dateField(raw string, digit byte, birth bool) (string, bool) {
	repaired := repairDigits(raw)
	ok := checkDigitOK(repaired, repairDigit(digit))
	if !isDigits(repaired) {
		return "", false
	}
	yy := int(repaired[0]-'0')*10 + int(repaired[1]-'0')
	mm := repaired[2:4]
	dd := repaired[4:6]
	century := "20"
	if birth && yy > 40 {
		century = "19"
	}
	return fmt.Sprintf("%s/%s/%s%02d", dd, mm, century, yy), ok
}

func sexField(c byte) string {
	if c == 'M' || c == 'F' {
		return string(c)
	}
	return ""
}

// splitNames separates the surname and given names of an MRZ name field,
// where the two are divided by a double filler and name parts by single
// fillers.
func splitNames(field string) (surname, given string) {
	parts := strings.SplitN(field, "<<", 2)
	surname = nameText(parts[0])
	if len(parts) == 2 {
		given = nameText(parts[1])
	}
	return surname, given
}

func nameText(s string) string {
	s = strings.TrimRight(s, string(filler))
	return strings.TrimSpace(strings.ReplaceAll(s, string(filler), " "))
}

func cleanField(s string) string {
	return strings.Trim(strings.ReplaceAll(s, string(filler), ""), " ")
}

// normalizeLine uppercases a candidate line and strips everything outside
// the MRZ alphabet, which also drops whitespace OCR inserts between
// characters.
func normalizeLine(line string) string {
	line = strings.ToUpper(strings.TrimSpace(line))
	var b strings.Builder
	for i := 0; i < len(line); i++ {
		c := line[i]
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == filler {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// fitLine pads a slightly short line with trailing filler or rejects
// lines too far from the fixed width.
func fitLine(line string, width int) (string, error) {
	if len(line) > width+2 || len(line) < width-4 {
		return "", fmt.Errorf("%w: line width %d, want %d", ErrFormat, len(line), width)
	}
	if len(line) > width {
		return line[:width], nil
	}
	return line + strings.Repeat(string(filler), width-len(line)), nil
}

var digitRepair = map[byte]byte{'O': '0', 'Q': '0', 'I': '1', 'L': '1', 'S': '5', 'B': '8', 'Z': '2'}

func repairDigits(s string) string {
	b := []byte(s)
	for i := range b {
		if r, ok := digitRepair[b[i]]; ok {
			b[i] = r
		}
	}
	return string(b)
}

func repairDigit(c byte) byte {
	if r, ok := digitRepair[c]; ok {
		return r
	}
	return c
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}
