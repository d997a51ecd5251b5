// Package fiscalcode implements the Italian codice fiscale algorithm:
// checksum validation, decoding of the birth data embedded in a code, and
// independent computation of a code from personal data.
//
// Two-digit birth years are expanded with a reference-year pivot: values
// greater than the reference year's last two digits resolve to 19xx,
// everything else to 20xx. This is inherently ambiguous for people born
// more than a century before the reference date; callers needing exact
// years for such cases must resolve them out of band.
package fiscalcode

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrMalformed reports a code that does not have the 16-character
// letter/digit layout of a codice fiscale.
var ErrMalformed = errors.New("malformed fiscal code")

var shapeRe = regexp.MustCompile(`^[A-Z]{6}[0-9]{2}[A-Z][0-9]{2}[A-Z][0-9]{3}[A-Z]$`)

// Official character value tables for the checksum. Characters at odd
// positions (1-based) use oddValues, even positions use evenValues.
var oddValues = map[byte]int{
	'0': 1, '1': 0, '2': 5, '3': 7, '4': 9, '5': 13, '6': 15, '7': 17, '8': 19, '9': 21,
	'A': 1, 'B': 0, 'C': 5, 'D': 7, 'E': 9, 'F': 13, 'G': 15, 'H': 17, 'I': 19, 'J': 21,
	'K': 2, 'L': 4, 'M': 18, 'N': 20, 'O': 11, 'P': 3, 'Q': 6, 'R': 8, 'S': 12, 'T': 14,
	'U': 16, 'V': 10, 'W': 22, 'X': 25, 'Y': 24, 'Z': 23,
}

var evenValues = map[byte]int{
	'0': 0, '1': 1, '2': 2, '3': 3, '4': 4, '5': 5, '6': 6, '7': 7, '8': 8, '9': 9,
	'A': 0, 'B': 1, 'C': 2, 'D': 3, 'E': 4, 'F': 5, 'G': 6, 'H': 7, 'I': 8, 'J': 9,
	'K': 10, 'L': 11, 'M': 12, 'N': 13, 'O': 14, 'P': 15, 'Q': 16, 'R': 17, 'S': 18,
	'T': 19, 'U': 20, 'V': 21, 'W': 22, 'X': 23, 'Y': 24, 'Z': 25,
}

// monthLetters maps month number (1-12) to the fixed month letter.
const monthLetters = "ABCDEHLMPRST"

var monthByLetter = map[byte]int{}

func init() {
	for i := 0; i < len(monthLetters); i++ {
		monthByLetter[monthLetters[i]] = i + 1
	}
}

// Decoded holds the personal data embedded in a fiscal code. Year is the
// pivot-expanded four-digit birth year. PlaceCode is the raw cadastral
// code; mapping it to a municipality name is a separate concern.
type Decoded struct {
	Sex       string
	Day       int
	Month     int
	Year      int
	PlaceCode string
}

// BirthDate returns the decoded birth date as DD/MM/YYYY.
func (d Decoded) BirthDate() string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, d.Month, d.Year)
}

// Person is the input for computing a fiscal code.
type Person struct {
	Surname   string
	GivenName string
	BirthDate time.Time
	Sex       string // "M" or "F"
	PlaceCode string // 4-character cadastral code
}

// Validate recomputes the checksum letter from the first 15 characters and
// compares it to the 16th. It fails closed: a code with the wrong length
// or character layout is reported as invalid, never as an error.
func Validate(code string) bool {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !shapeRe.MatchString(code) {
		return false
	}
	return CheckChar(code[:15]) == code[15]
}

// CheckChar computes the checksum letter for the 15-character prefix of a
// fiscal code using the alternating odd/even value tables.
func CheckChar(prefix string) byte {
	total := 0
	for i := 0; i < len(prefix); i++ {
		if i%2 == 0 { // 1-based odd position
			total += oddValues[prefix[i]]
		} else {
			total += evenValues[prefix[i]]
		}
	}
	return byte('A' + total%26)
}

// ocrToLetter repairs digits that OCR commonly substitutes for letters.
var ocrToLetter = map[byte]byte{'0': 'O', '1': 'I', '5': 'S', '8': 'B'}

// ocrToDigit repairs letters that OCR commonly substitutes for digits.
var ocrToDigit = map[byte]byte{'O': '0', 'I': '1', 'L': '1', 'S': '5', 'B': '8'}

// letterAt marks the positions of a fiscal code that hold letters; the
// remaining positions hold digits.
var letterAt = [16]bool{
	0: true, 1: true, 2: true, 3: true, 4: true, 5: true,
	8: true, 11: true, 15: true,
}

// NormalizeOCR repairs common OCR substitutions (0/O, 1/I/l, 5/S, 8/B)
// position by position, using the fixed letter/digit layout of a fiscal
// code. Input that is not 16 characters long is returned unchanged.
func NormalizeOCR(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 16 {
		return code
	}
	b := []byte(code)
	for i := range b {
		if letterAt[i] {
			if r, ok := ocrToLetter[b[i]]; ok {
				b[i] = r
			}
		} else {
			if r, ok := ocrToDigit[b[i]]; ok {
				b[i] = r
			}
		}
	}
	return string(b)
}

// Decode extracts sex, birth date and birth place code from a fiscal code
// using the current time as the year-pivot reference. It does not require
// the checksum to be valid; use Validate for that.
func Decode(code string) (Decoded, error) {
	return DecodeAt(code, time.Now())
}

// DecodeAt is Decode with an explicit pivot reference date.
func DecodeAt(code string, ref time.Time) (Decoded, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !shapeRe.MatchString(code) {
		return Decoded{}, fmt.Errorf("%w: %q", ErrMalformed, code)
	}

	month, ok := monthByLetter[code[8]]
	if !ok {
		return Decoded{}, fmt.Errorf("%w: unknown month letter %q", ErrMalformed, code[8])
	}

	yy := int(code[6]-'0')*10 + int(code[7]-'0')
	year := 2000 + yy
	if yy > ref.Year()%100 {
		year = 1900 + yy
	}

	day := int(code[9]-'0')*10 + int(code[10]-'0')
	sex := "M"
	if day > 40 {
		sex = "F"
		day -= 40
	}
	if day < 1 || day > 31 {
		return Decoded{}, fmt.Errorf("%w: day field %d out of range", ErrMalformed, day)
	}

	return Decoded{
		Sex:       sex,
		Day:       day,
		Month:     month,
		Year:      year,
		PlaceCode: code[11:15],
	}, nil
}

// Encode computes the full 16-character fiscal code from personal data.
func Encode(p Person) (string, error) {
	surname := sanitizeName(p.Surname)
	given := sanitizeName(p.GivenName)
	if surname == "" || given == "" {
		return "", fmt.Errorf("surname and given name are required")
	}
	sex := strings.ToUpper(strings.TrimSpace(p.Sex))
	if sex != "M" && sex != "F" {
		return "", fmt.Errorf("sex must be M or F, got %q", p.Sex)
	}
	place := strings.ToUpper(strings.TrimSpace(p.PlaceCode))
	if len(place) != 4 {
		return "", fmt.Errorf("place code must be 4 characters, got %q", p.PlaceCode)
	}
	if p.BirthDate.IsZero() {
		return "", fmt.Errorf("birth date is required")
	}

	day := p.BirthDate.Day()
	if sex == "F" {
		day += 40
	}

	var b strings.Builder
	b.WriteString(surnameCode(surname))
	b.WriteString(givenNameCode(given))
	fmt.Fprintf(&b, "%02d", p.BirthDate.Year()%100)
	b.WriteByte(monthLetters[int(p.BirthDate.Month())-1])
	fmt.Fprintf(&b, "%02d", day)
	b.WriteString(place)
	b.WriteByte(CheckChar(b.String()))
	return b.String(), nil
}

// surnameCode takes the first three consonants, padded with vowels in
// order of appearance, then with X for surnames shorter than three letters.
func surnameCode(name string) string {
	cons, vowels := splitLetters(name)
	return pad3(cons + vowels)
}

// givenNameCode applies the given-name quirk of the official algorithm:
// with four or more consonants, the 1st, 3rd and 4th are used and the 2nd
// is skipped.
func givenNameCode(name string) string {
	cons, vowels := splitLetters(name)
	if len(cons) >= 4 {
		return string([]byte{cons[0], cons[2], cons[3]})
	}
	return pad3(cons + vowels)
}

func pad3(s string) string {
	if len(s) >= 3 {
		return s[:3]
	}
	return s + strings.Repeat("X", 3-len(s))
}

func splitLetters(name string) (consonants, vowels string) {
	var c, v strings.Builder
	for i := 0; i < len(name); i++ {
		switch name[i] {
		case 'A', 'E', 'I', 'O', 'U':
			v.WriteByte(name[i])
		default:
			c.WriteByte(name[i])
		}
	}
	return c.String(), v.String()
}

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// sanitizeName uppercases, strips diacritics, and drops anything that is
// not an ASCII letter.
func sanitizeName(name string) string {
	stripped, _, err := transform.String(deaccent, name)
	if err != nil {
		stripped = name
	}
	var b strings.Builder
	for _, r := range strings.ToUpper(stripped) {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
