package mrz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ICAO Doc 9303 TD3 specimen.
func specimenTD3() []string {
	return []string{
		"P<UTOERIKSSON<<ANNA<MARIA" + strings.Repeat("<", 19),
		"L898902C36UTO7408122F1204159ZE184226B<<<<<10",
	}
}

// ICAO Doc 9303 TD1 specimen.
func specimenTD1() []string {
	return []string{
		"I<UTOD231458907" + strings.Repeat("<", 15),
		"7408122F1204159UTO" + strings.Repeat("<", 11) + "6",
		"ERIKSSON<<ANNA<MARIA" + strings.Repeat("<", 10),
	}
}

func TestParseTD3(t *testing.T) {
	r, err := Parse(specimenTD3())
	require.NoError(t, err)

	assert.Equal(t, FormatTD3, r.Format)
	assert.Equal(t, "P", r.DocumentCode)
	assert.Equal(t, "UTO", r.IssuingState)
	assert.Equal(t, "ERIKSSON", r.Surname)
	assert.Equal(t, "ANNA MARIA", r.GivenNames)
	assert.Equal(t, "L898902C3", r.DocumentNumber)
	assert.True(t, r.DocumentNumberOK)
	assert.Equal(t, "UTO", r.Nationality)
	assert.Equal(t, "12/08/1974", r.BirthDate)
	assert.True(t, r.BirthDateOK)
	assert.Equal(t, "F", r.Sex)
	assert.Equal(t, "15/04/2012", r.ExpiryDate)
	assert.True(t, r.ExpiryDateOK)
	assert.Equal(t, "ZE184226B", r.PersonalNumber)
	assert.True(t, r.PersonalNumberOK)
	assert.True(t, r.ChecksumValid)
}

func TestParseTD3CorruptedDocumentNumberCheckDigit(t *testing.T) {
	lines := specimenTD3()
	// Flip the document number check digit from 6 to 5.
	lines[1] = lines[1][:9] + "5" + lines[1][10:]

	r, err := Parse(lines)
	require.NoError(t, err)

	assert.False(t, r.DocumentNumberOK)
	assert.Equal(t, "L898902C3", r.DocumentNumber, "extracted value is kept despite the failed check digit")
	assert.False(t, r.ChecksumValid, "composite covers the corrupted column")
}

func TestParseTD3CorruptedCompositeOnly(t *testing.T) {
	lines := specimenTD3()
	lines[1] = lines[1][:43] + "9"

	r, err := Parse(lines)
	require.NoError(t, err)

	assert.False(t, r.ChecksumValid)
	assert.True(t, r.DocumentNumberOK, "per-field digits are unaffected")
	assert.Equal(t, "ERIKSSON", r.Surname)
}

func TestParseSingleCharacterCorruptionFlipsFieldCheck(t *testing.T) {
	lines := specimenTD3()
	// Corrupt one character inside the birth date field (740812 -> 740813).
	lines[1] = lines[1][:18] + "3" + lines[1][19:]

	r, err := Parse(lines)
	require.NoError(t, err)
	assert.False(t, r.BirthDateOK)
	assert.Equal(t, "13/08/1974", r.BirthDate)
}

func TestParseTD3RepairsDigitSubstitutions(t *testing.T) {
	lines := specimenTD3()
	// OCR reading 0 as O and 1 as I inside the birth date field.
	l2 := []byte(lines[1])
	copy(l2[13:19], "74O8I2")
	lines[1] = string(l2)

	r, err := Parse(lines)
	require.NoError(t, err)
	assert.Equal(t, "12/08/1974", r.BirthDate)
	assert.True(t, r.BirthDateOK)
}

func TestParseTD1(t *testing.T) {
	r, err := Parse(specimenTD1())
	require.NoError(t, err)

	assert.Equal(t, FormatTD1, r.Format)
	assert.Equal(t, "I", r.DocumentCode)
	assert.Equal(t, "UTO", r.IssuingState)
	assert.Equal(t, "D23145890", r.DocumentNumber)
	assert.True(t, r.DocumentNumberOK)
	assert.Equal(t, "12/08/1974", r.BirthDate)
	assert.True(t, r.BirthDateOK)
	assert.Equal(t, "F", r.Sex)
	assert.Equal(t, "15/04/2012", r.ExpiryDate)
	assert.True(t, r.ExpiryDateOK)
	assert.Equal(t, "UTO", r.Nationality)
	assert.Equal(t, "ERIKSSON", r.Surname)
	assert.Equal(t, "ANNA MARIA", r.GivenNames)
	assert.True(t, r.ChecksumValid)
}

func TestParseFormatErrors(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
	}{
		{"no lines", nil},
		{"one line", specimenTD3()[:1]},
		{"four lines", append(specimenTD1(), "EXTRA<LINE<<<<<<<<<<<<<<<<<<<<")},
		{"td3 line far too short", []string{"P<UTOERIKSSON<<ANNA", specimenTD3()[1]}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.lines)
			assert.ErrorIs(t, err, ErrFormat)
		})
	}
}

func TestParseTolerantsTruncatedFiller(t *testing.T) {
	lines := specimenTD3()
	// OCR frequently eats a few trailing filler characters on the name line.
	lines[0] = lines[0][:41]

	r, err := Parse(lines)
	require.NoError(t, err)
	assert.Equal(t, "ERIKSSON", r.Surname)
	assert.True(t, r.ChecksumValid)
}

func TestCheckDigit(t *testing.T) {
	tests := []struct {
		field string
		want  int
	}{
		{"L898902C3", 6},
		{"740812", 2},
		{"120415", 9},
		{"ZE184226B<<<<<", 1},
		{"<<<<<<", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CheckDigit(tt.field), "field %q", tt.field)
	}
}

func TestCheckDigitDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, 6, CheckDigit("L898902C3"))
	}
}

func TestLocate(t *testing.T) {
	raw := "REPUBBLICA ITALIANA\nPASSAPORTO\n" +
		"Cognome: ERIKSSON\n" +
		specimenTD3()[0] + "\n" +
		specimenTD3()[1] + "\n"

	lines := Locate(raw)
	require.Len(t, lines, 2)

	r, err := Parse(lines)
	require.NoError(t, err)
	assert.True(t, r.ChecksumValid)
}

func TestLocateStripsNoiseCharacters(t *testing.T) {
	raw := "header text\n" +
		"P< UTOERIKSSON<<ANNA<MARIA" + strings.Repeat("<", 19) + "\n" +
		"L898902C36UTO7408122F1204159ZE184226B<<<<<10\n"

	lines := Locate(raw)
	require.Len(t, lines, 2)
	assert.NotContains(t, lines[0], " ")
}

func TestLocateNoMRZ(t *testing.T) {
	assert.Nil(t, Locate("COGNOME: ROSSI\nNOME: MARIO\n"))
}

func TestLocateTD1NeedsThreeLines(t *testing.T) {
	raw := strings.Join(specimenTD1(), "\n")
	lines := Locate(raw)
	require.Len(t, lines, 3)

	r, err := Parse(lines)
	require.NoError(t, err)
	assert.Equal(t, FormatTD1, r.Format)

	// Two TD1-sized lines alone are not treated as a zone.
	assert.Nil(t, Locate(strings.Join(specimenTD1()[:2], "\n")))
}
