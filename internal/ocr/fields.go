package ocr

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Confidence is a coarse label reflecting pattern-match specificity,
// not a calibrated probability.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Field names used as keys in parse results. CPF and RG keep their
// uppercase spelling to match the persisted record shape.
const (
	FieldName    = "name"
	FieldMother  = "mother"
	FieldFather  = "father"
	FieldCPF     = "CPF"
	FieldRG      = "RG"
	FieldAddress = "address"
	FieldDOB     = "dob"
	FieldPhone   = "phone"
	FieldEmail   = "email"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	nonDigitRe   = regexp.MustCompile(`\D`)

	cpfRe      = regexp.MustCompile(`\d{3}[.\s]?\d{3}[.\s]?\d{3}[-.\s]?\d{2}`)
	cpfShapeRe = regexp.MustCompile(`\d{3}[.\s]?\d{3}[.\s]?\d{3}`)
	rgRe       = regexp.MustCompile(`\d{2}[.\s]?\d{3}[.\s]?\d{3}[-.\s]?[\dxX]|\d{1,2}[.\s]?\d{3}[.\s]?\d{3}`)

	nameRe    = regexp.MustCompile(`(?i)nome:?\s*([^\n]+)`)
	motherRe  = regexp.MustCompile(`(?i)m[ãa]e:?\s*([^\n]+)`)
	fatherRe  = regexp.MustCompile(`(?i)pai:?\s*([^\n]+)`)
	addressRe = regexp.MustCompile(`(?i)(?:endere[çc]o|resid[êe]ncia|rua|av|avenida):?\s*([^\n]+)`)
	dobRe     = regexp.MustCompile(`(?i)(?:data\s+de\s+nascimento|nascimento|dt\s+nasc)[:\s]*(\d{2}[/\-.]\d{2}[/\-.]\d{2,4})`)
	phoneRe   = regexp.MustCompile(`(?i)(?:telefone|tel|fone|celular)[:\s]*(\(?\d{2}\)?[\s\-.]?\d{4,5}[\s\-.]?\d{4})`)
	emailRe   = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	dateSepRe = regexp.MustCompile(`[/\-.]`)
)

// ParseFields extracts candidate form-field values from recognized text.
// It returns only the fields that matched, with a confidence label per
// populated field. It never fails; text with no recognizable labels yields
// empty maps.
func ParseFields(text string) (map[string]string, map[string]Confidence) {
	return parseFields(text, time.Now().Year())
}

func parseFields(text string, currentYear int) (map[string]string, map[string]Confidence) {
	data := map[string]string{}
	scores := map[string]Confidence{}

	if strings.TrimSpace(text) == "" {
		return data, scores
	}

	// Identifier patterns match against lowercase, whitespace-collapsed text.
	normalized := whitespaceRe.ReplaceAllString(strings.ToLower(text), " ")

	if m := cpfRe.FindString(normalized); m != "" {
		data[FieldCPF] = digitsOnly(m)
		scores[FieldCPF] = ConfidenceHigh
	}

	// RG candidates that also look like a CPF are discarded.
	for _, m := range rgRe.FindAllString(normalized, -1) {
		if cpfShapeRe.MatchString(m) {
			continue
		}
		data[FieldRG] = digitsOnly(m)
		scores[FieldRG] = ConfidenceHigh
		break
	}

	if m := nameRe.FindStringSubmatch(text); m != nil {
		data[FieldName] = strings.TrimSpace(m[1])
		scores[FieldName] = ConfidenceMedium
	}
	if m := motherRe.FindStringSubmatch(text); m != nil {
		data[FieldMother] = strings.TrimSpace(m[1])
		scores[FieldMother] = ConfidenceMedium
	}
	if m := fatherRe.FindStringSubmatch(text); m != nil {
		data[FieldFather] = strings.TrimSpace(m[1])
		scores[FieldFather] = ConfidenceMedium
	}
	if m := addressRe.FindStringSubmatch(text); m != nil {
		data[FieldAddress] = strings.TrimSpace(m[1])
		scores[FieldAddress] = ConfidenceMedium
	}

	if m := dobRe.FindStringSubmatch(text); m != nil {
		if iso, ok := normalizeDOB(m[1], currentYear); ok {
			data[FieldDOB] = iso
			scores[FieldDOB] = ConfidenceMedium
		}
	}

	if m := phoneRe.FindStringSubmatch(text); m != nil {
		data[FieldPhone] = digitsOnly(m[1])
		scores[FieldPhone] = ConfidenceMedium
	}

	if m := emailRe.FindString(text); m != "" {
		data[FieldEmail] = strings.ToLower(m)
		scores[FieldEmail] = ConfidenceHigh
	}

	return data, scores
}

// normalizeDOB converts dd/mm/yy(yy) (also - and . separators) to
// yyyy-mm-dd. Two-digit years are expanded with the current century and
// rolled back one century when the result would be in the future.
func normalizeDOB(raw string, currentYear int) (string, bool) {
	parts := dateSepRe.Split(raw, -1)
	if len(parts) != 3 {
		return "", false
	}

	day, month, yearStr := parts[0], parts[1], parts[2]

	if len(yearStr) == 2 {
		n, err := strconv.Atoi(yearStr)
		if err != nil {
			return "", false
		}
		century := currentYear / 100 * 100
		year := century + n
		if year > currentYear {
			year -= 100
		}
		yearStr = strconv.Itoa(year)
	}

	// day and month are fixed two-digit captures
	return fmt.Sprintf("%s-%s-%s", yearStr, month, day), true
}

func digitsOnly(s string) string {
	return nonDigitRe.ReplaceAllString(s, "")
}
