package textproc

import (
	"regexp"
	"sort"
	"strings"

	"github.com/MichealVosko/Unified-Coding-Portal/internal/core/domain"
)

// Field extraction runs on normalized, unmasked text. Every rule is total:
// a miss yields the empty value, never an error, so a record is always
// producible from partial data.

var (
	nameLineRe  = regexp.MustCompile(`(?m)^([A-Z][A-Z\s\-']+,\s*[A-Za-z][A-Za-z\s\-']+)`)
	nameFieldRe = regexp.MustCompile(`(?i)Patient:\s*([A-Za-z ,]+?)(?:\s+Provider:|\s+DOB:)`)
	dobRe       = regexp.MustCompile(`(?i)DOB:\s*(\d{2}/\d{2}/\d{4})`)
	dosRe       = regexp.MustCompile(`(?i)DOS:\s*(\d{2}/\d{2}/\d{4})`)
	ageRe       = regexp.MustCompile(`(?i)(?:\(|Age:\s*)(\d+\s*(?:yo|mo|wo|y))`)
	accountRe   = regexp.MustCompile(`(?i)Acc(?:ount)?\s*No\.?:?\s*(\d+)`)
	providerRe  = regexp.MustCompile(`(?i)Provider:\s*([A-Za-z ,.]+MD)`)
	icdRe       = regexp.MustCompile(`\b[A-Z]\d{2}(?:\.\d{1,4})?\b`)
	cptBlockRe  = regexp.MustCompile(`(?is)Procedure Codes:(.*?)(?:Preventive Medicine:|Provider:|$)`)
	cptCodeRe   = regexp.MustCompile(`\b\d{5}\b`)
	testLogRe   = regexp.MustCompile(`(?i)\b(Flu A|Flu B|Covid-19)\s+(POSITIVE|NEGATIVE)\b`)
)

func extractGroup(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// PatientName tries the leading "LAST, First" line first, then the inline
// "Patient:" field. A trailing DOB fragment captured by the line pattern
// is trimmed off.
func PatientName(text string) string {
	if name := extractGroup(nameLineRe, text); name != "" {
		if idx := strings.Index(name, "DOB"); idx >= 0 {
			name = name[:idx]
		}
		return strings.TrimSpace(name)
	}
	return extractGroup(nameFieldRe, text)
}

func DOB(text string) string { return extractGroup(dobRe, text) }

func ServiceDate(text string) string { return extractGroup(dosRe, text) }

func Age(text string) string { return extractGroup(ageRe, text) }

func AccountNumber(text string) string { return extractGroup(accountRe, text) }

func Provider(text string) string { return extractGroup(providerRe, text) }

// ICDCodesSorted returns every ICD-10-shaped substring as a sorted set,
// the ordering used for flat reference listings.
func ICDCodesSorted(text string) []string {
	codes := ICDCodesInOrder(text)
	sort.Strings(codes)
	return codes
}

// ICDCodesInOrder returns ICD-10-shaped substrings deduplicated in
// first-seen order, the ordering used for diagnosis-section listings.
func ICDCodesInOrder(text string) []string {
	seen := make(map[string]struct{})
	var codes []string
	for _, code := range icdRe.FindAllString(text, -1) {
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	return codes
}

// ReferencedCPTCodes pulls the 5-digit codes already written into the
// note's procedure-codes block, as a sorted set.
func ReferencedCPTCodes(text string) []string {
	m := cptBlockRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var codes []string
	for _, code := range cptCodeRe.FindAllString(m[1], -1) {
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// TestingLog scans for known point-of-care tests paired with a result
// token, preserving encounter order.
func TestingLog(text string) []domain.TestEntry {
	var entries []domain.TestEntry
	for _, m := range testLogRe.FindAllStringSubmatch(text, -1) {
		entries = append(entries, domain.TestEntry{
			Test:   m[1],
			Result: strings.ToUpper(m[2]),
		})
	}
	return entries
}

// ExtractDemographics runs every field rule over the normalized text and
// merges the results. Absent fields stay empty.
func ExtractDemographics(text string) domain.Demographics {
	text = Normalize(text)
	return domain.Demographics{
		PatientName:   PatientName(text),
		DOB:           DOB(text),
		Age:           Age(text),
		ServiceDate:   ServiceDate(text),
		AccountNumber: AccountNumber(text),
		ProviderName:  Provider(text),
		TestingLog:    TestingLog(text),
		CPTCodes:      ReferencedCPTCodes(text),
		ICDCodes:      ICDCodesSorted(text),
	}
}
