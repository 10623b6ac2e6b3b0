package domain

import (
	"sort"
	"strings"
)

// Document is one uploaded SOAP note. It lives only for the duration of
// processing; the filename is its identity within a batch.
type Document struct {
	ID       string
	Filename string
	Content  []byte
}

// TestEntry is one point-of-care test with its result, in encounter order.
type TestEntry struct {
	Test   string `json:"test"`
	Result string `json:"result"`
}

// Demographics holds the structured fields pulled from a note. Every field
// is optional; the empty value means the pattern did not match, which is a
// valid outcome rather than an error.
type Demographics struct {
	PatientName   string
	DOB           string
	Age           string
	ServiceDate   string
	AccountNumber string
	ProviderName  string
	TestingLog    []TestEntry
	CPTCodes      []string
	ICDCodes      []string
}

// Record is one output row per processed document. Immutable once built.
type Record struct {
	Filename            string `json:"filename"`
	PatientName         string `json:"patient_name"`
	DOB                 string `json:"dob"`
	Age                 string `json:"age"`
	ServiceDate         string `json:"service_date"`
	ProviderName        string `json:"provider_name"`
	AccountNumber       string `json:"account_number"`
	PredictedCategories string `json:"predicted_categories"`
	ICDCodes            string `json:"icd_codes"`
	CPTCodesExtracted   string `json:"cpt_codes_extracted"`
	FinalCPTCodes       string `json:"final_cpt_codes"`
	Comment             string `json:"comment,omitempty"`
}

// NewRecord assembles the row for one document. Final codes are
// deduplicated and sorted; category names keep their canonical spelling.
func NewRecord(filename string, demo Demographics, categories []TopLevelCategory, finalCodes []string) Record {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, string(c))
	}
	return Record{
		Filename:            filename,
		PatientName:         demo.PatientName,
		DOB:                 demo.DOB,
		Age:                 demo.Age,
		ServiceDate:         demo.ServiceDate,
		ProviderName:        demo.ProviderName,
		AccountNumber:       demo.AccountNumber,
		PredictedCategories: strings.Join(names, ", "),
		ICDCodes:            strings.Join(demo.ICDCodes, ", "),
		CPTCodesExtracted:   strings.Join(demo.CPTCodes, ", "),
		FinalCPTCodes:       strings.Join(sortedUnique(finalCodes), ", "),
	}
}

// ErrorRecord is the placeholder row for a document whose processing timed
// out or failed outright; all fields stay blank except the comment.
func ErrorRecord(filename, comment string) Record {
	return Record{
		Filename: filename,
		Comment:  comment,
	}
}

func sortedUnique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
