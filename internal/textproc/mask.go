package textproc

import "regexp"

// maskRule is one substring replacement. Rules run in declaration order:
// field-specific patterns (DOB, account number) must consume their digits
// before the catch-all date rule, or their placeholders would never apply.
type maskRule struct {
	name        string
	pattern     *regexp.Regexp
	replacement string
}

var maskRules = []maskRule{
	{
		name:        "name_line",
		pattern:     regexp.MustCompile(`(?m)^([A-Z][A-Z\s\-']+,\s*[A-Za-z][A-Za-z\s\-']+)`),
		replacement: "[PATIENT_NAME]",
	},
	{
		name:        "name_field",
		pattern:     regexp.MustCompile(`(?i)Patient:\s*[A-Za-z ,]+?(\s+Provider:|\s+DOB:)`),
		replacement: "Patient: [PATIENT_NAME]$1",
	},
	{
		name:        "dob",
		pattern:     regexp.MustCompile(`\bDOB:\s*\d{1,2}/\d{1,2}/\d{2,4}\b`),
		replacement: "DOB: [DOB]",
	},
	{
		name:        "age",
		pattern:     regexp.MustCompile(`(?i)Age:\s*\d+\s*(?:mo|yo|y|d)`),
		replacement: "Age: [AGE]",
	},
	{
		name:        "account_number",
		pattern:     regexp.MustCompile(`\bAcc No\.:?\s*\d+\b`),
		replacement: "Acc No.: [ACCOUNT_NUMBER]",
	},
	{
		name:        "provider",
		pattern:     regexp.MustCompile(`Provider:\s*[A-Za-z ,.]+MD`),
		replacement: "Provider: [PROVIDER]",
	},
	{
		name:        "phone",
		pattern:     regexp.MustCompile(`\b\d{3}-\d{3}-\d{4}\b`),
		replacement: "[PHONE]",
	},
	{
		name:        "address",
		pattern:     regexp.MustCompile(`\d{1,5}\s+[A-Za-z0-9\s,.-]+, [A-Za-z\s]+, [A-Z]{2}-\d{5}`),
		replacement: "[ADDRESS]",
	},
	{
		name:        "date",
		pattern:     regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`),
		replacement: "[DATE]",
	},
	{
		name:        "url",
		pattern:     regexp.MustCompile(`https?://\S+`),
		replacement: "[URL]",
	},
}

// MaskPHI replaces identifying substrings with fixed placeholder tokens.
// It must run before any text leaves the process. Idempotent: placeholders
// contain no digits or name-shaped text, so re-masking is a no-op.
func MaskPHI(text string) string {
	for _, rule := range maskRules {
		text = rule.pattern.ReplaceAllString(text, rule.replacement)
	}
	return text
}
