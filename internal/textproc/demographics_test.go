package textproc

import (
	"reflect"
	"strings"
	"testing"

	"github.com/MichealVosko/Unified-Coding-Portal/internal/core/domain"
)

const headerNote = `SMITH, JANE
DOB: 03/04/1980 DOS: 07/04/2023
Acc No.: 445566
Age: 43 yo
Provider: John Adams, MD`

func TestExtractDemographicsHeaderNote(t *testing.T) {
	demo := ExtractDemographics(headerNote)

	if demo.PatientName != "SMITH, JANE" {
		t.Fatalf("PatientName = %q, want %q", demo.PatientName, "SMITH, JANE")
	}
	if demo.DOB != "03/04/1980" {
		t.Fatalf("DOB = %q, want %q", demo.DOB, "03/04/1980")
	}
	if demo.ServiceDate != "07/04/2023" {
		t.Fatalf("ServiceDate = %q, want %q", demo.ServiceDate, "07/04/2023")
	}
	if demo.Age != "43 yo" {
		t.Fatalf("Age = %q, want %q", demo.Age, "43 yo")
	}
	if demo.AccountNumber != "445566" {
		t.Fatalf("AccountNumber = %q, want %q", demo.AccountNumber, "445566")
	}
	if demo.ProviderName != "John Adams, MD" {
		t.Fatalf("ProviderName = %q, want %q", demo.ProviderName, "John Adams, MD")
	}
}

func TestPatientNameFallsBackToInlineField(t *testing.T) {
	got := PatientName("Patient: Mary Poppins DOB: 01/01/2000")
	if got != "Mary Poppins" {
		t.Fatalf("PatientName = %q, want %q", got, "Mary Poppins")
	}
}

func TestPatientNameAbsent(t *testing.T) {
	if got := PatientName("no identifying header here"); got != "" {
		t.Fatalf("PatientName = %q, want empty", got)
	}
}

func TestAgeVariants(t *testing.T) {
	cases := map[string]string{
		"Age: 43 yo":      "43 yo",
		"Age: 5 mo":       "5 mo",
		"Age: 2 wo":       "2 wo",
		"Jane Doe (30 y)": "30 y",
		"no age":          "",
	}
	for in, want := range cases {
		if got := Age(in); got != want {
			t.Fatalf("Age(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAccountNumberVariants(t *testing.T) {
	cases := map[string]string{
		"Acc No.: 445566":    "445566",
		"Acc No. 445566":     "445566",
		"Account No: 998877": "998877",
		"no account":         "",
	}
	for in, want := range cases {
		if got := AccountNumber(in); got != want {
			t.Fatalf("AccountNumber(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestICDCodeOrderings(t *testing.T) {
	in := "Assessment: J06.9 upper respiratory infection, A00 noted, J06.9 again, E11.9 diabetes"

	inOrder := ICDCodesInOrder(in)
	if want := []string{"J06.9", "A00", "E11.9"}; !reflect.DeepEqual(inOrder, want) {
		t.Fatalf("ICDCodesInOrder = %v, want %v", inOrder, want)
	}

	sorted := ICDCodesSorted(in)
	if want := []string{"A00", "E11.9", "J06.9"}; !reflect.DeepEqual(sorted, want) {
		t.Fatalf("ICDCodesSorted = %v, want %v", sorted, want)
	}
}

func TestReferencedCPTCodes(t *testing.T) {
	in := "Plan: rapid testing\nProcedure Codes: 87807, 87804, 87807\nProvider: John Adams, MD"

	got := ReferencedCPTCodes(in)
	if want := []string{"87804", "87807"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("ReferencedCPTCodes = %v, want %v", got, want)
	}

	if got := ReferencedCPTCodes("no procedure block, code 87804 elsewhere"); got != nil {
		t.Fatalf("ReferencedCPTCodes without block = %v, want nil", got)
	}
}

func TestTestingLog(t *testing.T) {
	in := "Objective: Flu A POSITIVE, Flu B NEGATIVE, Covid-19 negative"

	got := TestingLog(in)
	want := []domain.TestEntry{
		{Test: "Flu A", Result: "POSITIVE"},
		{Test: "Flu B", Result: "NEGATIVE"},
		{Test: "Covid-19", Result: "NEGATIVE"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("TestingLog = %v, want %v", got, want)
	}
}

// A scanned note recovered through OCR carries the demographic literals in
// the raw text; extraction reads the pre-mask form while the masked form
// replaces both literals with placeholders.
func TestDemographicsSurviveMasking(t *testing.T) {
	raw := "DOB: 01/02/1990\nAcc No.: 445566"
	normalized := Normalize(raw)

	demo := ExtractDemographics(normalized)
	if demo.DOB != "01/02/1990" {
		t.Fatalf("DOB = %q, want %q", demo.DOB, "01/02/1990")
	}
	if demo.AccountNumber != "445566" {
		t.Fatalf("AccountNumber = %q, want %q", demo.AccountNumber, "445566")
	}

	masked := MaskPHI(normalized)
	for _, literal := range []string{"01/02/1990", "445566"} {
		if strings.Contains(masked, literal) {
			t.Fatalf("masked text %q still contains %q", masked, literal)
		}
	}
	for _, placeholder := range []string{"[DOB]", "[ACCOUNT_NUMBER]"} {
		if !strings.Contains(masked, placeholder) {
			t.Fatalf("masked text %q missing %q", masked, placeholder)
		}
	}
}
