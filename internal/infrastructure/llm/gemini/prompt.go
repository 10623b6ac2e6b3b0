package gemini

import (
	"fmt"
	"strings"

	"github.com/MichealVosko/Unified-Coding-Portal/internal/core/domain"
)

const categoriesPromptTemplate = `You are a medical coding classification system.

Your task is to identify which TOP-LEVEL CPT CATEGORIES are clearly and
explicitly supported by the SOAP note.

You must ONLY choose from the allowed categories listed below.
Do NOT invent new categories.
Do NOT infer or assume.
If a category is not explicitly billable based on the documentation,
do NOT include it.

Allowed top-level categories:
%s

STRICT DEFINITIONS (follow exactly):

1. Office and Patient Visits
- Include ONLY if a patient encounter occurred AND a clinical evaluation was performed.
- Presence of Subjective, Objective, Assessment, and Plan counts as a visit.

2. Procedures
- Include ONLY if a procedure was actually performed during the encounter.
- Examples: incision, injection, nebulization administered in-office, imaging performed in-office.
- Do NOT include for:
  - laboratory tests
  - orders, referrals, or prescriptions
  - imaging or procedures that were only ordered

3. Laboratory and Diagnostic Tests
- Include ONLY if a lab or diagnostic test was performed and resulted.
- Examples: rapid flu, RSV, COVID tests with results.
- Do NOT include if the test was only ordered.

4. Vaccines and Immunizations
- Include ONLY if vaccines were administered during the visit.
- Do NOT include if vaccines were discussed, planned, or deferred.

5. Nutrition and Counseling
- Include ONLY if billable counseling or nutrition therapy was provided.
- Must involve documented counseling beyond routine advice.
- Examples: obesity counseling, nutrition therapy, time-based counseling.
- Do NOT include for:
  - routine patient education
  - reassurance, supportive care, anticipatory guidance
  - general discussion of illness or home care

6. Medications and Injectable Drugs
- Include ONLY if medications or injections were administered in-office.
- Do NOT include if medications were only prescribed or listed as home meds.

7. Administrative and Billing
- Include ONLY if administrative or billing services were performed.
- Examples: after-hours services (99051), reporting, billing modifiers.
- Do NOT include for routine visit documentation alone.

SOAP note:
"""
%s
"""

Return output strictly as valid JSON: {"categories": ["..."]}
- Do NOT include explanations
- Do NOT include extra keys
- Do NOT include categories not in the allowed list
`

const selectionPromptTemplate = `You are a CPT medical coding system.

Your task is to determine the EXACT CPT CODES to bill for THIS ENCOUNTER ONLY
based strictly on what was performed, administered, or evaluated on the date of service.

You MUST select only from the allowed CPT list provided.
Do NOT guess.
Do NOT invent codes.
If documentation is ambiguous or incomplete, DO NOT select the CPT.

SOAP note:
%s

Allowed CPT codes:
%s

CPT codes already appearing in SOAP (consider as likely candidates, include only if rules are met):
%s

CRITICAL RULES (must follow):

1. TEMPORAL RULES
- Do NOT select CPTs for prior visits, historical tests, or past dates.
- Do NOT select labs or diagnostic CPTs that are:
  - pending
  - planned
  - ordered but not resulted during this encounter

2. PROCEDURES
- Select procedure CPTs ONLY if the procedure was actually performed and completed during this visit.

3. MEDICATIONS
- Continuing existing medications alone does NOT justify higher E/M.
- Prescription changes or new medications must be explicitly documented.

4. ADMINISTRATIVE / SCREENING CODES
- Select ONLY if explicitly documented as performed during this encounter.
- Do NOT select based on assumptions or general discussion.

OUTPUT RULES:
- Return ONLY valid JSON.
- Do NOT include explanations.
- Do NOT include CPTs not in the allowed list.
- Do NOT include CPTs unless ALL criteria for that CPT are fully met.

Return JSON:
{
  "selected_cpt_codes": [
    { "cpt": "12345", "description": "Example Description" }
  ]
}
`

const emPromptTemplate = `You are a professional medical coder.

Based on the SOAP note, select the SINGLE most appropriate CPT code
from the allowed Office Visit and Preventive Visit codes below.

CPT SELECTION RULES

1. WELL-CHILD/MINOR ACUTE VISITS:
- If this is a pediatric/well-child visit and the patient has only minor acute complaints (e.g., cough, congestion, sore throat, mild viral illness, medication refill), always code 99213.
- Do NOT escalate to 99214 or higher for minor complaints during a preventive or well-child visit.

2. LOW COMPLEXITY (99202, 99203, 99212, 99213):
- 99202: 1 self-limited or minor problem
- 99203/99212/99213: 2 or more self-limited or minor problems, or 1 stable chronic illness, or 1 acute uncomplicated illness or injury

3. MODERATE COMPLEXITY (99204, 99214):
- 1 acute illness with systemic symptoms
- OR 1 or more chronic problems with progression/exacerbation/adverse effects
- OR 2 or more stable chronic illnesses
- OR 1 undiagnosed new problem with uncertain prognosis
- OR 1 acute complicated injury or hospital/observation-level care

4. HIGH COMPLEXITY (99205, 99215):
- 1 or more chronic illnesses with severe progression/exacerbation/adverse effects
- OR 1 acute or chronic illness/injury that poses a threat to life or body function

5. DATA REVIEW & MDM:
- Ignore routine labs, vaccines, and medication refills unless they clearly affect MDM
- Use MDM rules only when documentation explicitly supports moderate/high complexity
- Prefer the lower code if documentation is borderline

ADDITIONAL RULES
- Minor acute complaints in well-child or preventive visits must be coded 99213, no matter the number of medications or lab mentions.
- Always select the lowest appropriate code if borderline.
- Output JSON ONLY, no explanation: {"em_code": "99213"}
- Select ONE CPT code only.

ALLOWED CPT CODES
%s

SOAP NOTE
"""
%s
"""
`

func buildCategoriesPrompt(maskedText string) string {
	names := make([]string, 0, len(domain.AllCategories()))
	for _, c := range domain.AllCategories() {
		names = append(names, "- "+string(c))
	}
	return fmt.Sprintf(categoriesPromptTemplate, strings.Join(names, "\n"), maskedText)
}

func buildSelectionPrompt(maskedText string, allowed []domain.CategoryCodes, referenced []string) string {
	return fmt.Sprintf(
		selectionPromptTemplate,
		maskedText,
		serializeCodeTree(allowed),
		strings.Join(referenced, "\n"),
	)
}

func buildEMPrompt(maskedText string, allowed []domain.CPTCandidate) string {
	lines := make([]string, 0, len(allowed))
	for _, cand := range allowed {
		lines = append(lines, fmt.Sprintf("%s - %s", cand.Code, cand.Description))
	}
	return fmt.Sprintf(emPromptTemplate, strings.Join(lines, "\n"), maskedText)
}

// serializeCodeTree renders the allowed universe grouped by category, the
// shape the selection rules reference.
func serializeCodeTree(allowed []domain.CategoryCodes) string {
	var b strings.Builder
	for _, cc := range allowed {
		b.WriteString(string(cc.Category))
		b.WriteString("\n")
		for _, cand := range cc.Codes {
			fmt.Fprintf(&b, "  %s - %s\n", cand.Code, cand.Description)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
