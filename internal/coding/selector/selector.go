package selector

import (
	"context"
	"log/slog"
	"time"

	"github.com/MichealVosko/Unified-Coding-Portal/internal/coding/cptmap"
	"github.com/MichealVosko/Unified-Coding-Portal/internal/core/domain"
	"github.com/MichealVosko/Unified-Coding-Portal/internal/core/ports"
	"github.com/MichealVosko/Unified-Coding-Portal/internal/textproc"
)

// HolidayCode is the administrative surcharge billed for service on an
// observed holiday.
const HolidayCode = "99051"

// AllowedEMCodes is the fixed office-visit E/M enumeration: new and
// established patient, levels 1-5.
var AllowedEMCodes = []domain.CPTCandidate{
	{Code: "99201", Description: "Office visit for a new patient, level 1"},
	{Code: "99202", Description: "Office visit for a new patient, level 2"},
	{Code: "99203", Description: "Office visit for a new patient, level 3"},
	{Code: "99204", Description: "Office visit for a new patient, level 4"},
	{Code: "99205", Description: "Office visit for a new patient, level 5"},
	{Code: "99211", Description: "Office visit for an established patient, level 1"},
	{Code: "99212", Description: "Office visit for an established patient, level 2"},
	{Code: "99213", Description: "Office visit for an established patient, level 3"},
	{Code: "99214", Description: "Office visit for an established patient, level 4"},
	{Code: "99215", Description: "Office visit for an established patient, level 5"},
}

const serviceDateLayout = "01/02/2006"

// Selector turns predicted categories into the final billable code set.
// The reasoning service behind the CodePicker port is untrusted: every
// code it emits is filtered against the allowed universe before use.
type Selector struct {
	picker   ports.CodePicker
	holidays ports.HolidayCalendar
	mapping  *cptmap.Mapping
	logger   *slog.Logger
}

func New(picker ports.CodePicker, holidays ports.HolidayCalendar, mapping *cptmap.Mapping, logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{
		picker:   picker,
		holidays: holidays,
		mapping:  mapping,
		logger:   logger,
	}
}

// Select restricts the code universe to the predicted categories,
// delegates selection, appends the E/M choice for office visits and the
// holiday surcharge when the service date is an observed holiday.
//
// A collaborator failure never aborts the caller's batch: selection
// degrades to whatever was accumulated before the failure.
func (s *Selector) Select(ctx context.Context, maskedText string, categories []domain.TopLevelCategory, serviceDate string) []string {
	subtree := s.mapping.Subtree(categories)
	if len(subtree) == 0 {
		// No grounding category means no call is made at all.
		return nil
	}

	allowed := make(map[string]struct{})
	for _, cc := range subtree {
		for _, cand := range cc.Codes {
			allowed[cand.Code] = struct{}{}
		}
	}

	referenced := textproc.ReferencedCPTCodes(maskedText)

	var selected []string
	chosen := make(map[string]struct{})
	add := func(code string) {
		if _, ok := chosen[code]; ok {
			return
		}
		chosen[code] = struct{}{}
		selected = append(selected, code)
	}

	picked, err := s.picker.PickCodes(ctx, maskedText, subtree, referenced)
	if err != nil {
		s.logger.Warn("cpt selection failed, keeping partial result", "error", err)
		return selected
	}
	for _, code := range picked {
		if _, ok := allowed[code]; !ok {
			s.logger.Warn("dropping code outside allowed universe", "code", code)
			continue
		}
		add(code)
	}

	if hasCategory(categories, domain.CategoryOfficeVisits) {
		em, err := s.picker.PickEM(ctx, maskedText, AllowedEMCodes)
		if err != nil {
			s.logger.Warn("e/m selection failed, keeping partial result", "error", err)
			return selected
		}
		if isAllowedEM(em) {
			add(em)
		} else if em != "" {
			s.logger.Warn("dropping e/m code outside enumeration", "code", em)
		}
	}

	if s.isHolidayService(serviceDate) {
		add(HolidayCode)
	}

	return selected
}

func (s *Selector) isHolidayService(serviceDate string) bool {
	if serviceDate == "" || s.holidays == nil {
		return false
	}
	date, err := time.Parse(serviceDateLayout, serviceDate)
	if err != nil {
		// Unparsable dates skip the surcharge rule rather than failing.
		return false
	}
	return s.holidays.IsHoliday(date)
}

func hasCategory(categories []domain.TopLevelCategory, want domain.TopLevelCategory) bool {
	for _, c := range categories {
		if c == want {
			return true
		}
	}
	return false
}

func isAllowedEM(code string) bool {
	for _, cand := range AllowedEMCodes {
		if cand.Code == code {
			return true
		}
	}
	return false
}
