package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/MichealVosko/Unified-Coding-Portal/internal/core/domain"
)

const sheetName = "Results"

var headers = []string{
	"Filename",
	"Patient Name",
	"DOB",
	"Age",
	"Service Date",
	"Provider Name",
	"Account Number",
	"Predicted Categories",
	"ICD Codes",
	"CPT Codes Extracted",
	"Final CPT Codes",
	"Comment",
}

// WriteXLSX writes coding records to a single-sheet workbook at path.
func WriteXLSX(path string, records []domain.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell name: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for i, rec := range records {
		values := []string{
			rec.Filename,
			rec.PatientName,
			rec.DOB,
			rec.Age,
			rec.ServiceDate,
			rec.ProviderName,
			rec.AccountNumber,
			rec.PredictedCategories,
			rec.ICDCodes,
			rec.CPTCodesExtracted,
			rec.FinalCPTCodes,
			rec.Comment,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("write cell: %w", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
