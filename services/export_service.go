package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pillflow-backend/models"

	"github.com/xuri/excelize/v2"
)

const (
	PackChecksSheet = "Pack checks"
	ScanOutsSheet   = "Scan outs"
)

var (
	packCheckHeader = []string{"Checked at", "Customer ID", "Customer", "Webster pack", "Pack type", "Pharmacist", "Status", "Entries", "Incorrect", "Notes"}
	scanOutHeader   = []string{"Scanned at", "Customer ID", "Customer", "Webster pack", "Pack type", "Pharmacist", "Status", "Updated at", "Notes"}
)

// ExportService renders the caller's history lists as a spreadsheet.
type ExportService struct {
	packChecks *PackCheckService
	scanOuts   *ScanOutService
}

// History returns an xlsx workbook holding the same rows as the pack-check
// and scan-out lists.
func (s *ExportService) History(ctx context.Context) ([]byte, error) {
	checks, err := s.packChecks.List(ctx)
	if err != nil {
		return nil, err
	}
	scanOuts, err := s.scanOuts.List(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", PackChecksSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(ScanOutsSheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	rows := make([][]interface{}, 0, len(checks))
	for _, c := range checks {
		incorrect := 0
		for _, m := range c.CheckedMedications {
			if !m.Correct {
				incorrect++
			}
		}
		code, name := summaryCells(c.Customer)
		rows = append(rows, []interface{}{
			c.CreatedAt.Format(time.RFC3339), code, name, c.WebsterPackID, string(c.PackType),
			c.PharmacistInitials, string(c.Status), len(c.CheckedMedications), incorrect, deref(c.Notes),
		})
	}
	if err := writeSheet(f, PackChecksSheet, packCheckHeader, rows, headerStyle); err != nil {
		return nil, err
	}

	rows = make([][]interface{}, 0, len(scanOuts))
	for _, o := range scanOuts {
		code, name := summaryCells(o.Customer)
		rows = append(rows, []interface{}{
			o.CreatedAt.Format(time.RFC3339), code, name, o.WebsterPackID, string(o.PackType),
			o.PharmacistInitials, string(o.Status), o.UpdatedAt.Format(time.RFC3339), deref(o.Notes),
		})
	}
	if err := writeSheet(f, ScanOutsSheet, scanOutHeader, rows, headerStyle); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]interface{}, headerStyle int) error {
	for col, title := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return fmt.Errorf("set header %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("style header %s: %w", cell, err)
		}
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row cell: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

func summaryCells(c *models.CustomerSummary) (string, string) {
	if c == nil {
		return "", ""
	}
	return c.CustomerID, strings.TrimSpace(c.FirstName + " " + c.LastName)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
