package services

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportPendingStaff renders the full verification queue as an xlsx
// workbook for offline review by administrators.
func (s *accountService) ExportPendingStaff(ctx context.Context, callerID string) ([]byte, error) {
	if err := s.requireAdmin(ctx, callerID, "export_pending_staff"); err != nil {
		return nil, err
	}

	accounts, _, err := s.repo.Account().ListPendingStaff(ctx, AccountFilters{})
	if err != nil {
		return nil, NewStoreError("export pending staff", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Pending Staff"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"ID", "Email", "Name", "Institution", "Department", "Phone", "Requested At"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, account := range accounts {
		values := []interface{}{
			account.ID,
			account.Email,
			account.Name,
			stringOrEmpty(account.Institution),
			stringOrEmpty(account.Department),
			stringOrEmpty(account.Phone),
			account.UpdatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	s.logger.Info("exported pending staff queue", "rows", len(accounts), "exported_by", callerID)
	return buf.Bytes(), nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
