package report

import (
	"context"

	"go-erp/internal/common/models"
	"go-erp/internal/store"

	"github.com/xuri/excelize/v2"
)

var orderHeaders = []string{"Number", "Status", "Company", "Payee", "Amount", "Description", "Requester", "Created"}

// ExportOrders renders every payment order into an xlsx workbook.
func (s *ReportServiceImpl) ExportOrders(ctx context.Context) ([]byte, error) {
	var orders []models.PaymentOrder
	err := s.Store.View(func(d *store.Data) error {
		orders = append(orders, d.Orders...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Orders"
	f.SetSheetName("Sheet1", sheet)

	for i, h := range orderHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, doc := range orders {
		values := []interface{}{
			doc.Number,
			string(doc.Status),
			doc.Company,
			doc.Payee,
			doc.Amount.String(),
			doc.Description,
			doc.Requester,
			doc.CreatedAt.Format("2006-01-02"),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
