// Package export renders gold program and member data as spreadsheets.
package export

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kmcc-connect/kmcc-backend/app/models"
)

const (
	PaymentsSheet = "Payments"
	XLSXMimeType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var paymentsHeader = []interface{}{"Member ID", "Name", "Total Payments", "Payment Dates", "Last Payment"}

// PaymentRow is one lot's line in the payments sheet.
type PaymentRow struct {
	MemberID      string
	Name          string
	TotalPayments int
	PaymentDates  string
	LastPayment   string
}

// PaymentRows projects lots into sheet rows. Each lot's payments must already
// be filtered to paid ones and sorted chronologically.
func PaymentRows(lots []models.GoldLot) []PaymentRow {
	rows := make([]PaymentRow, 0, len(lots))
	for _, lot := range lots {
		row := PaymentRow{TotalPayments: len(lot.Payments), LastPayment: "None"}
		if lot.User != nil {
			row.MemberID = lot.User.MemberID
			row.Name = lot.User.Name
		}
		dates := make([]string, 0, len(lot.Payments))
		for _, p := range lot.Payments {
			dates = append(dates, period(p.Year, p.Month))
		}
		row.PaymentDates = strings.Join(dates, ", ")
		if n := len(dates); n > 0 {
			row.LastPayment = dates[n-1]
		}
		rows = append(rows, row)
	}
	return rows
}

// PaymentsWorkbook builds the xlsx file for a program's lots.
func PaymentsWorkbook(lots []models.GoldLot) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", PaymentsSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(PaymentsSheet, "A1", &paymentsHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, r := range PaymentRows(lots) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []interface{}{r.MemberID, r.Name, r.TotalPayments, r.PaymentDates, r.LastPayment}
		if err := f.SetSheetRow(PaymentsSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// PaymentsFilename names the download after the program, or its id when the
// program has no name.
func PaymentsFilename(programName string, programID uint) string {
	label := strings.TrimSpace(programName)
	if label == "" {
		label = fmt.Sprint(programID)
	}
	return "gold_payments_" + label + ".xlsx"
}

// ContentDisposition returns the attachment header value for filename.
func ContentDisposition(filename string) string {
	return "attachment; filename=" + url.PathEscape(filename)
}

func period(year, month int) string {
	return fmt.Sprintf("%d-%02d", year, month)
}
