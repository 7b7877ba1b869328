package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/kmcc-connect/kmcc-backend/app/models"
)

// UserExportType selects what a member export contains.
type UserExportType string

const (
	UserExportProfile     UserExportType = "profile"
	UserExportEvents      UserExportType = "events"
	UserExportInvestments UserExportType = "investments"
)

const (
	ProfileSheet    = "Profile Data"
	EventsSheet     = "Events Data"
	GoldSheet       = "Gold Program"
	InvestmentSheet = "Investments"

	dateLayout = "2006-01-02"
)

// ParseUserExportType validates the exportType query value.
func ParseUserExportType(s string) (UserExportType, bool) {
	switch t := UserExportType(s); t {
	case UserExportProfile, UserExportEvents, UserExportInvestments:
		return t, true
	}
	return "", false
}

// UserData is what a member export may draw on. Only the parts the export
// type needs have to be loaded.
type UserData struct {
	User          *models.User
	Registrations []models.EventRegistration
	Lots          []models.GoldLot
	Investments   []models.LongTermInvestment
}

type sheet struct {
	name   string
	header []interface{}
	widths []float64
	rows   [][]interface{}
}

// UserExport builds the xlsx file for one member.
func UserExport(kind UserExportType, data UserData) ([]byte, error) {
	var sheets []sheet
	switch kind {
	case UserExportProfile:
		sheets = []sheet{profileSheet(data.User)}
	case UserExportEvents:
		sheets = []sheet{eventsSheet(data.Registrations)}
	case UserExportInvestments:
		sheets = []sheet{goldSheet(data.Lots), investmentSheet(data.Investments)}
	default:
		return nil, fmt.Errorf("unknown export type %q", kind)
	}
	return writeSheets(sheets)
}

// UserExportFilename names the download after the export type and day.
func UserExportFilename(kind UserExportType, now time.Time) string {
	return fmt.Sprintf("%s_export_%s.xlsx", kind, now.Format(dateLayout))
}

func profileSheet(u *models.User) sheet {
	s := sheet{name: ProfileSheet, header: []interface{}{"Field", "Value"}, widths: []float64{25, 30}}
	if u == nil {
		return s
	}
	add := func(field string, value interface{}) {
		s.rows = append(s.rows, []interface{}{field, value})
	}
	add("Name", u.Name)
	add("Email", u.Email)
	add("Phone Number", u.PhoneNumber)
	add("Gender", u.Gender)
	add("Member ID", u.MemberID)
	add("Iqama Number", u.IqamaNumber)
	add("Area", u.Area)
	add("District", u.District)
	add("Account Created", formatDate(u.CreatedAt))
	return s
}

func eventsSheet(regs []models.EventRegistration) sheet {
	s := sheet{
		name:   EventsSheet,
		header: []interface{}{"Event Title", "Date", "Place", "Time", "Type", "Attended", "Registered On"},
		widths: []float64{30, 15, 20, 15, 20, 15, 20},
	}
	for _, reg := range regs {
		if reg.Event == nil {
			continue
		}
		e := reg.Event
		s.rows = append(s.rows, []interface{}{
			e.Title, formatDate(e.EventDate), e.Place, e.Timing, e.EventType, yesNo(reg.IsAttended), formatDate(reg.CreatedAt),
		})
	}
	return s
}

// goldSheet expects each lot's payments newest first.
func goldSheet(lots []models.GoldLot) sheet {
	s := sheet{
		name:   GoldSheet,
		header: []interface{}{"Program Name", "Lot Number", "Total Payments", "Last Payment"},
		widths: []float64{25, 15, 15, 20},
	}
	for _, lot := range lots {
		program := ""
		if lot.Program != nil {
			program = lot.Program.Name
		}
		last := "None"
		if len(lot.Payments) > 0 {
			p := lot.Payments[0]
			last = fmt.Sprintf("%d/%d", p.Month, p.Year)
		}
		s.rows = append(s.rows, []interface{}{program, lot.ID, len(lot.Payments), last})
	}
	return s
}

// investmentSheet expects each investment's deposits latest first.
func investmentSheet(investments []models.LongTermInvestment) sheet {
	s := sheet{
		name:   InvestmentSheet,
		header: []interface{}{"Investment ID", "Total Deposited", "Total Profit", "Last Deposit", "Status"},
		widths: []float64{15, 20, 20, 20, 15},
	}
	for _, inv := range investments {
		last := "None"
		if len(inv.Deposits) > 0 {
			last = formatDate(inv.Deposits[0].DepositDate)
		}
		status := "Inactive"
		if inv.IsActive {
			status = "Active"
		}
		deposited, _ := inv.TotalDeposited.Float64()
		profit, _ := inv.TotalProfit.Float64()
		s.rows = append(s.rows, []interface{}{inv.ID, deposited, profit, last, status})
	}
	return s
}

func writeSheets(sheets []sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return nil, fmt.Errorf("add sheet %s: %w", s.name, err)
		}

		if err := f.SetSheetRow(s.name, "A1", &s.header); err != nil {
			return nil, fmt.Errorf("write %s header: %w", s.name, err)
		}
		last, err := excelize.CoordinatesToCellName(len(s.header), 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(s.name, "A1", last, bold); err != nil {
			return nil, fmt.Errorf("style %s header: %w", s.name, err)
		}
		for col, w := range s.widths {
			name, err := excelize.ColumnNumberToName(col + 1)
			if err != nil {
				return nil, err
			}
			if err := f.SetColWidth(s.name, name, name, w); err != nil {
				return nil, err
			}
		}

		for r, values := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return nil, err
			}
			row := values
			if err := f.SetSheetRow(s.name, cell, &row); err != nil {
				return nil, fmt.Errorf("write %s row %d: %w", s.name, r+2, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
