package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/kmcc-connect/kmcc-backend/app/models"
)

var exportDay = time.Date(2024, time.June, 15, 10, 30, 0, 0, time.UTC)

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestParseUserExportType(t *testing.T) {
	for _, s := range []string{"profile", "events", "investments"} {
		kind, ok := ParseUserExportType(s)
		assert.True(t, ok, s)
		assert.Equal(t, UserExportType(s), kind)
	}
	for _, s := range []string{"", "Profile", "payments"} {
		_, ok := ParseUserExportType(s)
		assert.False(t, ok, s)
	}
}

func TestUserExportProfile(t *testing.T) {
	data, err := UserExport(UserExportProfile, UserData{User: &models.User{
		Name: "Amina", Email: "amina@example.com", MemberID: "KM-001", Gender: models.GENDER_FEMALE, District: "Malappuram",
		CreatedAt: exportDay,
	}})
	require.NoError(t, err)

	f := openWorkbook(t, data)
	assert.Equal(t, []string{ProfileSheet}, f.GetSheetList())
	rows, err := f.GetRows(ProfileSheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"Field", "Value"}, rows[0])
	assert.Contains(t, rows, []string{"Name", "Amina"})
	assert.Contains(t, rows, []string{"Member ID", "KM-001"})
	assert.Contains(t, rows, []string{"District", "Malappuram"})
	assert.Contains(t, rows, []string{"Account Created", "2024-06-15"})
}

func TestUserExportEvents(t *testing.T) {
	regs := []models.EventRegistration{
		{IsAttended: true, CreatedAt: exportDay, Event: &models.Event{Title: "Iftar Meet", EventDate: exportDay.AddDate(0, 0, 3), Place: "Riyadh", Timing: "18:30", EventType: "Community"}},
		{CreatedAt: exportDay},
	}
	data, err := UserExport(UserExportEvents, UserData{Registrations: regs})
	require.NoError(t, err)

	rows, err := openWorkbook(t, data).GetRows(EventsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Event Title", "Date", "Place", "Time", "Type", "Attended", "Registered On"}, rows[0])
	assert.Equal(t, []string{"Iftar Meet", "2024-06-18", "Riyadh", "18:30", "Community", "Yes", "2024-06-15"}, rows[1])
}

func TestUserExportInvestments(t *testing.T) {
	lots := []models.GoldLot{
		{ID: 7, Program: &models.GoldProgram{Name: "Gold 2024"}, Payments: []models.GoldPayment{{Year: 2024, Month: 5}, {Year: 2024, Month: 4}}},
		{ID: 9, Program: &models.GoldProgram{Name: "Gold 2023"}},
	}
	investments := []models.LongTermInvestment{
		{ID: 3, TotalDeposited: decimal.NewFromInt(1500), TotalProfit: decimal.RequireFromString("120.5"), IsActive: true,
			Deposits: []models.InvestmentDeposit{{DepositDate: exportDay}}},
		{ID: 4, TotalDeposited: decimal.NewFromInt(200)},
	}
	data, err := UserExport(UserExportInvestments, UserData{Lots: lots, Investments: investments})
	require.NoError(t, err)

	f := openWorkbook(t, data)
	assert.Equal(t, []string{GoldSheet, InvestmentSheet}, f.GetSheetList())

	gold, err := f.GetRows(GoldSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Program Name", "Lot Number", "Total Payments", "Last Payment"},
		{"Gold 2024", "7", "2", "5/2024"},
		{"Gold 2023", "9", "0", "None"},
	}, gold)

	inv, err := f.GetRows(InvestmentSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Investment ID", "Total Deposited", "Total Profit", "Last Deposit", "Status"},
		{"3", "1500", "120.5", "2024-06-15", "Active"},
		{"4", "200", "0", "None", "Inactive"},
	}, inv)
}

func TestUserExportRejectsUnknownType(t *testing.T) {
	_, err := UserExport("payments", UserData{})
	assert.Error(t, err)
	assert.Equal(t, "events_export_2024-06-15.xlsx", UserExportFilename(UserExportEvents, exportDay))
}
