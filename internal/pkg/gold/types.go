package gold

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kmcc-connect/kmcc-backend/app/models"
)

// StartProgramInput carries the fields of a new program. An empty name is
// reported by StartProgram itself.
type StartProgramInput struct {
	Name        string `json:"name" validate:"max=150"`
	Description string `json:"description"`
}

// PaymentInput identifies a lot and calendar month. Zero values mean "not supplied".
type PaymentInput struct {
	LotID uint
	Year  int
	Month int
}

// WinnerInput is one entry of a winners batch.
type WinnerInput struct {
	LotID       uint
	Month       int
	Year        int
	PrizeAmount *decimal.Decimal
}

// UpdateWinnerInput replaces every editable field of a winner.
type UpdateWinnerInput struct {
	ProgramID   uint
	LotID       uint
	Month       int
	Year        int
	PrizeAmount *decimal.Decimal
}

// CurrentWinners is the winners list shown for "this month", possibly taken
// from the previous month.
type CurrentWinners struct {
	Winners    []models.GoldWinner `json:"winners"`
	Month      int                 `json:"month"`
	Year       int                 `json:"year"`
	IsFallback bool                `json:"isFallback"`
}

// PreviousPeriod returns the calendar month before (year, month).
func PreviousPeriod(year, month int) (int, int) {
	if month <= 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// MonthName returns the English name of a 1-based month.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return time.Month(month).String()
}

// PickWinners chooses what to display for (year, month): its own winners when
// there are any, else the previous month's, else an empty list for (year, month).
func PickWinners(year, month int, current, previous []models.GoldWinner) CurrentWinners {
	if len(current) > 0 {
		return CurrentWinners{Winners: current, Month: month, Year: year}
	}
	if len(previous) > 0 {
		prevYear, prevMonth := PreviousPeriod(year, month)
		return CurrentWinners{Winners: previous, Month: prevMonth, Year: prevYear, IsFallback: true}
	}
	return CurrentWinners{Winners: []models.GoldWinner{}, Month: month, Year: year}
}
