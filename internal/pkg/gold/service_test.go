package gold

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kmcc-connect/kmcc-backend/app/models"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/apperror"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/testdb"
)

var june15 = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db  *gorm.DB
	svc *Service
	ctx context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.Open(t)
	return &fixture{
		db:  db,
		svc: NewServiceFromDB(db).WithClock(func() time.Time { return june15 }),
		ctx: context.Background(),
	}
}

func (f *fixture) user(t *testing.T, name string) *models.User {
	t.Helper()
	u := &models.User{Name: name, MemberID: "KM-" + name}
	require.NoError(t, f.db.Create(u).Error)
	return u
}

func (f *fixture) program(t *testing.T, name string) *models.GoldProgram {
	t.Helper()
	p, err := f.svc.StartProgram(f.ctx, StartProgramInput{Name: name})
	require.NoError(t, err)
	return p
}

func (f *fixture) lot(t *testing.T, programID uint, user *models.User) *models.GoldLot {
	t.Helper()
	l, err := f.svc.AssignLot(f.ctx, programID, user.ID)
	require.NoError(t, err)
	return l
}

func (f *fixture) countWinners(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&models.GoldWinner{}).Count(&n).Error)
	return n
}

func assertKind(t *testing.T, err error, kind apperror.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, apperror.KindOf(err), "unexpected error: %v", err)
}

func TestStartProgram(t *testing.T) {
	f := newFixture(t)

	p := f.program(t, "Gold 2024")
	assert.True(t, p.IsActive)
	assert.True(t, p.StartDate.Equal(june15))

	_, err := f.svc.StartProgram(f.ctx, StartProgramInput{Name: "Gold 2025"})
	assertKind(t, err, apperror.KindConflict)
	assert.Contains(t, err.Error(), "Another program is already active")

	_, err = f.svc.StartProgram(f.ctx, StartProgramInput{Name: "   "})
	assertKind(t, err, apperror.KindValidation)
}

func TestEndProgram(t *testing.T) {
	f := newFixture(t)
	p := f.program(t, "Gold 2024")

	ended, err := f.svc.EndProgram(f.ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, ended.IsActive)
	require.NotNil(t, ended.EndDate)
	assert.True(t, ended.EndDate.Equal(june15))

	_, err = f.svc.EndProgram(f.ctx, p.ID)
	assertKind(t, err, apperror.KindNotFound)

	active, err := f.svc.ActiveProgram(f.ctx)
	require.NoError(t, err)
	assert.Nil(t, active)

	// Ending frees the slot for the next program.
	next := f.program(t, "Gold 2025")
	assert.NotEqual(t, p.ID, next.ID)
}

func TestActiveProgramIncludesLotsAndWinners(t *testing.T) {
	f := newFixture(t)
	p := f.program(t, "Gold 2024")
	u := f.user(t, "hana")
	l := f.lot(t, p.ID, u)
	_, err := f.svc.AddWinners(f.ctx, p.ID, []WinnerInput{{LotID: l.ID, Month: 1, Year: 2024}})
	require.NoError(t, err)

	active, err := f.svc.ActiveProgram(f.ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	require.Len(t, active.Lots, 1)
	require.NotNil(t, active.Lots[0].User)
	assert.Equal(t, "hana", active.Lots[0].User.Name)
	require.Len(t, active.Winners, 1)
	require.NotNil(t, active.Winners[0].Lot)
	require.NotNil(t, active.Winners[0].Lot.User)
}

func TestAssignLot(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "idris")

	_, err := f.svc.AssignLot(f.ctx, 42, u.ID)
	assertKind(t, err, apperror.KindConflict)
	assert.Contains(t, err.Error(), "No active program found")

	p := f.program(t, "Gold 2024")
	_, err = f.svc.AssignLot(f.ctx, p.ID, 999)
	assertKind(t, err, apperror.KindNotFound)
	assert.Contains(t, err.Error(), "User not found")

	first := f.lot(t, p.ID, u)
	second := f.lot(t, p.ID, u)
	assert.NotEqual(t, first.ID, second.ID)
	require.NotNil(t, first.User)
	assert.Equal(t, u.ID, first.User.ID)

	_, err = f.svc.EndProgram(f.ctx, p.ID)
	require.NoError(t, err)
	_, err = f.svc.AssignLot(f.ctx, p.ID, u.ID)
	assertKind(t, err, apperror.KindConflict)
}

func TestRecordPaymentIsIdempotent(t *testing.T) {
	f := newFixture(t)
	p := f.program(t, "Gold 2024")
	l := f.lot(t, p.ID, f.user(t, "jamal"))

	first := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	second := time.Date(2024, 6, 20, 9, 0, 0, 0, time.UTC)

	a, err := f.svc.RecordPayment(f.ctx, PaymentInput{LotID: l.ID, Year: 2024, Month: 6}, first)
	require.NoError(t, err)
	b, err := f.svc.RecordPayment(f.ctx, PaymentInput{LotID: l.ID, Year: 2024, Month: 6}, second)
	require.NoError(t, err)

	assert.Equal(t, a.ID, b.ID)
	assert.True(t, b.IsPaid)
	require.NotNil(t, b.PaidAt)
	assert.True(t, b.PaidAt.Equal(second))

	var count int64
	require.NoError(t, f.db.Model(&models.GoldPayment{}).Where("lot_id = ?", l.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRecordPaymentValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		in   PaymentInput
		kind apperror.Kind
	}{
		{"missing lot", PaymentInput{Year: 2024, Month: 1}, apperror.KindValidation},
		{"missing month", PaymentInput{LotID: 1, Year: 2024}, apperror.KindValidation},
		{"month out of range", PaymentInput{LotID: 1, Year: 2024, Month: 13}, apperror.KindValidation},
		{"unknown lot", PaymentInput{LotID: 77, Year: 2024, Month: 1}, apperror.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.RecordPayment(f.ctx, tt.in, june15)
			assertKind(t, err, tt.kind)
		})
	}
}

func TestUpdatePayment(t *testing.T) {
	f := newFixture(t)
	p := f.program(t, "Gold 2024")
	l := f.lot(t, p.ID, f.user(t, "kareem"))
	other := f.lot(t, p.ID, f.user(t, "lina"))

	jan, err := f.svc.RecordPayment(f.ctx, PaymentInput{LotID: l.ID, Year: 2024, Month: 1}, june15)
	require.NoError(t, err)
	feb, err := f.svc.RecordPayment(f.ctx, PaymentInput{LotID: l.ID, Year: 2024, Month: 2}, june15)
	require.NoError(t, err)

	_, err = f.svc.UpdatePayment(f.ctx, feb.ID, PaymentInput{LotID: l.ID, Year: 2024, Month: 1}, june15)
	assertKind(t, err, apperror.KindConflict)
	assert.Contains(t, err.Error(), "Payment already exists for this month/year")

	later := june15.Add(time.Hour)
	moved, err := f.svc.UpdatePayment(f.ctx, feb.ID, PaymentInput{LotID: other.ID, Year: 2024, Month: 3}, later)
	require.NoError(t, err)
	assert.Equal(t, 3, moved.Month)
	assert.Equal(t, l.ID, moved.LotID, "the lot is only used for the duplicate check")
	require.NotNil(t, moved.PaidAt)
	assert.True(t, moved.PaidAt.Equal(later))

	_, err = f.svc.UpdatePayment(f.ctx, 999, PaymentInput{LotID: l.ID, Year: 2024, Month: 4}, june15)
	assertKind(t, err, apperror.KindNotFound)

	deleted, err := f.svc.DeletePayment(f.ctx, jan.ID)
	require.NoError(t, err)
	assert.Equal(t, jan.ID, deleted.ID)
	_, err = f.svc.DeletePayment(f.ctx, jan.ID)
	assertKind(t, err, apperror.KindNotFound)
}

func TestAddWinnersOneWinPerLot(t *testing.T) {
	f := newFixture(t)
	p := f.program(t, "Gold 2024")
	l := f.lot(t, p.ID, f.user(t, "maya"))

	_, err := f.svc.AddWinners(f.ctx, p.ID, []WinnerInput{{LotID: l.ID, Month: 1, Year: 2024}})
	require.NoError(t, err)

	_, err = f.svc.AddWinners(f.ctx, p.ID, []WinnerInput{{LotID: l.ID, Month: 5, Year: 2024}})
	assertKind(t, err, apperror.KindConflict)
	assert.Contains(t, err.Error(), "Lot(s) already won")
	assert.Equal(t, int64(1), f.countWinners(t))
}

func TestAddWinnersIsAtomic(t *testing.T) {
	f := newFixture(t)
	p := f.program(t, "Gold 2024")
	a := f.lot(t, p.ID, f.user(t, "nadia"))
	b := f.lot(t, p.ID, f.user(t, "omar"))

	_, err := f.svc.EndProgram(f.ctx, p.ID)
	require.NoError(t, err)
	otherProgram := f.program(t, "Gold 2025")
	foreign := f.lot(t, otherProgram.ID, f.user(t, "pari"))

	_, err = f.svc.AddWinners(f.ctx, p.ID, []WinnerInput{
		{LotID: a.ID, Month: 1, Year: 2024},
		{LotID: b.ID, Month: 2, Year: 2024},
		{LotID: foreign.ID, Month: 3, Year: 2024},
	})
	assertKind(t, err, apperror.KindConflict)
	assert.Contains(t, err.Error(), "Some lots don't belong to this program")
	assert.Zero(t, f.countWinners(t))
}

func TestAddWinnersRollsBackOnSlotCollision(t *testing.T) {
	f := newFixture(t)
	p := f.program(t, "Gold 2024")
	a := f.lot(t, p.ID, f.user(t, "qasim"))
	b := f.lot(t, p.ID, f.user(t, "rana"))

	_, err := f.svc.AddWinners(f.ctx, p.ID, []WinnerInput{
		{LotID: a.ID, Month: 7, Year: 2024},
		{LotID: b.ID, Month: 7, Year: 2024},
	})
	assertKind(t, err, apperror.KindConflict)
	assert.Zero(t, f.countWinners(t))
}

func TestAddWinnersDuplicateTriple(t *testing.T) {
	f := newFixture(t)
	p := f.program(t, "Gold 2024")
	l := f.lot(t, p.ID, f.user(t, "sami"))

	_, err := f.svc.AddWinners(f.ctx, p.ID, []WinnerInput{
		{LotID: l.ID, Month: 4, Year: 2024},
		{LotID: l.ID, Month: 4, Year: 2024},
	})
	assertKind(t, err, apperror.KindValidation)
	assert.Contains(t, err.Error(), "Duplicate lot/month/year combination")
	assert.Zero(t, f.countWinners(t))

	_, err = f.svc.AddWinners(f.ctx, p.ID, []WinnerInput{
		{LotID: l.ID, Month: 4, Year: 2024},
		{LotID: l.ID, Month: 5, Year: 2024},
	})
	assertKind(t, err, apperror.KindConflict)
	assert.Zero(t, f.countWinners(t))
}

func TestAddWinnersValidation(t *testing.T) {
	f := newFixture(t)
	p := f.program(t, "Gold 2024")

	_, err := f.svc.AddWinners(f.ctx, p.ID, nil)
	assertKind(t, err, apperror.KindValidation)
	assert.Contains(t, err.Error(), "Program ID and winners are required")

	_, err = f.svc.AddWinners(f.ctx, p.ID, []WinnerInput{{LotID: 1, Year: 2024}})
	assertKind(t, err, apperror.KindValidation)
	assert.Contains(t, err.Error(), "Each winner must have lotId, month, and year")
	assert.Contains(t, err.Error(), "entry 1 is missing month")
}

func TestAddWinnersStoresPrize(t *testing.T) {
	f := newFixture(t)
	p := f.program(t, "Gold 2024")
	a := f.lot(t, p.ID, f.user(t, "tariq"))
	b := f.lot(t, p.ID, f.user(t, "umma"))
	prize := decimal.RequireFromString("1250.50")

	created, err := f.svc.AddWinners(f.ctx, p.ID, []WinnerInput{
		{LotID: a.ID, Month: 1, Year: 2024, PrizeAmount: &prize},
		{LotID: b.ID, Month: 2, Year: 2024},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.True(t, created[0].PrizeAmount.Valid)
	assert.True(t, created[0].PrizeAmount.Decimal.Equal(prize))
	assert.False(t, created[1].PrizeAmount.Valid)
	require.NotNil(t, created[0].Lot)
	require.NotNil(t, created[0].Lot.User)
	assert.Equal(t, "tariq", created[0].Lot.User.Name)
}

func TestProgramWinnersOrdering(t *testing.T) {
	f := newFixture(t)
	p := f.program(t, "Gold 2023")
	var lots []*models.GoldLot
	for _, name := range []string{"a1", "a2", "a3"} {
		lots = append(lots, f.lot(t, p.ID, f.user(t, name)))
	}
	_, err := f.svc.AddWinners(f.ctx, p.ID, []WinnerInput{
		{LotID: lots[0].ID, Month: 12, Year: 2023},
		{LotID: lots[1].ID, Month: 2, Year: 2024},
		{LotID: lots[2].ID, Month: 1, Year: 2024},
	})
	require.NoError(t, err)

	winners, err := f.svc.ProgramWinners(f.ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, winners, 3)
	got := [][2]int{}
	for _, w := range winners {
		got = append(got, [2]int{w.Year, w.Month})
	}
	assert.Equal(t, [][2]int{{2024, 1}, {2024, 2}, {2023, 12}}, got)
}

func TestCurrentWinnersFallback(t *testing.T) {
	f := newFixture(t)
	p := f.program(t, "Gold 2024")
	may := f.lot(t, p.ID, f.user(t, "vera"))

	empty, err := f.svc.CurrentWinners(f.ctx, june15)
	require.NoError(t, err)
	assert.Empty(t, empty.Winners)
	assert.NotNil(t, empty.Winners)
	assert.False(t, empty.IsFallback)
	assert.Equal(t, 6, empty.Month)
	assert.Equal(t, 2024, empty.Year)

	_, err = f.svc.AddWinners(f.ctx, p.ID, []WinnerInput{{LotID: may.ID, Month: 5, Year: 2024}})
	require.NoError(t, err)

	fallback, err := f.svc.CurrentWinners(f.ctx, june15)
	require.NoError(t, err)
	require.Len(t, fallback.Winners, 1)
	assert.True(t, fallback.IsFallback)
	assert.Equal(t, 5, fallback.Month)
	assert.Equal(t, 2024, fallback.Year)

	// Only one month back: as of July nothing is found.
	july, err := f.svc.CurrentWinners(f.ctx, june15.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Empty(t, july.Winners)
	assert.False(t, july.IsFallback)
	assert.Equal(t, 7, july.Month)

	june := f.lot(t, p.ID, f.user(t, "wafa"))
	_, err = f.svc.AddWinners(f.ctx, p.ID, []WinnerInput{{LotID: june.ID, Month: 6, Year: 2024}})
	require.NoError(t, err)

	current, err := f.svc.CurrentWinners(f.ctx, june15)
	require.NoError(t, err)
	require.Len(t, current.Winners, 1)
	assert.False(t, current.IsFallback)
	assert.Equal(t, june.ID, current.Winners[0].LotID)
}

func TestCurrentWinnersYearRollover(t *testing.T) {
	f := newFixture(t)
	p := f.program(t, "Gold 2024")
	l := f.lot(t, p.ID, f.user(t, "xena"))
	_, err := f.svc.AddWinners(f.ctx, p.ID, []WinnerInput{{LotID: l.ID, Month: 12, Year: 2024}})
	require.NoError(t, err)

	got, err := f.svc.CurrentWinners(f.ctx, time.Date(2025, time.January, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, got.Winners, 1)
	assert.True(t, got.IsFallback)
	assert.Equal(t, 12, got.Month)
	assert.Equal(t, 2024, got.Year)
}

func TestUpdateWinner(t *testing.T) {
	f := newFixture(t)
	p := f.program(t, "Gold 2024")
	a := f.lot(t, p.ID, f.user(t, "yara"))
	b := f.lot(t, p.ID, f.user(t, "zaid"))
	created, err := f.svc.AddWinners(f.ctx, p.ID, []WinnerInput{
		{LotID: a.ID, Month: 1, Year: 2024},
		{LotID: b.ID, Month: 2, Year: 2024},
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateWinner(f.ctx, created[1].ID, UpdateWinnerInput{ProgramID: p.ID, LotID: b.ID, Month: 1, Year: 2024})
	assertKind(t, err, apperror.KindConflict)
	assert.Contains(t, err.Error(), "This month/year combination already has a winner")

	// The lot of another winner may be reused on update.
	prize := decimal.NewFromInt(300)
	updated, err := f.svc.UpdateWinner(f.ctx, created[1].ID, UpdateWinnerInput{ProgramID: p.ID, LotID: a.ID, Month: 3, Year: 2024, PrizeAmount: &prize})
	require.NoError(t, err)
	assert.Equal(t, a.ID, updated.LotID)
	assert.Equal(t, 3, updated.Month)
	assert.True(t, updated.PrizeAmount.Valid)

	cleared, err := f.svc.UpdateWinner(f.ctx, created[1].ID, UpdateWinnerInput{ProgramID: p.ID, LotID: a.ID, Month: 3, Year: 2024})
	require.NoError(t, err)
	assert.False(t, cleared.PrizeAmount.Valid)

	_, err = f.svc.UpdateWinner(f.ctx, 999, UpdateWinnerInput{ProgramID: p.ID, LotID: a.ID, Month: 4, Year: 2024})
	assertKind(t, err, apperror.KindNotFound)

	deleted, err := f.svc.DeleteWinner(f.ctx, created[0].ID)
	require.NoError(t, err)
	assert.Equal(t, created[0].ID, deleted.ID)
	_, err = f.svc.DeleteWinner(f.ctx, created[0].ID)
	assertKind(t, err, apperror.KindNotFound)
}

func TestDeleteLotGuard(t *testing.T) {
	f := newFixture(t)
	p := f.program(t, "Gold 2024")
	paid := f.lot(t, p.ID, f.user(t, "ali"))
	won := f.lot(t, p.ID, f.user(t, "bea"))
	empty := f.lot(t, p.ID, f.user(t, "cem"))

	_, err := f.svc.RecordPayment(f.ctx, PaymentInput{LotID: paid.ID, Year: 2024, Month: 1}, june15)
	require.NoError(t, err)
	_, err = f.svc.AddWinners(f.ctx, p.ID, []WinnerInput{{LotID: won.ID, Month: 1, Year: 2024}})
	require.NoError(t, err)

	err = f.svc.DeleteLot(f.ctx, paid.ID)
	assertKind(t, err, apperror.KindConflict)
	assert.Contains(t, err.Error(), "Cannot delete lot with payments")

	err = f.svc.DeleteLot(f.ctx, won.ID)
	assertKind(t, err, apperror.KindConflict)
	assert.Contains(t, err.Error(), "Cannot delete lot with winners")

	require.NoError(t, f.svc.DeleteLot(f.ctx, empty.ID))
	_, err = f.svc.LotDetails(f.ctx, empty.ID)
	assertKind(t, err, apperror.KindNotFound)

	err = f.svc.DeleteLot(f.ctx, empty.ID)
	assertKind(t, err, apperror.KindNotFound)
}

func TestLotDetailsAndListing(t *testing.T) {
	f := newFixture(t)
	p := f.program(t, "Gold 2024")
	l := f.lot(t, p.ID, f.user(t, "dina"))
	for _, m := range []int{3, 1, 2} {
		_, err := f.svc.RecordPayment(f.ctx, PaymentInput{LotID: l.ID, Year: 2024, Month: m}, june15)
		require.NoError(t, err)
	}

	lot, err := f.svc.LotDetails(f.ctx, l.ID)
	require.NoError(t, err)
	require.NotNil(t, lot.Program)
	assert.Equal(t, p.ID, lot.Program.ID)
	require.Len(t, lot.Payments, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{lot.Payments[0].Month, lot.Payments[1].Month, lot.Payments[2].Month})

	lots, err := f.svc.LotsByProgram(f.ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.Len(t, lots[0].Payments, 3)

	details, err := f.svc.ProgramDetails(f.ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, details.Lots, 1)

	_, err = f.svc.ProgramDetails(f.ctx, 999)
	assertKind(t, err, apperror.KindNotFound)

	all, err := f.svc.AllPrograms(f.ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, int64(1), all[0].Count.Lots)
}

func TestPeriodHelpers(t *testing.T) {
	y, m := PreviousPeriod(2025, 1)
	assert.Equal(t, [2]int{2024, 12}, [2]int{y, m})
	y, m = PreviousPeriod(2024, 6)
	assert.Equal(t, [2]int{2024, 5}, [2]int{y, m})

	assert.Equal(t, "January", MonthName(1))
	assert.Equal(t, "December", MonthName(12))
	assert.Equal(t, "", MonthName(13))
}

func TestPickWinners(t *testing.T) {
	current := []models.GoldWinner{{ID: 1, Month: 6, Year: 2024}}
	previous := []models.GoldWinner{{ID: 2, Month: 5, Year: 2024}}

	got := PickWinners(2024, 6, current, previous)
	assert.Equal(t, CurrentWinners{Winners: current, Month: 6, Year: 2024}, got)

	got = PickWinners(2025, 1, nil, previous)
	assert.True(t, got.IsFallback)
	assert.Equal(t, 12, got.Month)
	assert.Equal(t, 2024, got.Year)

	got = PickWinners(2024, 6, nil, nil)
	assert.False(t, got.IsFallback)
	assert.NotNil(t, got.Winners)
	assert.Empty(t, got.Winners)
	assert.Equal(t, 6, got.Month)
}

func TestPaymentsExport(t *testing.T) {
	f := newFixture(t)
	p := f.program(t, "Gold 2024")

	_, _, err := f.svc.PaymentsExport(f.ctx, p.ID)
	assertKind(t, err, apperror.KindNotFound)
	assert.Contains(t, err.Error(), "No lots found for this program")

	l := f.lot(t, p.ID, f.user(t, "erin"))
	for _, m := range []int{4, 2} {
		_, err := f.svc.RecordPayment(f.ctx, PaymentInput{LotID: l.ID, Year: 2024, Month: m}, june15)
		require.NoError(t, err)
	}
	require.NoError(t, f.db.Create(&models.GoldPayment{LotID: l.ID, Year: 2024, Month: 5, IsPaid: false}).Error)

	name, lots, err := f.svc.PaymentsExport(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gold 2024", name)
	require.Len(t, lots, 1)
	require.Len(t, lots[0].Payments, 2)
	assert.Equal(t, 2, lots[0].Payments[0].Month)
	assert.Equal(t, 4, lots[0].Payments[1].Month)
}

func TestMemberLotsOnlyActiveProgram(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "faris")
	old := f.program(t, "Gold 2023")
	f.lot(t, old.ID, u)
	_, err := f.svc.EndProgram(f.ctx, old.ID)
	require.NoError(t, err)

	current := f.program(t, "Gold 2024")
	l := f.lot(t, current.ID, u)

	lots, err := f.svc.MemberLots(f.ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.Equal(t, l.ID, lots[0].ID)
}
