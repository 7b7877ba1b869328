// Package gold implements the gold savings lottery: program lifecycle, lots,
// monthly payments and monthly winners.
package gold

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kmcc-connect/kmcc-backend/app/models"
	"github.com/kmcc-connect/kmcc-backend/app/repository"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/apperror"
)

// Service applies the gold program rules on top of the repositories.
type Service struct {
	programs repository.GoldProgramRepository
	lots     repository.GoldLotRepository
	payments repository.GoldPaymentRepository
	winners  repository.GoldWinnerRepository
	users    repository.UserRepository
	now      func() time.Time
}

// NewService constructs a service from the repository set.
func NewService(repos *repository.Repositories) *Service {
	return &Service{
		programs: repos.GoldProgram,
		lots:     repos.GoldLot,
		payments: repos.GoldPayment,
		winners:  repos.GoldWinner,
		users:    repos.User,
		now:      time.Now,
	}
}

// NewServiceFromDB builds a service on gorm repositories.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(repository.NewRepositories(db))
}

// WithClock replaces the time source used for start, end and edit timestamps.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// ===================== PROGRAM LIFECYCLE =====================

func (s *Service) StartProgram(ctx context.Context, in StartProgramInput) (*models.GoldProgram, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperror.Validation("Program name is required")
	}

	if _, err := s.programs.FindActive(ctx); err == nil {
		return nil, apperror.Conflict("Another program is already active")
	} else if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("find active program: %w", err)
	}

	program := &models.GoldProgram{
		Name:        name,
		Description: in.Description,
		StartDate:   s.now(),
	}
	if err := s.programs.Create(ctx, program); err != nil {
		// Lost a race with a concurrent start; the active_lock index decided.
		if repository.IsDuplicateKey(err) {
			return nil, apperror.Conflict("Another program is already active")
		}
		return nil, fmt.Errorf("create program: %w", err)
	}

	log.Infof("[Gold] Program %d (%s) started", program.ID, program.Name)
	return program, nil
}

func (s *Service) EndProgram(ctx context.Context, programID uint) (*models.GoldProgram, error) {
	if programID == 0 {
		return nil, apperror.Validation("Program ID is required")
	}
	ended, err := s.programs.End(ctx, programID, s.now())
	if err != nil {
		return nil, fmt.Errorf("end program: %w", err)
	}
	if !ended {
		return nil, apperror.NotFound("No active program found")
	}

	program, err := s.programs.GetByID(ctx, programID)
	if err != nil {
		return nil, fmt.Errorf("load ended program: %w", err)
	}
	log.Infof("[Gold] Program %d ended", programID)
	return program, nil
}

// ActiveProgram returns the running program with lots and winners, or nil.
func (s *Service) ActiveProgram(ctx context.Context) (*models.GoldProgram, error) {
	program, err := s.programs.FindActiveWithDetails(ctx)
	if repository.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find active program: %w", err)
	}
	return program, nil
}

func (s *Service) AllPrograms(ctx context.Context) ([]repository.ProgramWithCounts, error) {
	programs, err := s.programs.ListWithCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	return programs, nil
}

func (s *Service) ProgramDetails(ctx context.Context, programID uint) (*models.GoldProgram, error) {
	program, err := s.programs.GetDetails(ctx, programID)
	if err != nil {
		return nil, notFoundOr(err, "Program not found", "load program")
	}
	return program, nil
}

// ===================== LOT MANAGEMENT =====================

func (s *Service) AssignLot(ctx context.Context, programID, userID uint) (*models.GoldLot, error) {
	if programID == 0 || userID == 0 {
		return nil, apperror.Validation("Program ID and user ID are required")
	}

	if _, err := s.programs.FindActiveByID(ctx, programID); err != nil {
		if repository.IsNotFound(err) {
			return nil, apperror.Conflict("No active program found")
		}
		return nil, fmt.Errorf("find program: %w", err)
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, notFoundOr(err, "User not found", "find user")
	}

	lot := &models.GoldLot{ProgramID: programID, UserID: userID}
	if err := s.lots.Create(ctx, lot); err != nil {
		return nil, fmt.Errorf("create lot: %w", err)
	}
	return lot, nil
}

func (s *Service) LotDetails(ctx context.Context, lotID uint) (*models.GoldLot, error) {
	lot, err := s.lots.GetDetails(ctx, lotID)
	if err != nil {
		return nil, notFoundOr(err, "Lot not found", "load lot")
	}
	return lot, nil
}

func (s *Service) LotsByProgram(ctx context.Context, programID uint) ([]models.GoldLot, error) {
	lots, err := s.lots.ListByProgram(ctx, programID)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	return lots, nil
}

// DeleteLot removes a lot that has no history. Lots with winners or payments
// are kept so the ledger stays complete.
func (s *Service) DeleteLot(ctx context.Context, lotID uint) error {
	if _, err := s.lots.GetByID(ctx, lotID); err != nil {
		return notFoundOr(err, "Lot not found", "load lot")
	}
	payments, winners, err := s.lots.CountHistory(ctx, lotID)
	if err != nil {
		return fmt.Errorf("count lot history: %w", err)
	}
	if winners > 0 {
		return apperror.Conflict("Cannot delete lot with winners")
	}
	if payments > 0 {
		return apperror.Conflict("Cannot delete lot with payments")
	}
	if err := s.lots.Delete(ctx, lotID); err != nil {
		return notFoundOr(err, "Lot not found", "delete lot")
	}
	return nil
}

// MemberLots returns the user's lots in the active program, newest payments and wins first.
func (s *Service) MemberLots(ctx context.Context, userID uint) ([]models.GoldLot, error) {
	lots, err := s.lots.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list member lots: %w", err)
	}
	return lots, nil
}

// PaymentsExport loads what the payments spreadsheet needs: the program name
// (empty when the program row is gone) and its lots with paid payments only.
func (s *Service) PaymentsExport(ctx context.Context, programID uint) (string, []models.GoldLot, error) {
	lots, err := s.lots.ListForExport(ctx, programID)
	if err != nil {
		return "", nil, fmt.Errorf("list lots for export: %w", err)
	}
	if len(lots) == 0 {
		return "", nil, apperror.NotFound("No lots found for this program")
	}

	var name string
	program, err := s.programs.GetByID(ctx, programID)
	switch {
	case err == nil:
		name = program.Name
	case !repository.IsNotFound(err):
		return "", nil, fmt.Errorf("load program: %w", err)
	}
	return name, lots, nil
}

// ===================== PAYMENT MANAGEMENT =====================

// RecordPayment marks the lot's month as paid at now. Recording the same month
// again only refreshes paid_at.
func (s *Service) RecordPayment(ctx context.Context, in PaymentInput, now time.Time) (*models.GoldPayment, error) {
	if err := validatePeriod(in.LotID, in.Year, in.Month); err != nil {
		return nil, err
	}
	if _, err := s.lots.GetByID(ctx, in.LotID); err != nil {
		return nil, notFoundOr(err, "Lot not found", "find lot")
	}

	paidAt := now
	payment, err := s.payments.Upsert(ctx, &models.GoldPayment{
		LotID:  in.LotID,
		Year:   in.Year,
		Month:  in.Month,
		IsPaid: true,
		PaidAt: &paidAt,
	})
	if err != nil {
		return nil, fmt.Errorf("record payment: %w", err)
	}
	return payment, nil
}

// UpdatePayment moves a payment to another month. The lot in the input is
// only used for the duplicate check; the payment keeps its lot.
func (s *Service) UpdatePayment(ctx context.Context, paymentID uint, in PaymentInput, now time.Time) (*models.GoldPayment, error) {
	if err := validatePeriod(in.LotID, in.Year, in.Month); err != nil {
		return nil, err
	}
	if _, err := s.payments.GetByID(ctx, paymentID); err != nil {
		return nil, notFoundOr(err, "Payment not found", "load payment")
	}

	taken, err := s.payments.SlotTakenByOther(ctx, paymentID, in.LotID, in.Year, in.Month)
	if err != nil {
		return nil, fmt.Errorf("check payment slot: %w", err)
	}
	if taken {
		return nil, apperror.Conflict("Payment already exists for this month/year")
	}

	payment, err := s.payments.UpdatePeriod(ctx, paymentID, in.Year, in.Month, now)
	if err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, apperror.Conflict("Payment already exists for this month/year")
		}
		return nil, notFoundOr(err, "Payment not found", "update payment")
	}
	return payment, nil
}

func (s *Service) DeletePayment(ctx context.Context, paymentID uint) (*models.GoldPayment, error) {
	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, notFoundOr(err, "Payment not found", "load payment")
	}
	if err := s.payments.Delete(ctx, paymentID); err != nil {
		return nil, notFoundOr(err, "Payment not found", "delete payment")
	}
	return payment, nil
}

// ===================== WINNERS MANAGEMENT =====================

// AddWinners records a batch of winners for a program. All checks run before
// anything is written and the inserts share one transaction, so the batch is
// stored completely or not at all.
func (s *Service) AddWinners(ctx context.Context, programID uint, winners []WinnerInput) ([]models.GoldWinner, error) {
	if programID == 0 || len(winners) == 0 {
		return nil, apperror.Validation("Program ID and winners are required")
	}

	for i, w := range winners {
		if missing := missingWinnerFields(w); len(missing) > 0 {
			return nil, apperror.Validationf("Each winner must have lotId, month, and year (entry %d is missing %s)",
				i+1, strings.Join(missing, ", "))
		}
		if w.Month < 1 || w.Month > 12 {
			return nil, apperror.Validationf("Invalid month %d for lot %d", w.Month, w.LotID)
		}
	}

	requested := distinctLotIDs(winners)
	found, err := s.lots.FindIDsInProgram(ctx, programID, requested)
	if err != nil {
		return nil, fmt.Errorf("check lots: %w", err)
	}
	if len(found) != len(requested) {
		return nil, apperror.Conflict("Some lots don't belong to this program")
	}

	seen := make(map[[3]int]struct{}, len(winners))
	for _, w := range winners {
		key := [3]int{int(w.LotID), w.Month, w.Year}
		if _, dup := seen[key]; dup {
			return nil, apperror.Validationf("Duplicate lot/month/year combination: Lot %d, Month %d, Year %d",
				w.LotID, w.Month, w.Year)
		}
		seen[key] = struct{}{}
	}

	won, err := s.winners.WonLotIDs(ctx, programID, requested)
	if err != nil {
		return nil, fmt.Errorf("check previous wins: %w", err)
	}
	if len(won) > 0 {
		return nil, apperror.Conflictf("Lot(s) already won: %s", joinIDs(won))
	}
	// A lot wins at most once per program, including within this batch.
	if len(requested) != len(winners) {
		return nil, apperror.Conflictf("Lot(s) already won: %s", joinIDs(repeatedLotIDs(winners)))
	}

	rows := make([]models.GoldWinner, 0, len(winners))
	for _, w := range winners {
		rows = append(rows, models.GoldWinner{
			ProgramID:   programID,
			LotID:       w.LotID,
			Month:       w.Month,
			Year:        w.Year,
			PrizeAmount: nullDecimal(w.PrizeAmount),
		})
	}

	created, err := s.winners.CreateBatch(ctx, rows)
	if err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, apperror.Conflict("This month/year combination already has a winner")
		}
		return nil, fmt.Errorf("create winners: %w", err)
	}

	log.Infof("[Gold] %d winner(s) added to program %d", len(created), programID)
	return created, nil
}

func (s *Service) ProgramWinners(ctx context.Context, programID uint) ([]models.GoldWinner, error) {
	winners, err := s.winners.ListByProgram(ctx, programID)
	if err != nil {
		return nil, fmt.Errorf("list winners: %w", err)
	}
	return winners, nil
}

// CurrentWinners returns the winners of now's month across programs. When that
// month has none it falls back to the previous month. If both are empty the
// current month is reported with an empty list.
func (s *Service) CurrentWinners(ctx context.Context, now time.Time) (*CurrentWinners, error) {
	year, month := now.Year(), int(now.Month())

	winners, err := s.winners.ListByPeriod(ctx, year, month, 0)
	if err != nil {
		return nil, fmt.Errorf("list current winners: %w", err)
	}
	var previous []models.GoldWinner
	if len(winners) == 0 {
		prevYear, prevMonth := PreviousPeriod(year, month)
		previous, err = s.winners.ListByPeriod(ctx, prevYear, prevMonth, 0)
		if err != nil {
			return nil, fmt.Errorf("list previous winners: %w", err)
		}
	}
	result := PickWinners(year, month, winners, previous)
	return &result, nil
}

// UpdateWinner overwrites a winner. Only the (program, month, year) slot is
// checked; whether the lot already won elsewhere is not.
func (s *Service) UpdateWinner(ctx context.Context, winnerID uint, in UpdateWinnerInput) (*models.GoldWinner, error) {
	if in.ProgramID == 0 || in.LotID == 0 || in.Month == 0 || in.Year == 0 {
		return nil, apperror.Validation("Program ID, lot ID, month and year are required")
	}
	if in.Month < 1 || in.Month > 12 {
		return nil, apperror.Validationf("Invalid month %d", in.Month)
	}

	winner, err := s.winners.GetByID(ctx, winnerID)
	if err != nil {
		return nil, notFoundOr(err, "Winner not found", "load winner")
	}

	taken, err := s.winners.SlotTakenByOther(ctx, winnerID, in.ProgramID, in.Year, in.Month)
	if err != nil {
		return nil, fmt.Errorf("check winner slot: %w", err)
	}
	if taken {
		return nil, apperror.Conflict("This month/year combination already has a winner")
	}

	winner.ProgramID = in.ProgramID
	winner.LotID = in.LotID
	winner.Month = in.Month
	winner.Year = in.Year
	winner.PrizeAmount = nullDecimal(in.PrizeAmount)

	updated, err := s.winners.Update(ctx, winner)
	if err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, apperror.Conflict("This month/year combination already has a winner")
		}
		return nil, fmt.Errorf("update winner: %w", err)
	}
	return updated, nil
}

func (s *Service) DeleteWinner(ctx context.Context, winnerID uint) (*models.GoldWinner, error) {
	winner, err := s.winners.GetByID(ctx, winnerID)
	if err != nil {
		return nil, notFoundOr(err, "Winner not found", "load winner")
	}
	if err := s.winners.Delete(ctx, winnerID); err != nil {
		return nil, notFoundOr(err, "Winner not found", "delete winner")
	}
	return winner, nil
}

// ===================== HELPERS =====================

func notFoundOr(err error, message, op string) error {
	if repository.IsNotFound(err) {
		return apperror.NotFound(message)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func validatePeriod(lotID uint, year, month int) error {
	if lotID == 0 || year == 0 || month == 0 {
		return apperror.Validation("Lot ID, year and month are required")
	}
	if month < 1 || month > 12 {
		return apperror.Validationf("Invalid month %d", month)
	}
	return nil
}

func missingWinnerFields(w WinnerInput) []string {
	var missing []string
	if w.LotID == 0 {
		missing = append(missing, "lotId")
	}
	if w.Month == 0 {
		missing = append(missing, "month")
	}
	if w.Year == 0 {
		missing = append(missing, "year")
	}
	return missing
}

func distinctLotIDs(winners []WinnerInput) []uint {
	seen := make(map[uint]struct{}, len(winners))
	ids := make([]uint, 0, len(winners))
	for _, w := range winners {
		if _, ok := seen[w.LotID]; ok {
			continue
		}
		seen[w.LotID] = struct{}{}
		ids = append(ids, w.LotID)
	}
	return ids
}

func repeatedLotIDs(winners []WinnerInput) []uint {
	counts := make(map[uint]int, len(winners))
	for _, w := range winners {
		counts[w.LotID]++
	}
	var ids []uint
	for id, n := range counts {
		if n > 1 {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func joinIDs(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ", ")
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}
