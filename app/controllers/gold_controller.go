package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/kmcc-connect/kmcc-backend/internal/pkg/apperror"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/export"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/gold"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/request"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/response"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/s3archive"
)

// Archiver keeps a copy of generated exports
type Archiver interface {
	Archive(ctx context.Context, key, contentType string, data []byte) error
}

// GoldController exposes the gold program under /api/gold
type GoldController struct {
	svc     *gold.Service
	archive Archiver
	now     Clock
}

// NewGoldController creates the controller. archive may be nil.
func NewGoldController(svc *gold.Service, archive Archiver, now Clock) *GoldController {
	return &GoldController{svc: svc, archive: archive, now: now.orDefault()}
}

type programRef struct {
	ProgramID request.Value `json:"programId"`
}

type assignLotRequest struct {
	ProgramID request.Value `json:"programId"`
	UserID    request.Value `json:"userId"`
}

type paymentRequest struct {
	LotID request.Value `json:"lotId"`
	Year  request.Value `json:"year"`
	Month request.Value `json:"month"`
}

type winnerEntry struct {
	LotID       request.Value `json:"lotId"`
	Month       request.Value `json:"month"`
	Year        request.Value `json:"year"`
	PrizeAmount request.Value `json:"prizeAmount"`
}

type addWinnersRequest struct {
	ProgramID request.Value `json:"programId"`
	Winners   []winnerEntry `json:"winners"`
}

type updateWinnerRequest struct {
	ProgramID   request.Value `json:"programId"`
	LotID       request.Value `json:"lotId"`
	Month       request.Value `json:"month"`
	Year        request.Value `json:"year"`
	PrizeAmount request.Value `json:"prizeAmount"`
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperror.Validation("Invalid request body")
	}
	return nil
}

func (p paymentRequest) input() (gold.PaymentInput, error) {
	lotID, err := optionalID(p.LotID, "lot")
	if err != nil {
		return gold.PaymentInput{}, err
	}
	year, err := optionalInt(p.Year, "year")
	if err != nil {
		return gold.PaymentInput{}, err
	}
	month, err := optionalInt(p.Month, "month")
	if err != nil {
		return gold.PaymentInput{}, err
	}
	return gold.PaymentInput{LotID: lotID, Year: year, Month: month}, nil
}

// ===================== PROGRAM LIFECYCLE =====================

func (gc *GoldController) StartProgram(c *fiber.Ctx) error {
	var in gold.StartProgramInput
	if err := request.Parse(c, &in); err != nil {
		return err
	}
	program, err := gc.svc.StartProgram(c.UserContext(), in)
	if err != nil {
		return err
	}
	return response.Created(c, program, "Program started successfully")
}

func (gc *GoldController) EndProgram(c *fiber.Ctx) error {
	var req programRef
	if err := parseBody(c, &req); err != nil {
		return err
	}
	programID, err := optionalID(req.ProgramID, "program")
	if err != nil {
		return err
	}
	program, err := gc.svc.EndProgram(c.UserContext(), programID)
	if err != nil {
		return err
	}
	return response.OK(c, program, "Program ended successfully")
}

func (gc *GoldController) ActiveProgram(c *fiber.Ctx) error {
	program, err := gc.svc.ActiveProgram(c.UserContext())
	if err != nil {
		return err
	}
	return response.OK(c, program, "Active program retrieved")
}

func (gc *GoldController) AllPrograms(c *fiber.Ctx) error {
	programs, err := gc.svc.AllPrograms(c.UserContext())
	if err != nil {
		return err
	}
	return response.OK(c, programs, "All programs retrieved")
}

func (gc *GoldController) ProgramDetails(c *fiber.Ctx) error {
	programID, err := request.ParamID(c, "programId", "program")
	if err != nil {
		return err
	}
	program, err := gc.svc.ProgramDetails(c.UserContext(), programID)
	if err != nil {
		return err
	}
	return response.OK(c, program, "Program details retrieved")
}

// ===================== LOT MANAGEMENT =====================

func (gc *GoldController) AssignLot(c *fiber.Ctx) error {
	var req assignLotRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	programID, err := req.ProgramID.Uint()
	if err != nil {
		return apperror.Validation("Invalid program ID")
	}
	userID, err := req.UserID.Uint()
	if err != nil {
		return apperror.Validation("Invalid user ID")
	}
	lot, err := gc.svc.AssignLot(c.UserContext(), programID, userID)
	if err != nil {
		return err
	}
	return response.Created(c, lot, "Lot assigned successfully")
}

func (gc *GoldController) LotDetails(c *fiber.Ctx) error {
	lotID, err := request.ParamID(c, "lotId", "lot")
	if err != nil {
		return err
	}
	lot, err := gc.svc.LotDetails(c.UserContext(), lotID)
	if err != nil {
		return err
	}
	return response.OK(c, lot, "Lot details retrieved")
}

func (gc *GoldController) LotsByProgram(c *fiber.Ctx) error {
	programID, err := request.ParamID(c, "programId", "program")
	if err != nil {
		return err
	}
	lots, err := gc.svc.LotsByProgram(c.UserContext(), programID)
	if err != nil {
		return err
	}
	return response.OK(c, lots, "Lots retrieved successfully")
}

func (gc *GoldController) DeleteLot(c *fiber.Ctx) error {
	lotID, err := request.ParamID(c, "lotId", "lot")
	if err != nil {
		return err
	}
	if err := gc.svc.DeleteLot(c.UserContext(), lotID); err != nil {
		return err
	}
	return response.OK(c, nil, "Lot deleted successfully")
}

// ===================== PAYMENT MANAGEMENT =====================

func (gc *GoldController) RecordPayment(c *fiber.Ctx) error {
	var req paymentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	in, err := req.input()
	if err != nil {
		return err
	}
	payment, err := gc.svc.RecordPayment(c.UserContext(), in, gc.now())
	if err != nil {
		return err
	}
	return response.OK(c, payment, "Payment recorded successfully")
}

func (gc *GoldController) UpdatePayment(c *fiber.Ctx) error {
	paymentID, err := request.ParamID(c, "paymentId", "payment")
	if err != nil {
		return err
	}
	var req paymentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	in, err := req.input()
	if err != nil {
		return err
	}
	payment, err := gc.svc.UpdatePayment(c.UserContext(), paymentID, in, gc.now())
	if err != nil {
		return err
	}
	return response.OK(c, payment, "Payment updated successfully")
}

func (gc *GoldController) DeletePayment(c *fiber.Ctx) error {
	paymentID, err := request.ParamID(c, "paymentId", "payment")
	if err != nil {
		return err
	}
	payment, err := gc.svc.DeletePayment(c.UserContext(), paymentID)
	if err != nil {
		return err
	}
	return response.OK(c, payment, "Payment deleted successfully")
}

// ===================== WINNERS MANAGEMENT =====================

func (gc *GoldController) AddWinners(c *fiber.Ctx) error {
	var req addWinnersRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	programID, err := optionalID(req.ProgramID, "program")
	if err != nil {
		return err
	}

	winners := make([]gold.WinnerInput, 0, len(req.Winners))
	for _, w := range req.Winners {
		lotID, err := optionalID(w.LotID, "lot")
		if err != nil {
			return err
		}
		month, err := optionalInt(w.Month, "month")
		if err != nil {
			return err
		}
		year, err := optionalInt(w.Year, "year")
		if err != nil {
			return err
		}
		prize, err := w.PrizeAmount.OptionalDecimal()
		if err != nil {
			return apperror.Validation("Invalid prize amount")
		}
		winners = append(winners, gold.WinnerInput{LotID: lotID, Month: month, Year: year, PrizeAmount: prize})
	}

	created, err := gc.svc.AddWinners(c.UserContext(), programID, winners)
	if err != nil {
		return err
	}
	return response.Created(c, created, "Winners added successfully!")
}

func (gc *GoldController) ProgramWinners(c *fiber.Ctx) error {
	programID, err := request.ParamID(c, "programId", "program")
	if err != nil {
		return err
	}
	winners, err := gc.svc.ProgramWinners(c.UserContext(), programID)
	if err != nil {
		return err
	}
	return response.OK(c, winners, "Program winners retrieved")
}

func (gc *GoldController) CurrentWinners(c *fiber.Ctx) error {
	current, err := gc.svc.CurrentWinners(c.UserContext(), gc.now())
	if err != nil {
		return err
	}
	return response.OK(c, current, "Winners retrieved successfully")
}

func (gc *GoldController) UpdateWinner(c *fiber.Ctx) error {
	winnerID, err := request.ParamID(c, "winnerId", "winner")
	if err != nil {
		return err
	}
	var req updateWinnerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	in := gold.UpdateWinnerInput{}
	if in.ProgramID, err = optionalID(req.ProgramID, "program"); err != nil {
		return err
	}
	if in.LotID, err = optionalID(req.LotID, "lot"); err != nil {
		return err
	}
	if in.Month, err = optionalInt(req.Month, "month"); err != nil {
		return err
	}
	if in.Year, err = optionalInt(req.Year, "year"); err != nil {
		return err
	}
	if in.PrizeAmount, err = req.PrizeAmount.OptionalDecimal(); err != nil {
		return apperror.Validation("Invalid prize amount")
	}

	winner, err := gc.svc.UpdateWinner(c.UserContext(), winnerID, in)
	if err != nil {
		return err
	}
	return response.OK(c, winner, "Winner updated successfully")
}

func (gc *GoldController) DeleteWinner(c *fiber.Ctx) error {
	winnerID, err := request.ParamID(c, "winnerId", "winner")
	if err != nil {
		return err
	}
	winner, err := gc.svc.DeleteWinner(c.UserContext(), winnerID)
	if err != nil {
		return err
	}
	return response.OK(c, winner, "Winner deleted successfully")
}

// ===================== EXPORT =====================

func (gc *GoldController) ExportPayments(c *fiber.Ctx) error {
	programID, err := request.ParamID(c, "programId", "program")
	if err != nil {
		return err
	}
	name, lots, err := gc.svc.PaymentsExport(c.UserContext(), programID)
	if err != nil {
		return err
	}
	workbook, err := export.PaymentsWorkbook(lots)
	if err != nil {
		return apperror.Internal("Failed to generate export", err)
	}

	if gc.archive != nil {
		key := s3archive.ExportObjectKey(programID, gc.now())
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := gc.archive.Archive(ctx, key, export.XLSXMimeType, workbook); err != nil {
				log.Warnf("[Gold] Export archive failed for program %d: %v", programID, err)
			}
		}()
	}

	c.Set(fiber.HeaderContentDisposition, export.ContentDisposition(export.PaymentsFilename(name, programID)))
	c.Set(fiber.HeaderContentType, export.XLSXMimeType)
	return c.Send(workbook)
}
