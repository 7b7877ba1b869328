package controllers

import (
	"math"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/kmcc-connect/kmcc-backend/app/models"
	"github.com/kmcc-connect/kmcc-backend/app/repository"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/apperror"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/avatar"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/datauri"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/export"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/gold"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/home"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/request"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/response"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/survey"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/usercontext"
)

const (
	eventsPageSize  = 10
	suggestedEvents = 3
	avatarFormField = "avatar"
)

// UserController serves member facing events and profile endpoints under /api/user
type UserController struct {
	users    repository.UserRepository
	events   repository.EventRepository
	payments repository.GoldPaymentRepository
	lots     repository.GoldLotRepository
	content  repository.ContentRepository
	surveys  *survey.Lookup
	gold     *gold.Service
	now      Clock
}

func NewUserController(repos *repository.Repositories, svc *gold.Service, now Clock) *UserController {
	return &UserController{
		users:    repos.User,
		events:   repos.Event,
		payments: repos.GoldPayment,
		lots:     repos.GoldLot,
		content:  repos.Content,
		surveys:  survey.NewLookup(repos.Survey),
		gold:     svc,
		now:      now.orDefault(),
	}
}

// ===================== EVENTS =====================

// Events handles GET /api/user/events
func (uc *UserController) Events(c *fiber.Ctx) error {
	ctx := c.UserContext()
	page := request.Pagination(c, eventsPageSize)

	total, err := uc.events.CountUnfinished(ctx)
	if err != nil {
		return apperror.Internal("Failed to fetch events", err)
	}
	events, err := uc.events.ListUnfinished(ctx, page.Offset(), page.Limit)
	if err != nil {
		return apperror.Internal("Failed to fetch events", err)
	}
	cards, err := home.EventCards(ctx, uc.events, events)
	if err != nil {
		return apperror.Internal("Failed to fetch events", err)
	}

	return response.OK(c, fiber.Map{
		"events":      cards,
		"totalEvents": total,
		"currentPage": page.Page,
		"totalPages":  int(math.Ceil(float64(total) / float64(page.Limit))),
	}, "Active events retrieved successfully")
}

type eventDetail struct {
	Event              models.Event
	TotalRegistrations int64
}

func (e eventDetail) MarshalJSON() ([]byte, error) {
	return marshalMerged(e.Event, map[string]interface{}{"totalRegistrations": e.TotalRegistrations})
}

// EventDetails handles GET /api/user/events/:eventId
func (uc *UserController) EventDetails(c *fiber.Ctx) error {
	ctx := c.UserContext()
	eventID, err := request.ParamID(c, "eventId", "event")
	if err != nil {
		return err
	}

	event, err := uc.events.GetByID(ctx, eventID)
	if err != nil {
		if repository.IsNotFound(err) {
			return apperror.NotFound("Event not found")
		}
		return apperror.Internal("Failed to fetch event", err)
	}

	counts, err := uc.events.RegistrationCounts(ctx, []uint{event.ID})
	if err != nil {
		return apperror.Internal("Failed to fetch event", err)
	}
	registered, err := uc.events.IsRegistered(ctx, event.ID, usercontext.GetUserID(c))
	if err != nil {
		return apperror.Internal("Failed to fetch event", err)
	}
	suggested, err := uc.events.Suggested(ctx, event.ID, suggestedEvents)
	if err != nil {
		return apperror.Internal("Failed to fetch event", err)
	}
	cards, err := home.EventCards(ctx, uc.events, suggested)
	if err != nil {
		return apperror.Internal("Failed to fetch event", err)
	}

	return response.OK(c, fiber.Map{
		"event":           eventDetail{Event: *event, TotalRegistrations: counts[event.ID]},
		"isRegistered":    registered,
		"suggestedEvents": cards,
	}, "Event details retrieved successfully")
}

type registerEventRequest struct {
	EventID request.Value `json:"eventId"`
}

// RegisterEvent handles POST /api/user/register-event
func (uc *UserController) RegisterEvent(c *fiber.Ctx) error {
	ctx := c.UserContext()
	var body registerEventRequest
	if err := parseBody(c, &body); err != nil {
		return err
	}
	if !body.EventID.Present() {
		return apperror.Validation("Event ID is required.")
	}
	eventID, err := body.EventID.Uint()
	if err != nil {
		return apperror.Validation("Invalid event ID")
	}

	if _, err := uc.events.GetByID(ctx, eventID); err != nil {
		if repository.IsNotFound(err) {
			return apperror.NotFound("Event not found")
		}
		return apperror.Internal("Failed to register for event", err)
	}

	userID := usercontext.GetUserID(c)
	registered, err := uc.events.IsRegistered(ctx, eventID, userID)
	if err != nil {
		return apperror.Internal("Failed to register for event", err)
	}
	if registered {
		return apperror.Conflict("You are already registered for this event.")
	}

	reg := &models.EventRegistration{EventID: eventID, UserID: userID}
	if err := uc.events.Register(ctx, reg); err != nil {
		if repository.IsDuplicateKey(err) {
			return apperror.Conflict("You are already registered for this event.")
		}
		return apperror.Internal("Failed to register for event", err)
	}

	return response.Created(c, reg, "Successfully registered for the event")
}

type attendedEvent struct {
	ID         uint      `json:"id"`
	Title      string    `json:"title"`
	EventDate  time.Time `json:"eventDate"`
	Place      string    `json:"place"`
	Timing     string    `json:"timing"`
	EventType  string    `json:"eventType"`
	Image      *string   `json:"image"`
	CreatedAt  time.Time `json:"createdAt"`
	AttendedAt time.Time `json:"attendedAt"`
}

// AttendedEvents handles GET /api/user/attended-events
func (uc *UserController) AttendedEvents(c *fiber.Ctx) error {
	regs, err := uc.events.AttendedByUser(c.UserContext(), usercontext.GetUserID(c))
	if err != nil {
		return apperror.Internal("Failed to fetch attended events", err)
	}

	events := make([]attendedEvent, 0, len(regs))
	for _, reg := range regs {
		if reg.Event == nil {
			continue
		}
		e := reg.Event
		events = append(events, attendedEvent{
			ID:         e.ID,
			Title:      e.Title,
			EventDate:  e.EventDate,
			Place:      e.Place,
			Timing:     e.Timing,
			EventType:  e.EventType,
			Image:      datauri.Encode(e.Image),
			CreatedAt:  e.CreatedAt,
			AttendedAt: reg.CreatedAt,
		})
	}

	return response.OK(c, fiber.Map{
		"events":        events,
		"totalAttended": len(events),
	}, "Attended events retrieved successfully")
}

// ===================== PROFILE =====================

type periodStatus struct {
	Month  int  `json:"month"`
	Year   int  `json:"year"`
	IsPaid bool `json:"isPaid"`
}

type winSummary struct {
	Month       int                 `json:"month"`
	Year        int                 `json:"year"`
	PrizeAmount decimal.NullDecimal `json:"prizeAmount"`
}

type lotSummary struct {
	LotID       uint          `json:"lotId"`
	ProgramID   uint          `json:"programId"`
	ProgramName string        `json:"programName"`
	LastPayment *periodStatus `json:"lastPayment"`
	HasWon      bool          `json:"hasWon"`
	LastWin     *winSummary   `json:"lastWin"`
}

type goldSummary struct {
	Count         int          `json:"count"`
	TotalPayments int64        `json:"totalPayments"`
	Details       []lotSummary `json:"details"`
}

func summarizeLots(lots []models.GoldLot, paid int64) goldSummary {
	details := make([]lotSummary, 0, len(lots))
	for _, lot := range lots {
		s := lotSummary{LotID: lot.ID, ProgramID: lot.ProgramID, HasWon: len(lot.Winners) > 0}
		if lot.Program != nil {
			s.ProgramName = lot.Program.Name
		}
		// Payments and winners are preloaded newest period first.
		if len(lot.Payments) > 0 {
			p := lot.Payments[0]
			s.LastPayment = &periodStatus{Month: p.Month, Year: p.Year, IsPaid: p.IsPaid}
		}
		if len(lot.Winners) > 0 {
			w := lot.Winners[0]
			s.LastWin = &winSummary{Month: w.Month, Year: w.Year, PrizeAmount: w.PrizeAmount}
		}
		details = append(details, s)
	}
	return goldSummary{Count: len(lots), TotalPayments: paid, Details: details}
}

// Profile handles GET /api/user/me
func (uc *UserController) Profile(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := usercontext.GetUserID(c)

	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return apperror.NotFound("Profile not found")
		}
		return apperror.Internal("Failed to fetch profile", err)
	}
	lots, err := uc.gold.MemberLots(ctx, userID)
	if err != nil {
		return err
	}
	paid, err := uc.payments.CountPaidInActivePrograms(ctx, userID)
	if err != nil {
		return apperror.Internal("Failed to fetch profile", err)
	}

	return response.OK(c, profileView{
		User:         *user,
		MembershipID: user.MemberID,
		GoldPrograms: summarizeLots(lots, paid),
	}, "Profile retrieved successfully")
}

type profileView struct {
	User         models.User
	MembershipID string
	GoldPrograms goldSummary
}

func (p profileView) MarshalJSON() ([]byte, error) {
	return marshalMerged(p.User, map[string]interface{}{
		"membershipId": p.MembershipID,
		"goldPrograms": p.GoldPrograms,
	})
}

type updateProfileRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=150"`
	Email       *string `json:"email" validate:"omitempty,email,max=200"`
	PhoneNumber *string `json:"phoneNumber" validate:"omitempty,max=30"`
	Gender      *string `json:"gender" validate:"omitempty,oneof=MALE FEMALE"`
}

func (r updateProfileRequest) fields() map[string]interface{} {
	fields := map[string]interface{}{}
	set := func(column string, v *string) {
		if v != nil {
			fields[column] = strings.TrimSpace(*v)
		}
	}
	set("name", r.Name)
	set("email", r.Email)
	set("phone_number", r.PhoneNumber)
	set("gender", r.Gender)
	return fields
}

// UpdateProfile handles PUT /api/user/update
func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	var body updateProfileRequest
	if err := request.Parse(c, &body); err != nil {
		return err
	}

	user, err := uc.users.UpdateProfile(c.UserContext(), usercontext.GetUserID(c), body.fields())
	if err != nil {
		if repository.IsNotFound(err) {
			return apperror.NotFound("Profile not found")
		}
		return apperror.Internal("Failed to update profile", err)
	}

	return response.OK(c, fiber.Map{"user": user}, "Profile updated successfully")
}

// UploadAvatar handles PUT /api/user/upload-avatar
func (uc *UserController) UploadAvatar(c *fiber.Ctx) error {
	fh, err := c.FormFile(avatarFormField)
	if err != nil || fh == nil {
		return apperror.Validation("Provide file")
	}
	img, err := readImage(fh, avatar.Process)
	if err != nil {
		return err
	}
	if err := uc.users.SetProfileImage(c.UserContext(), usercontext.GetUserID(c), img); err != nil {
		return apperror.Internal("Failed to store avatar", err)
	}

	return response.OK(c, fiber.Map{}, "file uploaded successfully")
}

// ===================== SURVEY LOOKUPS =====================

// NorkaDetails handles GET /api/user/norka-details
func (uc *UserController) NorkaDetails(c *fiber.Ctx) error {
	details, ok, err := uc.surveys.Norka(c.UserContext(), usercontext.GetUserID(c))
	if err != nil {
		return apperror.Internal("Failed to fetch NORKA details", err)
	}
	if !ok {
		return response.OK(c, fiber.Map{
			"hasNorkaId":        false,
			"norkaIdExpiryDate": nil,
			"message":           "No NORKA-related surveys found",
		}, "No NORKA data available")
	}
	return response.OK(c, details, "NORKA details retrieved successfully")
}

// SecuritySchemeDetails handles GET /api/user/securityschema-details
func (uc *UserController) SecuritySchemeDetails(c *fiber.Ctx) error {
	details, err := uc.surveys.SecuritySchemes(c.UserContext(), usercontext.GetUserID(c))
	if err != nil {
		return apperror.Internal("Failed to fetch security scheme details", err)
	}
	return response.OK(c, details, "Security scheme details retrieved successfully")
}

// PravasiWelfareMembership handles GET /api/user/pravasi-welfare-membership
func (uc *UserController) PravasiWelfareMembership(c *fiber.Ctx) error {
	details, err := uc.surveys.PravasiWelfare(c.UserContext(), usercontext.GetUserID(c))
	if err != nil {
		return apperror.Internal("Failed to fetch Pravasi Welfare membership status", err)
	}
	return response.OK(c, details, "Pravasi Welfare membership status retrieved successfully")
}

// ===================== EXPORT =====================

func (uc *UserController) exportData(c *fiber.Ctx, kind export.UserExportType, userID uint) (export.UserData, error) {
	ctx := c.UserContext()
	var data export.UserData
	var err error
	switch kind {
	case export.UserExportProfile:
		data.User, err = uc.users.GetByID(ctx, userID)
		if repository.IsNotFound(err) {
			return data, apperror.NotFound("Profile not found")
		}
	case export.UserExportEvents:
		data.Registrations, err = uc.events.RegistrationsByUser(ctx, userID)
	case export.UserExportInvestments:
		data.Lots, err = uc.lots.ListByUser(ctx, userID)
		if err == nil {
			data.Investments, err = uc.content.InvestmentsByUser(ctx, userID)
		}
	}
	if err != nil {
		return data, apperror.Internal("Failed to export data", err)
	}
	return data, nil
}

// Export handles GET /api/user/export?exportType=profile|events|investments
func (uc *UserController) Export(c *fiber.Ctx) error {
	kind, ok := export.ParseUserExportType(c.Query("exportType"))
	if !ok {
		return apperror.Validation("Invalid export type specified")
	}
	data, err := uc.exportData(c, kind, usercontext.GetUserID(c))
	if err != nil {
		return err
	}
	workbook, err := export.UserExport(kind, data)
	if err != nil {
		return apperror.Internal("Failed to export data", err)
	}

	c.Set(fiber.HeaderContentDisposition, export.ContentDisposition(export.UserExportFilename(kind, uc.now())))
	c.Set(fiber.HeaderContentType, export.XLSXMimeType)
	return c.Send(workbook)
}
