package controllers

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kmcc-connect/kmcc-backend/app/models"
	"github.com/kmcc-connect/kmcc-backend/app/repository"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/apperror"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/push"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/request"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/response"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/usercontext"
)

const travelPageSize = 10

// Broadcaster sends a push message to every subscribed device
type Broadcaster interface {
	Broadcast(ctx context.Context, msg push.Message)
}

// TravelController manages member travel announcements under /api/travel
type TravelController struct {
	travels repository.TravelRepository
	push    Broadcaster
	now     Clock
}

// NewTravelController creates the controller. pusher may be nil.
func NewTravelController(travels repository.TravelRepository, pusher Broadcaster, now Clock) *TravelController {
	return &TravelController{travels: travels, push: pusher, now: now.orDefault()}
}

type travelRequest struct {
	FromAirportID request.Value `json:"fromAirportId"`
	ToAirportID   request.Value `json:"toAirportId"`
	TravelDate    string        `json:"travelDate"`
	TravelTime    string        `json:"travelTime"`
	Status        string        `json:"status"`
}

type travelInput struct {
	fromAirportID uint
	toAirportID   uint
	date          time.Time
	clock         string
}

var travelDateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func parseTravelDate(s string) (time.Time, bool) {
	for _, layout := range travelDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseTravelTime accepts "H:MM" or "HH:MM" and returns it zero padded.
func parseTravelTime(s string) (string, bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return "", false
	}
	return t.Format("15:04"), true
}

func (r travelRequest) input() (travelInput, error) {
	required := apperror.Validation("All fields are required.")
	if !r.FromAirportID.Present() || !r.ToAirportID.Present() ||
		strings.TrimSpace(r.TravelDate) == "" || strings.TrimSpace(r.TravelTime) == "" {
		return travelInput{}, required
	}

	from, err := r.FromAirportID.Uint()
	if err != nil {
		return travelInput{}, apperror.Validation("Invalid airport selection")
	}
	to, err := r.ToAirportID.Uint()
	if err != nil {
		return travelInput{}, apperror.Validation("Invalid airport selection")
	}
	date, ok := parseTravelDate(strings.TrimSpace(r.TravelDate))
	if !ok {
		return travelInput{}, apperror.Validation("Invalid travel date")
	}
	clock, ok := parseTravelTime(strings.TrimSpace(r.TravelTime))
	if !ok {
		return travelInput{}, apperror.Validation("Invalid travel time")
	}
	return travelInput{fromAirportID: from, toAirportID: to, date: date, clock: clock}, nil
}

func (tc *TravelController) checkAirports(c *fiber.Ctx, in travelInput) error {
	ok, err := tc.travels.AirportsExist(c.UserContext(), in.fromAirportID, in.toAirportID)
	if err != nil {
		return apperror.Internal("Failed to verify airports", err)
	}
	if !ok {
		return apperror.Validation("Invalid airport selection")
	}
	return nil
}

// Create handles POST /api/travel
func (tc *TravelController) Create(c *fiber.Ctx) error {
	var body travelRequest
	if err := parseBody(c, &body); err != nil {
		return err
	}
	in, err := body.input()
	if err != nil {
		return err
	}
	if err := tc.checkAirports(c, in); err != nil {
		return err
	}

	travel := &models.Travel{
		UserID:        usercontext.GetUserID(c),
		FromAirportID: in.fromAirportID,
		ToAirportID:   in.toAirportID,
		TravelDate:    in.date,
		TravelTime:    in.clock,
		Status:        models.TRAVEL_STATUS_AVAILABLE,
	}
	if err := tc.travels.Create(c.UserContext(), travel); err != nil {
		return apperror.Internal("Failed to add travel details", err)
	}

	if tc.push != nil {
		tc.push.Broadcast(c.UserContext(), push.Message{
			Title: "Hey KMCC Members!",
			Body:  "Check out the latest travel update!",
			Data:  map[string]string{"type": "news", "travelId": strconv.FormatUint(uint64(travel.ID), 10)},
		})
	}

	return response.Created(c, travel, "Travel details added successfully")
}

// List handles GET /api/travel
func (tc *TravelController) List(c *fiber.Ctx) error {
	travels, err := tc.travels.List(c.UserContext())
	if err != nil {
		return apperror.Internal("Failed to fetch travels", err)
	}
	return response.OK(c, travels, "Travel data retrieved successfully")
}

type upcomingTravel struct {
	models.Travel
	IsAccessed bool `json:"isAccessed"`
}

type pageInfo struct {
	Total           int64 `json:"total"`
	TotalPages      int   `json:"totalPages"`
	CurrentPage     int   `json:"currentPage"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

func newPageInfo(p request.Page, total int64) pageInfo {
	return pageInfo{
		Total:           total,
		TotalPages:      int(math.Ceil(float64(total) / float64(p.Limit))),
		CurrentPage:     p.Page,
		HasNextPage:     int64(p.Page*p.Limit) < total,
		HasPreviousPage: p.Page > 1,
	}
}

// Upcoming handles GET /api/travel/upcoming
func (tc *TravelController) Upcoming(c *fiber.Ctx) error {
	ctx := c.UserContext()
	page := request.Pagination(c, travelPageSize)
	now := tc.now()

	total, err := tc.travels.CountUpcoming(ctx, now)
	if err != nil {
		return apperror.Internal("Failed to fetch upcoming travels", err)
	}
	travels, err := tc.travels.Upcoming(ctx, now, page.Offset(), page.Limit)
	if err != nil {
		return apperror.Internal("Failed to fetch upcoming travels", err)
	}

	userID := usercontext.GetUserID(c)
	out := make([]upcomingTravel, len(travels))
	for i, t := range travels {
		out[i] = upcomingTravel{Travel: t, IsAccessed: userID != 0 && t.UserID == userID}
	}

	return response.OK(c, fiber.Map{
		"travels":    out,
		"pagination": newPageInfo(page, total),
	}, "Upcoming travels fetched successfully")
}

// Update handles PUT /api/travel/:id
func (tc *TravelController) Update(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id, err := request.ParamID(c, "id", "travel")
	if err != nil {
		return err
	}
	var body travelRequest
	if err := parseBody(c, &body); err != nil {
		return err
	}
	if strings.TrimSpace(body.Status) == "" {
		return apperror.Validation("All fields are required.")
	}
	in, err := body.input()
	if err != nil {
		return err
	}
	if !models.IsValidTravelStatus(body.Status) {
		return apperror.Validation("Invalid status provided")
	}

	travel, err := tc.travels.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return apperror.NotFound("Travel record not found")
		}
		return apperror.Internal("Failed to update travel record", err)
	}
	if err := tc.checkAirports(c, in); err != nil {
		return err
	}

	travel.FromAirportID = in.fromAirportID
	travel.ToAirportID = in.toAirportID
	travel.TravelDate = in.date
	travel.TravelTime = in.clock
	travel.Status = body.Status
	if err := tc.travels.Update(ctx, travel); err != nil {
		return apperror.Internal("Failed to update travel record", err)
	}

	return response.OK(c, travel, "Travel record updated successfully")
}

// Delete handles DELETE /api/travel/:id. Only the creator or an admin may delete.
func (tc *TravelController) Delete(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id, err := request.ParamID(c, "id", "travel")
	if err != nil {
		return err
	}

	travel, err := tc.travels.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return apperror.NotFound("Travel record not found")
		}
		return apperror.Internal("Failed to delete travel record", err)
	}
	if travel.UserID != usercontext.GetUserID(c) && !usercontext.IsAdmin(c) {
		return apperror.Forbidden("You are not authorized to delete this travel record")
	}

	if err := tc.travels.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return apperror.NotFound("Travel record not found")
		}
		return apperror.Internal("Failed to delete travel record", err)
	}

	return response.OK(c, fiber.Map{}, "Travel record deleted successfully")
}

// Airports handles GET /api/travel/airports
func (tc *TravelController) Airports(c *fiber.Ctx) error {
	airports, err := tc.travels.ListAirports(c.UserContext())
	if err != nil {
		return apperror.Internal("Failed to fetch airports", err)
	}
	return response.OK(c, airports, "Airports retrieved successfully")
}
