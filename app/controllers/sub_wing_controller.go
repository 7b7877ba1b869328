package controllers

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/kmcc-connect/kmcc-backend/app/models"
	"github.com/kmcc-connect/kmcc-backend/app/repository"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/apperror"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/avatar"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/request"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/response"
)

const (
	iconFormField        = "icon"
	memberImageFormField = "image"
)

var hexColor = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

// SubWingController manages sub-wings and their members under /api/subwing
type SubWingController struct {
	subWings repository.SubWingRepository
}

func NewSubWingController(subWings repository.SubWingRepository) *SubWingController {
	return &SubWingController{subWings: subWings}
}

// subWingRequest is read from JSON or multipart form fields. Nil means absent.
type subWingRequest struct {
	Name            *string `json:"name" form:"name" validate:"omitempty,max=150"`
	Description     *string `json:"description" form:"description"`
	BackgroundColor *string `json:"backgroundColor" form:"backgroundColor"`
	MainColor       *string `json:"mainColor" form:"mainColor"`
}

type subWingMemberRequest struct {
	Name     string `json:"name" form:"name" validate:"max=150"`
	Position string `json:"position" form:"position" validate:"max=150"`
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func checkColors(colors ...string) error {
	for _, c := range colors {
		if c != "" && !hexColor.MatchString(c) {
			return apperror.Validation("Invalid color format. Use hex codes like #FFFFFF or #FFF.")
		}
	}
	return nil
}

// optionalIcon returns nil when no icon was uploaded.
func optionalIcon(c *fiber.Ctx) ([]byte, error) {
	fh := optionalFormFile(c, iconFormField)
	if fh == nil {
		return nil, nil
	}
	return readSVG(fh)
}

// optionalPortrait returns nil when no member photo was uploaded.
func optionalPortrait(c *fiber.Ctx) ([]byte, error) {
	fh := optionalFormFile(c, memberImageFormField)
	if fh == nil {
		return nil, nil
	}
	return readImage(fh, avatar.Portrait)
}

func (sc *SubWingController) subWingNotFound(err error, action string) error {
	if repository.IsNotFound(err) {
		return apperror.NotFound("Sub-wing not found.")
	}
	return apperror.Internal("Failed to "+action, err)
}

// ===================== SUB-WINGS =====================

// Create handles POST /api/subwing
func (sc *SubWingController) Create(c *fiber.Ctx) error {
	var body subWingRequest
	if err := request.Parse(c, &body); err != nil {
		return err
	}
	name := trimmed(body.Name)
	if name == "" {
		return apperror.Validation("Sub-wing name is required.")
	}

	background, mainColor := trimmed(body.BackgroundColor), trimmed(body.MainColor)
	if background == "" {
		background = models.SUBWING_DEFAULT_BACKGROUND
	}
	if mainColor == "" {
		mainColor = models.SUBWING_DEFAULT_MAIN
	}
	if err := checkColors(background, mainColor); err != nil {
		return err
	}
	icon, err := optionalIcon(c)
	if err != nil {
		return err
	}

	subWing := &models.SubWing{
		Name:            name,
		Icon:            icon,
		BackgroundColor: background,
		MainColor:       mainColor,
	}
	if d := trimmed(body.Description); d != "" {
		subWing.Description = &d
	}
	if err := sc.subWings.Create(c.UserContext(), subWing); err != nil {
		return apperror.Internal("Failed to create sub-wing", err)
	}

	return response.Created(c, subWing, "Sub-wing created successfully.")
}

type subWingSummary struct {
	SubWing     models.SubWing
	MemberCount int64
}

func (s subWingSummary) MarshalJSON() ([]byte, error) {
	return marshalMerged(s.SubWing, map[string]interface{}{"memberCount": s.MemberCount})
}

// List handles GET /api/subwing
func (sc *SubWingController) List(c *fiber.Ctx) error {
	subWings, err := sc.subWings.ListWithCounts(c.UserContext())
	if err != nil {
		return apperror.Internal("Failed to fetch sub-wings", err)
	}
	out := make([]subWingSummary, len(subWings))
	for i, s := range subWings {
		out[i] = subWingSummary{SubWing: s.SubWing, MemberCount: s.MemberCount}
	}
	return response.OK(c, out, "Sub-wings retrieved successfully.")
}

// Details handles GET /api/subwing/:subWingId
func (sc *SubWingController) Details(c *fiber.Ctx) error {
	id, err := request.ParamID(c, "subWingId", "sub-wing")
	if err != nil {
		return err
	}
	subWing, err := sc.subWings.GetWithMembers(c.UserContext(), id)
	if err != nil {
		return sc.subWingNotFound(err, "fetch sub-wing")
	}
	if subWing.Members == nil {
		subWing.Members = []models.SubWingMember{}
	}
	return response.OK(c, subWingDetail{*subWing}, "Sub-wing details retrieved successfully.")
}

// subWingDetail always carries the members key, even when empty.
type subWingDetail struct {
	models.SubWing
}

func (d subWingDetail) MarshalJSON() ([]byte, error) {
	return marshalMerged(d.SubWing, map[string]interface{}{"members": d.Members})
}

// Update handles PUT /api/subwing/:subWingId. Only supplied fields change.
func (sc *SubWingController) Update(c *fiber.Ctx) error {
	id, err := request.ParamID(c, "subWingId", "sub-wing")
	if err != nil {
		return err
	}
	var body subWingRequest
	if err := request.Parse(c, &body); err != nil {
		return err
	}

	background, mainColor := trimmed(body.BackgroundColor), trimmed(body.MainColor)
	if err := checkColors(background, mainColor); err != nil {
		return err
	}
	icon, err := optionalIcon(c)
	if err != nil {
		return err
	}

	fields := map[string]interface{}{}
	if name := trimmed(body.Name); name != "" {
		fields["name"] = name
	}
	if body.Description != nil {
		if d := trimmed(body.Description); d != "" {
			fields["description"] = d
		} else {
			fields["description"] = nil
		}
	}
	if icon != nil {
		fields["icon"] = icon
	}
	if background != "" {
		fields["background_color"] = background
	}
	if mainColor != "" {
		fields["main_color"] = mainColor
	}

	subWing, err := sc.subWings.Update(c.UserContext(), id, fields)
	if err != nil {
		return sc.subWingNotFound(err, "update sub-wing")
	}
	return response.OK(c, subWing, "Sub-wing updated successfully.")
}

// ===================== MEMBERS =====================

// Members handles GET /api/subwing/:subWingId/members
func (sc *SubWingController) Members(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id, err := request.ParamID(c, "subWingId", "sub-wing")
	if err != nil {
		return err
	}
	if _, err := sc.subWings.GetByID(ctx, id); err != nil {
		return sc.subWingNotFound(err, "fetch members")
	}
	members, err := sc.subWings.ListMembers(ctx, id)
	if err != nil {
		return apperror.Internal("Failed to fetch members", err)
	}
	return response.OK(c, members, "Members retrieved successfully.")
}

// AddMember handles POST /api/subwing/:subWingId/members
func (sc *SubWingController) AddMember(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id, err := request.ParamID(c, "subWingId", "sub-wing")
	if err != nil {
		return apperror.Validation("Name, position, and valid sub-wing ID are required.")
	}
	var body subWingMemberRequest
	if err := request.Parse(c, &body); err != nil {
		return err
	}
	name, position := strings.TrimSpace(body.Name), strings.TrimSpace(body.Position)
	if name == "" || position == "" {
		return apperror.Validation("Name, position, and valid sub-wing ID are required.")
	}
	if _, err := sc.subWings.GetByID(ctx, id); err != nil {
		return sc.subWingNotFound(err, "add member")
	}
	image, err := optionalPortrait(c)
	if err != nil {
		return err
	}

	member := &models.SubWingMember{Name: name, Position: position, Image: image, SubWingID: id}
	if err := sc.subWings.AddMember(ctx, member); err != nil {
		return apperror.Internal("Failed to add member", err)
	}
	return response.Created(c, member, "Member added successfully.")
}

// UpdateMember handles PUT /api/subwing/members/:memberId. The photo is kept
// unless a new one is uploaded.
func (sc *SubWingController) UpdateMember(c *fiber.Ctx) error {
	id, err := request.ParamID(c, "memberId", "member")
	if err != nil {
		return err
	}
	var body subWingMemberRequest
	if err := request.Parse(c, &body); err != nil {
		return err
	}
	name, position := strings.TrimSpace(body.Name), strings.TrimSpace(body.Position)
	if name == "" || position == "" {
		return apperror.Validation("Name and position are required.")
	}
	image, err := optionalPortrait(c)
	if err != nil {
		return err
	}

	fields := map[string]interface{}{"name": name, "position": position}
	if image != nil {
		fields["image"] = image
	}
	member, err := sc.subWings.UpdateMember(c.UserContext(), id, fields)
	if err != nil {
		if repository.IsNotFound(err) {
			return apperror.NotFound("Member not found.")
		}
		return apperror.Internal("Failed to update member", err)
	}
	return response.OK(c, member, "Member updated successfully.")
}

// DeleteMember handles DELETE /api/subwing/members/:memberId
func (sc *SubWingController) DeleteMember(c *fiber.Ctx) error {
	id, err := request.ParamID(c, "memberId", "member")
	if err != nil {
		return err
	}
	if err := sc.subWings.DeleteMember(c.UserContext(), id); err != nil {
		if repository.IsNotFound(err) {
			return apperror.NotFound("Member not found.")
		}
		return apperror.Internal("Failed to delete member", err)
	}
	return response.OK(c, fiber.Map{}, "Member deleted successfully.")
}
