package home

import (
	"context"
	"time"

	"github.com/kmcc-connect/kmcc-backend/app/models"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/datauri"
)

// AvatarsPerEvent is how many registrant avatars an event card carries.
const AvatarsPerEvent = 3

// EventStats is the part of the event repository used to decorate event cards
type EventStats interface {
	RegistrationCounts(ctx context.Context, eventIDs []uint) (map[uint]int64, error)
	RegistrantAvatars(ctx context.Context, eventIDs []uint, perEvent int) (map[uint][][]byte, error)
}

type RegistrantAvatar struct {
	ProfileImage *string `json:"profileImage"`
}

type Registrant struct {
	User RegistrantAvatar `json:"user"`
}

// EventCard is an event with its registration total and a few registrant avatars
type EventCard struct {
	ID                 uint         `json:"id"`
	Title              string       `json:"title"`
	EventDate          time.Time    `json:"eventDate"`
	Place              string       `json:"place"`
	Timing             string       `json:"timing"`
	Highlights         string       `json:"highlights"`
	EventType          string       `json:"eventType"`
	Image              *string      `json:"image"`
	IsFinished         bool         `json:"isFinished"`
	CreatedAt          time.Time    `json:"createdAt"`
	UpdatedAt          time.Time    `json:"updatedAt"`
	TotalRegistrations int64        `json:"totalRegistrations"`
	Registrations      []Registrant `json:"registrations"`
}

// EventCards decorates events with registration totals and avatars.
func EventCards(ctx context.Context, stats EventStats, events []models.Event) ([]EventCard, error) {
	ids := make([]uint, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	counts, err := stats.RegistrationCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	avatars, err := stats.RegistrantAvatars(ctx, ids, AvatarsPerEvent)
	if err != nil {
		return nil, err
	}

	cards := make([]EventCard, len(events))
	for i, e := range events {
		regs := make([]Registrant, 0, len(avatars[e.ID]))
		for _, img := range avatars[e.ID] {
			regs = append(regs, Registrant{User: RegistrantAvatar{ProfileImage: datauri.Encode(img)}})
		}
		cards[i] = EventCard{
			ID:                 e.ID,
			Title:              e.Title,
			EventDate:          e.EventDate,
			Place:              e.Place,
			Timing:             e.Timing,
			Highlights:         e.Highlights,
			EventType:          e.EventType,
			Image:              datauri.Encode(e.Image),
			IsFinished:         e.IsFinished,
			CreatedAt:          e.CreatedAt,
			UpdatedAt:          e.UpdatedAt,
			TotalRegistrations: counts[e.ID],
			Registrations:      regs,
		}
	}
	return cards, nil
}
