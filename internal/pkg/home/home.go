// Package home assembles the member app's landing screen from independent reads.
package home

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/kmcc-connect/kmcc-backend/app/models"
	"github.com/kmcc-connect/kmcc-backend/app/repository"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/apperror"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/datauri"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/gold"
)

const (
	latestEvents        = 4
	latestServices      = 4
	latestJobs          = 4
	latestNews          = 5
	upcomingTravels     = 4
	previousWinnerLimit = 5
)

type EventSource interface {
	EventStats
	Latest(ctx context.Context, limit int) ([]models.Event, error)
}

type ContentSource interface {
	LatestServices(ctx context.Context, limit int) ([]models.Service, error)
	LatestJobs(ctx context.Context, limit int) ([]models.Job, error)
	FirstBanner(ctx context.Context) (*models.Banner, error)
	LatestNews(ctx context.Context, limit int) ([]models.News, error)
	CountActiveInvestments(ctx context.Context) (int64, error)
}

type TravelSource interface {
	NextAvailable(ctx context.Context, now time.Time, limit int) ([]models.Travel, error)
}

type ProgramSource interface {
	FindActive(ctx context.Context) (*models.GoldProgram, error)
}

type WinnerSource interface {
	ListByPeriod(ctx context.Context, year, month, limit int) ([]models.GoldWinner, error)
}

type LotCounter interface {
	CountInActivePrograms(ctx context.Context) (int64, error)
}

// Aggregator loads the home payload
type Aggregator struct {
	Events   EventSource
	Content  ContentSource
	Travels  TravelSource
	Programs ProgramSource
	Winners  WinnerSource
	Lots     LotCounter
}

func NewAggregator(repos *repository.Repositories) *Aggregator {
	return &Aggregator{
		Events:   repos.Event,
		Content:  repos.Content,
		Travels:  repos.Travel,
		Programs: repos.GoldProgram,
		Winners:  repos.GoldWinner,
		Lots:     repos.GoldLot,
	}
}

type NewsItem struct {
	ID        uint      `json:"id"`
	Type      string    `json:"type"`
	Heading   string    `json:"heading"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	Image     *string   `json:"image"`
}

type TravelItem struct {
	ID          uint            `json:"id"`
	UserID      uint            `json:"userId"`
	UserName    string          `json:"userName"`
	FromAirport *models.Airport `json:"fromAirport"`
	ToAirport   *models.Airport `json:"toAirport"`
	TravelDate  time.Time       `json:"travelDate"`
	TravelTime  string          `json:"travelTime"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type WinnerItem struct {
	ID          uint                `json:"id"`
	Year        int                 `json:"year"`
	Month       int                 `json:"month"`
	MonthName   string              `json:"monthName"`
	PrizeAmount decimal.NullDecimal `json:"prizeAmount"`
	WinnerName  string              `json:"winnerName"`
	MemberID    string              `json:"memberId"`
	CreatedAt   time.Time           `json:"createdAt"`
}

type GoldSummary struct {
	IsActive          bool         `json:"isActive"`
	CurrentWinners    []WinnerItem `json:"currentWinners"`
	WinnersMonth      string       `json:"winnersMonth"`
	WinnersYear       int          `json:"winnersYear"`
	IsCurrentMonth    bool         `json:"isCurrentMonth"`
	TotalParticipants int64        `json:"totalParticipants"`
}

type InvestmentSummary struct {
	TotalParticipants int64 `json:"totalParticipants"`
}

// Payload is the home screen document
type Payload struct {
	BannerImage        *string           `json:"bannerImage"`
	Events             []EventCard       `json:"events"`
	Jobs               []models.Job      `json:"jobs"`
	Services           []models.Service  `json:"services"`
	News               []NewsItem        `json:"news"`
	Travels            []TravelItem      `json:"travels"`
	GoldProgram        GoldSummary       `json:"goldProgram"`
	LongTermInvestment InvestmentSummary `json:"longTermInvestment"`
}

// Load runs every read concurrently. The first failure cancels the rest and
// is reported as a single internal error.
func (a *Aggregator) Load(ctx context.Context, now time.Time) (*Payload, error) {
	year, month := now.Year(), int(now.Month())
	prevYear, prevMonth := gold.PreviousPeriod(year, month)

	var (
		events         []EventCard
		services       []models.Service
		jobs           []models.Job
		banner         *models.Banner
		news           []models.News
		travels        []models.Travel
		program        *models.GoldProgram
		currentWinners []models.GoldWinner
		prevWinners    []models.GoldWinner
		investments    int64
		participants   int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		latest, err := a.Events.Latest(gctx, latestEvents)
		if err != nil {
			return err
		}
		events, err = EventCards(gctx, a.Events, latest)
		return err
	})
	g.Go(func() (err error) {
		services, err = a.Content.LatestServices(gctx, latestServices)
		return err
	})
	g.Go(func() (err error) {
		jobs, err = a.Content.LatestJobs(gctx, latestJobs)
		return err
	})
	g.Go(func() (err error) {
		banner, err = a.Content.FirstBanner(gctx)
		return err
	})
	g.Go(func() (err error) {
		news, err = a.Content.LatestNews(gctx, latestNews)
		return err
	})
	g.Go(func() (err error) {
		travels, err = a.Travels.NextAvailable(gctx, now, upcomingTravels)
		return err
	})
	g.Go(func() (err error) {
		program, err = a.Programs.FindActive(gctx)
		if repository.IsNotFound(err) {
			program, err = nil, nil
		}
		return err
	})
	g.Go(func() (err error) {
		currentWinners, err = a.Winners.ListByPeriod(gctx, year, month, 0)
		return err
	})
	g.Go(func() (err error) {
		prevWinners, err = a.Winners.ListByPeriod(gctx, prevYear, prevMonth, previousWinnerLimit)
		return err
	})
	g.Go(func() (err error) {
		investments, err = a.Content.CountActiveInvestments(gctx)
		return err
	})
	g.Go(func() (err error) {
		participants, err = a.Lots.CountInActivePrograms(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		log.Errorf("[Home] Failed to load home data: %v", err)
		return nil, apperror.Internal("Failed to fetch home page data", err)
	}

	shown := gold.PickWinners(year, month, currentWinners, prevWinners)

	payload := &Payload{
		Events:   events,
		Jobs:     nonNil(jobs),
		Services: nonNil(services),
		News:     newsItems(news),
		Travels:  travelItems(travels),
		GoldProgram: GoldSummary{
			IsActive:          program != nil,
			CurrentWinners:    winnerItems(shown.Winners),
			WinnersMonth:      gold.MonthName(shown.Month),
			WinnersYear:       shown.Year,
			IsCurrentMonth:    !shown.IsFallback && len(shown.Winners) > 0,
			TotalParticipants: participants,
		},
		LongTermInvestment: InvestmentSummary{TotalParticipants: investments},
	}
	if banner != nil {
		payload.BannerImage = datauri.Encode(banner.Image)
	}
	return payload, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func newsItems(news []models.News) []NewsItem {
	items := make([]NewsItem, len(news))
	for i, n := range news {
		items[i] = NewsItem{
			ID:        n.ID,
			Type:      n.Type,
			Heading:   n.Heading,
			Author:    n.Author,
			CreatedAt: n.CreatedAt,
			Image:     datauri.Encode(n.Image),
		}
	}
	return items
}

func travelItems(travels []models.Travel) []TravelItem {
	items := make([]TravelItem, len(travels))
	for i, t := range travels {
		item := TravelItem{
			ID:          t.ID,
			UserID:      t.UserID,
			FromAirport: t.FromAirport,
			ToAirport:   t.ToAirport,
			TravelDate:  t.TravelDate,
			TravelTime:  t.TravelTime,
			Status:      t.Status,
			CreatedAt:   t.CreatedAt,
		}
		if t.User != nil {
			item.UserName = t.User.Name
		}
		items[i] = item
	}
	return items
}

func winnerItems(winners []models.GoldWinner) []WinnerItem {
	items := make([]WinnerItem, len(winners))
	for i, w := range winners {
		item := WinnerItem{
			ID:          w.ID,
			Year:        w.Year,
			Month:       w.Month,
			MonthName:   gold.MonthName(w.Month),
			PrizeAmount: w.PrizeAmount,
			CreatedAt:   w.CreatedAt,
		}
		if w.Lot != nil && w.Lot.User != nil {
			item.WinnerName = w.Lot.User.Name
			item.MemberID = w.Lot.User.MemberID
		}
		items[i] = item
	}
	return items
}
