package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/kmcc-connect/kmcc-backend/app/models"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByAPIKeyHash(ctx context.Context, hash string) (*models.User, error)
	UpdateProfile(ctx context.Context, id uint, fields map[string]interface{}) (*models.User, error)
	SetFCMToken(ctx context.Context, id uint, token string) (*models.User, error)
	SetProfileImage(ctx context.Context, id uint, image []byte) error
}

// GoldProgramRepository defines the interface for gold program operations
type GoldProgramRepository interface {
	Create(ctx context.Context, program *models.GoldProgram) error
	FindActive(ctx context.Context) (*models.GoldProgram, error)
	FindActiveWithDetails(ctx context.Context) (*models.GoldProgram, error)
	FindActiveByID(ctx context.Context, id uint) (*models.GoldProgram, error)
	GetByID(ctx context.Context, id uint) (*models.GoldProgram, error)
	GetDetails(ctx context.Context, id uint) (*models.GoldProgram, error)
	ListWithCounts(ctx context.Context) ([]ProgramWithCounts, error)
	End(ctx context.Context, id uint, endedAt time.Time) (bool, error)
}

// GoldLotRepository defines the interface for gold lot operations
type GoldLotRepository interface {
	Create(ctx context.Context, lot *models.GoldLot) error
	GetByID(ctx context.Context, id uint) (*models.GoldLot, error)
	GetDetails(ctx context.Context, id uint) (*models.GoldLot, error)
	ListByProgram(ctx context.Context, programID uint) ([]models.GoldLot, error)
	ListForExport(ctx context.Context, programID uint) ([]models.GoldLot, error)
	ListActiveByUser(ctx context.Context, userID uint) ([]models.GoldLot, error)
	ListByUser(ctx context.Context, userID uint) ([]models.GoldLot, error)
	FindIDsInProgram(ctx context.Context, programID uint, ids []uint) ([]uint, error)
	CountHistory(ctx context.Context, id uint) (payments int64, winners int64, err error)
	CountInActivePrograms(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id uint) error
}

// GoldPaymentRepository defines the interface for gold payment operations
type GoldPaymentRepository interface {
	Upsert(ctx context.Context, payment *models.GoldPayment) (*models.GoldPayment, error)
	GetByID(ctx context.Context, id uint) (*models.GoldPayment, error)
	SlotTakenByOther(ctx context.Context, exceptID, lotID uint, year, month int) (bool, error)
	UpdatePeriod(ctx context.Context, id uint, year, month int, paidAt time.Time) (*models.GoldPayment, error)
	Delete(ctx context.Context, id uint) error
	CountPaidInActivePrograms(ctx context.Context, userID uint) (int64, error)
}

// GoldWinnerRepository defines the interface for gold winner operations
type GoldWinnerRepository interface {
	CreateBatch(ctx context.Context, winners []models.GoldWinner) ([]models.GoldWinner, error)
	GetByID(ctx context.Context, id uint) (*models.GoldWinner, error)
	WonLotIDs(ctx context.Context, programID uint, lotIDs []uint) ([]uint, error)
	ListByProgram(ctx context.Context, programID uint) ([]models.GoldWinner, error)
	ListByPeriod(ctx context.Context, year, month, limit int) ([]models.GoldWinner, error)
	SlotTakenByOther(ctx context.Context, exceptID, programID uint, year, month int) (bool, error)
	Update(ctx context.Context, winner *models.GoldWinner) (*models.GoldWinner, error)
	Delete(ctx context.Context, id uint) error
}

// EventRepository defines the interface for event-related operations
type EventRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Event, error)
	ListUnfinished(ctx context.Context, offset, limit int) ([]models.Event, error)
	CountUnfinished(ctx context.Context) (int64, error)
	Latest(ctx context.Context, limit int) ([]models.Event, error)
	Suggested(ctx context.Context, excludeID uint, limit int) ([]models.Event, error)
	RegistrationCounts(ctx context.Context, eventIDs []uint) (map[uint]int64, error)
	RegistrantAvatars(ctx context.Context, eventIDs []uint, perEvent int) (map[uint][][]byte, error)
	IsRegistered(ctx context.Context, eventID, userID uint) (bool, error)
	Register(ctx context.Context, registration *models.EventRegistration) error
	AttendedByUser(ctx context.Context, userID uint) ([]models.EventRegistration, error)
	RegistrationsByUser(ctx context.Context, userID uint) ([]models.EventRegistration, error)
}

// ContentRepository defines read access to the home page content tables
type ContentRepository interface {
	LatestServices(ctx context.Context, limit int) ([]models.Service, error)
	LatestJobs(ctx context.Context, limit int) ([]models.Job, error)
	FirstBanner(ctx context.Context) (*models.Banner, error)
	LatestNews(ctx context.Context, limit int) ([]models.News, error)
	CountActiveInvestments(ctx context.Context) (int64, error)
	InvestmentsByUser(ctx context.Context, userID uint) ([]models.LongTermInvestment, error)
}

// TravelRepository defines the interface for travel-related operations
type TravelRepository interface {
	Create(ctx context.Context, travel *models.Travel) error
	GetByID(ctx context.Context, id uint) (*models.Travel, error)
	List(ctx context.Context) ([]models.Travel, error)
	Upcoming(ctx context.Context, from time.Time, offset, limit int) ([]models.Travel, error)
	CountUpcoming(ctx context.Context, from time.Time) (int64, error)
	NextAvailable(ctx context.Context, now time.Time, limit int) ([]models.Travel, error)
	Update(ctx context.Context, travel *models.Travel) error
	Delete(ctx context.Context, id uint) error
	AirportsExist(ctx context.Context, ids ...uint) (bool, error)
	ListAirports(ctx context.Context) ([]models.Airport, error)
}

// NotificationRepository defines the interface for stored notifications
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListAll(ctx context.Context, offset, limit int) ([]models.Notification, error)
	ListByUser(ctx context.Context, userID uint, offset, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, id uint) (bool, error)
}

// SubWingRepository defines the interface for sub-wings and their members
type SubWingRepository interface {
	Create(ctx context.Context, subWing *models.SubWing) error
	GetByID(ctx context.Context, id uint) (*models.SubWing, error)
	GetWithMembers(ctx context.Context, id uint) (*models.SubWing, error)
	ListWithCounts(ctx context.Context) ([]SubWingWithCount, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) (*models.SubWing, error)
	AddMember(ctx context.Context, member *models.SubWingMember) error
	ListMembers(ctx context.Context, subWingID uint) ([]models.SubWingMember, error)
	UpdateMember(ctx context.Context, id uint, fields map[string]interface{}) (*models.SubWingMember, error)
	DeleteMember(ctx context.Context, id uint) error
}

// SurveyRepository defines read access to survey questions and member answers
type SurveyRepository interface {
	QuestionExists(ctx context.Context, text string) (bool, error)
	AnswersMatching(ctx context.Context, userID uint, fragment string) ([]models.UserSurveyAnswer, error)
	Answer(ctx context.Context, userID uint, text string) (*string, error)
}

// SubWingWithCount is a sub-wing plus the number of its members.
type SubWingWithCount struct {
	models.SubWing
	MemberCount int64
}

// ProgramCounts mirrors the per-program relation counts returned by the programs list.
type ProgramCounts struct {
	Lots    int64 `json:"lots"`
	Winners int64 `json:"winners"`
}

// ProgramWithCounts is a program plus its lot and winner counts.
type ProgramWithCounts struct {
	models.GoldProgram
	Count ProgramCounts `json:"_count"`
}

// Repositories struct holds all repository instances
type Repositories struct {
	User         UserRepository
	GoldProgram  GoldProgramRepository
	GoldLot      GoldLotRepository
	GoldPayment  GoldPaymentRepository
	GoldWinner   GoldWinnerRepository
	Event        EventRepository
	Content      ContentRepository
	Travel       TravelRepository
	Notification NotificationRepository
	SubWing      SubWingRepository
	Survey       SurveyRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		GoldProgram:  NewGoldProgramRepository(db),
		GoldLot:      NewGoldLotRepository(db),
		GoldPayment:  NewGoldPaymentRepository(db),
		GoldWinner:   NewGoldWinnerRepository(db),
		Event:        NewEventRepository(db),
		Content:      NewContentRepository(db),
		Travel:       NewTravelRepository(db),
		Notification: NewNotificationRepository(db),
		SubWing:      NewSubWingRepository(db),
		Survey:       NewSurveyRepository(db),
	}
}
