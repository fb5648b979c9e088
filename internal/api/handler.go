package api

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/terraincognita07/streaky/internal/db"
	"github.com/terraincognita07/streaky/internal/metrics"
	"github.com/terraincognita07/streaky/internal/models"
	"github.com/terraincognita07/streaky/internal/ratelimit"
	"github.com/terraincognita07/streaky/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultAccessTokenTTL = 30 * time.Minute
	defaultLoginLimit     = 8
	defaultLoginWindow    = 15 * time.Minute
	userCacheSize         = 1024
	userCacheTTL          = time.Minute
)

type Options struct {
	SecretKey   string
	TokenTTL    time.Duration
	Location    *time.Location
	Version     string
	Environment string
	Logger      *zap.Logger
	Metrics     *metrics.Metrics
	// Limiter defaults to an in-memory limiter.
	Limiter ratelimit.Limiter
	Now     func() time.Time
}

type Handler struct {
	db          *gorm.DB
	secretKey   []byte
	tokenTTL    time.Duration
	location    *time.Location
	version     string
	environment string
	logger      *zap.Logger
	metrics     *metrics.Metrics
	limiter     ratelimit.Limiter
	now         func() time.Time
	validate    *validator.Validate
	users       *expirable.LRU[uint, models.User]

	repositories      *db.Repositories
	authService       *services.AuthService
	habitService      *services.HabitService
	entryService      *services.EntryService
	categoryService   *services.CategoryService
	monitoringService *services.MonitoringService
}

func NewHandler(database *gorm.DB, options Options) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if options.SecretKey == "" {
		return nil, errors.New("secret key is required")
	}

	handler := &Handler{
		db:          database,
		secretKey:   []byte(options.SecretKey),
		tokenTTL:    options.TokenTTL,
		location:    options.Location,
		version:     options.Version,
		environment: options.Environment,
		logger:      options.Logger,
		metrics:     options.Metrics,
		limiter:     options.Limiter,
		now:         options.Now,
		validate:    newValidator(),
		users:       expirable.NewLRU[uint, models.User](userCacheSize, nil, userCacheTTL),
	}
	if handler.tokenTTL <= 0 {
		handler.tokenTTL = defaultAccessTokenTTL
	}
	if handler.location == nil {
		handler.location = time.UTC
	}
	if handler.logger == nil {
		handler.logger = zap.NewNop()
	}
	if handler.metrics == nil {
		handler.metrics = metrics.New()
	}
	if handler.limiter == nil {
		handler.limiter = ratelimit.NewMemoryLimiter(defaultLoginLimit, defaultLoginWindow)
	}
	if handler.now == nil {
		handler.now = time.Now
	}
	return handler.withDependencies(database), nil
}

func (handler *Handler) withDependencies(database *gorm.DB) *Handler {
	handler.repositories = db.NewRepositories(database)
	handler.authService = services.NewAuthService(handler.repositories.Users)
	handler.habitService = services.NewHabitService(handler.repositories.Habits, handler.repositories.Entries)
	handler.entryService = services.NewEntryService(handler.repositories.Entries, handler.repositories.Habits)
	handler.categoryService = services.NewCategoryService(handler.repositories.Categories, handler.repositories.Habits)
	handler.monitoringService = services.NewMonitoringService(handler.repositories.Habits, handler.repositories.Entries)
	return handler
}

// today is the caller-independent civil date in the configured timezone.
func (handler *Handler) today() time.Time {
	return services.CivilDate(handler.now(), handler.location)
}
