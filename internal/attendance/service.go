package attendance

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gdg-garage/event-attendance-api/internal/models"
	"github.com/gdg-garage/event-attendance-api/internal/notifier"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dispatcher enqueues certificate notifications inside the caller's transaction.
type Dispatcher interface {
	EnqueueCertificate(tx *gorm.DB, attendee models.Attendee, subject notifier.Subject, credentialID string) error
	EnqueueNoCertificate(tx *gorm.DB, attendee models.Attendee, subject notifier.Subject) error
}

// Service is the attendance ledger. It keeps no state between calls besides the store.
type Service struct {
	db         *gorm.DB
	clock      clock.Clock
	dispatcher Dispatcher
	tolerance  time.Duration
	threshold  decimal.Decimal
	log        *zap.Logger
}

type Option func(*Service)

func WithTolerance(d time.Duration) Option {
	return func(s *Service) { s.tolerance = d }
}

func WithThreshold(percent float64) Option {
	return func(s *Service) { s.threshold = decimal.NewFromFloat(percent) }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.log = l }
}

func NewService(db *gorm.DB, clk clock.Clock, dispatcher Dispatcher, opts ...Option) *Service {
	s := &Service{
		db:         db,
		clock:      clk,
		dispatcher: dispatcher,
		tolerance:  DefaultTolerance,
		threshold:  DefaultThreshold,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) now() time.Time {
	return s.clock.Now().UTC()
}
