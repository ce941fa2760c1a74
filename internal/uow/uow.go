package uow

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"labcore/internal/audit"
	"labcore/internal/config"
	"labcore/internal/database"
	"labcore/internal/domain"
	"labcore/internal/platform/logger"
	"labcore/internal/platform/metrics"
	"labcore/internal/repository"
)

var tracer = otel.Tracer("labcore/uow")

// ErrClosed is returned when a finished unit is used again.
var ErrClosed = errors.New("unit of work already finished")

// Manager opens units of work on one database.
type Manager struct {
	db       *gorm.DB
	cfg      config.Config
	log      *logger.Logger
	metrics  *metrics.Collectors
	recorder *audit.Recorder
	now      func() time.Time
}

func New(db *gorm.DB, cfg config.Config, log *logger.Logger, m *metrics.Collectors) *Manager {
	return &Manager{
		db:       db,
		cfg:      cfg,
		log:      log.With("component", "uow"),
		metrics:  m,
		recorder: audit.NewRecorder(log, m),
		now:      time.Now,
	}
}

// WithClock replaces the time source used for booking timestamps.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	cp := *m
	cp.now = now
	return &cp
}

// Unit is one transaction plus the repositories bound to it.
type Unit struct {
	ID string

	Laboratories   *repository.LaboratoryRepository
	Accounts       *repository.AccountRepository
	Projects       *repository.ProjectRepository
	Partners       *repository.PartnerRepository
	Equipment      *repository.EquipmentRepository
	EquipmentTypes *repository.EquipmentTypeRepository
	Rooms          *repository.RoomRepository
	Resources      *repository.ResourceRepository
	Bookings       *repository.BookingRepository
	Stats          *repository.StatsRepository

	tx      *gorm.DB
	log     *logger.Logger
	metrics *metrics.Collectors
	done    bool
}

// Begin opens a unit. The caller must end it with Commit or Rollback;
// deferring Close rolls back anything left uncommitted.
func (m *Manager) Begin(ctx context.Context) (*Unit, error) {
	var opts []*sql.TxOptions
	if m.db.Dialector.Name() == "postgres" {
		opts = append(opts, &sql.TxOptions{Isolation: m.cfg.Database.IsolationLevel()})
	}
	tx := m.db.WithContext(ctx).Begin(opts...)
	if tx.Error != nil {
		err := fmt.Errorf("begin unit of work: %w", database.Classify(tx.Error))
		m.metrics.ObserveError(domain.Kind(err))
		return nil, err
	}

	id := uuid.NewString()
	log := m.log.With("uow_id", id)
	return &Unit{
		ID:             id,
		Laboratories:   repository.NewLaboratoryRepository(tx, log),
		Accounts:       repository.NewAccountRepository(tx, log),
		Projects:       repository.NewProjectRepository(tx, log),
		Partners:       repository.NewPartnerRepository(tx, log),
		Equipment:      repository.NewEquipmentRepository(tx, log),
		EquipmentTypes: repository.NewEquipmentTypeRepository(tx, log),
		Rooms:          repository.NewRoomRepository(tx, log),
		Resources:      repository.NewResourceRepository(tx, log),
		Bookings:       repository.NewBookingRepository(tx, log, m.recorder, m.cfg.Booking, m.now),
		Stats:          repository.NewStatsRepository(tx, log),
		tx:             tx,
		log:            log,
		metrics:        m.metrics,
	}, nil
}

func (u *Unit) Commit() error {
	if u.done {
		return ErrClosed
	}
	u.done = true
	if err := u.tx.Commit().Error; err != nil {
		err = fmt.Errorf("commit unit of work: %w", database.Classify(err))
		u.metrics.ObserveUnit("commit_failed")
		u.metrics.ObserveError(domain.Kind(err))
		u.log.Error("commit failed", "error", err)
		return err
	}
	u.metrics.ObserveUnit("committed")
	return nil
}

func (u *Unit) Rollback() error {
	if u.done {
		return ErrClosed
	}
	u.done = true
	u.metrics.ObserveUnit("rolled_back")
	if err := u.tx.Rollback().Error; err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback unit of work: %w", database.Classify(err))
	}
	return nil
}

// Close rolls back unless the unit was already committed or rolled back.
func (u *Unit) Close() error {
	if u.done {
		return nil
	}
	return u.Rollback()
}

// Run executes fn inside one unit: nil commits, an error or a panic rolls
// back. The panic is re-raised after the rollback.
func (m *Manager) Run(ctx context.Context, fn func(*Unit) error) (err error) {
	ctx, span := tracer.Start(ctx, "uow.Run", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	u, err := m.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "begin")
		return err
	}
	span.SetAttributes(attribute.String("uow.id", u.ID))

	defer func() {
		if p := recover(); p != nil {
			_ = u.Rollback()
			u.log.Error("unit of work panicked", "panic", p)
			panic(p)
		}
	}()

	if err = fn(u); err != nil {
		if rbErr := u.Rollback(); rbErr != nil {
			u.log.Error("rollback failed", "error", rbErr)
		}
		m.metrics.ObserveError(domain.Kind(err))
		u.log.Debug("unit of work rolled back", "kind", domain.Kind(err), "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, domain.Kind(err))
		return err
	}

	if err = u.Commit(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "commit")
		return err
	}
	return nil
}

// Stats runs the read-only aggregates in their own unit.
func (m *Manager) Stats(ctx context.Context, fn func(*repository.StatsRepository) error) error {
	return m.Run(ctx, func(u *Unit) error {
		return fn(u.Stats)
	})
}
