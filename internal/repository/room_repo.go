package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"labcore/internal/database"
	"labcore/internal/domain"
	"labcore/internal/platform/logger"
)

type RoomRepository struct {
	tx  *gorm.DB
	log *logger.Logger
}

func NewRoomRepository(tx *gorm.DB, log *logger.Logger) *RoomRepository {
	return &RoomRepository{tx: tx, log: log.With("repo", "RoomRepository")}
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	room.Label = strings.TrimSpace(room.Label)
	return create(ctx, r.tx, "room", room)
}

func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	return findByID[domain.Room](ctx, r.tx, "room", id)
}

func (r *RoomRepository) GetByLabel(ctx context.Context, label string) (*domain.Room, error) {
	var room domain.Room
	if err := r.tx.WithContext(ctx).Where("label = ?", strings.TrimSpace(label)).First(&room).Error; err != nil {
		return nil, fmt.Errorf("get room %q: %w", label, database.Classify(err))
	}
	return &room, nil
}

func (r *RoomRepository) ListByLaboratory(ctx context.Context, laboratoryID int64) ([]domain.Room, error) {
	return listBy[domain.Room](ctx, r.tx, "rooms", "laboratory_id", laboratoryID)
}
