package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/carbonsense/backend/internal/domain"
	"github.com/carbonsense/backend/pkg/utils"
)

// NewActivity is a tracker entry submitted by a client
type NewActivity struct {
	Type string     `json:"type" validate:"required,max=64"`
	CO2  float64    `json:"co2" validate:"gte=0"`
	Date *time.Time `json:"date"`
}

// ActivityService manages the capped activity log behind the weekly tracker
type ActivityService struct {
	repo     ActivityRepository
	validate *validator.Validate
	now      func() time.Time
}

// NewActivityService creates a new activity service
func NewActivityService(repo ActivityRepository) *ActivityService {
	return &ActivityService{
		repo:     repo,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Add appends an activity and returns the updated log
func (s *ActivityService) Add(ctx context.Context, key string, req NewActivity) ([]domain.ActivityEntry, error) {
	req.Type = strings.TrimSpace(req.Type)
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidActivity, err)
	}

	date := s.now().UTC()
	if req.Date != nil && !req.Date.IsZero() {
		date = req.Date.UTC()
	}

	entry := domain.ActivityEntry{
		ID:   uuid.NewString(),
		Type: req.Type,
		CO2:  utils.RoundTo(req.CO2, 2),
		Date: date,
	}

	key = logKey(key)
	if err := s.repo.Append(ctx, key, entry); err != nil {
		return nil, fmt.Errorf("activity: failed to append: %w", err)
	}

	return s.List(ctx, key)
}

// List returns the most recent activities, oldest first
func (s *ActivityService) List(ctx context.Context, key string) ([]domain.ActivityEntry, error) {
	entries, err := s.repo.Recent(ctx, logKey(key), domain.MaxActivityEntries)
	if err != nil {
		return nil, fmt.Errorf("activity: failed to list: %w", err)
	}
	if entries == nil {
		entries = []domain.ActivityEntry{}
	}
	return entries, nil
}

// Health checks the underlying storage
func (s *ActivityService) Health(ctx context.Context) error {
	return s.repo.Health(ctx)
}

func logKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return domain.DefaultActivityLogKey
	}
	return key
}
