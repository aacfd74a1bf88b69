package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"car-market/internal/domain"
	"car-market/internal/repository"
)

// CarModelService coordina el CRUD de modelos.
type CarModelService struct {
	logger *zap.Logger
	models repository.CarModelRepository
}

func NewCarModelService(logger *zap.Logger, models repository.CarModelRepository) *CarModelService {
	return &CarModelService{logger: logger, models: models}
}

func (s *CarModelService) Create(ctx context.Context, model string) (domain.CarModel, error) {
	return s.models.Create(ctx, domain.CarModel{
		Model:     strings.TrimSpace(model),
		CreatedAt: time.Now().UTC(),
	})
}

func (s *CarModelService) GetAll(ctx context.Context) ([]domain.CarModel, error) {
	return s.models.List(ctx)
}

func (s *CarModelService) Update(ctx context.Context, id int64, model string) (domain.CarModel, error) {
	m, err := s.models.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CarModel{}, ErrCarModelNotFound
		}
		return domain.CarModel{}, err
	}
	if model = strings.TrimSpace(model); model != "" {
		m.Model = model
	}
	if err := s.models.Save(ctx, m); err != nil {
		return domain.CarModel{}, err
	}
	return m, nil
}

func (s *CarModelService) Delete(ctx context.Context, id int64) (DeleteResult, error) {
	err := s.models.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DeleteResult{}, ErrCarModelNotFound
		}
		return DeleteResult{}, err
	}
	return DeleteResult{Deleted: true, ID: id}, nil
}
