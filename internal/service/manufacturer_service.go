package service

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"car-market/internal/domain"
	"car-market/internal/repository"
	"car-market/internal/uploads"
)

// ManufacturerService coordina el CRUD de marcas.
type ManufacturerService struct {
	logger        *zap.Logger
	manufacturers repository.ManufacturerRepository
	uploader      uploads.Uploader
}

func NewManufacturerService(logger *zap.Logger, manufacturers repository.ManufacturerRepository, uploader uploads.Uploader) *ManufacturerService {
	return &ManufacturerService{
		logger:        logger,
		manufacturers: manufacturers,
		uploader:      uploader,
	}
}

func (s *ManufacturerService) Create(ctx context.Context, make string, userID int64, image *multipart.FileHeader) (domain.Manufacturer, error) {
	m := domain.Manufacturer{
		Make:      strings.TrimSpace(make),
		CreatedAt: time.Now().UTC(),
	}
	if image != nil {
		if s.uploader == nil {
			return domain.Manufacturer{}, errors.New("uploads not configured")
		}
		url, err := s.uploader.Upload(ctx, "make-images", userID, image)
		if err != nil {
			return domain.Manufacturer{}, err
		}
		m.MakeImage = url
	}
	return s.manufacturers.Create(ctx, m)
}

func (s *ManufacturerService) GetAll(ctx context.Context) ([]domain.Manufacturer, error) {
	return s.manufacturers.List(ctx)
}

func (s *ManufacturerService) Update(ctx context.Context, id int64, make string) (domain.Manufacturer, error) {
	m, err := s.manufacturers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Manufacturer{}, ErrManufacturerNotFound
		}
		return domain.Manufacturer{}, err
	}
	if make = strings.TrimSpace(make); make != "" {
		m.Make = make
	}
	if err := s.manufacturers.Save(ctx, m); err != nil {
		return domain.Manufacturer{}, err
	}
	return m, nil
}

func (s *ManufacturerService) Delete(ctx context.Context, id int64) (DeleteResult, error) {
	err := s.manufacturers.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DeleteResult{}, ErrManufacturerNotFound
		}
		return DeleteResult{}, err
	}
	return DeleteResult{Deleted: true, ID: id}, nil
}
