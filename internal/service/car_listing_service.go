package service

import (
	"context"
	"errors"
	"mime/multipart"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"car-market/internal/domain"
	"car-market/internal/pagination"
	"car-market/internal/repository"
	"car-market/internal/uploads"
)

// CarListingService coordina el CRUD y la búsqueda paginada de avisos.
type CarListingService struct {
	logger        *zap.Logger
	listings      repository.CarListingRepository
	manufacturers repository.ManufacturerRepository
	models        repository.CarModelRepository
	uploader      uploads.Uploader
}

var (
	ErrCarListingNotFound   = errors.New("car list not found")
	ErrManufacturerNotFound = errors.New("manufacturer not found")
	ErrCarModelNotFound     = errors.New("car model not found")
	ErrPhotosRequired       = errors.New("listing must have at least one photo")
)

func NewCarListingService(
	logger *zap.Logger,
	listings repository.CarListingRepository,
	manufacturers repository.ManufacturerRepository,
	models repository.CarModelRepository,
	uploader uploads.Uploader,
) *CarListingService {
	return &CarListingService{
		logger:        logger,
		listings:      listings,
		manufacturers: manufacturers,
		models:        models,
		uploader:      uploader,
	}
}

type CreateCarListingInput struct {
	BodyType       domain.CarBodyType
	FuelType       string
	ManufacturerID int64
	ModelID        int64
	Year           int
	EngineCapacity string
	Turbo          bool
	Mileage        int
	MileageType    string
	Transmission   string
	Description    string
	Region         string
	City           string
	Price          string
	PhoneNumber    string
	CarStatus      domain.CarStatus
	InStock        bool
}

// Create valida marca y modelo, sube las fotos y persiste el aviso.
func (s *CarListingService) Create(ctx context.Context, input CreateCarListingInput, owner domain.ActiveUser, photos []*multipart.FileHeader) (domain.CarListing, error) {
	manufacturer, err := s.manufacturers.GetByID(ctx, input.ManufacturerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CarListing{}, ErrManufacturerNotFound
		}
		return domain.CarListing{}, err
	}
	model, err := s.models.GetByID(ctx, input.ModelID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CarListing{}, ErrCarModelNotFound
		}
		return domain.CarListing{}, err
	}

	urls, err := s.uploadPhotos(ctx, owner.Sub, photos)
	if err != nil {
		return domain.CarListing{}, err
	}
	if len(urls) == 0 {
		return domain.CarListing{}, ErrPhotosRequired
	}

	status := input.CarStatus
	if status == "" {
		status = domain.CarStatusNew
	}

	return s.listings.Create(ctx, domain.CarListing{
		BodyType:       input.BodyType,
		FuelType:       input.FuelType,
		Manufacturer:   manufacturer,
		Model:          model,
		Year:           input.Year,
		EngineCapacity: input.EngineCapacity,
		Turbo:          input.Turbo,
		Mileage:        input.Mileage,
		MileageType:    input.MileageType,
		Transmission:   input.Transmission,
		Description:    input.Description,
		Region:         input.Region,
		City:           input.City,
		Photos:         urls,
		Price:          input.Price,
		PhoneNumber:    input.PhoneNumber,
		CarStatus:      status,
		InStock:        input.InStock,
		OwnerID:        owner.Sub,
		CreatedAt:      time.Now().UTC(),
	})
}

// GetAll busca avisos aplicando filtros opcionales y pagina el resultado.
func (s *CarListingService) GetAll(ctx context.Context, filters domain.CarListingFilters, req pagination.Request, requestURL *url.URL) (pagination.Page[domain.CarListing], error) {
	return pagination.Paginate(ctx, req, s.listings.Search(filters, nil), requestURL)
}

// GetAllForUser es GetAll acotado a los avisos del usuario activo.
func (s *CarListingService) GetAllForUser(ctx context.Context, owner domain.ActiveUser, filters domain.CarListingFilters, req pagination.Request, requestURL *url.URL) (pagination.Page[domain.CarListing], error) {
	ownerID := owner.Sub
	return pagination.Paginate(ctx, req, s.listings.Search(filters, &ownerID), requestURL)
}

// GetOne devuelve un aviso y registra la visita.
func (s *CarListingService) GetOne(ctx context.Context, id int64) (domain.CarListing, error) {
	listing, err := s.listings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CarListing{}, ErrCarListingNotFound
		}
		return domain.CarListing{}, err
	}
	if err := s.listings.IncrementViews(ctx, id); err != nil && s.logger != nil {
		s.logger.Warn("increment views failed", zap.Int64("listing_id", id), zap.Error(err))
	}
	return listing, nil
}

type UpdateCarListingInput struct {
	BodyType     *domain.CarBodyType
	FuelType     *string
	Year         *int
	Mileage      *int
	Transmission *string
	Description  *string
	Region       *string
	City         *string
	Price        *string
	PhoneNumber  *string
	CarStatus    *domain.CarStatus
	InStock      *bool
	IsSold       *bool
}

// Update aplica cambios parciales; fotos nuevas reemplazan a las previas
// y el aviso nunca puede quedar sin fotos.
func (s *CarListingService) Update(ctx context.Context, id int64, input UpdateCarListingInput, photos []*multipart.FileHeader) (domain.CarListing, error) {
	listing, err := s.listings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CarListing{}, ErrCarListingNotFound
		}
		return domain.CarListing{}, err
	}

	if len(photos) > 0 {
		urls, err := s.uploadPhotos(ctx, listing.OwnerID, photos)
		if err != nil {
			return domain.CarListing{}, err
		}
		listing.Photos = urls
	}
	if len(listing.Photos) == 0 {
		return domain.CarListing{}, ErrPhotosRequired
	}

	applyCarListingUpdate(&listing, input)

	if err := s.listings.Save(ctx, listing); err != nil {
		return domain.CarListing{}, err
	}
	return listing, nil
}

type DeleteResult struct {
	Deleted bool  `json:"deleted"`
	ID      int64 `json:"id"`
}

func (s *CarListingService) Delete(ctx context.Context, id int64) (DeleteResult, error) {
	err := s.listings.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DeleteResult{}, ErrCarListingNotFound
		}
		return DeleteResult{}, err
	}
	return DeleteResult{Deleted: true, ID: id}, nil
}

func (s *CarListingService) uploadPhotos(ctx context.Context, userID int64, photos []*multipart.FileHeader) ([]string, error) {
	if len(photos) == 0 {
		return nil, nil
	}
	if s.uploader == nil {
		return nil, errors.New("uploads not configured")
	}
	urls := make([]string, 0, len(photos))
	for _, photo := range photos {
		u, err := s.uploader.Upload(ctx, "car-images", userID, photo)
		if err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, nil
}

func applyCarListingUpdate(listing *domain.CarListing, input UpdateCarListingInput) {
	if input.BodyType != nil {
		listing.BodyType = *input.BodyType
	}
	if input.FuelType != nil {
		listing.FuelType = *input.FuelType
	}
	if input.Year != nil {
		listing.Year = *input.Year
	}
	if input.Mileage != nil {
		listing.Mileage = *input.Mileage
	}
	if input.Transmission != nil {
		listing.Transmission = *input.Transmission
	}
	if input.Description != nil {
		listing.Description = *input.Description
	}
	if input.Region != nil {
		listing.Region = *input.Region
	}
	if input.City != nil {
		listing.City = *input.City
	}
	if input.Price != nil {
		listing.Price = *input.Price
	}
	if input.PhoneNumber != nil {
		listing.PhoneNumber = *input.PhoneNumber
	}
	if input.CarStatus != nil {
		listing.CarStatus = *input.CarStatus
	}
	if input.InStock != nil {
		listing.InStock = *input.InStock
	}
	if input.IsSold != nil {
		listing.IsSold = *input.IsSold
	}
}
