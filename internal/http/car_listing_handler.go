package http

import (
	"errors"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"car-market/internal/domain"
	"car-market/internal/pagination"
	"car-market/internal/service"
)

// CarListingHandler mantiene dependencias para endpoints de avisos.
type CarListingHandler struct {
	logger      *zap.Logger
	listingServ *service.CarListingService
}

func NewCarListingHandler(logger *zap.Logger, listingServ *service.CarListingService) *CarListingHandler {
	return &CarListingHandler{logger: logger, listingServ: listingServ}
}

// listingQuery agrupa filtros opcionales y parámetros de paginado.
// Campos ausentes no aportan predicado.
type listingQuery struct {
	Year         *int    `form:"year"`
	PriceRange   *string `form:"priceRange"`
	Model        *string `form:"model"`
	Manufacturer *string `form:"manufacturer"`
	City         *string `form:"city"`
	BodyType     *string `form:"bodyType"`
	CarStatus    *string `form:"carStatus"`
	InStock      *bool   `form:"inStock"`
	Limit        int     `form:"limit"`
	Page         int     `form:"page"`
}

func (q listingQuery) filters() domain.CarListingFilters {
	f := domain.CarListingFilters{
		Year:         q.Year,
		Model:        q.Model,
		Manufacturer: q.Manufacturer,
		City:         q.City,
		InStock:      q.InStock,
	}
	if q.PriceRange != nil {
		pr := domain.PriceRange(*q.PriceRange)
		f.PriceRange = &pr
	}
	if q.BodyType != nil {
		bt := domain.CarBodyType(*q.BodyType)
		f.BodyType = &bt
	}
	if q.CarStatus != nil {
		cs := domain.CarStatus(*q.CarStatus)
		f.CarStatus = &cs
	}
	return f
}

func (q listingQuery) pageRequest() pagination.Request {
	return pagination.Request{Limit: q.Limit, Page: q.Page}
}

// GetAll maneja GET /car-listing. Ruta anónima.
func (h *CarListingHandler) GetAll(c *gin.Context) {
	var q listingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.logger.Warn("invalid listing query", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	page, err := h.listingServ.GetAll(c.Request.Context(), q.filters(), q.pageRequest(), requestURL(c))
	if err != nil {
		h.logger.Error("list car listings failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetMyListings maneja GET /me/car-listings.
func (h *CarListingHandler) GetMyListings(c *gin.Context) {
	identity, ok := GetActiveUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "You are not logged-in!"})
		return
	}

	var q listingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.logger.Warn("invalid listing query", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	page, err := h.listingServ.GetAllForUser(c.Request.Context(), identity, q.filters(), q.pageRequest(), requestURL(c))
	if err != nil {
		h.logger.Error("list own car listings failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, page)
}

// Create maneja POST /car-listing con multipart form-data.
func (h *CarListingHandler) Create(c *gin.Context) {
	identity, ok := GetActiveUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "You are not logged-in!"})
		return
	}

	var req struct {
		BodyType       string `form:"body_type" binding:"required"`
		FuelType       string `form:"fuel_type"`
		ManufacturerID int64  `form:"manufacturer_id" binding:"required"`
		ModelID        int64  `form:"model_id" binding:"required"`
		Year           int    `form:"year" binding:"required"`
		EngineCapacity string `form:"engine_capacity"`
		Turbo          bool   `form:"turbo"`
		Mileage        int    `form:"mileage"`
		MileageType    string `form:"mileage_type"`
		Transmission   string `form:"transmission"`
		Description    string `form:"description" binding:"required"`
		Region         string `form:"region" binding:"required"`
		City           string `form:"city" binding:"required"`
		Price          string `form:"price" binding:"required"`
		PhoneNumber    string `form:"phone_number" binding:"required"`
		CarStatus      string `form:"car_status"`
		InStock        bool   `form:"in_stock"`
	}
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warn("invalid create listing request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	listing, err := h.listingServ.Create(c.Request.Context(), service.CreateCarListingInput{
		BodyType:       domain.CarBodyType(req.BodyType),
		FuelType:       req.FuelType,
		ManufacturerID: req.ManufacturerID,
		ModelID:        req.ModelID,
		Year:           req.Year,
		EngineCapacity: req.EngineCapacity,
		Turbo:          req.Turbo,
		Mileage:        req.Mileage,
		MileageType:    req.MileageType,
		Transmission:   req.Transmission,
		Description:    req.Description,
		Region:         req.Region,
		City:           req.City,
		Price:          req.Price,
		PhoneNumber:    req.PhoneNumber,
		CarStatus:      domain.CarStatus(req.CarStatus),
		InStock:        req.InStock,
	}, identity, formFiles(c, "photos"))
	if err != nil {
		h.respondListingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"car_listing": listing})
}

// GetOne maneja GET /car-listing/:id. Ruta anónima.
func (h *CarListingHandler) GetOne(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	listing, err := h.listingServ.GetOne(c.Request.Context(), id)
	if err != nil {
		h.respondListingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"car_listing": listing})
}

// Update maneja PATCH /car-listing/:id con multipart form-data.
func (h *CarListingHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req struct {
		BodyType     *string `form:"body_type"`
		FuelType     *string `form:"fuel_type"`
		Year         *int    `form:"year"`
		Mileage      *int    `form:"mileage"`
		Transmission *string `form:"transmission"`
		Description  *string `form:"description"`
		Region       *string `form:"region"`
		City         *string `form:"city"`
		Price        *string `form:"price"`
		PhoneNumber  *string `form:"phone_number"`
		CarStatus    *string `form:"car_status"`
		InStock      *bool   `form:"in_stock"`
		IsSold       *bool   `form:"is_sold"`
	}
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warn("invalid update listing request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	input := service.UpdateCarListingInput{
		FuelType:     req.FuelType,
		Year:         req.Year,
		Mileage:      req.Mileage,
		Transmission: req.Transmission,
		Description:  req.Description,
		Region:       req.Region,
		City:         req.City,
		Price:        req.Price,
		PhoneNumber:  req.PhoneNumber,
		InStock:      req.InStock,
		IsSold:       req.IsSold,
	}
	if req.BodyType != nil {
		bt := domain.CarBodyType(*req.BodyType)
		input.BodyType = &bt
	}
	if req.CarStatus != nil {
		cs := domain.CarStatus(*req.CarStatus)
		input.CarStatus = &cs
	}

	listing, err := h.listingServ.Update(c.Request.Context(), id, input, formFiles(c, "photos"))
	if err != nil {
		h.respondListingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"car_listing": listing})
}

// Delete maneja DELETE /car-listing/:id.
func (h *CarListingHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	result, err := h.listingServ.Delete(c.Request.Context(), id)
	if err != nil {
		h.respondListingError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *CarListingHandler) respondListingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCarListingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Car list not found"})
	case errors.Is(err, service.ErrManufacturerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Manufacturer not found"})
	case errors.Is(err, service.ErrCarModelNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Car model not found"})
	case errors.Is(err, service.ErrPhotosRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Listing must have at least one photo."})
	default:
		h.logger.Error("car listing operation failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

// formFiles devuelve los file headers de un campo multipart, si los hay.
func formFiles(c *gin.Context, field string) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File[field]
}

// requestURL reconstruye la URL absoluta del request para armar links
// de paginado.
func requestURL(c *gin.Context) *url.URL {
	u := *c.Request.URL
	u.Host = c.Request.Host
	u.Scheme = "http"
	if c.Request.TLS != nil {
		u.Scheme = "https"
	}
	return &u
}
