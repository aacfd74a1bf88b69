package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"car-market/internal/service"
)

// ManufacturerHandler expone el CRUD de marcas.
type ManufacturerHandler struct {
	logger           *zap.Logger
	manufacturerServ *service.ManufacturerService
}

func NewManufacturerHandler(logger *zap.Logger, manufacturerServ *service.ManufacturerService) *ManufacturerHandler {
	return &ManufacturerHandler{logger: logger, manufacturerServ: manufacturerServ}
}

// Create maneja POST /manufacturer con multipart form-data.
func (h *ManufacturerHandler) Create(c *gin.Context) {
	identity, ok := GetActiveUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "You are not logged-in!"})
		return
	}

	makeName := c.PostForm("make")
	if makeName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	image, err := c.FormFile("make_image")
	if err != nil {
		image = nil
	}

	manufacturer, err := h.manufacturerServ.Create(c.Request.Context(), makeName, identity.Sub, image)
	if err != nil {
		h.logger.Error("create manufacturer failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"manufacturer": manufacturer})
}

// GetAll maneja GET /manufacturer. Ruta anónima.
func (h *ManufacturerHandler) GetAll(c *gin.Context) {
	manufacturers, err := h.manufacturerServ.GetAll(c.Request.Context())
	if err != nil {
		h.logger.Error("list manufacturers failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"manufacturers": manufacturers})
}

// Update maneja PATCH /manufacturer/:id.
func (h *ManufacturerHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req struct {
		Make string `json:"make" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	manufacturer, err := h.manufacturerServ.Update(c.Request.Context(), id, req.Make)
	if err != nil {
		if errors.Is(err, service.ErrManufacturerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Manufacturer not found"})
			return
		}
		h.logger.Error("update manufacturer failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"manufacturer": manufacturer})
}

// Delete maneja DELETE /manufacturer/:id.
func (h *ManufacturerHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	result, err := h.manufacturerServ.Delete(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrManufacturerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Manufacturer not found"})
			return
		}
		h.logger.Error("delete manufacturer failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
