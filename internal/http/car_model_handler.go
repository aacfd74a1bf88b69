package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"car-market/internal/service"
)

// CarModelHandler expone el CRUD de modelos.
type CarModelHandler struct {
	logger    *zap.Logger
	modelServ *service.CarModelService
}

func NewCarModelHandler(logger *zap.Logger, modelServ *service.CarModelService) *CarModelHandler {
	return &CarModelHandler{logger: logger, modelServ: modelServ}
}

// Create maneja POST /car-model.
func (h *CarModelHandler) Create(c *gin.Context) {
	var req struct {
		Model string `json:"model" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	model, err := h.modelServ.Create(c.Request.Context(), req.Model)
	if err != nil {
		h.logger.Error("create car model failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"car_model": model})
}

// GetAll maneja GET /car-model. Ruta anónima.
func (h *CarModelHandler) GetAll(c *gin.Context) {
	models, err := h.modelServ.GetAll(c.Request.Context())
	if err != nil {
		h.logger.Error("list car models failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"car_models": models})
}

// Update maneja PATCH /car-model/:id.
func (h *CarModelHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req struct {
		Model string `json:"model" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	model, err := h.modelServ.Update(c.Request.Context(), id, req.Model)
	if err != nil {
		if errors.Is(err, service.ErrCarModelNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Car model not found"})
			return
		}
		h.logger.Error("update car model failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"car_model": model})
}

// Delete maneja DELETE /car-model/:id.
func (h *CarModelHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	result, err := h.modelServ.Delete(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCarModelNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Car model not found"})
			return
		}
		h.logger.Error("delete car model failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
