package handler

import (
	"net/http"
	"sync"

	"nlreminder/internal/application/dto"
	"nlreminder/internal/application/service"
	"nlreminder/internal/pkg/logger"

	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Error string `json:"error"`
}

// DeliveryHandler triggers one delivery run over HTTP, for external schedulers.
// At most one run triggered through it is in progress at a time.
type DeliveryHandler struct {
	deliveryService service.DeliveryService
	log             logger.Logger
	running         sync.Mutex
}

// NewDeliveryHandler creates a new DeliveryHandler.
func NewDeliveryHandler(deliveryService service.DeliveryService, log logger.Logger) *DeliveryHandler {
	return &DeliveryHandler{deliveryService: deliveryService, log: log}
}

type deliveryResponse struct {
	Message string `json:"message"`
	dto.DeliverySummary
}

// HandleDeliver runs the delivery scheduler once and reports its summary.
func (h *DeliveryHandler) HandleDeliver(c echo.Context) error {
	if !h.running.TryLock() {
		h.log.Warn("Delivery run already in progress, rejecting trigger")
		return c.JSON(http.StatusConflict, errorResponse{Error: "delivery run already in progress"})
	}
	defer h.running.Unlock()

	summary, err := h.deliveryService.Run(c.Request().Context())
	if err != nil {
		h.log.Error("Delivery run failed", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, deliveryResponse{Message: "Success", DeliverySummary: summary})
}

// HandleHealth reports liveness.
func HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
