package handler

import (
	"errors"
	"net/http"

	"nlreminder/internal/application/dto"
	"nlreminder/internal/application/service"
	"nlreminder/internal/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/line/line-bot-sdk-go/v7/linebot"
)

// WebhookParser verifies the signature of a webhook request and decodes its events.
type WebhookParser interface {
	ParseRequest(r *http.Request) ([]*linebot.Event, error)
}

// LineHandler handles incoming LINE webhook events.
type LineHandler struct {
	parser        WebhookParser
	intakeService service.IntakeService
	log           logger.Logger
}

// NewLineHandler creates a new LineHandler.
func NewLineHandler(parser WebhookParser, intakeService service.IntakeService, log logger.Logger) *LineHandler {
	return &LineHandler{
		parser:        parser,
		intakeService: intakeService,
		log:           log,
	}
}

type intakeResponse struct {
	Message string `json:"message"`
	dto.IntakeSummary
}

// HandleWebhook is the main entry point for webhook requests.
func (h *LineHandler) HandleWebhook(c echo.Context) error {
	events, err := h.parser.ParseRequest(c.Request())
	if err != nil {
		if errors.Is(err, linebot.ErrInvalidSignature) {
			h.log.Warn("Invalid LINE signature received")
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid signature"})
		}
		h.log.Error("Failed to parse LINE webhook request", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "Error parsing request"})
	}

	messages := textMessages(events)
	if ignored := len(events) - len(messages); ignored > 0 {
		h.log.Debug("Ignoring non-text events", "count", ignored)
	}

	summary := h.intakeService.Process(c.Request().Context(), messages)
	return c.JSON(http.StatusOK, intakeResponse{Message: "Success", IntakeSummary: summary})
}

// textMessages keeps only message events carrying text from a user.
func textMessages(events []*linebot.Event) []dto.MessageEvent {
	out := make([]dto.MessageEvent, 0, len(events))
	for _, event := range events {
		if event.Type != linebot.EventTypeMessage {
			continue
		}
		message, ok := event.Message.(*linebot.TextMessage)
		if !ok {
			continue
		}
		var userID string
		if event.Source != nil {
			userID = event.Source.UserID
		}
		out = append(out, dto.MessageEvent{
			ReplyToken: event.ReplyToken,
			UserID:     userID,
			Text:       message.Text,
		})
	}
	return out
}
