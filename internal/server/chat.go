package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/mohammad-safakhou/spacebio/internal/articles"
	"github.com/mohammad-safakhou/spacebio/internal/pipeline"
)

const maxMessageRunes = 4000

type ChatHandler struct {
	Pipeline Chatter
}

func (h *ChatHandler) Register(g *echo.Group) {
	g.POST("/chat", h.chat)
}

type chatRequest struct {
	Message string `json:"message"`
}

func (h *ChatHandler) chat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message is required")
	}
	if len([]rune(msg)) > maxMessageRunes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "message is too long")
	}

	resp, err := h.Pipeline.Handle(c.Request().Context(), msg)
	switch {
	case errors.Is(err, pipeline.ErrLLMUnavailable), errors.Is(err, articles.ErrNoArticles):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error()).SetInternal(err)
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, "could not answer").SetInternal(err)
	}
	return c.JSON(http.StatusOK, resp)
}
