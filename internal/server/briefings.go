package server

import (
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mohammad-safakhou/briefer/internal/briefing"
)

// BriefingsHandler exposes the briefing pipeline over HTTP.
type BriefingsHandler struct {
	Pipeline *briefing.Pipeline
	Logger   *log.Logger
}

func (h *BriefingsHandler) Register(g *echo.Group) {
	g.POST("/briefings", h.create)
}

type briefingRequest struct {
	Location string `json:"location"`
}

// failureResponse mirrors PipelineResult but with success=false. Even a
// failed request ships the static catalog so a client always has cards to
// render.
type failureResponse struct {
	Success bool                    `json:"success"`
	Error   string                  `json:"error"`
	Cards   []briefing.BriefingCard `json:"cards"`
	Source  string                  `json:"source"`
}

func failure(msg string) failureResponse {
	cards := briefing.StaticCards(time.Now().UTC())
	return failureResponse{
		Success: false,
		Error:   msg,
		Cards:   briefing.Assemble(cards, briefing.TierStaticFallback, 0, 0, "").Cards,
		Source:  briefing.TierStaticFallback,
	}
}

func (h *BriefingsHandler) create(c echo.Context) error {
	// Last line of defense: a panic anywhere below still returns cards.
	defer func() {
		if r := recover(); r != nil {
			h.Logger.Printf("panic in briefing request: %v", r)
			if !c.Response().Committed {
				_ = c.JSON(http.StatusInternalServerError, failure("internal error"))
			}
		}
	}()

	var req briefingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, failure("invalid request body"))
	}

	result := h.Pipeline.Run(c.Request().Context(), req.Location)
	return c.JSON(http.StatusOK, result)
}
