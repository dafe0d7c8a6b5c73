package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tgienger/weekly/internal/api/response"
	"github.com/tgienger/weekly/internal/engine"
	"github.com/tgienger/weekly/internal/models"
	"github.com/tgienger/weekly/internal/week"
)

type Week struct {
	log    *logrus.Entry
	engine *engine.Engine
	count  int
	now    func() time.Time
}

func NewWeekHandler(eng *engine.Engine, log *logrus.Entry, count int, now func() time.Time) *Week {
	return &Week{
		log:    log,
		engine: eng,
		count:  count,
		now:    now,
	}
}

func (h *Week) EnrichRoutes(router *gin.Engine) {
	weekRoutes := router.Group("/weeks")
	weekRoutes.GET("", h.listWeeksAction)
	weekRoutes.GET("/:week/board", h.boardAction)
	weekRoutes.GET("/:week/stats", h.statsAction)
	weekRoutes.POST("/:week/notify", h.notifyAction)
}

type weekResponse struct {
	Week    string `json:"week"`
	Range   string `json:"range"`
	Current bool   `json:"current"`
}

func (h *Week) listWeeksAction(c *gin.Context) {
	const op = "handlers.Week.listWeeksAction"
	log := h.log.WithField("operation", op)

	current := week.KeyFor(h.now())
	count := h.count
	if raw := c.Query("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			ve := response.NewValidationError()
			ve.SetError("count", response.InvalidValue, "expected an integer")
			response.HandleError(ve, c)
			return
		}
		count = n
	}

	keys, err := week.Available(current, count)
	if err != nil {
		log.WithError(err).Errorf("%s: failed to list weeks", op)
		response.HandleError(response.ResolveError(err), c)
		return
	}

	weeks := make([]weekResponse, 0, len(keys))
	for _, k := range keys {
		r, _ := week.RangeOf(k)
		weeks = append(weeks, weekResponse{Week: k, Range: r.String(), Current: k == current})
	}
	c.JSON(http.StatusOK, weeks)
}

func (h *Week) boardAction(c *gin.Context) {
	const op = "handlers.Week.boardAction"
	log := h.log.WithField("operation", op)
	log.Info("get board")

	board, err := h.engine.Board(c.Request.Context(), c.Query("user"), c.Param("week"))
	if err != nil {
		log.WithError(err).Errorf("%s: failed to build board", op)
		response.HandleError(response.ResolveError(err), c)
		return
	}

	c.JSON(http.StatusOK, board)
}

type statsResponse struct {
	Week string `json:"week"`
	models.WeekStats
	CompletionPercent int `json:"completionPercent"`
}

func (h *Week) statsAction(c *gin.Context) {
	const op = "handlers.Week.statsAction"
	log := h.log.WithField("operation", op)

	weekKey := c.Param("week")
	stats, err := h.engine.StatsByWeek(c.Request.Context(), c.Query("user"), weekKey)
	if err != nil {
		log.WithError(err).Errorf("%s: failed to compute stats", op)
		response.HandleError(response.ResolveError(err), c)
		return
	}

	c.JSON(http.StatusOK, statsResponse{Week: weekKey, WeekStats: stats, CompletionPercent: stats.CompletionPercent()})
}

type notifyResponse struct {
	Week   string `json:"week"`
	UserID string `json:"userId"`
	Sent   bool   `json:"sent"`
}

func (h *Week) notifyAction(c *gin.Context) {
	const op = "handlers.Week.notifyAction"
	log := h.log.WithField("operation", op)
	log.Info("send weekly report")

	userID := c.Query("user")
	if userID == "" {
		ve := response.NewValidationError()
		ve.SetError("user", response.MissedValue, "missed value")
		response.HandleError(ve, c)
		return
	}

	weekKey := c.Param("week")
	if err := h.engine.NotifyWeek(c.Request.Context(), userID, weekKey); err != nil {
		if errors.Is(err, engine.ErrNoNotifier) {
			log.WithError(err).Warnf("%s: notifications disabled", op)
		} else {
			log.WithError(err).Errorf("%s: failed to send report", op)
		}
		response.HandleError(response.ResolveError(err), c)
		return
	}

	c.JSON(http.StatusOK, notifyResponse{Week: weekKey, UserID: userID, Sent: true})
}
