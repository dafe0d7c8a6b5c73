package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tgienger/weekly/internal/api/response"
	"github.com/tgienger/weekly/internal/engine"
	"github.com/tgienger/weekly/internal/models"
)

type Directory struct {
	log    *logrus.Entry
	engine *engine.Engine
}

func NewDirectoryHandler(eng *engine.Engine, log *logrus.Entry) *Directory {
	return &Directory{log: log, engine: eng}
}

func (h *Directory) EnrichRoutes(router *gin.Engine) {
	router.GET("/users", h.listUsersAction)
	router.GET("/users/:userID", h.getUserAction)
	router.GET("/projects", h.listProjectsAction)
}

func (h *Directory) listUsersAction(c *gin.Context) {
	const op = "handlers.Directory.listUsersAction"
	log := h.log.WithField("operation", op)

	users, err := h.engine.Users(c.Request.Context())
	if err != nil {
		log.WithError(err).Errorf("%s: failed to list users", op)
		response.HandleError(response.ResolveError(err), c)
		return
	}
	if users == nil {
		users = []models.User{}
	}

	c.JSON(http.StatusOK, users)
}

func (h *Directory) getUserAction(c *gin.Context) {
	const op = "handlers.Directory.getUserAction"
	log := h.log.WithField("operation", op)

	user, err := h.engine.User(c.Request.Context(), c.Param("userID"))
	if err != nil {
		log.WithError(err).Errorf("%s: failed to get user", op)
		response.HandleError(response.ResolveError(err), c)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Directory) listProjectsAction(c *gin.Context) {
	const op = "handlers.Directory.listProjectsAction"
	log := h.log.WithField("operation", op)

	projects, err := h.engine.Projects(c.Request.Context())
	if err != nil {
		log.WithError(err).Errorf("%s: failed to list projects", op)
		response.HandleError(response.ResolveError(err), c)
		return
	}
	if projects == nil {
		projects = []models.Project{}
	}

	c.JSON(http.StatusOK, projects)
}
