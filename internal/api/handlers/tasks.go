package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	tasksform "github.com/tgienger/weekly/internal/api/forms/tasks"
	"github.com/tgienger/weekly/internal/api/response"
	"github.com/tgienger/weekly/internal/engine"
	wkerrors "github.com/tgienger/weekly/internal/errors"
	"github.com/tgienger/weekly/internal/models"
)

type Task struct {
	log          *logrus.Entry
	engine       *engine.Engine
	copyDefaults models.CopySettings
}

func NewTaskHandler(eng *engine.Engine, log *logrus.Entry, copyDefaults models.CopySettings) *Task {
	return &Task{
		log:          log,
		engine:       eng,
		copyDefaults: copyDefaults,
	}
}

func (h *Task) EnrichRoutes(router *gin.Engine) {
	taskRoutes := router.Group("/tasks")
	taskRoutes.POST("", h.createTaskAction)
	taskRoutes.GET("", h.listTasksAction)
	taskRoutes.GET("/:taskID", h.getTaskAction)
	taskRoutes.PATCH("/:taskID", h.updateTaskAction)
	taskRoutes.DELETE("/:taskID", h.deleteTaskAction)
	taskRoutes.POST("/:taskID/status", h.moveTaskAction)
	taskRoutes.POST("/:taskID/copy", h.copyTaskAction)
	taskRoutes.POST("/:taskID/comments", h.addCommentAction)
	taskRoutes.GET("/:taskID/history", h.historyAction)
	taskRoutes.GET("/:taskID/lineage", h.lineageAction)
}

func (h *Task) createTaskAction(c *gin.Context) {
	const op = "handlers.Task.createTaskAction"
	log := h.log.WithField("operation", op)
	log.Info("create task")

	form, verr := tasksform.NewCreateTaskForm().ParseAndValidate(c)
	if verr != nil {
		response.HandleError(verr, c)
		return
	}

	task, err := h.engine.CreateTask(c.Request.Context(), &form.(*tasksform.CreateTaskForm).Task)
	if err != nil {
		log.WithError(err).Errorf("%s: failed to create task", op)
		response.HandleError(response.ResolveError(err), c)
		return
	}

	c.JSON(http.StatusCreated, task)
}

func (h *Task) listTasksAction(c *gin.Context) {
	const op = "handlers.Task.listTasksAction"
	log := h.log.WithField("operation", op)
	log.Info("list tasks")

	filter, verr := parseFilter(c)
	if verr != nil {
		response.HandleError(verr, c)
		return
	}

	tasks, err := h.engine.Query(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Errorf("%s: failed to list tasks", op)
		response.HandleError(response.ResolveError(err), c)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// parseFilter reads user, week, status, priority, project, q and sort
func parseFilter(c *gin.Context) (models.Filter, response.Error) {
	f := models.Filter{
		AssigneeID: c.Query("user"),
		Weeks:      c.QueryArray("week"),
		ProjectID:  c.Query("project"),
		Search:     c.Query("q"),
	}

	ve := response.NewValidationError()
	for _, w := range f.Weeks {
		if err := models.ValidateDate("week", w, true); err != nil {
			ve.SetError("week", response.InvalidValue, err.Error())
		}
	}
	for _, raw := range c.QueryArray("status") {
		st, err := models.ParseStatus(raw)
		if err != nil {
			ve.SetError("status", response.InvalidValue, err.Error())
			continue
		}
		f.Statuses = append(f.Statuses, st)
	}
	if raw := c.Query("priority"); raw != "" {
		p, err := models.ParsePriority(raw)
		if err != nil {
			ve.SetError("priority", response.InvalidValue, err.Error())
		}
		f.Priority = p
	}
	switch c.Query("sort") {
	case "", "newest":
	case "due":
		f.Sort = models.SortDueDate
	default:
		ve.SetError("sort", response.InvalidValue, "expected newest or due")
	}

	if len(ve.Messages()) > 0 {
		return models.Filter{}, ve
	}
	return f, nil
}

func (h *Task) getTaskAction(c *gin.Context) {
	const op = "handlers.Task.getTaskAction"
	log := h.log.WithField("operation", op)
	log.Info("get task")

	task, err := h.engine.GetTask(c.Request.Context(), c.Param("taskID"))
	if err != nil {
		log.WithError(err).Errorf("%s: failed to get task", op)
		response.HandleError(response.ResolveError(err), c)
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *Task) updateTaskAction(c *gin.Context) {
	const op = "handlers.Task.updateTaskAction"
	log := h.log.WithField("operation", op)
	log.Info("update task")

	form, verr := tasksform.NewUpdateTaskForm().ParseAndValidate(c)
	if verr != nil {
		response.HandleError(verr, c)
		return
	}

	task, err := h.engine.UpdateTask(c.Request.Context(), c.Param("taskID"), form.(*tasksform.UpdateTaskForm).Update)
	if err != nil {
		log.WithError(err).Errorf("%s: failed to update task", op)
		response.HandleError(response.ResolveError(err), c)
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *Task) deleteTaskAction(c *gin.Context) {
	const op = "handlers.Task.deleteTaskAction"
	log := h.log.WithField("operation", op)
	log.Info("delete task")

	if err := h.engine.DeleteTask(c.Request.Context(), c.Param("taskID")); err != nil {
		log.WithError(err).Errorf("%s: failed to delete task", op)
		response.HandleError(response.ResolveError(err), c)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Task) moveTaskAction(c *gin.Context) {
	const op = "handlers.Task.moveTaskAction"
	log := h.log.WithField("operation", op)
	log.Info("move task")

	form, verr := tasksform.NewMoveTaskForm().ParseAndValidate(c)
	if verr != nil {
		response.HandleError(verr, c)
		return
	}

	task, err := h.engine.MoveStatus(c.Request.Context(), c.Param("taskID"), form.(*tasksform.MoveTaskForm).Status)
	if err != nil {
		log.WithError(err).Errorf("%s: failed to move task", op)
		response.HandleError(response.ResolveError(err), c)
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *Task) copyTaskAction(c *gin.Context) {
	const op = "handlers.Task.copyTaskAction"
	log := h.log.WithField("operation", op)
	log.Info("copy task")

	form, verr := tasksform.NewCopyTaskForm(h.copyDefaults).ParseAndValidate(c)
	if verr != nil {
		response.HandleError(verr, c)
		return
	}
	req := form.(*tasksform.CopyTaskForm)

	task, err := h.engine.CopyTask(c.Request.Context(), c.Param("taskID"), req.TargetWeek, req.Settings, req.Reason, req.CopiedBy)
	if err != nil {
		var partial wkerrors.PartialCopyError
		if errors.As(err, &partial) {
			log.WithError(err).Warnf("%s: copy %s created without source history", op, partial.CopyID)
		} else {
			log.WithError(err).Errorf("%s: failed to copy task", op)
		}
		response.HandleError(response.ResolveError(err), c)
		return
	}

	c.JSON(http.StatusCreated, task)
}

func (h *Task) addCommentAction(c *gin.Context) {
	const op = "handlers.Task.addCommentAction"
	log := h.log.WithField("operation", op)
	log.Info("add comment")

	form, verr := tasksform.NewAddCommentForm().ParseAndValidate(c)
	if verr != nil {
		response.HandleError(verr, c)
		return
	}
	req := form.(*tasksform.AddCommentForm)

	comment, err := h.engine.AddComment(c.Request.Context(), c.Param("taskID"), req.UserID, req.Content)
	if err != nil {
		log.WithError(err).Errorf("%s: failed to add comment", op)
		response.HandleError(response.ResolveError(err), c)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func (h *Task) historyAction(c *gin.Context) {
	const op = "handlers.Task.historyAction"
	log := h.log.WithField("operation", op)

	task, err := h.engine.GetTask(c.Request.Context(), c.Param("taskID"))
	if err != nil {
		log.WithError(err).Errorf("%s: failed to get task", op)
		response.HandleError(response.ResolveError(err), c)
		return
	}

	history := task.CopyHistory
	if history == nil {
		history = []models.CopyHistoryEntry{}
	}
	c.JSON(http.StatusOK, history)
}

type lineageResponse struct {
	Root   *models.Task  `json:"root"` // nil when the root was deleted
	Copies []models.Task `json:"copies"`
}

func (h *Task) lineageAction(c *gin.Context) {
	const op = "handlers.Task.lineageAction"
	log := h.log.WithField("operation", op)

	ctx := c.Request.Context()
	task, err := h.engine.GetTask(ctx, c.Param("taskID"))
	if err != nil {
		log.WithError(err).Errorf("%s: failed to get task", op)
		response.HandleError(response.ResolveError(err), c)
		return
	}

	// The root may have been deleted; its copies still name it
	rootID := task.LineageRoot()
	root := task
	if rootID != task.ID {
		root, err = h.engine.GetTask(ctx, rootID)
		if err != nil && !wkerrors.IsNotFound(err) {
			log.WithError(err).Errorf("%s: failed to get lineage root", op)
			response.HandleError(response.ResolveError(err), c)
			return
		}
	}

	copies, err := h.engine.Lineage(ctx, rootID)
	if err != nil {
		log.WithError(err).Errorf("%s: failed to load lineage", op)
		response.HandleError(response.ResolveError(err), c)
		return
	}

	c.JSON(http.StatusOK, lineageResponse{Root: root, Copies: copies})
}
