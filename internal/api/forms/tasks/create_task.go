package tasks

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/tgienger/weekly/internal/api/forms"
	"github.com/tgienger/weekly/internal/api/response"
	"github.com/tgienger/weekly/internal/models"
)

type CreateTaskRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Status         string   `json:"status"`
	Priority       string   `json:"priority"`
	AssigneeID     string   `json:"assigneeId"`
	ProjectID      string   `json:"projectId"`
	WeekOf         string   `json:"weekOf"`
	DueDate        string   `json:"dueDate"`
	EstimatedHours float64  `json:"estimatedHours"`
	ActualHours    float64  `json:"actualHours"`
	Progress       int      `json:"progress"`
	TicketNumber   string   `json:"ticketNumber"`
	Tags           []string `json:"tags"`
}

type CreateTaskForm struct {
	Task models.Task
}

func NewCreateTaskForm() *CreateTaskForm {
	return &CreateTaskForm{}
}

func (f *CreateTaskForm) ParseAndValidate(c *gin.Context) (forms.Former, response.Error) {
	body, err := io.ReadAll(c.Request.Body)
	defer c.Request.Body.Close()

	if err != nil {
		log.WithError(err).Error("unable to read body")
		return nil, response.NewInternalError()
	}

	var request *CreateTaskRequest
	err = json.Unmarshal(body, &request)
	if err != nil || request == nil {
		ve := response.NewValidationError()
		ve.SetError(response.GeneralErrorKey, response.InvalidRequestStructure, "invalid request structure")

		return nil, ve
	}
	errors := make(map[string]response.ErrorMessage)
	f.validateAndSetTitle(request, errors)
	f.validateAndSetAssignee(request, errors)
	f.validateAndSetStatus(request, errors)
	f.validateAndSetPriority(request, errors)
	f.validateAndSetDates(request, errors)

	if len(errors) > 0 {
		return nil, response.NewValidationError(errors)
	}

	f.Task.Description = request.Description
	f.Task.ProjectID = request.ProjectID
	f.Task.EstimatedHours = request.EstimatedHours
	f.Task.ActualHours = request.ActualHours
	f.Task.Progress = request.Progress
	f.Task.TicketNumber = request.TicketNumber
	f.Task.Tags = request.Tags

	return f, nil
}

func (f *CreateTaskForm) ConvertToMap() map[string]interface{} {
	return map[string]interface{}{
		"title":      f.Task.Title,
		"assigneeId": f.Task.AssigneeID,
		"status":     f.Task.Status,
		"priority":   f.Task.Priority,
		"weekOf":     f.Task.WeekOf,
	}
}

func (f *CreateTaskForm) validateAndSetTitle(request *CreateTaskRequest, errors map[string]response.ErrorMessage) {
	if strings.TrimSpace(request.Title) == "" {
		errors["title"] = response.ErrorMessage{
			Code:    response.MissedValue,
			Message: "missed value",
		}
		return
	}

	f.Task.Title = request.Title
}

func (f *CreateTaskForm) validateAndSetAssignee(request *CreateTaskRequest, errors map[string]response.ErrorMessage) {
	if request.AssigneeID == "" {
		errors["assigneeId"] = response.ErrorMessage{
			Code:    response.MissedValue,
			Message: "missed value",
		}
		return
	}

	f.Task.AssigneeID = request.AssigneeID
}

func (f *CreateTaskForm) validateAndSetStatus(request *CreateTaskRequest, errors map[string]response.ErrorMessage) {
	if request.Status == "" {
		return
	}
	st, err := models.ParseStatus(request.Status)
	if err != nil {
		errors["status"] = response.ErrorMessage{Code: response.InvalidValue, Message: err.Error()}
		return
	}

	f.Task.Status = st
}

func (f *CreateTaskForm) validateAndSetPriority(request *CreateTaskRequest, errors map[string]response.ErrorMessage) {
	if request.Priority == "" {
		return
	}
	p, err := models.ParsePriority(request.Priority)
	if err != nil {
		errors["priority"] = response.ErrorMessage{Code: response.InvalidValue, Message: err.Error()}
		return
	}

	f.Task.Priority = p
}

func (f *CreateTaskForm) validateAndSetDates(request *CreateTaskRequest, errors map[string]response.ErrorMessage) {
	if err := models.ValidateDate("weekOf", request.WeekOf, false); err != nil {
		errors["weekOf"] = response.ErrorMessage{Code: response.InvalidValue, Message: err.Error()}
	} else {
		f.Task.WeekOf = request.WeekOf
	}
	if err := models.ValidateDate("dueDate", request.DueDate, false); err != nil {
		errors["dueDate"] = response.ErrorMessage{Code: response.InvalidValue, Message: err.Error()}
	} else {
		f.Task.DueDate = request.DueDate
	}
}
