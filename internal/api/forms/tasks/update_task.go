package tasks

import (
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/tgienger/weekly/internal/api/forms"
	"github.com/tgienger/weekly/internal/api/response"
	"github.com/tgienger/weekly/internal/models"
)

// UpdateTaskForm holds a partial update; absent fields stay untouched
type UpdateTaskForm struct {
	Update models.TaskUpdate
}

func NewUpdateTaskForm() *UpdateTaskForm {
	return &UpdateTaskForm{}
}

func (f *UpdateTaskForm) ParseAndValidate(c *gin.Context) (forms.Former, response.Error) {
	body, err := io.ReadAll(c.Request.Body)
	defer c.Request.Body.Close()

	if err != nil {
		log.WithError(err).Error("unable to read body")
		return nil, response.NewInternalError()
	}

	var request *models.TaskUpdate
	err = json.Unmarshal(body, &request)
	if err != nil || request == nil {
		ve := response.NewValidationError()
		ve.SetError(response.GeneralErrorKey, response.InvalidRequestStructure, "invalid request structure")

		return nil, ve
	}
	errors := make(map[string]response.ErrorMessage)
	if request.Title != nil && *request.Title == "" {
		errors["title"] = response.ErrorMessage{Code: response.MissedValue, Message: "missed value"}
	}
	if request.Status != nil {
		if _, err := models.ParseStatus(string(*request.Status)); err != nil {
			errors["status"] = response.ErrorMessage{Code: response.InvalidValue, Message: err.Error()}
		}
	}
	if request.Priority != nil {
		if _, err := models.ParsePriority(string(*request.Priority)); err != nil {
			errors["priority"] = response.ErrorMessage{Code: response.InvalidValue, Message: err.Error()}
		}
	}

	if len(errors) > 0 {
		return nil, response.NewValidationError(errors)
	}

	f.Update = *request
	return f, nil
}

func (f *UpdateTaskForm) ConvertToMap() map[string]interface{} {
	m := map[string]interface{}{}
	u := f.Update
	if u.Title != nil {
		m["title"] = *u.Title
	}
	if u.Status != nil {
		m["status"] = *u.Status
	}
	if u.Priority != nil {
		m["priority"] = *u.Priority
	}
	if u.WeekOf != nil {
		m["weekOf"] = *u.WeekOf
	}
	if u.Progress != nil {
		m["progress"] = *u.Progress
	}
	return m
}
