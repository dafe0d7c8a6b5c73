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

type MoveTaskRequest struct {
	Status string `json:"status"`
}

type MoveTaskForm struct {
	Status models.Status
}

func NewMoveTaskForm() *MoveTaskForm {
	return &MoveTaskForm{}
}

func (f *MoveTaskForm) ParseAndValidate(c *gin.Context) (forms.Former, response.Error) {
	body, err := io.ReadAll(c.Request.Body)
	defer c.Request.Body.Close()

	if err != nil {
		log.WithError(err).Error("unable to read body")
		return nil, response.NewInternalError()
	}

	var request *MoveTaskRequest
	err = json.Unmarshal(body, &request)
	if err != nil || request == nil {
		ve := response.NewValidationError()
		ve.SetError(response.GeneralErrorKey, response.InvalidRequestStructure, "invalid request structure")

		return nil, ve
	}
	errors := make(map[string]response.ErrorMessage)
	f.validateAndSetStatus(request, errors)

	if len(errors) > 0 {
		return nil, response.NewValidationError(errors)
	}

	return f, nil
}

func (f *MoveTaskForm) ConvertToMap() map[string]interface{} {
	return map[string]interface{}{
		"status": f.Status,
	}
}

func (f *MoveTaskForm) validateAndSetStatus(request *MoveTaskRequest, errors map[string]response.ErrorMessage) {
	if request.Status == "" {
		errors["status"] = response.ErrorMessage{
			Code:    response.MissedValue,
			Message: "missed value",
		}
		return
	}
	st, err := models.ParseStatus(request.Status)
	if err != nil {
		errors["status"] = response.ErrorMessage{Code: response.InvalidValue, Message: err.Error()}
		return
	}

	f.Status = st
}
