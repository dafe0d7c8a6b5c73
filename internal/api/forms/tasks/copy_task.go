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

type CopyTaskRequest struct {
	TargetWeek string               `json:"targetWeek"`
	Settings   *models.CopySettings `json:"settings"`
	Reason     string               `json:"reason"`
	CopiedBy   string               `json:"copiedBy"`
}

type CopyTaskForm struct {
	TargetWeek string
	Settings   models.CopySettings
	Reason     string
	CopiedBy   string
}

// NewCopyTaskForm uses defaults when the request carries no settings
func NewCopyTaskForm(defaults models.CopySettings) *CopyTaskForm {
	return &CopyTaskForm{Settings: defaults}
}

func (f *CopyTaskForm) ParseAndValidate(c *gin.Context) (forms.Former, response.Error) {
	body, err := io.ReadAll(c.Request.Body)
	defer c.Request.Body.Close()

	if err != nil {
		log.WithError(err).Error("unable to read body")
		return nil, response.NewInternalError()
	}

	var request *CopyTaskRequest
	err = json.Unmarshal(body, &request)
	if err != nil || request == nil {
		ve := response.NewValidationError()
		ve.SetError(response.GeneralErrorKey, response.InvalidRequestStructure, "invalid request structure")

		return nil, ve
	}
	errors := make(map[string]response.ErrorMessage)
	f.validateAndSetTargetWeek(request, errors)
	f.validateAndSetCopiedBy(request, errors)

	if len(errors) > 0 {
		return nil, response.NewValidationError(errors)
	}

	if request.Settings != nil {
		f.Settings = *request.Settings
	}
	f.Reason = request.Reason
	return f, nil
}

func (f *CopyTaskForm) ConvertToMap() map[string]interface{} {
	return map[string]interface{}{
		"targetWeek": f.TargetWeek,
		"settings":   f.Settings,
		"reason":     f.Reason,
		"copiedBy":   f.CopiedBy,
	}
}

func (f *CopyTaskForm) validateAndSetTargetWeek(request *CopyTaskRequest, errors map[string]response.ErrorMessage) {
	if request.TargetWeek == "" {
		errors["targetWeek"] = response.ErrorMessage{
			Code:    response.MissedValue,
			Message: "missed value",
		}
		return
	}
	if err := models.ValidateDate("targetWeek", request.TargetWeek, true); err != nil {
		errors["targetWeek"] = response.ErrorMessage{Code: response.InvalidValue, Message: err.Error()}
		return
	}

	f.TargetWeek = request.TargetWeek
}

func (f *CopyTaskForm) validateAndSetCopiedBy(request *CopyTaskRequest, errors map[string]response.ErrorMessage) {
	if request.CopiedBy == "" {
		errors["copiedBy"] = response.ErrorMessage{
			Code:    response.MissedValue,
			Message: "missed value",
		}
		return
	}

	f.CopiedBy = request.CopiedBy
}
