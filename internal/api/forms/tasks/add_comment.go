package tasks

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/tgienger/weekly/internal/api/forms"
	"github.com/tgienger/weekly/internal/api/response"
)

type AddCommentRequest struct {
	UserID  string `json:"userId"`
	Content string `json:"content"`
}

type AddCommentForm struct {
	UserID  string
	Content string
}

func NewAddCommentForm() *AddCommentForm {
	return &AddCommentForm{}
}

func (f *AddCommentForm) ParseAndValidate(c *gin.Context) (forms.Former, response.Error) {
	body, err := io.ReadAll(c.Request.Body)
	defer c.Request.Body.Close()

	if err != nil {
		log.WithError(err).Error("unable to read body")
		return nil, response.NewInternalError()
	}

	var request *AddCommentRequest
	err = json.Unmarshal(body, &request)
	if err != nil || request == nil {
		ve := response.NewValidationError()
		ve.SetError(response.GeneralErrorKey, response.InvalidRequestStructure, "invalid request structure")

		return nil, ve
	}
	errors := make(map[string]response.ErrorMessage)
	if request.UserID == "" {
		errors["userId"] = response.ErrorMessage{Code: response.MissedValue, Message: "missed value"}
	}
	if strings.TrimSpace(request.Content) == "" {
		errors["content"] = response.ErrorMessage{Code: response.MissedValue, Message: "missed value"}
	}

	if len(errors) > 0 {
		return nil, response.NewValidationError(errors)
	}

	f.UserID = request.UserID
	f.Content = request.Content
	return f, nil
}

func (f *AddCommentForm) ConvertToMap() map[string]interface{} {
	return map[string]interface{}{
		"userId":  f.UserID,
		"content": f.Content,
	}
}
