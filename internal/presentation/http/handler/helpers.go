package handler

import (
	"strings"
	"time"

	"github.com/Vintage-The-Gemini/a.quotation-sub000/internal/presentation/http/dto/response"
	"github.com/Vintage-The-Gemini/a.quotation-sub000/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// parseID reads the :id path parameter, writing a 400 response when it is malformed
func parseID(c *gin.Context, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON binds the request body, writing a 400 response on failure
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// parseOptionalDate parses a YYYY-MM-DD value. Empty strings yield nil.
func parseOptionalDate(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: field, Message: "must be a date in YYYY-MM-DD format"},
		})
	}
	return &t, nil
}

// parseOptionalUUID parses a query value. Empty strings yield nil.
func parseOptionalUUID(field, value string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, apperror.NewBadRequestError("Invalid " + field)
	}
	return &id, nil
}
