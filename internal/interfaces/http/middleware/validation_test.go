package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type validationRequest struct {
	Item   string `json:"item" binding:"required"`
	Amount string `json:"amount" binding:"required,max=20"`
	Share  int    `json:"share" binding:"gte=0,lte=100"`
}

func validationRouter() *gin.Engine {
	SetupValidator()
	r := gin.New()
	r.Use(RequestID())
	r.POST("/test", func(c *gin.Context) {
		var req validationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})
	return r
}

func TestHandleValidationError_FieldDetails(t *testing.T) {
	w := httptest.NewRecorder()
	validationRouter().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"share":150}`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	errInfo := decodeError(t, w)
	assert.Equal(t, "VALIDATION_ERROR", errInfo.Code)

	messages := map[string]string{}
	for _, d := range errInfo.Details {
		messages[d.Field] = d.Message
	}
	assert.Equal(t, "This field is required", messages["item"])
	assert.Equal(t, "This field is required", messages["amount"])
	assert.Equal(t, "Must be less than or equal to 100", messages["share"])
}

func TestHandleValidationError_MalformedJSON(t *testing.T) {
	w := httptest.NewRecorder()
	validationRouter().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"item":`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, []string{"INVALID_JSON", "VALIDATION_ERROR"}, decodeError(t, w).Code)
}

func TestHandleValidationError_WrongType(t *testing.T) {
	w := httptest.NewRecorder()
	validationRouter().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"item":"a","amount":"1","share":"x"}`)))

	errInfo := decodeError(t, w)
	assert.Equal(t, "VALIDATION_ERROR", errInfo.Code)
	if assert.Len(t, errInfo.Details, 1) {
		assert.Equal(t, "share", errInfo.Details[0].Field)
	}
}
