package common

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomErrorIsMatchesByCode(t *testing.T) {
	cause := errors.New("connection refused")
	wrapped := fmt.Errorf("fetch: %w", ErrDetailFetch.Wrap(cause))

	assert.True(t, errors.Is(wrapped, ErrDetailFetch))
	assert.True(t, errors.Is(wrapped, cause))
	assert.False(t, errors.Is(wrapped, ErrNotFound))

	custom := ErrNotFound.WithMessage("no such recipe")
	assert.True(t, errors.Is(custom, ErrNotFound))
	assert.Equal(t, "no such recipe", custom.Error())
	assert.Equal(t, http.StatusNotFound, custom.Status)
}

func TestAsCustomError(t *testing.T) {
	ce := AsCustomError(ErrForbidden)
	assert.Equal(t, ErrCodeForbidden, ce.Code)

	ce = AsCustomError(NewValidationError("name is required"))
	assert.Equal(t, ErrCodeValidation, ce.Code)
	assert.Equal(t, "name is required", ce.Message)
	assert.Equal(t, http.StatusBadRequest, ce.Status)

	ce = AsCustomError(errors.New("boom"))
	assert.Equal(t, ErrCodeInternalError, ce.Code)
	assert.Equal(t, http.StatusInternalServerError, ce.Status)
}

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		err         error
		debug       bool
		wantStatus  int
		wantDetails bool
	}{
		{"hides details", ErrGenerationFailed.Wrap(errors.New("bad json")), false, http.StatusUnprocessableEntity, false},
		{"debug details", ErrGenerationFailed.Wrap(errors.New("bad json")), true, http.StatusUnprocessableEntity, true},
		{"plain error", errors.New("boom"), false, http.StatusInternalServerError, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			RespondError(c, tt.err, tt.debug)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.True(t, c.IsAborted())
			body := w.Body.String()
			if tt.wantDetails {
				assert.Contains(t, body, `"details":"bad json"`)
			} else {
				assert.NotContains(t, body, `"details"`)
			}
		})
	}
}

func TestJSONHelpers(t *testing.T) {
	content := "Here you go:\n```json\n{\"name\": \"Sambar\"}\n```"
	assert.Equal(t, `{"name": "Sambar"}`, ExtractJSONObject(content))
	assert.Equal(t, "no json", ExtractJSONObject("no json"))

	quoted := QuoteJSONKeys(`{name: "Dal", mainIngredients: [{name: "Dal", quantity: 1}]}`)
	var v struct {
		Name            string `json:"name"`
		MainIngredients []struct {
			Name string `json:"name"`
		} `json:"mainIngredients"`
	}
	require.NoError(t, ParseJSON(quoted, &v))
	assert.Equal(t, "Dal", v.Name)
	require.Len(t, v.MainIngredients, 1)

	assert.Error(t, ParseJSON(`{"a":1} {"b":2}`, &v))
	assert.Error(t, ParseJSON(`{`, &v))
}
