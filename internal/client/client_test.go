package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"recipe-planner/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sambarJSON = `{"_id":"r1","name":"Sambar","cuisine":"Indian","difficulty":"Medium","mainIngredients":[{"name":"Toor Dal","quantity":2,"unit":"cup"},"Curry Leaves"],"spices":["Hing",{"name":"Turmeric"}],"servings":8}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL+"/", "session-token", time.Second)
}

func TestSearchSendsQueryAndToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/recipes/search", r.URL.Path)
		assert.Equal(t, "dal", r.URL.Query().Get("q"))
		assert.Equal(t, "Bearer session-token", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"_id":"r2","name":"Dal Fry","cuisine":"Indian","mainIngredients":[],"spices":[],"servings":8}]`))
	})

	recipes, err := c.Search(context.Background(), "dal")
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Dal Fry", recipes[0].Name)
}

func TestFetchDetailKeepsLooseShapes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/recipes/r1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sambarJSON))
	})

	raw, err := c.FetchDetail(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "Sambar", raw.Name)
	assert.Len(t, raw.MainIngredients, 2)
	assert.Len(t, raw.Spices, 2)
}

func TestCreateAndList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodPost:
			var in common.RecipeInput
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			assert.Equal(t, "Sambar", in.Name)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(sambarJSON))
		case http.MethodGet:
			assert.Equal(t, "3", r.URL.Query().Get("limit"))
			_, _ = w.Write([]byte(`[` + sambarJSON + `]`))
		}
	})
	ctx := context.Background()

	created, err := c.Create(ctx, &common.RecipeInput{Name: "Sambar"})
	require.NoError(t, err)
	assert.Equal(t, "r1", created.ID)

	listed, err := c.ListAll(ctx, 3)
	require.NoError(t, err)
	require.Len(t, listed, 1)
}

func TestGenerate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Sambar", body["recipeName"])
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"Sambar","cuisine":"Indian","mainIngredients":[{"name":"Toor Dal","quantity":"2","unit":"cup"}],"spices":[],"servings":"8"}`))
	})

	got, err := c.Generate(context.Background(), "Sambar")
	require.NoError(t, err)
	assert.Equal(t, common.FlexInt(8), got.Servings)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		target error
		code   string
		msg    string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"code":"AUTH_REQUIRED","message":"authentication required"}`, common.ErrAuthRequired, common.ErrCodeAuthRequired, "authentication required"},
		{"not found", http.StatusNotFound, `{"code":"NOT_FOUND","message":"recipe not found"}`, common.ErrNotFound, common.ErrCodeNotFound, "recipe not found"},
		{"generation failed", http.StatusUnprocessableEntity, `{"code":"GENERATION_FAILED","message":"failed to generate recipe"}`, common.ErrGenerationFailed, common.ErrCodeGenerationFailed, "failed to generate recipe"},
		{"empty body", http.StatusBadGateway, ``, common.ErrInternalError, common.ErrCodeInternalError, "Bad Gateway"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.GetByID(context.Background(), "r1")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)

			ce := common.AsCustomError(err)
			assert.Equal(t, tt.code, ce.Code)
			assert.Equal(t, tt.msg, ce.Message)
			assert.Equal(t, tt.status, ce.Status)
		})
	}
}

func TestTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := New(server.URL, "", time.Second).ListAll(context.Background(), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
}
