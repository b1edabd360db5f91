package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type investorBody struct {
	InvestorID string `json:"investor_id"`
	Name       string `json:"name"`
	Properties []struct {
		PropertyID string `json:"property_id"`
		Percentage string `json:"percentage"`
	} `json:"properties"`
}

type addBody struct {
	Investor investorBody `json:"investor"`
	Created  bool         `json:"created"`
}

func TestInvestorHandler_AddToProperty(t *testing.T) {
	api := newTestAPI(t)

	w, env := api.do(t, http.MethodPost, "/investors/property/prop-1", map[string]any{"name": "Alice Tan", "percentage": 60})
	require.Equal(t, http.StatusCreated, w.Code)
	var added addBody
	decodeData(t, env, &added)
	assert.True(t, added.Created)
	assert.Equal(t, "1", added.Investor.InvestorID)

	t.Run("matching name reuses the investor", func(t *testing.T) {
		w, env := api.do(t, http.MethodPost, "/investors/property/prop-2", map[string]any{"name": "ALICE TAN", "percentage": 25})
		require.Equal(t, http.StatusOK, w.Code)
		var added addBody
		decodeData(t, env, &added)
		assert.False(t, added.Created)
		assert.Equal(t, "1", added.Investor.InvestorID)
		assert.Len(t, added.Investor.Properties, 2)
	})

	t.Run("second association with the same property", func(t *testing.T) {
		w, env := api.do(t, http.MethodPost, "/investors/property/prop-1", map[string]any{"name": "alice tan", "percentage": 10})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "DUPLICATE_ASSOCIATION", env.Error.Code)
	})

	t.Run("new name gets the next id", func(t *testing.T) {
		w, env := api.do(t, http.MethodPost, "/investors/property/prop-1", map[string]any{"name": "Bob", "percentage": 40})
		require.Equal(t, http.StatusCreated, w.Code)
		var added addBody
		decodeData(t, env, &added)
		assert.Equal(t, "2", added.Investor.InvestorID)
	})

	t.Run("percentage out of range", func(t *testing.T) {
		w, env := api.do(t, http.MethodPost, "/investors/property/prop-3", map[string]any{"name": "Carol", "percentage": 120})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, env.Error.Code, "INVALID")
	})

	w, env = api.do(t, http.MethodGet, "/investors/property/prop-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var roster []investorBody
	decodeData(t, env, &roster)
	require.Len(t, roster, 2)
	assert.Equal(t, "Alice Tan", roster[0].Name)
	assert.Equal(t, "Bob", roster[1].Name)
}

func TestInvestorHandler_ShareLifecycle(t *testing.T) {
	api := newTestAPI(t)

	api.do(t, http.MethodPost, "/investors/property/prop-1", map[string]any{"name": "Alice", "percentage": 50})
	api.do(t, http.MethodPost, "/investors/property/prop-2", map[string]any{"name": "Alice", "percentage": 30})

	w, env := api.do(t, http.MethodPut, "/investors/1/properties/prop-1", map[string]any{"percentage": 45.5})
	require.Equal(t, http.StatusOK, w.Code)
	var inv investorBody
	decodeData(t, env, &inv)
	assert.Equal(t, "45.5", inv.Properties[0].Percentage)

	w, env = api.do(t, http.MethodPut, "/investors/1/properties/prop-9", map[string]any{"percentage": 10})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "PROPERTY_NOT_ASSOCIATED", env.Error.Code)

	w, env = api.do(t, http.MethodDelete, "/investors/1/properties/prop-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"removed_from_property"`)

	w, env = api.do(t, http.MethodDelete, "/investors/1/properties/prop-2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"deleted_completely"`)

	w, env = api.do(t, http.MethodGet, "/investors/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestInvestorHandler_CRUD(t *testing.T) {
	api := newTestAPI(t)

	w, env := api.do(t, http.MethodPost, "/investors", map[string]any{
		"name":       "Dana",
		"email":      "dana@example.com",
		"properties": []map[string]any{{"property_id": "prop-1", "percentage": 20}},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created investorBody
	decodeData(t, env, &created)

	w, env = api.do(t, http.MethodPut, "/investors/"+created.InvestorID, map[string]any{"name": "Dana Lee"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated investorBody
	decodeData(t, env, &updated)
	assert.Equal(t, "Dana Lee", updated.Name)
	assert.Len(t, updated.Properties, 1)

	w, env = api.do(t, http.MethodGet, "/investors?search=dana", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), env.Meta.Total)

	w, env = api.do(t, http.MethodPost, "/investors", map[string]any{"name": "Eve", "email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	w, _ = api.do(t, http.MethodDelete, "/investors/"+created.InvestorID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = api.do(t, http.MethodDelete, "/investors/"+created.InvestorID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
