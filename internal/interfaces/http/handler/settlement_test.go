package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statementBody struct {
	NetProfit string `json:"net_profit"`
	Lines     []struct {
		InvestorID    string `json:"investor_id"`
		InvestorShare string `json:"investor_share"`
		FinalAmount   string `json:"final_amount"`
		Display       struct {
			Percentage  string `json:"percentage"`
			FinalAmount string `json:"final_amount"`
		} `json:"display"`
	} `json:"lines"`
	Display struct {
		NetProfit string `json:"net_profit"`
	} `json:"display"`
}

// seedJuly records 3000 income and 1800 of expenses paid by investor 1,
// who holds half of prop-1 and already took 100 this month
func seedJuly(t *testing.T, api *testAPI) {
	t.Helper()
	w, _ := api.do(t, http.MethodPost, "/investors/property/prop-1", map[string]any{"name": "Alice", "percentage": 50})
	require.Equal(t, http.StatusCreated, w.Code)
	w, _ = api.do(t, http.MethodPost, "/investors/property/prop-1", map[string]any{"name": "Bob", "percentage": 50})
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = api.do(t, http.MethodPost, july+"/income", transaction("Rent", 3000, "Jelly"))
	require.Equal(t, http.StatusCreated, w.Code)
	w, _ = api.do(t, http.MethodPost, july+"/expenses", transaction("Roof repair", 1800, "1"))
	require.Equal(t, http.StatusCreated, w.Code)
	w, _ = api.do(t, http.MethodPut, july+"/carry-over/1", map[string]any{"already_paid": 100})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestSettlementHandler_GetSettlement(t *testing.T) {
	api := newTestAPI(t)
	seedJuly(t, api)

	w, env := api.do(t, http.MethodGet, july+"/settlement", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stmt statementBody
	decodeData(t, env, &stmt)
	assert.Equal(t, "1200", stmt.NetProfit)
	assert.Equal(t, "$1,200.00", stmt.Display.NetProfit)
	require.Len(t, stmt.Lines, 2)

	alice, bob := stmt.Lines[0], stmt.Lines[1]
	assert.Equal(t, "1", alice.InvestorID)
	assert.Equal(t, "600", alice.InvestorShare)
	assert.Equal(t, "2300", alice.FinalAmount)
	assert.Equal(t, "$2,300.00", alice.Display.FinalAmount)
	assert.Equal(t, "50%", alice.Display.Percentage)

	assert.Equal(t, "2", bob.InvestorID)
	assert.Equal(t, "600", bob.FinalAmount)
}

func TestSettlementHandler_ClosedMonthIgnoresLaterRosterChanges(t *testing.T) {
	api := newTestAPI(t)
	seedJuly(t, api)

	w, _ := api.do(t, http.MethodPost, july+"/close", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = api.do(t, http.MethodDelete, "/investors/1/properties/prop-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = api.do(t, http.MethodPut, "/investors/2/properties/prop-1", map[string]any{"percentage": 100})
	require.Equal(t, http.StatusOK, w.Code)

	w, env := api.do(t, http.MethodGet, july+"/settlement", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stmt statementBody
	decodeData(t, env, &stmt)
	require.Len(t, stmt.Lines, 2)
	assert.Equal(t, "1", stmt.Lines[0].InvestorID)
	assert.Equal(t, "2300", stmt.Lines[0].FinalAmount)
	assert.Equal(t, "50%", stmt.Lines[1].Display.Percentage)
	assert.Equal(t, "600", stmt.Lines[1].FinalAmount)

	// reopening settles against the live roster again
	w, _ = api.do(t, http.MethodPost, july+"/reopen", nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, env = api.do(t, http.MethodGet, july+"/settlement", nil)
	stmt = statementBody{}
	decodeData(t, env, &stmt)
	require.Len(t, stmt.Lines, 1)
	assert.Equal(t, "1200", stmt.Lines[0].FinalAmount)
}

func TestSettlementHandler_EmptyRosterGivesNoLines(t *testing.T) {
	api := newTestAPI(t)

	w, env := api.do(t, http.MethodGet, "/financial-reports/property/prop-9/2025/7/settlement", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stmt statementBody
	decodeData(t, env, &stmt)
	assert.Empty(t, stmt.Lines)
}

func TestSettlementHandler_ExportStreamsPDF(t *testing.T) {
	api := newTestAPI(t)
	seedJuly(t, api)

	req := httptest.NewRequest(http.MethodGet, "/api/v1"+july+"/settlement/export", nil)
	w := httptest.NewRecorder()
	api.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="settlement-prop-1-2025-07.pdf"`, w.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-1.4"))
	assert.Equal(t, 1, api.renderer.calls)
}

func TestSettlementHandler_ExportAndStore(t *testing.T) {
	api := newTestAPI(t)
	seedJuly(t, api)

	w, env := api.do(t, http.MethodGet, july+"/settlement/export?store=true", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var stored struct {
		StorageKey  string `json:"storage_key"`
		DownloadURL string `json:"download_url"`
	}
	decodeData(t, env, &stored)
	assert.Equal(t, "statements/prop-1/2025-07/settlement-prop-1-2025-07.pdf", stored.StorageKey)
	assert.Contains(t, stored.DownloadURL, stored.StorageKey)

	obj, ok := api.storage.Get(stored.StorageKey)
	require.True(t, ok)
	assert.Equal(t, "application/pdf", obj.ContentType)
}
