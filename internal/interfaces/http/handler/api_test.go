package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	investorapp "github.com/ngochangjelly/rental-management-platform-sub000/internal/application/investor"
	ledgerapp "github.com/ngochangjelly/rental-management-platform-sub000/internal/application/ledger"
	settlementapp "github.com/ngochangjelly/rental-management-platform-sub000/internal/application/settlement"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/ledger"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/infrastructure/persistence"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/infrastructure/storage"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeRenderer struct {
	calls int
}

func (f *fakeRenderer) RenderStatement(_ context.Context, doc settlementapp.StatementDocument) ([]byte, error) {
	f.calls++
	return []byte("%PDF-1.4 " + doc.Statement.PropertyID), nil
}

type testAPI struct {
	engine   *gin.Engine
	storage  *storage.MemoryObjectStorage
	renderer *fakeRenderer
}

// newTestAPI wires the real services over an in-memory sqlite database
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(persistence.AllModels()...))

	records := ledgerapp.NewFinancialReportService(persistence.NewGormFinancialRecordRepository(db), nil)
	investorRepo := persistence.NewGormInvestorRepository(db)
	records.SetRosterSource(investorRepo)
	roster := investorapp.NewRosterService(investorRepo, nil)
	store := storage.NewMemoryObjectStorage("")
	renderer := &fakeRenderer{}
	settlements := settlementapp.NewService(records, investorRepo, renderer, store, settlementapp.ServiceConfig{}, nil)

	reports := NewFinancialReportHandler(records)
	statements := NewSettlementHandler(settlements)
	attachments := NewAttachmentHandler(ledgerapp.NewAttachmentService(store))
	investors := NewInvestorHandler(roster)

	r := gin.New()
	r.Use(middleware.RequestID())
	api := r.Group("/api/v1")

	fr := api.Group("/financial-reports/property/:propertyId")
	fr.GET("", reports.ListRecords)
	month := fr.Group("/:year/:month")
	month.GET("", reports.GetRecord)
	month.GET("/settlement", statements.GetSettlement)
	month.GET("/settlement/export", statements.Export)
	month.PUT("/carry-over/:investorId", reports.SetCarryOver)
	month.POST("/close", reports.Close)
	month.POST("/reopen", reports.Reopen)
	for _, bucket := range []ledger.Bucket{ledger.BucketIncome, ledger.BucketExpenses} {
		b := month.Group("/" + bucket.String())
		b.POST("", reports.AddTransaction(bucket))
		b.PUT("/:index", reports.UpdateTransaction(bucket))
		b.DELETE("/:index", reports.RemoveTransaction(bucket))
		b.PUT("/id/:txId", reports.UpdateTransactionByID(bucket))
		b.DELETE("/id/:txId", reports.RemoveTransactionByID(bucket))
	}

	api.POST("/attachments/upload-url", attachments.InitiateUpload)
	api.GET("/attachments/download-url", attachments.DownloadURL)

	api.GET("/investors", investors.List)
	api.POST("/investors", investors.Create)
	api.GET("/investors/:id", investors.Get)
	api.PUT("/investors/:id", investors.Update)
	api.DELETE("/investors/:id", investors.Delete)
	api.GET("/investors/property/:propertyId", investors.ListByProperty)
	api.POST("/investors/property/:propertyId", investors.AddToProperty)
	api.PUT("/investors/:id/properties/:propertyId", investors.UpdateShare)
	api.DELETE("/investors/:id/properties/:propertyId", investors.RemoveFromProperty)

	return &testAPI{engine: r, storage: store, renderer: renderer}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	} `json:"error"`
	Meta *struct {
		Total int64 `json:"total"`
	} `json:"meta"`
}

func (a *testAPI) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") != "application/pdf" && w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func decodeData(t *testing.T, env envelope, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v))
}

type recordBody struct {
	Income []struct {
		ID       string `json:"id"`
		Position int    `json:"position"`
		Item     string `json:"item"`
		Amount   string `json:"amount"`
	} `json:"income"`
	Expenses []struct {
		ID   string `json:"id"`
		Item string `json:"item"`
	} `json:"expenses"`
	TotalIncome   string `json:"total_income"`
	TotalExpenses string `json:"total_expenses"`
	NetProfit     string `json:"net_profit"`
	IsClosed      bool   `json:"is_closed"`
}

func transaction(item string, amount float64, person string) map[string]any {
	return map[string]any{
		"item":             item,
		"amount":           amount,
		"date":             "2025-07-03",
		"person_in_charge": person,
	}
}
