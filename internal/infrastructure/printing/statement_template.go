package printing

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	settlementapp "github.com/ngochangjelly/rental-management-platform-sub000/internal/application/settlement"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/ledger"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/settlement"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// statementView is the data bound to the statement template
type statementView struct {
	Title            string
	PropertyID       string
	PeriodLabel      string
	Currency         string
	GeneratedAt      time.Time
	IsClosed         bool
	IncomeLabel      string
	ExpensesLabel    string
	TotalIncome      decimal.Decimal
	TotalExpenses    decimal.Decimal
	NetProfit        decimal.Decimal
	TotalFinalAmount decimal.Decimal
	Lines            []settlement.Line
}

// StatementTemplate renders settlement statements to HTML
type StatementTemplate struct {
	tmpl *template.Template
}

// NewStatementTemplate parses the embedded statement template.
// Amounts are formatted in the document currency and truncated to its minor unit.
func NewStatementTemplate() (*StatementTemplate, error) {
	funcs := template.FuncMap{
		"money":   func(currency string, d decimal.Decimal) string { return settlement.Display(d, currency) },
		"percent": settlement.DisplayPercentage,
		"title":   titleCase,
		"date":    func(t time.Time) string { return t.Format("2 Jan 2006 15:04") },
	}
	tmpl, err := template.New("statement.html.tmpl").Funcs(funcs).ParseFS(templateFS, "templates/statement.html.tmpl")
	if err != nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "failed to parse statement template", err)
	}
	return &StatementTemplate{tmpl: tmpl}, nil
}

// Execute renders the statement document to HTML
func (t *StatementTemplate) Execute(doc settlementapp.StatementDocument) (string, error) {
	stmt := doc.Statement
	view := statementView{
		Title:            "Investor Settlement Statement",
		PropertyID:       stmt.PropertyID,
		PeriodLabel:      periodLabel(stmt.Period),
		Currency:         doc.Currency,
		GeneratedAt:      doc.GeneratedAt,
		IsClosed:         stmt.IsClosed,
		IncomeLabel:      "total " + ledger.BucketIncome.String(),
		ExpensesLabel:    "total " + ledger.BucketExpenses.String(),
		TotalIncome:      stmt.TotalIncome,
		TotalExpenses:    stmt.TotalExpenses,
		NetProfit:        stmt.NetProfit,
		TotalFinalAmount: stmt.TotalFinalAmount(),
		Lines:            stmt.Lines,
	}

	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, view); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute statement template", err)
	}
	return buf.String(), nil
}

// titleCase applies Unicode title casing
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

func periodLabel(p ledger.Period) string {
	return fmt.Sprintf("%s %d", time.Month(p.Month), p.Year)
}
