package settlement

import (
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/settlement"
	"github.com/shopspring/decimal"
)

// LineDisplay holds the amounts of a line formatted for people, cut to the currency's minor unit
type LineDisplay struct {
	Percentage               string `json:"percentage"`
	InvestorShare            string `json:"investor_share"`
	ExpensesPaidByInvestor   string `json:"expenses_paid_by_investor"`
	IncomeReceivedByInvestor string `json:"income_received_by_investor"`
	AlreadyPaid              string `json:"already_paid"`
	AlreadyReceived          string `json:"already_received"`
	FinalAmount              string `json:"final_amount"`
}

// LineResponse is one investor's settlement with full-precision amounts and display strings
type LineResponse struct {
	settlement.Line
	Display LineDisplay `json:"display"`
}

// StatementDisplay holds the statement totals formatted for people
type StatementDisplay struct {
	TotalIncome      string `json:"total_income"`
	TotalExpenses    string `json:"total_expenses"`
	NetProfit        string `json:"net_profit"`
	TotalFinalAmount string `json:"total_final_amount"`
}

// StatementResponse is the settlement of a property's month
type StatementResponse struct {
	PropertyID       string           `json:"property_id"`
	Year             int              `json:"year"`
	Month            int              `json:"month"`
	Currency         string           `json:"currency"`
	TotalIncome      decimal.Decimal  `json:"total_income"`
	TotalExpenses    decimal.Decimal  `json:"total_expenses"`
	NetProfit        decimal.Decimal  `json:"net_profit"`
	TotalFinalAmount decimal.Decimal  `json:"total_final_amount"`
	IsClosed         bool             `json:"is_closed"`
	Lines            []LineResponse   `json:"lines"`
	Display          StatementDisplay `json:"display"`
}

// ToStatementResponse converts a statement, formatting display strings in currency
func ToStatementResponse(stmt settlement.Statement, currency string) *StatementResponse {
	show := func(d decimal.Decimal) string { return settlement.Display(d, currency) }

	lines := make([]LineResponse, len(stmt.Lines))
	for i, l := range stmt.Lines {
		lines[i] = LineResponse{
			Line: l,
			Display: LineDisplay{
				Percentage:               settlement.DisplayPercentage(l.Percentage),
				InvestorShare:            show(l.InvestorShare),
				ExpensesPaidByInvestor:   show(l.ExpensesPaidByInvestor),
				IncomeReceivedByInvestor: show(l.IncomeReceivedByInvestor),
				AlreadyPaid:              show(l.AlreadyPaid),
				AlreadyReceived:          show(l.AlreadyReceived),
				FinalAmount:              show(l.FinalAmount),
			},
		}
	}

	total := stmt.TotalFinalAmount()
	return &StatementResponse{
		PropertyID:       stmt.PropertyID,
		Year:             stmt.Period.Year,
		Month:            stmt.Period.Month,
		Currency:         currency,
		TotalIncome:      stmt.TotalIncome,
		TotalExpenses:    stmt.TotalExpenses,
		NetProfit:        stmt.NetProfit,
		TotalFinalAmount: total,
		IsClosed:         stmt.IsClosed,
		Lines:            lines,
		Display: StatementDisplay{
			TotalIncome:      show(stmt.TotalIncome),
			TotalExpenses:    show(stmt.TotalExpenses),
			NetProfit:        show(stmt.NetProfit),
			TotalFinalAmount: show(total),
		},
	}
}
