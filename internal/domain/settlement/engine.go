// Package settlement computes what each investor is owed, or owes, for one
// property's month.
package settlement

import (
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/investor"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Line is one investor's settlement for a period.
// FinalAmount is positive when the pool owes the investor and negative when the investor owes the pool.
type Line struct {
	InvestorID               string          `json:"investor_id"`
	InvestorName             string          `json:"investor_name"`
	Percentage               decimal.Decimal `json:"percentage"`
	InvestorShare            decimal.Decimal `json:"investor_share"`
	ExpensesPaidByInvestor   decimal.Decimal `json:"expenses_paid_by_investor"`
	IncomeReceivedByInvestor decimal.Decimal `json:"income_received_by_investor"`
	AlreadyPaid              decimal.Decimal `json:"already_paid"`
	AlreadyReceived          decimal.Decimal `json:"already_received"`
	FinalAmount              decimal.Decimal `json:"final_amount"`
}

// Statement is the settlement of a whole record.
// NetProfit is computed once here and shared by every consumer.
type Statement struct {
	PropertyID    string          `json:"property_id"`
	Period        ledger.Period   `json:"period"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetProfit     decimal.Decimal `json:"net_profit"`
	IsClosed      bool            `json:"is_closed"`
	Lines         []Line          `json:"lines"`
}

// TotalFinalAmount sums the final amounts of all lines
func (s Statement) TotalFinalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.Lines {
		total = total.Add(l.FinalAmount)
	}
	return total
}

// Compute builds the statement of a record. Open records settle against the
// given roster; closed records settle against the roster captured at close.
func Compute(record *ledger.FinancialRecord, investors []*investor.Investor) Statement {
	return Statement{
		PropertyID:    record.PropertyID,
		Period:        record.Period,
		TotalIncome:   record.TotalIncome,
		TotalExpenses: record.TotalExpenses,
		NetProfit:     record.NetProfit(),
		IsClosed:      record.IsClosed,
		Lines:         ComputeSettlement(record, investors),
	}
}

// RosterShares lists the investors holding a share of the property, in roster order
func RosterShares(propertyID string, investors []*investor.Investor) []ledger.RosterShare {
	shares := make([]ledger.RosterShare, 0, len(investors))
	for _, inv := range investors {
		if inv == nil {
			continue
		}
		pct, ok := inv.ShareFor(propertyID)
		if !ok {
			continue
		}
		shares = append(shares, ledger.RosterShare{
			InvestorID:   inv.InvestorID,
			InvestorName: inv.Name,
			Percentage:   pct,
		})
	}
	return shares
}

// ComputeSettlement returns one line per investor holding a share of the
// record's property, in roster order. Investors without a share are skipped.
// A closed record ignores investors and uses its roster snapshot.
// The stored totals are authoritative; they are not re-derived from the transactions.
func ComputeSettlement(record *ledger.FinancialRecord, investors []*investor.Investor) []Line {
	if record == nil {
		return make([]Line, 0)
	}
	if record.IsClosed {
		return settle(record, record.RosterSnapshot)
	}
	return settle(record, RosterShares(record.PropertyID, investors))
}

func settle(record *ledger.FinancialRecord, roster []ledger.RosterShare) []Line {
	lines := make([]Line, 0, len(roster))

	netProfit := record.NetProfit()
	expensesBy := sumByPerson(record.Expenses)
	incomeBy := sumByPerson(record.Income)

	for _, s := range roster {
		share := netProfit.Mul(s.Percentage).Div(hundred)
		expensesPaid := amountOr0(expensesBy, s.InvestorID)
		incomeReceived := amountOr0(incomeBy, s.InvestorID)
		carry := record.CarryOverFor(s.InvestorID)

		final := share.
			Sub(carry.AlreadyPaid).
			Add(carry.AlreadyReceived).
			Add(expensesPaid).
			Sub(incomeReceived)

		lines = append(lines, Line{
			InvestorID:               s.InvestorID,
			InvestorName:             s.InvestorName,
			Percentage:               s.Percentage,
			InvestorShare:            share,
			ExpensesPaidByInvestor:   expensesPaid,
			IncomeReceivedByInvestor: incomeReceived,
			AlreadyPaid:              carry.AlreadyPaid,
			AlreadyReceived:          carry.AlreadyReceived,
			FinalAmount:              final,
		})
	}

	return lines
}

func sumByPerson(txs []ledger.Transaction) map[string]decimal.Decimal {
	sums := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		sums[tx.PersonInCharge] = amountOr0(sums, tx.PersonInCharge).Add(tx.Amount)
	}
	return sums
}

func amountOr0(m map[string]decimal.Decimal, key string) decimal.Decimal {
	if v, ok := m[key]; ok {
		return v
	}
	return decimal.Zero
}
