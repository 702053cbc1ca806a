package statements

import (
	"fintrack/internal/core"

	"github.com/shopspring/decimal"
)

type BalanceSheetReport struct {
	core.BalanceSheet
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	NetWorth         decimal.Decimal `json:"netWorth"`
}

type IncomeStatementReport struct {
	core.IncomeStatement
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetIncome     decimal.Decimal `json:"netIncome"`
}

// CashFlowReport adds per-activity subtotals. NetCashFlow is their sum.
type CashFlowReport struct {
	core.CashFlowStatement
	Operating   decimal.Decimal `json:"operating"`
	Investing   decimal.Decimal `json:"investing"`
	Financing   decimal.Decimal `json:"financing"`
	NetCashFlow decimal.Decimal `json:"netCashFlow"`
}

func newBalanceSheetReport(bs core.BalanceSheet) BalanceSheetReport {
	r := BalanceSheetReport{BalanceSheet: bs}
	for _, a := range bs.Assets {
		r.TotalAssets = r.TotalAssets.Add(a.Amount)
	}
	for _, l := range bs.Liabilities {
		r.TotalLiabilities = r.TotalLiabilities.Add(l.Amount)
	}
	r.NetWorth = r.TotalAssets.Sub(r.TotalLiabilities)
	return r
}

func newIncomeStatementReport(is core.IncomeStatement) IncomeStatementReport {
	r := IncomeStatementReport{IncomeStatement: is}
	for _, it := range is.Revenues {
		r.TotalRevenue = r.TotalRevenue.Add(it.Amount)
	}
	for _, it := range is.Expenses {
		r.TotalExpenses = r.TotalExpenses.Add(it.Amount)
	}
	r.NetIncome = r.TotalRevenue.Sub(r.TotalExpenses)
	return r
}

func newCashFlowReport(cf core.CashFlowStatement) CashFlowReport {
	r := CashFlowReport{CashFlowStatement: cf}
	for _, it := range cf.Items {
		switch it.Category {
		case core.CashFlowOperating:
			r.Operating = r.Operating.Add(it.Amount)
		case core.CashFlowInvesting:
			r.Investing = r.Investing.Add(it.Amount)
		case core.CashFlowFinancing:
			r.Financing = r.Financing.Add(it.Amount)
		}
	}
	r.NetCashFlow = r.Operating.Add(r.Investing).Add(r.Financing)
	return r
}
