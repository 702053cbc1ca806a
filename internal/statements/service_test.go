package statements

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/engine"
	"fintrack/internal/storage"

	"github.com/shopspring/decimal"
)

var march10 = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

type failingGateway struct {
	*storage.MemoryGateway
	fail bool
}

func (g *failingGateway) Save(ctx context.Context, snap *core.Snapshot) error {
	if g.fail {
		return errors.New("disk full")
	}
	return g.MemoryGateway.Save(ctx, snap)
}

func newTestService(t *testing.T) (*Service, *failingGateway) {
	t.Helper()
	gw := &failingGateway{MemoryGateway: storage.NewMemoryGateway()}
	clock := func() time.Time { return march10 }
	eng, err := engine.Open(context.Background(), gw, engine.WithClock(clock))
	if err != nil {
		t.Fatalf("open engine: %v", err)
	}
	return NewService(eng, WithClock(clock)), gw
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func reload(t *testing.T, gw *failingGateway) core.Statements {
	t.Helper()
	snap, err := gw.MemoryGateway.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return snap.Statements
}

func TestSeededStatements(t *testing.T) {
	svc, gw := newTestService(t)
	ctx := context.Background()

	bs := svc.BalanceSheet()
	if len(bs.Assets) != 5 || len(bs.Liabilities) != 3 {
		t.Fatalf("balance sheet has %d assets and %d liabilities", len(bs.Assets), len(bs.Liabilities))
	}
	if !bs.TotalAssets.Equal(dec("79300")) || !bs.TotalLiabilities.Equal(dec("32500")) || !bs.NetWorth.Equal(dec("46800")) {
		t.Fatalf("balance totals = %s / %s / %s", bs.TotalAssets, bs.TotalLiabilities, bs.NetWorth)
	}
	if bs.Date != "2025-03-10" {
		t.Fatalf("balance sheet date = %q", bs.Date)
	}

	is, err := svc.IncomeStatement(ctx, "", "")
	if err != nil {
		t.Fatalf("income statement: %v", err)
	}
	if is.StartDate != "2025-03-01" || is.EndDate != "2025-03-31" {
		t.Fatalf("income period = %s..%s", is.StartDate, is.EndDate)
	}
	if !is.TotalRevenue.Equal(dec("6130")) || !is.TotalExpenses.Equal(dec("3605")) || !is.NetIncome.Equal(dec("2525")) {
		t.Fatalf("income totals = %s / %s / %s", is.TotalRevenue, is.TotalExpenses, is.NetIncome)
	}

	cf, err := svc.CashFlow(ctx, "", "")
	if err != nil {
		t.Fatalf("cash flow: %v", err)
	}
	if !cf.StartingBalance.Equal(dec("8000")) || !cf.EndingBalance.Equal(dec("6180")) {
		t.Fatalf("cash flow balances = %s -> %s", cf.StartingBalance, cf.EndingBalance)
	}
	for _, tc := range []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"operating", cf.Operating, "2280"},
		{"investing", cf.Investing, "-3200"},
		{"financing", cf.Financing, "-900"},
		{"net", cf.NetCashFlow, "-1820"},
	} {
		if !tc.got.Equal(dec(tc.want)) {
			t.Fatalf("%s = %s, want %s", tc.name, tc.got, tc.want)
		}
	}

	if got := reload(t, gw); len(got.CashFlow.Items) != 10 {
		t.Fatalf("seeded statements not persisted: %+v", got.CashFlow)
	}
}

func TestCashFlowEndingBalanceFollowsItems(t *testing.T) {
	svc, gw := newTestService(t)
	ctx := context.Background()

	cf, err := svc.AddCashFlowItem(ctx, core.CashFlowItem{Name: "Bonus", Amount: dec("500"), Category: core.CashFlowOperating})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !cf.EndingBalance.Equal(dec("6680")) {
		t.Fatalf("after add ending = %s, want 6680", cf.EndingBalance)
	}
	added := cf.Items[len(cf.Items)-1]
	if added.ID != "1741597200000" {
		t.Fatalf("assigned id = %q", added.ID)
	}

	added.Amount = dec("200")
	if cf, err = svc.UpdateCashFlowItem(ctx, added); err != nil {
		t.Fatalf("update: %v", err)
	}
	if !cf.EndingBalance.Equal(dec("6380")) {
		t.Fatalf("after update ending = %s, want 6380", cf.EndingBalance)
	}

	if cf, err = svc.DeleteCashFlowItem(ctx, "7"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !cf.EndingBalance.Equal(dec("7580")) || !cf.Investing.Equal(dec("-2000")) {
		t.Fatalf("after delete ending = %s investing = %s", cf.EndingBalance, cf.Investing)
	}

	if cf, err = svc.SetStartingBalance(ctx, dec("1000")); err != nil {
		t.Fatalf("starting balance: %v", err)
	}
	if !cf.EndingBalance.Equal(dec("580")) {
		t.Fatalf("after starting balance ending = %s, want 580", cf.EndingBalance)
	}

	stored := reload(t, gw).CashFlow
	if !stored.EndingBalance.Equal(dec("580")) || !stored.StartingBalance.Equal(dec("1000")) {
		t.Fatalf("stored cash flow = %s -> %s", stored.StartingBalance, stored.EndingBalance)
	}
}

func TestBalanceItemLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	item, err := svc.AddBalanceItem(ctx, core.BalanceItem{ID: "9", Name: "Mortgage", Amount: dec("150000"), Type: core.ItemLiability})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := svc.BalanceSheet(); !got.NetWorth.Equal(dec("-103200")) {
		t.Fatalf("net worth after mortgage = %s", got.NetWorth)
	}

	if _, err := svc.AddBalanceItem(ctx, core.BalanceItem{ID: "2", Name: "Dup", Amount: dec("1"), Type: core.ItemAsset}); !errors.Is(err, core.ErrDuplicateItem) {
		t.Fatalf("duplicate id err = %v", err)
	}

	// Retyping moves the item to the other list.
	item.Type = core.ItemAsset
	item.Name = "House"
	if _, err := svc.UpdateBalanceItem(ctx, item); err != nil {
		t.Fatalf("update: %v", err)
	}
	bs := svc.BalanceSheet()
	if len(bs.Assets) != 6 || len(bs.Liabilities) != 3 || bs.Assets[5].Name != "House" {
		t.Fatalf("after retype assets=%d liabilities=%d", len(bs.Assets), len(bs.Liabilities))
	}

	if err := svc.DeleteBalanceItem(ctx, "9"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeleteBalanceItem(ctx, "9"); !errors.Is(err, core.ErrItemNotFound) {
		t.Fatalf("second delete err = %v", err)
	}
	if got := svc.BalanceSheet(); !got.NetWorth.Equal(dec("46800")) {
		t.Fatalf("net worth after delete = %s", got.NetWorth)
	}

	if _, err := svc.SetBalanceSheetDate(ctx, "2025-02-28"); err != nil {
		t.Fatalf("set date: %v", err)
	}
	if _, err := svc.SetBalanceSheetDate(ctx, "28/02/2025"); !errors.Is(err, core.ErrInvalidPeriod) {
		t.Fatalf("bad date err = %v", err)
	}
	if got := svc.BalanceSheet().Date; got != "2025-02-28" {
		t.Fatalf("date = %q", got)
	}
}

func TestIncomeItems(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.AddIncomeItem(ctx, core.ItemExpense, core.IncomeItem{Name: "Childcare", Amount: dec("400"), Category: "Family"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.UpdateIncomeItem(ctx, core.ItemRevenue, core.IncomeItem{ID: "2", Name: "Freelance Work", Amount: dec("900"), Category: "Freelance"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	// Id 5 is an expense, so it is not found among revenues.
	if err := svc.DeleteIncomeItem(ctx, core.ItemRevenue, "5"); !errors.Is(err, core.ErrItemNotFound) {
		t.Fatalf("delete from wrong list err = %v", err)
	}
	if err := svc.DeleteIncomeItem(ctx, core.ItemExpense, "5"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	is, err := svc.IncomeStatement(ctx, "", "")
	if err != nil {
		t.Fatalf("income statement: %v", err)
	}
	// 6130 - 300 revenue; 3605 + 400 - 1800 expenses.
	if !is.TotalRevenue.Equal(dec("5830")) || !is.TotalExpenses.Equal(dec("2205")) || !is.NetIncome.Equal(dec("3625")) {
		t.Fatalf("totals = %s / %s / %s", is.TotalRevenue, is.TotalExpenses, is.NetIncome)
	}
}

func TestItemValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		run  func() error
		want error
	}{
		{"balance without name", func() error {
			_, err := svc.AddBalanceItem(ctx, core.BalanceItem{Amount: dec("1"), Type: core.ItemAsset})
			return err
		}, core.ErrInvalidItem},
		{"balance unknown type", func() error {
			_, err := svc.AddBalanceItem(ctx, core.BalanceItem{Name: "Boat", Amount: dec("1"), Type: "equity"})
			return err
		}, core.ErrUnknownItemType},
		{"negative asset", func() error {
			_, err := svc.AddBalanceItem(ctx, core.BalanceItem{Name: "Boat", Amount: dec("-1"), Type: core.ItemAsset})
			return err
		}, core.ErrInvalidItem},
		{"income unknown kind", func() error {
			_, err := svc.AddIncomeItem(ctx, "gain", core.IncomeItem{Name: "Lottery", Amount: dec("1")})
			return err
		}, core.ErrUnknownItemType},
		{"cash flow unknown category", func() error {
			_, err := svc.AddCashFlowItem(ctx, core.CashFlowItem{Name: "Gift", Amount: dec("1"), Category: "other"})
			return err
		}, core.ErrUnknownItemType},
		{"update missing cash flow item", func() error {
			_, err := svc.UpdateCashFlowItem(ctx, core.CashFlowItem{ID: "404", Name: "Gift", Amount: dec("1"), Category: core.CashFlowOperating})
			return err
		}, core.ErrItemNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.run(); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
	if cf, _ := svc.CashFlow(ctx, "", ""); len(cf.Items) != 10 {
		t.Fatalf("rejected items changed the cash flow: %d items", len(cf.Items))
	}
}

func TestPeriodMovesStoredDates(t *testing.T) {
	svc, gw := newTestService(t)
	ctx := context.Background()

	is, err := svc.IncomeStatement(ctx, "2025-01-01", "2025-03-31")
	if err != nil {
		t.Fatalf("income statement: %v", err)
	}
	if is.StartDate != "2025-01-01" || is.EndDate != "2025-03-31" {
		t.Fatalf("period = %s..%s", is.StartDate, is.EndDate)
	}
	if got := reload(t, gw).IncomeStatement; got.StartDate != "2025-01-01" {
		t.Fatalf("stored start = %q", got.StartDate)
	}

	if _, err := svc.CashFlow(ctx, "2025-03-31", "2025-03-01"); !errors.Is(err, core.ErrInvalidPeriod) {
		t.Fatalf("reversed period err = %v", err)
	}
	if _, err := svc.CashFlow(ctx, "2025-03-01", ""); !errors.Is(err, core.ErrInvalidPeriod) {
		t.Fatalf("half period err = %v", err)
	}
	cf, err := svc.CashFlow(ctx, "2025-02-01", "2025-02-28")
	if err != nil {
		t.Fatalf("cash flow: %v", err)
	}
	if cf.StartDate != "2025-02-01" || !cf.EndingBalance.Equal(dec("6180")) {
		t.Fatalf("cash flow = %s ending %s", cf.StartDate, cf.EndingBalance)
	}
}

func TestSaveFailureKeepsUpdate(t *testing.T) {
	svc, gw := newTestService(t)
	gw.fail = true

	cf, err := svc.AddCashFlowItem(context.Background(), core.CashFlowItem{ID: "11", Name: "Refund", Amount: dec("20"), Category: core.CashFlowOperating})
	if !errors.Is(err, engine.ErrPersist) {
		t.Fatalf("err = %v, want ErrPersist", err)
	}
	if !cf.EndingBalance.Equal(dec("6200")) {
		t.Fatalf("ending = %s, want 6200", cf.EndingBalance)
	}
	if got := reload(t, gw).CashFlow; len(got.Items) != 10 {
		t.Fatalf("failed save reached storage: %d items", len(got.Items))
	}
}
