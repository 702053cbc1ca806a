// Package statements maintains the balance sheet, income statement and
// cash flow statement stored alongside the ledger snapshot.
//
// Every mutation goes through the Store so the statements are persisted
// with the rest of the snapshot by whichever storage backend is configured.
package statements

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"

	"github.com/shopspring/decimal"
)

// Store holds the statements. The engine implements it.
type Store interface {
	Statements() core.Statements
	UpdateStatements(ctx context.Context, fn func(*core.Statements) error) (core.Statements, error)
}

type Service struct {
	store  Store
	now    func() time.Time
	logger *log.Logger
}

type Option func(*Service)

// WithClock overrides the clock used to assign item ids.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.logger = l.WithComponent(log.ComponentStatements) }
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, now: time.Now, logger: log.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) update(ctx context.Context, action string, fn func(*core.Statements) error) (core.Statements, error) {
	st, err := s.store.UpdateStatements(ctx, fn)
	if err != nil {
		s.logger.WarnContext(ctx, "Statement update failed", log.FieldOperation, action, log.FieldError, err)
		return st, fmt.Errorf("%s: %w", action, err)
	}
	s.logger.DebugContext(ctx, "Statement updated", log.FieldOperation, action)
	return st, nil
}

// Balance sheet

func (s *Service) BalanceSheet() BalanceSheetReport {
	return newBalanceSheetReport(s.store.Statements().BalanceSheet)
}

// SetBalanceSheetDate changes the as-of date of the balance sheet.
func (s *Service) SetBalanceSheetDate(ctx context.Context, date string) (BalanceSheetReport, error) {
	if _, err := parseDate(date); err != nil {
		return BalanceSheetReport{}, err
	}
	st, err := s.update(ctx, "set balance sheet date", func(st *core.Statements) error {
		st.BalanceSheet.Date = date
		return nil
	})
	return newBalanceSheetReport(st.BalanceSheet), err
}

// AddBalanceItem appends item to the list named by its type. An empty id is
// assigned from the clock.
func (s *Service) AddBalanceItem(ctx context.Context, item core.BalanceItem) (core.BalanceItem, error) {
	if err := validateBalanceItem(item); err != nil {
		return core.BalanceItem{}, err
	}
	_, err := s.update(ctx, "add balance sheet item", func(st *core.Statements) error {
		bs := &st.BalanceSheet
		ids := balanceIDs(bs)
		if item.ID == "" {
			item.ID = s.nextID(ids)
		} else if slices.Contains(ids, item.ID) {
			return fmt.Errorf("%w: %s", core.ErrDuplicateItem, item.ID)
		}
		list := balanceList(bs, item.Type)
		*list = append(*list, item)
		return nil
	})
	return item, err
}

// UpdateBalanceItem replaces the item with the same id. When the type
// changes the item moves to the end of the other list.
func (s *Service) UpdateBalanceItem(ctx context.Context, item core.BalanceItem) (core.BalanceItem, error) {
	if err := validateBalanceItem(item); err != nil {
		return core.BalanceItem{}, err
	}
	_, err := s.update(ctx, "update balance sheet item", func(st *core.Statements) error {
		bs := &st.BalanceSheet
		for _, t := range []core.BalanceItemType{core.ItemAsset, core.ItemLiability} {
			list := balanceList(bs, t)
			i := slices.IndexFunc(*list, func(b core.BalanceItem) bool { return b.ID == item.ID })
			if i < 0 {
				continue
			}
			if t == item.Type {
				(*list)[i] = item
				return nil
			}
			*list = slices.Delete(*list, i, i+1)
			other := balanceList(bs, item.Type)
			*other = append(*other, item)
			return nil
		}
		return fmt.Errorf("%w: %s", core.ErrItemNotFound, item.ID)
	})
	return item, err
}

func (s *Service) DeleteBalanceItem(ctx context.Context, id string) error {
	_, err := s.update(ctx, "delete balance sheet item", func(st *core.Statements) error {
		bs := &st.BalanceSheet
		for _, t := range []core.BalanceItemType{core.ItemAsset, core.ItemLiability} {
			list := balanceList(bs, t)
			if i := slices.IndexFunc(*list, func(b core.BalanceItem) bool { return b.ID == id }); i >= 0 {
				*list = slices.Delete(*list, i, i+1)
				return nil
			}
		}
		return fmt.Errorf("%w: %s", core.ErrItemNotFound, id)
	})
	return err
}

// Income statement

// IncomeStatement returns the statement. When start and end are given and
// differ from the stored period, the stored period is moved and saved.
func (s *Service) IncomeStatement(ctx context.Context, start, end string) (IncomeStatementReport, error) {
	st := s.store.Statements()
	is := st.IncomeStatement
	if start == "" && end == "" {
		return newIncomeStatementReport(is), nil
	}
	if err := validatePeriod(start, end); err != nil {
		return IncomeStatementReport{}, err
	}
	if is.StartDate == start && is.EndDate == end {
		return newIncomeStatementReport(is), nil
	}
	st, err := s.update(ctx, "set income statement period", func(st *core.Statements) error {
		st.IncomeStatement.StartDate, st.IncomeStatement.EndDate = start, end
		return nil
	})
	return newIncomeStatementReport(st.IncomeStatement), err
}

func (s *Service) AddIncomeItem(ctx context.Context, kind core.IncomeItemType, item core.IncomeItem) (core.IncomeItem, error) {
	if err := validateIncomeItem(kind, item); err != nil {
		return core.IncomeItem{}, err
	}
	_, err := s.update(ctx, "add income statement item", func(st *core.Statements) error {
		is := &st.IncomeStatement
		ids := incomeIDs(is)
		if item.ID == "" {
			item.ID = s.nextID(ids)
		} else if slices.Contains(ids, item.ID) {
			return fmt.Errorf("%w: %s", core.ErrDuplicateItem, item.ID)
		}
		list := incomeList(is, kind)
		*list = append(*list, item)
		return nil
	})
	return item, err
}

func (s *Service) UpdateIncomeItem(ctx context.Context, kind core.IncomeItemType, item core.IncomeItem) (core.IncomeItem, error) {
	if err := validateIncomeItem(kind, item); err != nil {
		return core.IncomeItem{}, err
	}
	_, err := s.update(ctx, "update income statement item", func(st *core.Statements) error {
		list := incomeList(&st.IncomeStatement, kind)
		i := slices.IndexFunc(*list, func(it core.IncomeItem) bool { return it.ID == item.ID })
		if i < 0 {
			return fmt.Errorf("%w: %s %s", core.ErrItemNotFound, kind, item.ID)
		}
		(*list)[i] = item
		return nil
	})
	return item, err
}

func (s *Service) DeleteIncomeItem(ctx context.Context, kind core.IncomeItemType, id string) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", core.ErrUnknownItemType, kind)
	}
	_, err := s.update(ctx, "delete income statement item", func(st *core.Statements) error {
		list := incomeList(&st.IncomeStatement, kind)
		i := slices.IndexFunc(*list, func(it core.IncomeItem) bool { return it.ID == id })
		if i < 0 {
			return fmt.Errorf("%w: %s %s", core.ErrItemNotFound, kind, id)
		}
		*list = slices.Delete(*list, i, i+1)
		return nil
	})
	return err
}

// Cash flow

// CashFlow returns the statement, moving the stored period the same way
// IncomeStatement does.
func (s *Service) CashFlow(ctx context.Context, start, end string) (CashFlowReport, error) {
	st := s.store.Statements()
	cf := st.CashFlow
	if start == "" && end == "" {
		return newCashFlowReport(cf), nil
	}
	if err := validatePeriod(start, end); err != nil {
		return CashFlowReport{}, err
	}
	if cf.StartDate == start && cf.EndDate == end {
		return newCashFlowReport(cf), nil
	}
	st, err := s.update(ctx, "set cash flow period", func(st *core.Statements) error {
		st.CashFlow.StartDate, st.CashFlow.EndDate = start, end
		return nil
	})
	return newCashFlowReport(st.CashFlow), err
}

func (s *Service) SetStartingBalance(ctx context.Context, amount decimal.Decimal) (CashFlowReport, error) {
	st, err := s.update(ctx, "set cash flow starting balance", func(st *core.Statements) error {
		st.CashFlow.StartingBalance = amount
		rebalance(&st.CashFlow)
		return nil
	})
	return newCashFlowReport(st.CashFlow), err
}

func (s *Service) AddCashFlowItem(ctx context.Context, item core.CashFlowItem) (CashFlowReport, error) {
	if err := validateCashFlowItem(item); err != nil {
		return CashFlowReport{}, err
	}
	st, err := s.update(ctx, "add cash flow item", func(st *core.Statements) error {
		cf := &st.CashFlow
		ids := cashFlowIDs(cf)
		if item.ID == "" {
			item.ID = s.nextID(ids)
		} else if slices.Contains(ids, item.ID) {
			return fmt.Errorf("%w: %s", core.ErrDuplicateItem, item.ID)
		}
		cf.Items = append(cf.Items, item)
		rebalance(cf)
		return nil
	})
	return newCashFlowReport(st.CashFlow), err
}

func (s *Service) UpdateCashFlowItem(ctx context.Context, item core.CashFlowItem) (CashFlowReport, error) {
	if err := validateCashFlowItem(item); err != nil {
		return CashFlowReport{}, err
	}
	st, err := s.update(ctx, "update cash flow item", func(st *core.Statements) error {
		cf := &st.CashFlow
		i := slices.IndexFunc(cf.Items, func(it core.CashFlowItem) bool { return it.ID == item.ID })
		if i < 0 {
			return fmt.Errorf("%w: %s", core.ErrItemNotFound, item.ID)
		}
		cf.Items[i] = item
		rebalance(cf)
		return nil
	})
	return newCashFlowReport(st.CashFlow), err
}

func (s *Service) DeleteCashFlowItem(ctx context.Context, id string) (CashFlowReport, error) {
	st, err := s.update(ctx, "delete cash flow item", func(st *core.Statements) error {
		cf := &st.CashFlow
		i := slices.IndexFunc(cf.Items, func(it core.CashFlowItem) bool { return it.ID == id })
		if i < 0 {
			return fmt.Errorf("%w: %s", core.ErrItemNotFound, id)
		}
		cf.Items = slices.Delete(cf.Items, i, i+1)
		rebalance(cf)
		return nil
	})
	return newCashFlowReport(st.CashFlow), err
}

// rebalance keeps EndingBalance equal to StartingBalance plus every item.
func rebalance(cf *core.CashFlowStatement) {
	end := cf.StartingBalance
	for _, it := range cf.Items {
		end = end.Add(it.Amount)
	}
	cf.EndingBalance = end
}

// nextID derives an id from the clock, bumping it past any id in use.
func (s *Service) nextID(used []string) string {
	n := s.now().UnixMilli()
	for {
		id := strconv.FormatInt(n, 10)
		if !slices.Contains(used, id) {
			return id
		}
		n++
	}
}

func balanceList(bs *core.BalanceSheet, t core.BalanceItemType) *[]core.BalanceItem {
	if t == core.ItemLiability {
		return &bs.Liabilities
	}
	return &bs.Assets
}

func incomeList(is *core.IncomeStatement, kind core.IncomeItemType) *[]core.IncomeItem {
	if kind == core.ItemExpense {
		return &is.Expenses
	}
	return &is.Revenues
}

func balanceIDs(bs *core.BalanceSheet) []string {
	ids := make([]string, 0, len(bs.Assets)+len(bs.Liabilities))
	for _, b := range bs.Assets {
		ids = append(ids, b.ID)
	}
	for _, b := range bs.Liabilities {
		ids = append(ids, b.ID)
	}
	return ids
}

func incomeIDs(is *core.IncomeStatement) []string {
	ids := make([]string, 0, len(is.Revenues)+len(is.Expenses))
	for _, it := range is.Revenues {
		ids = append(ids, it.ID)
	}
	for _, it := range is.Expenses {
		ids = append(ids, it.ID)
	}
	return ids
}

func cashFlowIDs(cf *core.CashFlowStatement) []string {
	ids := make([]string, 0, len(cf.Items))
	for _, it := range cf.Items {
		ids = append(ids, it.ID)
	}
	return ids
}

func validateBalanceItem(item core.BalanceItem) error {
	if !item.Type.Valid() {
		return fmt.Errorf("%w: %q", core.ErrUnknownItemType, item.Type)
	}
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("%w: name is required", core.ErrInvalidItem)
	}
	if item.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", core.ErrInvalidItem)
	}
	return nil
}

func validateIncomeItem(kind core.IncomeItemType, item core.IncomeItem) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", core.ErrUnknownItemType, kind)
	}
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("%w: name is required", core.ErrInvalidItem)
	}
	if item.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", core.ErrInvalidItem)
	}
	return nil
}

func validateCashFlowItem(item core.CashFlowItem) error {
	if !item.Category.Valid() {
		return fmt.Errorf("%w: %q", core.ErrUnknownItemType, item.Category)
	}
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("%w: name is required", core.ErrInvalidItem)
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(core.StatementDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a YYYY-MM-DD date", core.ErrInvalidPeriod, s)
	}
	return t, nil
}

func validatePeriod(start, end string) error {
	from, err := parseDate(start)
	if err != nil {
		return err
	}
	to, err := parseDate(end)
	if err != nil {
		return err
	}
	if to.Before(from) {
		return fmt.Errorf("%w: %s is after %s", core.ErrInvalidPeriod, start, end)
	}
	return nil
}
