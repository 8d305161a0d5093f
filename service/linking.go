package service

import (
	"context"
	"errors"
	"fmt"

	"bookkeeping/models"
)

// LinkState 记录的关联状态，由收入上的关联字段推导
type LinkState string

const (
	Unlinked LinkState = "unlinked"
	Linked   LinkState = "linked"
)

// Link 将收入关联到其收回的支出
// 一条支出最多被一条收入关联；同一对重复关联视为成功，收入改关联其他支出时原关联解除
func (r *Repository) Link(ctx context.Context, incomeID, expenseID string) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	if err := r.ensureLoaded(ctx); err != nil {
		return err
	}
	income, err := r.income(incomeID)
	if err != nil {
		return err
	}
	if income.LinkedTo() == expenseID {
		return nil
	}
	if err := r.checkLinkTarget(incomeID, expenseID); err != nil {
		return err
	}

	prevLink := income.LinkedTo()
	income.LinkedExpenseID = &expenseID
	return r.persist(ctx, income, ChangeLinked, prevLink)
}

// Unlink 解除收入上的关联，未关联时直接返回
func (r *Repository) Unlink(ctx context.Context, incomeID string) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	if err := r.ensureLoaded(ctx); err != nil {
		return err
	}
	income, err := r.income(incomeID)
	if err != nil {
		return err
	}
	if income.LinkedExpenseID == nil {
		return nil
	}

	income.LinkedExpenseID = nil
	return r.persist(ctx, income, ChangeLinked, "")
}

// LinkedIncome 反向查找收回该支出的收入
func (r *Repository) LinkedIncome(expenseID string) (*models.Transaction, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	incomeID, ok := r.recoveredBy[expenseID]
	if !ok {
		return nil, false
	}
	tx, ok := r.lookup(incomeID)
	if !ok {
		return nil, false
	}
	c := tx.Clone()
	return &c, true
}

// LinkedExpense 查找收入关联的支出；关联目标已不存在时返回 false
func (r *Repository) LinkedExpense(incomeID string) (*models.Transaction, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	income, ok := r.lookup(incomeID)
	if !ok || !income.IsIncome() || income.LinkedExpenseID == nil {
		return nil, false
	}
	tx, ok := r.lookup(*income.LinkedExpenseID)
	if !ok || !tx.IsExpense() {
		return nil, false
	}
	c := tx.Clone()
	return &c, true
}

// LinkState 返回记录的关联状态
func (r *Repository) LinkState(id string) (LinkState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tx, ok := r.lookup(id)
	if !ok {
		return Unlinked, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if tx.IsIncome() {
		if tx.LinkedExpenseID != nil {
			return Linked, nil
		}
		return Unlinked, nil
	}
	if _, ok := r.recoveredBy[id]; ok {
		return Linked, nil
	}
	return Unlinked, nil
}

// Metrics 计算支出与其收回收入之间的收益指标
func (r *Repository) Metrics(expenseID string) (Metrics, error) {
	expense, err := r.Get(expenseID)
	if err != nil {
		return Metrics{}, err
	}
	if !expense.IsExpense() {
		return Metrics{}, fmt.Errorf("%w: %s 不是支出记录", ErrInvalidTransaction, expenseID)
	}
	income, ok := r.LinkedIncome(expenseID)
	if !ok {
		return Metrics{}, fmt.Errorf("%w: %s", ErrNotLinked, expenseID)
	}
	return Calculate(*expense, *income)
}

// income 读取收入记录，不存在或不是收入时返回 ErrNotFound
func (r *Repository) income(id string) (*models.Transaction, error) {
	tx, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	if !tx.IsIncome() {
		return nil, fmt.Errorf("%w: 收入记录 %s", ErrNotFound, id)
	}
	return tx, nil
}

// checkLinkTarget 校验 expenseID 是支出且未被 incomeID 以外的收入关联
func (r *Repository) checkLinkTarget(incomeID, expenseID string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	expense, ok := r.lookup(expenseID)
	if !ok {
		return fmt.Errorf("%w: 支出记录 %s", ErrNotFound, expenseID)
	}
	if !expense.IsExpense() {
		return fmt.Errorf("%w: %s 不是支出记录", ErrInvalidTransaction, expenseID)
	}
	if owner, ok := r.recoveredBy[expenseID]; ok && owner != incomeID {
		return fmt.Errorf("%w: 已被收入 %s 关联", ErrLinkConflict, owner)
	}
	return nil
}

// checkStoredLink 在存储事务内复核关联目标，缓存落后于存储时仍能拒绝重复关联
func checkStoredLink(ctx context.Context, s Store, incomeID, expenseID string) error {
	expense, err := s.Get(ctx, expenseID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: 支出记录 %s", ErrNotFound, expenseID)
		}
		return err
	}
	if !expense.IsExpense() {
		return fmt.Errorf("%w: %s 不是支出记录", ErrInvalidTransaction, expenseID)
	}
	all, err := s.GetAll(ctx)
	if err != nil {
		return err
	}
	for _, tx := range all {
		if tx.IsIncome() && tx.ID != incomeID && tx.LinkedTo() == expenseID {
			return fmt.Errorf("%w: 已被收入 %s 关联", ErrLinkConflict, tx.ID)
		}
	}
	return nil
}
