package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"bookkeeping/models"

	"github.com/google/uuid"
)

// Repository 交易记录仓库
// 在内存中缓存全部交易记录，并维护 支出ID -> 收入ID 的反向索引；
// 每次写操作后从存储重新加载全量数据。
type Repository struct {
	store    Store
	notifier ChangeNotifier

	// writeMu 串行化写操作，保证关联校验与写入之间缓存不被本实例改动
	writeMu sync.Mutex

	mu          sync.RWMutex
	loaded      bool
	list        []models.Transaction
	byID        map[string]int
	recoveredBy map[string]string // expenseID -> incomeID

	// gen 每次写入存储后递增；读取开始后 gen 变化的快照不再写入缓存
	gen uint64
	// fetchSeq 最近一次开始的读取序号，appliedSeq 最近一次写入缓存的读取序号
	fetchSeq   uint64
	appliedSeq uint64
}

// NewRepository 创建交易记录仓库，notifier 可为 nil
func NewRepository(store Store, notifier ChangeNotifier) *Repository {
	return &Repository{
		store:       store,
		notifier:    notifier,
		byID:        map[string]int{},
		recoveredBy: map[string]string{},
	}
}

// FetchAll 从存储重新加载全部记录并替换缓存
// 读取失败时返回 ErrStoreUnavailable，缓存保持不变
// 读取期间本实例有写入，或更晚开始的读取已先完成时，本次快照被丢弃，返回当前缓存
func (r *Repository) FetchAll(ctx context.Context) ([]models.Transaction, error) {
	gen, seq := r.beginFetch()
	list, err := r.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if !r.install(list, gen, seq) {
		log.Printf("丢弃过期的账本快照 #%d", seq)
	}
	return r.All(), nil
}

// All 返回缓存中的全部记录（副本）
func (r *Repository) All() []models.Transaction {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Transaction, len(r.list))
	for i, tx := range r.list {
		out[i] = tx.Clone()
	}
	return out
}

// Loaded 缓存是否已从存储加载过
func (r *Repository) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

// Get 从缓存读取单条记录
func (r *Repository) Get(id string) (*models.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tx, ok := r.lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	c := tx.Clone()
	return &c, nil
}

// Create 创建记录：分配新ID并写入创建人，保存后返回重新加载的全量记录
func (r *Repository) Create(ctx context.Context, userID string, tx models.Transaction) ([]models.Transaction, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	if err := r.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	tx.ID = uuid.NewString()
	tx.UserID = userID
	if err := r.validate(&tx, nil); err != nil {
		return nil, err
	}

	if err := r.persist(ctx, &tx, ChangeCreated, ""); err != nil {
		return nil, err
	}
	return r.All(), nil
}

// Update 按ID覆盖记录（ID不存在时插入）
// 已存在的记录类型不可修改，创建人与创建时间保持不变
func (r *Repository) Update(ctx context.Context, tx models.Transaction) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	if err := r.ensureLoaded(ctx); err != nil {
		return err
	}
	if tx.ID == "" {
		return fmt.Errorf("%w: 缺少记录ID", ErrInvalidTransaction)
	}

	kind := ChangeCreated
	existing, err := r.Get(tx.ID)
	if err == nil {
		if existing.Type != tx.Type {
			return fmt.Errorf("%w: 记录类型不可修改", ErrInvalidTransaction)
		}
		tx.UserID = existing.UserID
		tx.CreatedAt = existing.CreatedAt
		kind = ChangeUpdated
	}
	if err := r.validate(&tx, existing); err != nil {
		return err
	}

	prevLink := ""
	if existing != nil {
		prevLink = existing.LinkedTo()
	}
	return r.persist(ctx, &tx, kind, prevLink)
}

// Delete 删除记录；若删除的是已被关联的支出，同一事务内清除收入上的关联
func (r *Repository) Delete(ctx context.Context, id string) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	err := r.store.Transaction(ctx, func(s Store) error {
		existing, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := s.Delete(ctx, id); err != nil {
			return err
		}
		if existing.IsExpense() {
			n, err := s.ClearLinks(ctx, id)
			if err != nil {
				return err
			}
			if n > 0 {
				log.Printf("删除支出 %s，同时清除 %d 条收入关联", id, n)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	r.markWritten()
	r.afterWrite(ctx, ChangeDeleted, id, func() { r.removeLocal(id) })
	return nil
}

// AttachExcel 为支出记录附加导入的表格数据，rows 为空时清除
func (r *Repository) AttachExcel(ctx context.Context, expenseID string, rows models.ExcelRows) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	if err := r.ensureLoaded(ctx); err != nil {
		return err
	}
	expense, err := r.Get(expenseID)
	if err != nil {
		return err
	}
	if !expense.IsExpense() {
		return fmt.Errorf("%w: 只有支出记录可以附加表格", ErrInvalidTransaction)
	}
	if len(rows) == 0 {
		rows = nil
	}
	expense.ExcelData = rows
	return r.persist(ctx, expense, ChangeUpdated, "")
}

// ensureLoaded 首次写操作前加载缓存，关联校验依赖完整数据
func (r *Repository) ensureLoaded(ctx context.Context) error {
	if r.Loaded() {
		return nil
	}
	_, err := r.FetchAll(ctx)
	return err
}

// validate 校验字段与关联约束，调用方需持有 writeMu
// prev 为更新前的记录；关联未改变时不再校验关联目标
func (r *Repository) validate(tx *models.Transaction, prev *models.Transaction) error {
	if !tx.Type.IsValid() {
		return fmt.Errorf("%w: 未知的交易类型 %q", ErrInvalidTransaction, tx.Type)
	}
	if tx.Amount.IsNegative() {
		return fmt.Errorf("%w: 金额不能为负数", ErrInvalidTransaction)
	}
	if tx.Date.IsZero() {
		return fmt.Errorf("%w: 缺少日期", ErrInvalidTransaction)
	}
	if tx.IsExpense() && tx.LinkedExpenseID != nil {
		return fmt.Errorf("%w: 支出记录不能关联支出", ErrInvalidTransaction)
	}
	if tx.IsIncome() && len(tx.ExcelData) > 0 {
		return fmt.Errorf("%w: 只有支出记录可以附加表格", ErrInvalidTransaction)
	}
	if tx.LinkedExpenseID != nil && *tx.LinkedExpenseID == "" {
		tx.LinkedExpenseID = nil
	}
	if tx.LinkedExpenseID == nil {
		return nil
	}
	if prev != nil && prev.LinkedTo() == *tx.LinkedExpenseID {
		return nil
	}
	return r.checkLinkTarget(tx.ID, *tx.LinkedExpenseID)
}

// persist 写入存储，随后重新加载缓存；重新加载失败时在本地应用本次修改
// 收入的关联与 prevLink 不同时，在同一存储事务内按存储中的数据复核关联目标
func (r *Repository) persist(ctx context.Context, tx *models.Transaction, kind ChangeKind, prevLink string) error {
	var err error
	if target := tx.LinkedTo(); tx.IsIncome() && target != "" && target != prevLink {
		err = r.store.Transaction(ctx, func(s Store) error {
			if err := checkStoredLink(ctx, s, tx.ID, target); err != nil {
				return err
			}
			return s.Put(ctx, tx)
		})
	} else {
		err = r.store.Put(ctx, tx)
	}
	if err != nil {
		if errors.Is(err, ErrLinkConflict) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidTransaction) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	r.markWritten()
	saved := tx.Clone()
	r.afterWrite(ctx, kind, tx.ID, func() { r.upsertLocal(saved) })
	return nil
}

func (r *Repository) afterWrite(ctx context.Context, kind ChangeKind, id string, fallback func()) {
	if _, err := r.FetchAll(ctx); err != nil {
		log.Printf("写入后重新加载失败，使用本地更新: %v", err)
		fallback()
	}
	if r.notifier != nil {
		if err := r.notifier.NotifyChanged(ctx, kind, id); err != nil {
			log.Printf("发送账本变更通知失败: %v", err)
		}
	}
}

// beginFetch 记录读取开始时的写入代数并分配读取序号
func (r *Repository) beginFetch() (gen, seq uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetchSeq++
	return r.gen, r.fetchSeq
}

// markWritten 存储写入成功后调用，使写入前开始的读取失效
func (r *Repository) markWritten() {
	r.mu.Lock()
	r.gen++
	r.mu.Unlock()
}

// install 快照仍然有效时写入缓存
func (r *Repository) install(list []models.Transaction, gen, seq uint64) bool {
	byID, recoveredBy := index(list)

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen || seq < r.appliedSeq {
		return false
	}
	r.appliedSeq = seq
	r.set(list, byID, recoveredBy)
	return true
}

// replace 无条件替换缓存并重建索引
func (r *Repository) replace(list []models.Transaction) {
	byID, recoveredBy := index(list)

	r.mu.Lock()
	r.set(list, byID, recoveredBy)
	r.mu.Unlock()
}

// set 调用方需持有 mu
func (r *Repository) set(list []models.Transaction, byID map[string]int, recoveredBy map[string]string) {
	r.list = list
	r.byID = byID
	r.recoveredBy = recoveredBy
	r.loaded = true
}

func index(list []models.Transaction) (map[string]int, map[string]string) {
	byID := make(map[string]int, len(list))
	recoveredBy := make(map[string]string)
	for i := range list {
		byID[list[i].ID] = i
	}
	for _, tx := range list {
		if !tx.IsIncome() || tx.LinkedExpenseID == nil {
			continue
		}
		expenseID := *tx.LinkedExpenseID
		if owner, ok := recoveredBy[expenseID]; ok {
			log.Printf("警告: 支出 %s 同时被收入 %s 和 %s 关联，以 %s 为准", expenseID, owner, tx.ID, owner)
			continue
		}
		recoveredBy[expenseID] = tx.ID
	}
	return byID, recoveredBy
}

func (r *Repository) upsertLocal(tx models.Transaction) {
	list := r.All()
	if i, ok := r.indexOf(tx.ID); ok {
		list[i] = tx
	} else {
		list = append(list, tx)
	}
	r.replace(list)
}

func (r *Repository) removeLocal(id string) {
	src := r.All()
	list := src[:0]
	for _, tx := range src {
		if tx.ID == id {
			continue
		}
		if tx.LinkedTo() == id {
			tx.LinkedExpenseID = nil
		}
		list = append(list, tx)
	}
	r.replace(list)
}

func (r *Repository) indexOf(id string) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byID[id]
	return i, ok
}

// lookup 调用方需持有 mu
func (r *Repository) lookup(id string) (models.Transaction, bool) {
	i, ok := r.byID[id]
	if !ok {
		return models.Transaction{}, false
	}
	return r.list[i], true
}
