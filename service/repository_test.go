package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"bookkeeping/database"
	"bookkeeping/models"
	"bookkeeping/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyStore 可控制读写失败的存储
type flakyStore struct {
	*database.MemoryTransactionStore
	failReads  bool
	failWrites bool
}

var errBackend = errors.New("backend down")

func (s *flakyStore) GetAll(ctx context.Context) ([]models.Transaction, error) {
	if s.failReads {
		return nil, errBackend
	}
	return s.MemoryTransactionStore.GetAll(ctx)
}

func (s *flakyStore) Put(ctx context.Context, tx *models.Transaction) error {
	if s.failWrites {
		return errBackend
	}
	return s.MemoryTransactionStore.Put(ctx, tx)
}

// recordingNotifier 记录收到的变更
type recordingNotifier struct {
	mu     sync.Mutex
	events []string
	err    error
}

func (n *recordingNotifier) NotifyChanged(_ context.Context, kind service.ChangeKind, id string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, string(kind)+":"+id)
	return n.err
}

func expense(amount int64, date models.Date) models.Transaction {
	return models.Transaction{
		Type:     models.TransactionExpense,
		Amount:   decimal.NewFromInt(amount),
		Date:     date,
		Category: "采购",
	}
}

func income(amount int64, date models.Date) models.Transaction {
	return models.Transaction{
		Type:     models.TransactionIncome,
		Amount:   decimal.NewFromInt(amount),
		Date:     date,
		Category: "回款",
	}
}

func newRepo(t *testing.T) (*service.Repository, *database.MemoryTransactionStore) {
	t.Helper()
	store := database.NewMemoryTransactionStore()
	return service.NewRepository(store, nil), store
}

// mustCreate 创建记录并返回新记录ID
func mustCreate(t *testing.T, repo *service.Repository, tx models.Transaction) string {
	t.Helper()
	before := map[string]bool{}
	for _, x := range repo.All() {
		before[x.ID] = true
	}
	all, err := repo.Create(context.Background(), "1", tx)
	require.NoError(t, err)
	for _, x := range all {
		if !before[x.ID] {
			return x.ID
		}
	}
	t.Fatal("新记录未出现在返回结果中")
	return ""
}

func TestRepository_CreateAssignsIDAndUser(t *testing.T) {
	repo, store := newRepo(t)

	all, err := repo.Create(context.Background(), "7", expense(1000, models.NewDate(2024, 1, 1)))
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.NotEmpty(t, all[0].ID)
	assert.Equal(t, "7", all[0].UserID)

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRepository_CreateValidation(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	bad := expense(-1, models.NewDate(2024, 1, 1))
	_, err := repo.Create(ctx, "1", bad)
	assert.ErrorIs(t, err, service.ErrInvalidTransaction)

	noDate := expense(10, models.Date{})
	_, err = repo.Create(ctx, "1", noDate)
	assert.ErrorIs(t, err, service.ErrInvalidTransaction)

	unknown := expense(10, models.NewDate(2024, 1, 1))
	unknown.Type = "transfer"
	_, err = repo.Create(ctx, "1", unknown)
	assert.ErrorIs(t, err, service.ErrInvalidTransaction)

	withExcel := income(10, models.NewDate(2024, 1, 1))
	withExcel.ExcelData = models.ExcelRows{{"a": "b"}}
	_, err = repo.Create(ctx, "1", withExcel)
	assert.ErrorIs(t, err, service.ErrInvalidTransaction)

	assert.Empty(t, repo.All())
}

func TestRepository_UpdateKeepsTypeAndOwner(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()
	id := mustCreate(t, repo, expense(1000, models.NewDate(2024, 1, 1)))

	tx, err := repo.Get(id)
	require.NoError(t, err)
	tx.Amount = decimal.NewFromInt(1500)
	tx.UserID = "99"
	require.NoError(t, repo.Update(ctx, *tx))

	got, err := repo.Get(id)
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, "1", got.UserID)

	got.Type = models.TransactionIncome
	assert.ErrorIs(t, repo.Update(ctx, *got), service.ErrInvalidTransaction)

	assert.ErrorIs(t, repo.Update(ctx, models.Transaction{}), service.ErrInvalidTransaction)
}

func TestRepository_UpdateUnknownIDInserts(t *testing.T) {
	repo, _ := newRepo(t)
	tx := expense(50, models.NewDate(2024, 2, 1))
	tx.ID = "external-1"
	require.NoError(t, repo.Update(context.Background(), tx))

	got, err := repo.Get("external-1")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionExpense, got.Type)
}

func TestRepository_DeleteRemovesRecord(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()
	id := mustCreate(t, repo, expense(10, models.NewDate(2024, 1, 1)))

	require.NoError(t, repo.Delete(ctx, id))

	all, err := repo.FetchAll(ctx)
	require.NoError(t, err)
	for _, tx := range all {
		assert.NotEqual(t, id, tx.ID)
	}
	assert.ErrorIs(t, repo.Delete(ctx, id), service.ErrNotFound)
}

func TestRepository_DeleteLinkedExpenseUnlinksIncome(t *testing.T) {
	repo, store := newRepo(t)
	ctx := context.Background()
	expID := mustCreate(t, repo, expense(1000, models.NewDate(2024, 1, 1)))
	incID := mustCreate(t, repo, income(1200, models.NewDate(2024, 4, 1)))
	require.NoError(t, repo.Link(ctx, incID, expID))

	require.NoError(t, repo.Delete(ctx, expID))

	inc, err := repo.Get(incID)
	require.NoError(t, err)
	assert.Nil(t, inc.LinkedExpenseID)

	stored, err := store.Get(ctx, incID)
	require.NoError(t, err)
	assert.Nil(t, stored.LinkedExpenseID)

	state, err := repo.LinkState(incID)
	require.NoError(t, err)
	assert.Equal(t, service.Unlinked, state)
}

func TestRepository_FetchAllFailureKeepsCache(t *testing.T) {
	store := &flakyStore{MemoryTransactionStore: database.NewMemoryTransactionStore()}
	repo := service.NewRepository(store, nil)
	ctx := context.Background()
	mustCreate(t, repo, expense(10, models.NewDate(2024, 1, 1)))

	store.failReads = true
	_, err := repo.FetchAll(ctx)
	assert.ErrorIs(t, err, service.ErrStoreUnavailable)
	assert.Len(t, repo.All(), 1)
}

func TestRepository_PersistFailure(t *testing.T) {
	store := &flakyStore{MemoryTransactionStore: database.NewMemoryTransactionStore()}
	repo := service.NewRepository(store, nil)
	store.failWrites = true

	_, err := repo.Create(context.Background(), "1", expense(10, models.NewDate(2024, 1, 1)))
	assert.ErrorIs(t, err, service.ErrPersist)
	assert.Empty(t, repo.All())
}

func TestRepository_ReloadFailureAppliesLocally(t *testing.T) {
	store := &flakyStore{MemoryTransactionStore: database.NewMemoryTransactionStore()}
	repo := service.NewRepository(store, nil)
	ctx := context.Background()
	_, err := repo.FetchAll(ctx)
	require.NoError(t, err)

	store.failReads = true
	all, err := repo.Create(ctx, "1", expense(10, models.NewDate(2024, 1, 1)))
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRepository_NotifiesChanges(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("broker down")}
	repo := service.NewRepository(database.NewMemoryTransactionStore(), notifier)
	ctx := context.Background()

	id := mustCreate(t, repo, expense(10, models.NewDate(2024, 1, 1)))
	require.NoError(t, repo.Delete(ctx, id))

	assert.Equal(t, []string{"created:" + id, "deleted:" + id}, notifier.events)
}

func TestRepository_AttachExcel(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()
	expID := mustCreate(t, repo, expense(10, models.NewDate(2024, 1, 1)))
	incID := mustCreate(t, repo, income(10, models.NewDate(2024, 1, 2)))

	rows := models.ExcelRows{{"SKU": "A1", "数量": "3"}}
	require.NoError(t, repo.AttachExcel(ctx, expID, rows))
	got, err := repo.Get(expID)
	require.NoError(t, err)
	assert.Equal(t, rows, got.ExcelData)

	require.NoError(t, repo.AttachExcel(ctx, expID, nil))
	got, err = repo.Get(expID)
	require.NoError(t, err)
	assert.Nil(t, got.ExcelData)

	assert.ErrorIs(t, repo.AttachExcel(ctx, incID, rows), service.ErrInvalidTransaction)
	assert.ErrorIs(t, repo.AttachExcel(ctx, "missing", rows), service.ErrNotFound)
}

func TestRepository_ReturnsCopies(t *testing.T) {
	repo, _ := newRepo(t)
	id := mustCreate(t, repo, expense(10, models.NewDate(2024, 1, 1)))

	all := repo.All()
	all[0].Description = "外部修改"

	got, err := repo.Get(id)
	require.NoError(t, err)
	assert.Empty(t, got.Description)
}

// 另一实例已在存储中完成关联而本地缓存尚未刷新时，关联仍被拒绝
func TestRepository_LinkRechecksStore(t *testing.T) {
	repo, store := newRepo(t)
	ctx := context.Background()
	expID := mustCreate(t, repo, expense(1000, models.NewDate(2024, 1, 1)))
	first := mustCreate(t, repo, income(1200, models.NewDate(2024, 4, 1)))
	second := mustCreate(t, repo, income(900, models.NewDate(2024, 5, 1)))

	row, err := store.Get(ctx, first)
	require.NoError(t, err)
	target := expID
	row.LinkedExpenseID = &target
	require.NoError(t, store.Put(ctx, row))

	assert.ErrorIs(t, repo.Link(ctx, second, expID), service.ErrLinkConflict)
	got, err := store.Get(ctx, second)
	require.NoError(t, err)
	assert.Nil(t, got.LinkedExpenseID)
}

// 关联目标已不存在的收入仍可修改其他字段；改动关联时照常校验
func TestRepository_UpdateKeepsUnchangedDanglingLink(t *testing.T) {
	repo, store := newRepo(t)
	ctx := context.Background()
	incID := mustCreate(t, repo, income(1200, models.NewDate(2024, 4, 1)))

	row, err := store.Get(ctx, incID)
	require.NoError(t, err)
	gone := "deleted-elsewhere"
	row.LinkedExpenseID = &gone
	require.NoError(t, store.Put(ctx, row))
	_, err = repo.FetchAll(ctx)
	require.NoError(t, err)

	tx, err := repo.Get(incID)
	require.NoError(t, err)
	tx.Description = "补充说明"
	tx.Amount = decimal.NewFromInt(1300)
	require.NoError(t, repo.Update(ctx, *tx))

	got, err := repo.Get(incID)
	require.NoError(t, err)
	assert.Equal(t, "补充说明", got.Description)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(1300)))
	assert.Equal(t, gone, got.LinkedTo())

	missing := "missing"
	tx.LinkedExpenseID = &missing
	assert.ErrorIs(t, repo.Update(ctx, *tx), service.ErrNotFound)
}
