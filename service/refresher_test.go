package service_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"bookkeeping/database"
	"bookkeeping/models"
	"bookkeeping/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slowStore GetAll 阻塞到 release 关闭，统计调用次数
type slowStore struct {
	*database.MemoryTransactionStore
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *slowStore) GetAll(ctx context.Context) ([]models.Transaction, error) {
	s.calls.Add(1)
	s.once.Do(func() { close(s.started) })
	<-s.release
	return s.MemoryTransactionStore.GetAll(ctx)
}

func TestRefresher_CoalescesConcurrentRefreshes(t *testing.T) {
	store := &slowStore{
		MemoryTransactionStore: database.NewMemoryTransactionStore(),
		started:                make(chan struct{}),
		release:                make(chan struct{}),
	}
	repo := service.NewRepository(store, nil)
	r := service.NewRefresher(repo, time.Hour)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	wg.Add(1)
	go func() {
		defer wg.Done()
		errs <- r.Refresh(ctx)
	}()
	<-store.started

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- r.Refresh(ctx)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(store.release)
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), store.calls.Load())
}

func TestRefresher_PicksUpExternalWrites(t *testing.T) {
	store := database.NewMemoryTransactionStore()
	repo := service.NewRepository(store, nil)
	r := service.NewRefresher(repo, time.Hour)
	ctx := context.Background()

	require.NoError(t, r.Refresh(ctx))
	assert.Empty(t, repo.All())

	tx := expense(10, models.NewDate(2024, 1, 1))
	tx.ID = "other-instance"
	require.NoError(t, store.Put(ctx, &tx))

	require.NoError(t, r.Refresh(ctx))
	_, err := repo.Get("other-instance")
	assert.NoError(t, err)
}

func TestRefresher_RunTicks(t *testing.T) {
	store := database.NewMemoryTransactionStore()
	repo := service.NewRepository(store, nil)
	r := service.NewRefresher(repo, 5*time.Millisecond)

	tx := expense(10, models.NewDate(2024, 1, 1))
	tx.ID = "seeded"
	require.NoError(t, store.Put(context.Background(), &tx))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)

	assert.Eventually(t, func() bool {
		_, err := repo.Get("seeded")
		return err == nil
	}, time.Second, 5*time.Millisecond)
}

// gatedStore 设置 armed 后，下一次 GetAll 读完快照即暂停，直到 release 关闭；返回前检查 ctx
type gatedStore struct {
	*database.MemoryTransactionStore
	calls   atomic.Int32
	armed   atomic.Bool
	paused  chan struct{}
	release chan struct{}
}

func newGatedStore() *gatedStore {
	return &gatedStore{
		MemoryTransactionStore: database.NewMemoryTransactionStore(),
		paused:                 make(chan struct{}),
		release:                make(chan struct{}),
	}
}

func (s *gatedStore) GetAll(ctx context.Context) ([]models.Transaction, error) {
	s.calls.Add(1)
	list, err := s.MemoryTransactionStore.GetAll(ctx)
	if s.armed.CompareAndSwap(true, false) {
		close(s.paused)
		<-s.release
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	return list, err
}

// 刷新读到的快照早于本实例的关联写入时不能覆盖缓存，否则第二条收入会被放行
func TestRefresher_SnapshotOlderThanWriteIsDropped(t *testing.T) {
	store := newGatedStore()
	repo := service.NewRepository(store, nil)
	r := service.NewRefresher(repo, time.Hour)
	ctx := context.Background()

	expID := mustCreate(t, repo, expense(1000, models.NewDate(2024, 1, 1)))
	first := mustCreate(t, repo, income(1200, models.NewDate(2024, 4, 1)))
	second := mustCreate(t, repo, income(900, models.NewDate(2024, 5, 1)))

	store.armed.Store(true)
	done := make(chan error, 1)
	go func() { done <- r.Refresh(ctx) }()
	<-store.paused

	require.NoError(t, repo.Link(ctx, first, expID))
	close(store.release)
	require.NoError(t, <-done)

	state, err := repo.LinkState(expID)
	require.NoError(t, err)
	assert.Equal(t, service.Linked, state)
	assert.ErrorIs(t, repo.Link(ctx, second, expID), service.ErrLinkConflict)

	all, err := store.MemoryTransactionStore.GetAll(ctx)
	require.NoError(t, err)
	linked := 0
	for _, tx := range all {
		if tx.LinkedTo() == expID {
			linked++
		}
	}
	assert.Equal(t, 1, linked)
}

// 发起刷新的请求中途断开时，等待同一次读取的其他调用方不受影响
func TestRefresher_CancelledCallerDoesNotFailSharedFetch(t *testing.T) {
	store := newGatedStore()
	repo := service.NewRepository(store, nil)
	r := service.NewRefresher(repo, time.Hour)

	store.armed.Store(true)
	callerCtx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() { first <- r.Refresh(callerCtx) }()
	<-store.paused

	second := make(chan error, 1)
	go func() { second <- r.Refresh(context.Background()) }()
	time.Sleep(20 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-first, context.Canceled)

	close(store.release)
	require.NoError(t, <-second)
	assert.True(t, repo.Loaded())
}

// 变更通知到达时已有读取在进行，需要另起一次读取才能看到该变更
func TestRefresher_RefreshChangedStartsNewFetch(t *testing.T) {
	store := newGatedStore()
	repo := service.NewRepository(store, nil)
	r := service.NewRefresher(repo, time.Hour)
	ctx := context.Background()

	store.armed.Store(true)
	inFlight := make(chan error, 1)
	go func() { inFlight <- r.Refresh(ctx) }()
	<-store.paused

	tx := expense(10, models.NewDate(2024, 1, 1))
	tx.ID = "remote"
	require.NoError(t, store.Put(ctx, &tx))

	require.NoError(t, r.RefreshChanged(ctx))
	_, err := repo.Get("remote")
	require.NoError(t, err)

	close(store.release)
	require.NoError(t, <-inFlight)

	_, err = repo.Get("remote")
	assert.NoError(t, err, "较早的快照不应覆盖较新的结果")
	assert.Equal(t, int32(2), store.calls.Load())
}
