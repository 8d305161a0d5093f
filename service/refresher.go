package service

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	fetchKey     = "fetch"
	fetchTimeout = 30 * time.Second
)

// Refresher 定期从存储重新加载账本
// 定时刷新与手动刷新共用一个 singleflight，会合并进行中的读取；变更通知总是另起一次读取，
// 先后完成的快照由 Repository 按读取顺序取舍
type Refresher struct {
	repo     *Repository
	interval time.Duration
	group    singleflight.Group
}

// NewRefresher 创建刷新器
func NewRefresher(repo *Repository, interval time.Duration) *Refresher {
	return &Refresher{repo: repo, interval: interval}
}

// Refresh 重新加载账本；已有刷新进行中时等待其结果
// 读取不随调用方的 ctx 取消，调用方取消时只是不再等待
func (f *Refresher) Refresh(ctx context.Context) error {
	ch := f.group.DoChan(fetchKey, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()
		return f.repo.FetchAll(fetchCtx)
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RefreshChanged 收到其他实例的变更通知后调用
// 不加入通知到达前已开始的读取，保证这次读取能看到该变更
func (f *Refresher) RefreshChanged(ctx context.Context) error {
	f.group.Forget(fetchKey)
	return f.Refresh(ctx)
}

// Run 按固定间隔刷新，直到 ctx 结束
func (f *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := f.Refresh(ctx); err != nil {
				log.Printf("定时刷新账本失败: %v", err)
			}
		}
	}
}
