package service

import (
	"context"
	"strings"
	"sync"

	"acc-wallet-core/pkg/ledger"
	"acc-wallet-core/pkg/logger"
	"acc-wallet-core/pkg/monitor"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// PendingService 沿签名路径发现待签名交易。每次调用都是独立的全新
// 查询, 不做缓存、不做跨调用去重 —— 缓存/退避策略归调用方所有。
type PendingService struct {
	ledger ledger.Querier
}

var _ Pending = (*PendingService)(nil)

func NewPendingService(lc ledger.Querier) *PendingService {
	return &PendingService{ledger: lc}
}

// 路径分隔符: "alice.acme/book/1 -> bravo.acme/book/1"
const hopSeparator = "->"

func splitPath(path string) []string {
	parts := strings.Split(path, hopSeparator)
	hops := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			hops = append(hops, p)
		}
	}
	return hops
}

// FindPendingForPaths 对每条路径的末端签名方发起一次账本查询。
// 查询相互独立, 并发发出; 桶按路径归属, 与完成顺序无关。
// 单条路径失败记日志后跳过, 部分结果是预期行为。
// paths 为空时退化为单路径探测: 优先用 userSignerUrl,
// 其次用 baseIdentity (身份本身也能直接查待签名)。
func (s *PendingService) FindPendingForPaths(ctx context.Context, paths []string, baseIdentity, userSignerUrl string) (*PendingResult, error) {
	timer := prometheus.NewTimer(monitor.Wallet.PendingQueryDuration)
	defer timer.ObserveDuration()

	if len(paths) == 0 {
		switch {
		case userSignerUrl != "":
			paths = []string{userSignerUrl}
		case baseIdentity != "":
			paths = []string{baseIdentity}
		}
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		buckets = make([]*PathBucket, len(paths))
	)

	for i, path := range paths {
		hops := splitPath(path)
		if len(hops) == 0 {
			continue
		}

		wg.Add(1)
		go func(idx int, path string, hops []string) {
			defer wg.Done()

			terminal := hops[len(hops)-1]
			prior := terminal // 单跳路径: 前驱是自身
			if len(hops) > 1 {
				prior = hops[len(hops)-2]
			}

			txs, err := s.ledger.QueryPending(ctx, terminal)
			if err != nil {
				// 跳过失败路径, 继续累积其余结果
				logger.Warn("pending query failed, skipping path",
					zap.String("path", path), zap.Error(err))
				return
			}

			mu.Lock()
			buckets[idx] = &PathBucket{
				SigningPath:  path,
				Hops:         hops,
				Signer:       terminal,
				PriorHop:     prior,
				Transactions: txs,
			}
			mu.Unlock()
		}(i, path, hops)
	}
	wg.Wait()

	res := &PendingResult{}
	for _, b := range buckets {
		if b == nil {
			continue
		}
		res.Buckets = append(res.Buckets, *b)
		res.Count += len(b.Transactions)
	}
	return res, nil
}

// Flatten 把分桶结果摊平成 UI 友好的行。
func Flatten(res *PendingResult) []map[string]any {
	var out []map[string]any
	for _, b := range res.Buckets {
		for _, tx := range b.Transactions {
			out = append(out, map[string]any{
				"signing_path": b.SigningPath,
				"signer":       b.Signer,
				"prior_hop":    b.PriorHop,
				"txid":         tx.TxID,
				"hash":         tx.Hash,
				"type":         tx.Type,
			})
		}
	}
	return out
}

// HasPendingTransactions 顺序探测, 遇到第一条有待签名交易的路径就返回。
func (s *PendingService) HasPendingTransactions(ctx context.Context, paths []string) (bool, error) {
	for _, path := range paths {
		hops := splitPath(path)
		if len(hops) == 0 {
			continue
		}
		txs, err := s.ledger.QueryPending(ctx, hops[len(hops)-1])
		if err != nil {
			logger.Warn("pending probe failed, skipping path",
				zap.String("path", path), zap.Error(err))
			continue
		}
		if len(txs) > 0 {
			return true, nil
		}
	}
	return false, nil
}
