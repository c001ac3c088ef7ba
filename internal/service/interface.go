package service

import (
	"context"

	"acc-wallet-core/pkg/ledger"
	"acc-wallet-core/pkg/protocol"
)

// Signing 是暴露给上层 (HTTP/CLI) 的签名核心接口。
type Signing interface {
	// SignTransaction 对指定哈希的待签名交易签名并提交。
	// 本地没有对应密钥时返回 ErrNoLocalKeyMaterial (可恢复状态)。
	SignTransaction(ctx context.Context, txHash string, signerUrl string) (*SignResult, error)
}

// Pending 待签名交易发现接口。
type Pending interface {
	// FindPendingForPaths 沿各条签名路径查询待签名交易并按路径分桶。
	// 单条路径查询失败只跳过该路径, 不影响整体。
	FindPendingForPaths(ctx context.Context, paths []string, baseIdentity, userSignerUrl string) (*PendingResult, error)

	// HasPendingTransactions 任一路径存在待签名交易即返回 true (短路)。
	HasPendingTransactions(ctx context.Context, paths []string) (bool, error)
}

// SignResult 一次签名调用的产物: 签名本体 + 账本的受理结果。
// Summary 是刚签掉的内容的人类可读描述, 给确认界面用。
type SignResult struct {
	Signature  *protocol.ED25519Signature `json:"signature"`
	Submission *ledger.SubmitResponse     `json:"submission"`
	Summary    string                     `json:"summary"`
}

// PathBucket 一条委托链上的待签名工作。生命周期仅限单次查询,
// 每次发现调用都重建, 从不持久化。
type PathBucket struct {
	SigningPath  string                      `json:"signing_path"`
	Hops         []string                    `json:"hops"`
	Signer       string                      `json:"signer"`
	PriorHop     string                      `json:"prior_hop"`
	Transactions []ledger.PendingTransaction `json:"transactions"`
}

// PendingResult 一次发现调用的汇总。
type PendingResult struct {
	Count   int          `json:"count"`
	Buckets []PathBucket `json:"buckets"`
}
