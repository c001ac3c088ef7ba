package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"
)

// Querier 是服务层依赖的账本查询/提交接口, 测试时注入假实现。
type Querier interface {
	QueryTx(ctx context.Context, txHash string) (*TxResponse, error)
	Query(ctx context.Context, url string) (*QueryResponse, error)
	QueryPending(ctx context.Context, url string) ([]PendingTransaction, error)
	ExecuteDirect(ctx context.Context, envelope any) (*SubmitResponse, error)
}

// Client 通过 JSON-RPC 2.0 访问账本节点。方法名和参数结构是
// Accumulate v2 API 固定的, 不可改动。
type Client struct {
	rpc *rpc.Client
}

func Dial(ctx context.Context, rawurl string) (*Client, error) {
	c, err := rpc.DialContext(ctx, rawurl)
	if err != nil {
		return nil, fmt.Errorf("dial ledger node: %w", err)
	}
	return &Client{rpc: c}, nil
}

func (c *Client) Close() {
	c.rpc.Close()
}

// QueryTx 按交易哈希取回原始交易体。
func (c *Client) QueryTx(ctx context.Context, txHash string) (*TxResponse, error) {
	var res TxResponse
	err := c.rpc.CallContext(ctx, &res, "query-tx", map[string]any{
		"txid": txHash,
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: tx %s", ErrNotFound, txHash)
		}
		return nil, err
	}
	if res.Transaction == nil {
		return nil, fmt.Errorf("%w: tx %s has no transaction record", ErrNotFound, txHash)
	}
	return &res, nil
}

// Query 查询账户状态 (密钥页版本、公钥等)。
func (c *Client) Query(ctx context.Context, url string) (*QueryResponse, error) {
	var res QueryResponse
	err := c.rpc.CallContext(ctx, &res, "query", map[string]any{
		"url": url,
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
		}
		return nil, err
	}
	return &res, nil
}

// QueryPending 列出某签名方可见的待签名交易。
// 账本按交易状态返回部分字段, 有的项只有 txid 字符串。
func (c *Client) QueryPending(ctx context.Context, url string) ([]PendingTransaction, error) {
	var res struct {
		Items []any `json:"items"`
	}
	err := c.rpc.CallContext(ctx, &res, "query", map[string]any{
		"url": strings.TrimSuffix(url, "#pending") + "#pending",
	})
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	out := make([]PendingTransaction, 0, len(res.Items))
	for _, item := range res.Items {
		switch v := item.(type) {
		case string:
			out = append(out, PendingTransaction{TxID: v})
		case map[string]any:
			p := PendingTransaction{}
			p.TxID, _ = v["txid"].(string)
			p.Hash, _ = v["hash"].(string)
			p.Type, _ = v["type"].(string)
			out = append(out, p)
		}
	}
	return out, nil
}

// ExecuteDirect 提交已签名的执行信封。账本侧拒绝时把它的错误消息
// 原样包进 ErrSubmissionFailed。
func (c *Client) ExecuteDirect(ctx context.Context, envelope any) (*SubmitResponse, error) {
	var res SubmitResponse
	err := c.rpc.CallContext(ctx, &res, "execute-direct", map[string]any{
		"envelope": envelope,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSubmissionFailed, err.Error())
	}
	if res.Code != 0 {
		return &res, fmt.Errorf("%w: %s", ErrSubmissionFailed, res.Message)
	}
	return &res, nil
}

func isNotFound(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}
