package ledger

import "errors"

// ErrSubmissionFailed 账本拒绝了信封。账本自己的错误文本必须原样透传,
// 调用方靠它区分余额不足 / 签名无效 / 版本过期。
var ErrSubmissionFailed = errors.New("envelope submission failed")

// ErrNotFound 查询的账户/交易在账本上不存在。
var ErrNotFound = errors.New("ledger record not found")

// TxResponse query-tx 的返回。Header/Body 保留原始 JSON 对象,
// 解码由 protocol 包负责, 提交时原样回传。
type TxResponse struct {
	Type            string         `json:"type"`
	TxID            string         `json:"txid"`
	TransactionHash string         `json:"transactionHash"`
	Transaction     *RawTx         `json:"transaction"`
	Status          map[string]any `json:"status"`
}

type RawTx struct {
	Header map[string]any `json:"header"`
	Body   map[string]any `json:"body"`
}

// QueryResponse 账户查询返回。Data 里的字段随账户类型变化
// (密钥页有 version/keys, lite 身份有 keyHash 等)。
type QueryResponse struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// PendingTransaction 待签名交易列表项。账本按交易状态可能省略任意字段,
// 所以全部可选。
type PendingTransaction struct {
	TxID string `json:"txid,omitempty"`
	Hash string `json:"hash,omitempty"`
	Type string `json:"type,omitempty"`
}

// SubmitResponse execute-direct 的返回。
type SubmitResponse struct {
	TxID    string `json:"txid"`
	Hash    string `json:"hash"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}
