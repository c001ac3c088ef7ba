package request

// SignRequest 签名并提交一笔待签名交易。
type SignRequest struct {
	TxHash    string `json:"tx_hash" binding:"required"`
	SignerUrl string `json:"signer_url" binding:"required"`
}

// PendingRequest 沿签名路径发现待签名交易。
type PendingRequest struct {
	Paths     []string `json:"paths"`
	Identity  string   `json:"identity"`
	SignerUrl string   `json:"signer_url"`
	Flatten   bool     `json:"flatten"` // true 时返回摊平的行
}

// PendingCheckRequest 角标探测。
type PendingCheckRequest struct {
	Paths []string `json:"paths" binding:"required"`
}

// PassphraseRequest 设置主密码。
type PassphraseRequest struct {
	Passphrase string `json:"passphrase" binding:"required"`
}

// ImportKeyRequest 导入助记词。
type ImportKeyRequest struct {
	Mnemonic string `json:"mnemonic" binding:"required"`
}
