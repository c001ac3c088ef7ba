package protocol

import "math/big"

// Transaction 是解码后的强类型交易: 头部 + 类型化的交易体。
type Transaction struct {
	Header Header
	Body   TransactionBody
}

// Header 交易头。Timestamp 来自查询上下文, 只在内存模型里携带,
// 不参与规范编码 (链上的时间戳在签名里)。
type Header struct {
	Principal *URL
	Initiator []byte
	Memo      string
	Metadata  []byte
	Timestamp int64
}

// TransactionBody 是封闭的交易体联合类型。所有实现都在本文件中,
// 编解码处对其做穷举 switch, 新增账本交易类型是编译期可见的改动。
type TransactionBody interface {
	Type() TransactionType
}

// TokenRecipient 转账接收方。Amount 是代币最小单位的整数。
type TokenRecipient struct {
	Url    *URL
	Amount *big.Int
}

// SendTokens 发送代币。
type SendTokens struct {
	Hash []byte
	Meta []byte
	To   []*TokenRecipient
}

func (*SendTokens) Type() TransactionType { return TypeSendTokens }

// DoubleHashDataEntry 是钱包唯一支持的数据条目编码。
type DoubleHashDataEntry struct {
	Data [][]byte
}

// WriteData 向数据账户写入条目。
type WriteData struct {
	Entry        *DoubleHashDataEntry
	Scratch      bool
	WriteToState bool
}

func (*WriteData) Type() TransactionType { return TypeWriteData }

// WriteDataTo 向指定账户写入条目。
type WriteDataTo struct {
	Recipient *URL
	Entry     *DoubleHashDataEntry
}

func (*WriteDataTo) Type() TransactionType { return TypeWriteDataTo }

// KeySpecParams 密钥页条目参数。
type KeySpecParams struct {
	KeyHash  []byte
	Delegate *URL
}

// KeyPageOperation 是 UpdateKeyPage 的一个嵌套操作。
// 各字段按操作类型选用: update 用 Entry+NewEntry, add/remove 用 Entry,
// setThreshold 用 Threshold, updateAllowed 用 Allow/Deny。
type KeyPageOperation struct {
	OpType    KeyPageOperationType
	Entry     *KeySpecParams
	NewEntry  *KeySpecParams
	Threshold uint64
	Allow     []TransactionType
	Deny      []TransactionType
}

// UpdateKeyPage 修改密钥页。
type UpdateKeyPage struct {
	Operations []*KeyPageOperation
}

func (*UpdateKeyPage) Type() TransactionType { return TypeUpdateKeyPage }

// CreateIdentity 创建 ADI 身份。
type CreateIdentity struct {
	Url        *URL
	KeyHash    []byte
	KeyBookUrl *URL
}

func (*CreateIdentity) Type() TransactionType { return TypeCreateIdentity }

// CreateTokenAccount 创建代币账户。
type CreateTokenAccount struct {
	Url      *URL
	TokenUrl *URL
}

func (*CreateTokenAccount) Type() TransactionType { return TypeCreateTokenAccount }

// CreateToken 发行新代币。
type CreateToken struct {
	Url         *URL
	Symbol      string
	Precision   uint64
	SupplyLimit *big.Int
}

func (*CreateToken) Type() TransactionType { return TypeCreateToken }

// IssueTokens 增发代币。
type IssueTokens struct {
	Recipient *URL
	Amount    *big.Int
	To        []*TokenRecipient
}

func (*IssueTokens) Type() TransactionType { return TypeIssueTokens }

// BurnTokens 销毁代币。
type BurnTokens struct {
	Amount *big.Int
}

func (*BurnTokens) Type() TransactionType { return TypeBurnTokens }

// AddCredits 购买 credits。Oracle 是下单时的预言机价格。
type AddCredits struct {
	Recipient *URL
	Amount    *big.Int
	Oracle    uint64
}

func (*AddCredits) Type() TransactionType { return TypeAddCredits }

// AccountAuthOperation 是 UpdateAccountAuth 的一个嵌套操作。
type AccountAuthOperation struct {
	OpType    AccountAuthOperationType
	Authority *URL
}

// UpdateAccountAuth 修改账户授权。
type UpdateAccountAuth struct {
	Operations []*AccountAuthOperation
}

func (*UpdateAccountAuth) Type() TransactionType { return TypeUpdateAccountAuth }

// UpdateKey 更新 lite 身份或密钥页里自己的密钥。
type UpdateKey struct {
	NewKeyHash []byte
}

func (*UpdateKey) Type() TransactionType { return TypeUpdateKey }

// CreateKeyBook 创建密钥簿。
type CreateKeyBook struct {
	Url           *URL
	PublicKeyHash []byte
}

func (*CreateKeyBook) Type() TransactionType { return TypeCreateKeyBook }

// CreateDataAccount 创建数据账户。
type CreateDataAccount struct {
	Url *URL
}

func (*CreateDataAccount) Type() TransactionType { return TypeCreateDataAccount }

// CreateKeyPage 创建密钥页。
type CreateKeyPage struct {
	Keys []*KeySpecParams
}

func (*CreateKeyPage) Type() TransactionType { return TypeCreateKeyPage }
