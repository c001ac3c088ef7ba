package protocol

import (
	"errors"
	"fmt"
)

// 错误分类, 语义见各组件契约。
var (
	// ErrHashMismatch 表示本地重算的交易哈希与账本给出的不一致。
	// 这是完整性错误, 不可恢复, 永远不应重试。
	ErrHashMismatch = errors.New("transaction hash mismatch")

	// ErrUnsupportedPayloadType 表示交易体声明的类型不在支持的封闭集合内。
	ErrUnsupportedPayloadType = errors.New("unsupported transaction payload type")

	// ErrUnsupportedEntryType 表示数据条目不是 doubleHash 编码。
	ErrUnsupportedEntryType = errors.New("unsupported data entry type")
)

// TransactionType 标识交易体的类型。枚举值是链上二进制编码的一部分,
// 固定不可变。
type TransactionType uint64

const (
	TypeUnknown            TransactionType = 0x00
	TypeCreateIdentity     TransactionType = 0x01
	TypeCreateTokenAccount TransactionType = 0x02
	TypeSendTokens         TransactionType = 0x03
	TypeCreateDataAccount  TransactionType = 0x04
	TypeWriteData          TransactionType = 0x05
	TypeWriteDataTo        TransactionType = 0x06
	TypeCreateToken        TransactionType = 0x08
	TypeIssueTokens        TransactionType = 0x09
	TypeBurnTokens         TransactionType = 0x0A
	TypeCreateKeyPage      TransactionType = 0x0C
	TypeCreateKeyBook      TransactionType = 0x0D
	TypeAddCredits         TransactionType = 0x0E
	TypeUpdateKeyPage      TransactionType = 0x0F
	TypeUpdateAccountAuth  TransactionType = 0x15
	TypeUpdateKey          TransactionType = 0x16
)

// 账本 JSON 里使用的类型标签。
var txTypeNames = map[TransactionType]string{
	TypeCreateIdentity:     "createIdentity",
	TypeCreateTokenAccount: "createTokenAccount",
	TypeSendTokens:         "sendTokens",
	TypeCreateDataAccount:  "createDataAccount",
	TypeWriteData:          "writeData",
	TypeWriteDataTo:        "writeDataTo",
	TypeCreateToken:        "createToken",
	TypeIssueTokens:        "issueTokens",
	TypeBurnTokens:         "burnTokens",
	TypeCreateKeyPage:      "createKeyPage",
	TypeCreateKeyBook:      "createKeyBook",
	TypeAddCredits:         "addCredits",
	TypeUpdateKeyPage:      "updateKeyPage",
	TypeUpdateAccountAuth:  "updateAccountAuth",
	TypeUpdateKey:          "updateKey",
}

var txTypeByName = func() map[string]TransactionType {
	m := make(map[string]TransactionType, len(txTypeNames))
	for t, n := range txTypeNames {
		m[n] = t
	}
	return m
}()

func (t TransactionType) String() string {
	if n, ok := txTypeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("unknown(%d)", uint64(t))
}

// TransactionTypeByName 根据 JSON 标签查找类型; 未知标签返回 false。
func TransactionTypeByName(name string) (TransactionType, bool) {
	t, ok := txTypeByName[name]
	return t, ok
}

// SignatureType 签名算法类型。本钱包只产生 ED25519。
type SignatureType uint64

const (
	SignatureTypeUnknown SignatureType = 0
	SignatureTypeED25519 SignatureType = 2
)

func (t SignatureType) String() string {
	if t == SignatureTypeED25519 {
		return "ed25519"
	}
	return fmt.Sprintf("unknown(%d)", uint64(t))
}

// DataEntryType 数据条目编码类型。钱包只支持 doubleHash。
type DataEntryType uint64

const (
	DataEntryTypeUnknown    DataEntryType = 0
	DataEntryTypeDoubleHash DataEntryType = 3
)

// KeyPageOperationType 是 UpdateKeyPage 的嵌套操作枚举。
type KeyPageOperationType uint64

const (
	KeyPageOpUnknown       KeyPageOperationType = 0
	KeyPageOpUpdate        KeyPageOperationType = 1
	KeyPageOpRemove        KeyPageOperationType = 2
	KeyPageOpAdd           KeyPageOperationType = 3
	KeyPageOpSetThreshold  KeyPageOperationType = 4
	KeyPageOpUpdateAllowed KeyPageOperationType = 5
)

var keyPageOpNames = map[KeyPageOperationType]string{
	KeyPageOpUpdate:        "update",
	KeyPageOpRemove:        "remove",
	KeyPageOpAdd:           "add",
	KeyPageOpSetThreshold:  "setThreshold",
	KeyPageOpUpdateAllowed: "updateAllowed",
}

func (t KeyPageOperationType) String() string {
	if n, ok := keyPageOpNames[t]; ok {
		return n
	}
	return fmt.Sprintf("unknown(%d)", uint64(t))
}

// KeyPageOperationByName 解析操作标签。未知标签必须让解码失败,
// 绝不能默默落到某个破坏性操作上。
func KeyPageOperationByName(name string) (KeyPageOperationType, error) {
	for t, n := range keyPageOpNames {
		if n == name {
			return t, nil
		}
	}
	return KeyPageOpUnknown, fmt.Errorf("unknown key page operation %q", name)
}

// AccountAuthOperationType 是 UpdateAccountAuth 的嵌套操作枚举。
type AccountAuthOperationType uint64

const (
	AccountAuthOpUnknown         AccountAuthOperationType = 0
	AccountAuthOpEnable          AccountAuthOperationType = 1
	AccountAuthOpDisable         AccountAuthOperationType = 2
	AccountAuthOpAddAuthority    AccountAuthOperationType = 3
	AccountAuthOpRemoveAuthority AccountAuthOperationType = 4
)

var accountAuthOpNames = map[AccountAuthOperationType]string{
	AccountAuthOpEnable:          "enable",
	AccountAuthOpDisable:         "disable",
	AccountAuthOpAddAuthority:    "addAuthority",
	AccountAuthOpRemoveAuthority: "removeAuthority",
}

func (t AccountAuthOperationType) String() string {
	if n, ok := accountAuthOpNames[t]; ok {
		return n
	}
	return fmt.Sprintf("unknown(%d)", uint64(t))
}

// AccountAuthOperationByName 解析操作标签。注意: 旧版实现把未知标签
// 当作 disable 处理, 这会把无法识别的输入解释成破坏性操作, 属于缺陷;
// 这里改为解码失败。
func AccountAuthOperationByName(name string) (AccountAuthOperationType, error) {
	for t, n := range accountAuthOpNames {
		if n == name {
			return t, nil
		}
	}
	return AccountAuthOpUnknown, fmt.Errorf("unknown account auth operation %q", name)
}
