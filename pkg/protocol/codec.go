package protocol

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
)

// DecodeTransaction 把账本返回的原始交易 (header/body 的 JSON 对象) 解码为
// 强类型 Transaction, 并重算规范哈希与 expectedHash 比对。
// 哈希不一致是硬性完整性错误 (ErrHashMismatch), 说明被篡改或编码漂移,
// 调用方不得重试。timestampMicros 来自查询上下文, 只挂在内存模型上。
func DecodeTransaction(rawHeader, rawBody map[string]any, expectedHash []byte, timestampMicros int64) (*Transaction, error) {
	header, err := decodeHeader(rawHeader)
	if err != nil {
		return nil, fmt.Errorf("decode header: %w", err)
	}
	header.Timestamp = timestampMicros

	body, err := DecodeBody(rawBody)
	if err != nil {
		return nil, err
	}

	tx := &Transaction{Header: *header, Body: body}

	hash, err := TxHash(tx)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(hash, expectedHash) {
		return nil, fmt.Errorf("%w: computed %x, ledger reported %x",
			ErrHashMismatch, hash, expectedHash)
	}
	return tx, nil
}

func decodeHeader(raw map[string]any) (*Header, error) {
	h := new(Header)
	var err error
	if s := getString(raw, "principal"); s != "" {
		h.Principal, err = ParseURL(s)
		if err != nil {
			return nil, err
		}
	}
	if h.Initiator, err = getHex(raw, "initiator"); err != nil {
		return nil, err
	}
	h.Memo = getString(raw, "memo")
	if h.Metadata, err = getHex(raw, "metadata"); err != nil {
		return nil, err
	}
	return h, nil
}

// DecodeBody 按 type 标签解码交易体。标签不在封闭集合内时返回
// ErrUnsupportedPayloadType。
func DecodeBody(raw map[string]any) (TransactionBody, error) {
	tag := getString(raw, "type")
	typ, ok := TransactionTypeByName(tag)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedPayloadType, tag)
	}

	switch typ {
	case TypeSendTokens:
		return decodeSendTokens(raw)
	case TypeWriteData:
		return decodeWriteData(raw)
	case TypeWriteDataTo:
		return decodeWriteDataTo(raw)
	case TypeUpdateKeyPage:
		return decodeUpdateKeyPage(raw)
	case TypeCreateIdentity:
		return decodeCreateIdentity(raw)
	case TypeCreateTokenAccount:
		return decodeCreateTokenAccount(raw)
	case TypeCreateToken:
		return decodeCreateToken(raw)
	case TypeIssueTokens:
		return decodeIssueTokens(raw)
	case TypeBurnTokens:
		return decodeBurnTokens(raw)
	case TypeAddCredits:
		return decodeAddCredits(raw)
	case TypeUpdateAccountAuth:
		return decodeUpdateAccountAuth(raw)
	case TypeUpdateKey:
		return decodeUpdateKey(raw)
	case TypeCreateKeyBook:
		return decodeCreateKeyBook(raw)
	case TypeCreateDataAccount:
		return decodeCreateDataAccount(raw)
	case TypeCreateKeyPage:
		return decodeCreateKeyPage(raw)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedPayloadType, tag)
	}
}

func decodeSendTokens(raw map[string]any) (*SendTokens, error) {
	b := new(SendTokens)
	var err error
	if b.Hash, err = getHex(raw, "hash"); err != nil {
		return nil, err
	}
	if b.Meta, err = getHex(raw, "meta"); err != nil {
		return nil, err
	}
	for _, item := range getList(raw, "to") {
		to, err := decodeTokenRecipient(item)
		if err != nil {
			return nil, err
		}
		b.To = append(b.To, to)
	}
	return b, nil
}

func decodeTokenRecipient(raw map[string]any) (*TokenRecipient, error) {
	r := new(TokenRecipient)
	var err error
	if r.Url, err = getURL(raw, "url"); err != nil {
		return nil, err
	}
	if r.Amount, err = getBigInt(raw, "amount"); err != nil {
		return nil, err
	}
	return r, nil
}

func decodeDataEntry(raw map[string]any) (*DoubleHashDataEntry, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: missing entry", ErrUnsupportedEntryType)
	}
	// 只支持 doubleHash 一种条目编码, 其余 (factom 等) 一律拒绝
	if tag := getString(raw, "type"); tag != "doubleHash" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEntryType, tag)
	}
	entry := new(DoubleHashDataEntry)
	for _, part := range getStringList(raw, "data") {
		chunk, err := hex.DecodeString(part)
		if err != nil {
			return nil, fmt.Errorf("invalid data chunk: %w", err)
		}
		entry.Data = append(entry.Data, chunk)
	}
	return entry, nil
}

func decodeWriteData(raw map[string]any) (*WriteData, error) {
	entry, err := decodeDataEntry(getMap(raw, "entry"))
	if err != nil {
		return nil, err
	}
	return &WriteData{
		Entry:        entry,
		Scratch:      getBool(raw, "scratch"),
		WriteToState: getBool(raw, "writeToState"),
	}, nil
}

func decodeWriteDataTo(raw map[string]any) (*WriteDataTo, error) {
	b := new(WriteDataTo)
	var err error
	if b.Recipient, err = getURL(raw, "recipient"); err != nil {
		return nil, err
	}
	if b.Entry, err = decodeDataEntry(getMap(raw, "entry")); err != nil {
		return nil, err
	}
	return b, nil
}

func decodeKeySpecParams(raw map[string]any) (*KeySpecParams, error) {
	if raw == nil {
		return nil, nil
	}
	k := new(KeySpecParams)
	var err error
	if k.KeyHash, err = getHex(raw, "keyHash"); err != nil {
		return nil, err
	}
	if k.Delegate, err = getURL(raw, "delegate"); err != nil {
		return nil, err
	}
	return k, nil
}

func decodeUpdateKeyPage(raw map[string]any) (*UpdateKeyPage, error) {
	b := new(UpdateKeyPage)
	for _, item := range getList(raw, "operation") {
		op := new(KeyPageOperation)
		var err error
		if op.OpType, err = KeyPageOperationByName(getString(item, "type")); err != nil {
			return nil, err
		}
		if op.Entry, err = decodeKeySpecParams(getMap(item, "entry")); err != nil {
			return nil, err
		}
		if op.NewEntry, err = decodeKeySpecParams(getMap(item, "newEntry")); err != nil {
			return nil, err
		}
		if op.Threshold, err = getUint(item, "threshold"); err != nil {
			return nil, err
		}
		if op.Allow, err = decodeTxTypeList(item, "allow"); err != nil {
			return nil, err
		}
		if op.Deny, err = decodeTxTypeList(item, "deny"); err != nil {
			return nil, err
		}
		b.Operations = append(b.Operations, op)
	}
	return b, nil
}

func decodeTxTypeList(raw map[string]any, key string) ([]TransactionType, error) {
	var out []TransactionType
	for _, tag := range getStringList(raw, key) {
		t, ok := TransactionTypeByName(tag)
		if !ok {
			return nil, fmt.Errorf("%w: %q in %s list", ErrUnsupportedPayloadType, tag, key)
		}
		out = append(out, t)
	}
	return out, nil
}

func decodeCreateIdentity(raw map[string]any) (*CreateIdentity, error) {
	b := new(CreateIdentity)
	var err error
	if b.Url, err = getURL(raw, "url"); err != nil {
		return nil, err
	}
	if b.KeyHash, err = getHex(raw, "keyHash"); err != nil {
		return nil, err
	}
	if b.KeyBookUrl, err = getURL(raw, "keyBookUrl"); err != nil {
		return nil, err
	}
	return b, nil
}

func decodeCreateTokenAccount(raw map[string]any) (*CreateTokenAccount, error) {
	b := new(CreateTokenAccount)
	var err error
	if b.Url, err = getURL(raw, "url"); err != nil {
		return nil, err
	}
	if b.TokenUrl, err = getURL(raw, "tokenUrl"); err != nil {
		return nil, err
	}
	return b, nil
}

func decodeCreateToken(raw map[string]any) (*CreateToken, error) {
	b := new(CreateToken)
	var err error
	if b.Url, err = getURL(raw, "url"); err != nil {
		return nil, err
	}
	b.Symbol = getString(raw, "symbol")
	if b.Precision, err = getUint(raw, "precision"); err != nil {
		return nil, err
	}
	if b.SupplyLimit, err = getBigInt(raw, "supplyLimit"); err != nil {
		return nil, err
	}
	return b, nil
}

func decodeIssueTokens(raw map[string]any) (*IssueTokens, error) {
	b := new(IssueTokens)
	var err error
	if b.Recipient, err = getURL(raw, "recipient"); err != nil {
		return nil, err
	}
	if b.Amount, err = getBigInt(raw, "amount"); err != nil {
		return nil, err
	}
	for _, item := range getList(raw, "to") {
		to, err := decodeTokenRecipient(item)
		if err != nil {
			return nil, err
		}
		b.To = append(b.To, to)
	}
	return b, nil
}

func decodeBurnTokens(raw map[string]any) (*BurnTokens, error) {
	amount, err := getBigInt(raw, "amount")
	if err != nil {
		return nil, err
	}
	return &BurnTokens{Amount: amount}, nil
}

func decodeAddCredits(raw map[string]any) (*AddCredits, error) {
	b := new(AddCredits)
	var err error
	if b.Recipient, err = getURL(raw, "recipient"); err != nil {
		return nil, err
	}
	if b.Amount, err = getBigInt(raw, "amount"); err != nil {
		return nil, err
	}
	if b.Oracle, err = getUint(raw, "oracle"); err != nil {
		return nil, err
	}
	return b, nil
}

func decodeUpdateAccountAuth(raw map[string]any) (*UpdateAccountAuth, error) {
	b := new(UpdateAccountAuth)
	for _, item := range getList(raw, "operations") {
		op := new(AccountAuthOperation)
		var err error
		if op.OpType, err = AccountAuthOperationByName(getString(item, "type")); err != nil {
			return nil, err
		}
		if op.Authority, err = getURL(item, "authority"); err != nil {
			return nil, err
		}
		b.Operations = append(b.Operations, op)
	}
	return b, nil
}

func decodeUpdateKey(raw map[string]any) (*UpdateKey, error) {
	hash, err := getHex(raw, "newKeyHash")
	if err != nil {
		return nil, err
	}
	return &UpdateKey{NewKeyHash: hash}, nil
}

func decodeCreateKeyBook(raw map[string]any) (*CreateKeyBook, error) {
	b := new(CreateKeyBook)
	var err error
	if b.Url, err = getURL(raw, "url"); err != nil {
		return nil, err
	}
	if b.PublicKeyHash, err = getHex(raw, "publicKeyHash"); err != nil {
		return nil, err
	}
	return b, nil
}

func decodeCreateDataAccount(raw map[string]any) (*CreateDataAccount, error) {
	u, err := getURL(raw, "url")
	if err != nil {
		return nil, err
	}
	return &CreateDataAccount{Url: u}, nil
}

func decodeCreateKeyPage(raw map[string]any) (*CreateKeyPage, error) {
	b := new(CreateKeyPage)
	for _, item := range getList(raw, "keys") {
		k, err := decodeKeySpecParams(item)
		if err != nil {
			return nil, err
		}
		b.Keys = append(b.Keys, k)
	}
	return b, nil
}

// ---- JSON 取值辅助 ----
// 账本 JSON 的字段名是协议固定的, 缺省字段一律按零值处理,
// 但格式非法 (hex/数字解析失败) 要报错而不是吞掉。

func getString(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return s
}

func getBool(raw map[string]any, key string) bool {
	b, _ := raw[key].(bool)
	return b
}

func getHex(raw map[string]any, key string) ([]byte, error) {
	s := getString(raw, key)
	if s == "" {
		return nil, nil
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", key, err)
	}
	return b, nil
}

func getURL(raw map[string]any, key string) (*URL, error) {
	s := getString(raw, key)
	if s == "" {
		return nil, nil
	}
	return ParseURL(s)
}

func getUint(raw map[string]any, key string) (uint64, error) {
	switch v := raw[key].(type) {
	case nil:
		return 0, nil
	case float64:
		return uint64(v), nil
	case json.Number:
		n, err := strconv.ParseUint(v.String(), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("field %s: invalid number %q", key, v.String())
		}
		return n, nil
	case string:
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("field %s: invalid number %q", key, v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("field %s: unexpected number type %T", key, v)
	}
}

// getBigInt 金额字段: 账本以十进制字符串下发大整数, 数字字面量也兼容。
func getBigInt(raw map[string]any, key string) (*big.Int, error) {
	switch v := raw[key].(type) {
	case nil:
		return nil, nil
	case string:
		n, ok := new(big.Int).SetString(v, 10)
		if !ok {
			return nil, fmt.Errorf("field %s: invalid amount %q", key, v)
		}
		return n, nil
	case float64:
		return big.NewInt(int64(v)), nil
	case json.Number:
		n, ok := new(big.Int).SetString(v.String(), 10)
		if !ok {
			return nil, fmt.Errorf("field %s: invalid amount %q", key, v)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("field %s: unexpected amount type %T", key, v)
	}
}

func getMap(raw map[string]any, key string) map[string]any {
	m, _ := raw[key].(map[string]any)
	return m
}

func getList(raw map[string]any, key string) []map[string]any {
	items, _ := raw[key].([]any)
	var out []map[string]any
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func getStringList(raw map[string]any, key string) []string {
	items, _ := raw[key].([]any)
	var out []string
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
