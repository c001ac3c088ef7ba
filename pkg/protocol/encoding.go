package protocol

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/big"
)

// 规范二进制编码。这是账本协议固定的外部契约: 字段按编号升序写出,
// 每个字段先写 uvarint 字段号再写值; 零值字段整体省略。签名在远端校验,
// 因此这里的每一个字节都必须与账本自己的编码一致, 不允许重新设计。
//
// 值编码规则:
//   uint      -> uvarint
//   bytes     -> uvarint 长度 + 原始字节
//   string    -> 同 bytes
//   bigint    -> 绝对值大端字节, 按 bytes 编码
//   hash      -> 原始 32 字节, 无长度前缀
//   url       -> 按 string 编码
//   struct    -> 嵌套序列化后按 bytes 编码
//   bool      -> 单字节 0/1

type encoder struct {
	buf bytes.Buffer
}

func (e *encoder) field(n uint64) {
	var tmp [binary.MaxVarintLen64]byte
	e.buf.Write(tmp[:binary.PutUvarint(tmp[:], n)])
}

func (e *encoder) writeUint(n uint64, v uint64) {
	if v == 0 {
		return
	}
	e.field(n)
	var tmp [binary.MaxVarintLen64]byte
	e.buf.Write(tmp[:binary.PutUvarint(tmp[:], v)])
}

func (e *encoder) writeBytes(n uint64, v []byte) {
	if len(v) == 0 {
		return
	}
	e.field(n)
	var tmp [binary.MaxVarintLen64]byte
	e.buf.Write(tmp[:binary.PutUvarint(tmp[:], uint64(len(v)))])
	e.buf.Write(v)
}

func (e *encoder) writeString(n uint64, v string) {
	e.writeBytes(n, []byte(v))
}

func (e *encoder) writeHash(n uint64, v []byte) {
	if len(v) == 0 {
		return
	}
	e.field(n)
	e.buf.Write(v)
}

func (e *encoder) writeURL(n uint64, v *URL) {
	if v == nil {
		return
	}
	e.writeString(n, v.String())
}

func (e *encoder) writeBigInt(n uint64, v *big.Int) {
	if v == nil || v.Sign() == 0 {
		return
	}
	e.writeBytes(n, v.Bytes())
}

func (e *encoder) writeBool(n uint64, v bool) {
	if !v {
		return
	}
	e.field(n)
	e.buf.WriteByte(1)
}

func (e *encoder) writeValue(n uint64, v []byte) {
	e.writeBytes(n, v)
}

func (e *encoder) bytes() []byte { return e.buf.Bytes() }

// MarshalHeader 序列化交易头。Timestamp 不在编码内。
func MarshalHeader(h *Header) []byte {
	e := new(encoder)
	e.writeURL(1, h.Principal)
	e.writeHash(2, h.Initiator)
	e.writeString(3, h.Memo)
	e.writeBytes(4, h.Metadata)
	return e.bytes()
}

func marshalTokenRecipient(r *TokenRecipient) []byte {
	e := new(encoder)
	e.writeURL(1, r.Url)
	e.writeBigInt(2, r.Amount)
	return e.bytes()
}

func marshalDataEntry(d *DoubleHashDataEntry) []byte {
	e := new(encoder)
	e.writeUint(1, uint64(DataEntryTypeDoubleHash))
	for _, part := range d.Data {
		// 空分片也要占位, 否则 [nil, x] 和 [x] 编码相同
		e.field(2)
		var tmp [binary.MaxVarintLen64]byte
		e.buf.Write(tmp[:binary.PutUvarint(tmp[:], uint64(len(part)))])
		e.buf.Write(part)
	}
	return e.bytes()
}

// Hash 数据条目哈希: 分片拼接后的双重 SHA-256。
func (d *DoubleHashDataEntry) Hash() []byte {
	var all []byte
	for _, part := range d.Data {
		all = append(all, part...)
	}
	h := sha256.Sum256(all)
	h = sha256.Sum256(h[:])
	return h[:]
}

func marshalKeySpecParams(k *KeySpecParams) []byte {
	e := new(encoder)
	e.writeBytes(1, k.KeyHash)
	e.writeURL(2, k.Delegate)
	return e.bytes()
}

func marshalKeyPageOperation(op *KeyPageOperation) []byte {
	e := new(encoder)
	e.writeUint(1, uint64(op.OpType))
	if op.Entry != nil {
		e.writeValue(2, marshalKeySpecParams(op.Entry))
	}
	if op.NewEntry != nil {
		e.writeValue(3, marshalKeySpecParams(op.NewEntry))
	}
	e.writeUint(4, op.Threshold)
	for _, t := range op.Allow {
		e.writeUint(5, uint64(t))
	}
	for _, t := range op.Deny {
		e.writeUint(6, uint64(t))
	}
	return e.bytes()
}

func marshalAccountAuthOperation(op *AccountAuthOperation) []byte {
	e := new(encoder)
	e.writeUint(1, uint64(op.OpType))
	e.writeURL(2, op.Authority)
	return e.bytes()
}

// MarshalBody 序列化交易体。对联合类型做穷举 switch;
// 出现未覆盖的类型说明枚举集合和这里不同步, 返回错误。
func MarshalBody(body TransactionBody) ([]byte, error) {
	e := new(encoder)
	e.writeUint(1, uint64(body.Type()))

	switch b := body.(type) {
	case *SendTokens:
		e.writeHash(2, b.Hash)
		e.writeBytes(3, b.Meta)
		for _, to := range b.To {
			e.writeValue(4, marshalTokenRecipient(to))
		}

	case *WriteData:
		e.writeValue(2, marshalDataEntry(b.Entry))
		e.writeBool(3, b.Scratch)
		e.writeBool(4, b.WriteToState)

	case *WriteDataTo:
		e.writeURL(2, b.Recipient)
		e.writeValue(3, marshalDataEntry(b.Entry))

	case *UpdateKeyPage:
		for _, op := range b.Operations {
			e.writeValue(2, marshalKeyPageOperation(op))
		}

	case *CreateIdentity:
		e.writeURL(2, b.Url)
		e.writeBytes(3, b.KeyHash)
		e.writeURL(4, b.KeyBookUrl)

	case *CreateTokenAccount:
		e.writeURL(2, b.Url)
		e.writeURL(3, b.TokenUrl)

	case *CreateToken:
		e.writeURL(2, b.Url)
		e.writeString(3, b.Symbol)
		e.writeUint(4, b.Precision)
		e.writeBigInt(5, b.SupplyLimit)

	case *IssueTokens:
		e.writeURL(2, b.Recipient)
		e.writeBigInt(3, b.Amount)
		for _, to := range b.To {
			e.writeValue(4, marshalTokenRecipient(to))
		}

	case *BurnTokens:
		e.writeBigInt(2, b.Amount)

	case *AddCredits:
		e.writeURL(2, b.Recipient)
		e.writeBigInt(3, b.Amount)
		e.writeUint(4, b.Oracle)

	case *UpdateAccountAuth:
		for _, op := range b.Operations {
			e.writeValue(2, marshalAccountAuthOperation(op))
		}

	case *UpdateKey:
		e.writeBytes(2, b.NewKeyHash)

	case *CreateKeyBook:
		e.writeURL(2, b.Url)
		e.writeBytes(3, b.PublicKeyHash)

	case *CreateDataAccount:
		e.writeURL(2, b.Url)

	case *CreateKeyPage:
		for _, k := range b.Keys {
			e.writeValue(2, marshalKeySpecParams(k))
		}

	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedPayloadType, body)
	}

	return e.bytes(), nil
}

// BodyHash 计算交易体哈希。WriteData/WriteDataTo 特殊:
// 条目本身不进序列化, 而是 H(H(body-without-entry) || entryHash),
// 与账本对数据交易的处理保持一致。
func BodyHash(body TransactionBody) ([]byte, error) {
	switch b := body.(type) {
	case *WriteData:
		e := new(encoder)
		e.writeUint(1, uint64(body.Type()))
		e.writeBool(3, b.Scratch)
		e.writeBool(4, b.WriteToState)
		return hashWithEntry(e.bytes(), b.Entry), nil
	case *WriteDataTo:
		e := new(encoder)
		e.writeUint(1, uint64(body.Type()))
		e.writeURL(2, b.Recipient)
		return hashWithEntry(e.bytes(), b.Entry), nil
	}

	data, err := MarshalBody(body)
	if err != nil {
		return nil, err
	}
	h := sha256.Sum256(data)
	return h[:], nil
}

func hashWithEntry(partial []byte, entry *DoubleHashDataEntry) []byte {
	ph := sha256.Sum256(partial)
	h := sha256.Sum256(append(ph[:], entry.Hash()...))
	return h[:]
}

// TxHash 交易哈希 = H( H(header) || bodyHash )。
func TxHash(tx *Transaction) ([]byte, error) {
	bh, err := BodyHash(tx.Body)
	if err != nil {
		return nil, err
	}
	hh := sha256.Sum256(MarshalHeader(&tx.Header))
	h := sha256.Sum256(append(hh[:], bh...))
	return h[:], nil
}
