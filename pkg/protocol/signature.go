package protocol

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

// SignerInfo 描述一次签名所用的签名方: 密钥页或 lite 身份。
// Version 是账本侧的防重放计数器, 必须是签名时刻的当前值,
// 每次签名前重新查询, 绝不能用缓存。
type SignerInfo struct {
	Url       *URL
	Type      SignatureType
	Version   uint64
	PublicKey []byte
}

// ED25519Signature 一次签名的完整产物, 生成后不可变。
type ED25519Signature struct {
	PublicKey       []byte
	Signature       []byte
	Signer          *URL
	SignerVersion   uint64
	Timestamp       int64
	TransactionHash []byte
}

// marshalMetadata 序列化签名元数据: 除签名字节和交易哈希外的全部字段。
// 元数据哈希既是签名前像的一半, 也是交易头 initiator 的来源。
func (s *ED25519Signature) marshalMetadata() []byte {
	e := new(encoder)
	e.writeUint(1, uint64(SignatureTypeED25519))
	e.writeBytes(2, s.PublicKey)
	// 3 = Signature, 8 = TransactionHash: 元数据不含
	e.writeURL(4, s.Signer)
	e.writeUint(5, s.SignerVersion)
	e.writeUint(6, uint64(s.Timestamp))
	return e.bytes()
}

// MetadataHash 签名元数据的 SHA-256。
func (s *ED25519Signature) MetadataHash() []byte {
	h := sha256.Sum256(s.marshalMetadata())
	return h[:]
}

// SigningPreimage 规范签名前像 = H( metadataHash || txHash )。
// 这是协议固定的外部契约, 远端按同样的字节序列验签。
func SigningPreimage(metadataHash, txHash []byte) []byte {
	h := sha256.Sum256(append(append([]byte{}, metadataHash...), txHash...))
	return h[:]
}

// SignTransaction 用 Ed25519 私钥对交易签名。
// 返回的签名携带解析出的版本号与时间戳; 调用方负责事后清零私钥。
func SignTransaction(tx *Transaction, signer *SignerInfo, privateKey ed25519.PrivateKey, timestampMicros int64) (*ED25519Signature, error) {
	if signer.Type != SignatureTypeED25519 {
		return nil, fmt.Errorf("unsupported signature type %v", signer.Type)
	}
	if len(privateKey) != ed25519.PrivateKeySize {
		return nil, errors.New("invalid ed25519 private key length")
	}

	txHash, err := TxHash(tx)
	if err != nil {
		return nil, err
	}

	sig := &ED25519Signature{
		PublicKey:       append([]byte{}, signer.PublicKey...),
		Signer:          signer.Url,
		SignerVersion:   signer.Version,
		Timestamp:       timestampMicros,
		TransactionHash: txHash,
	}

	preimage := SigningPreimage(sig.MetadataHash(), txHash)
	sig.Signature = ed25519.Sign(privateKey, preimage)
	return sig, nil
}

// Verify 本地校验签名与给定交易哈希是否匹配。
func (s *ED25519Signature) Verify(txHash []byte) bool {
	if len(s.PublicKey) != ed25519.PublicKeySize || len(s.Signature) != ed25519.SignatureSize {
		return false
	}
	preimage := SigningPreimage(s.MetadataHash(), txHash)
	return ed25519.Verify(ed25519.PublicKey(s.PublicKey), preimage, s.Signature)
}

// MarshalJSON 按账本 v2 API 的签名 JSON 格式输出, 字段名固定。
func (s *ED25519Signature) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"type":            "ed25519",
		"publicKey":       hex.EncodeToString(s.PublicKey),
		"signature":       hex.EncodeToString(s.Signature),
		"signer":          s.Signer.String(),
		"signerVersion":   s.SignerVersion,
		"timestamp":       s.Timestamp,
		"transactionHash": hex.EncodeToString(s.TransactionHash),
	})
}

// Envelope 提交用的执行信封。rawHeader/rawBody 是账本下发的原始 JSON,
// 原样回传, 签名核心绝不改写交易体。
type Envelope struct {
	Signatures []*ED25519Signature
	TxHash     []byte

	rawHeader map[string]any
	rawBody   map[string]any
}

// BuildEnvelope 打包原始交易与签名。
func BuildEnvelope(rawHeader, rawBody map[string]any, sig *ED25519Signature) *Envelope {
	return &Envelope{
		Signatures: []*ED25519Signature{sig},
		TxHash:     sig.TransactionHash,
		rawHeader:  rawHeader,
		rawBody:    rawBody,
	}
}

func (e *Envelope) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"signatures": e.Signatures,
		"transaction": []map[string]any{{
			"header": e.rawHeader,
			"body":   e.rawBody,
		}},
	})
}
