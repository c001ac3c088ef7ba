package service

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"math/big"
	"testing"

	"acc-wallet-core/pkg/keyvault"
	"acc-wallet-core/pkg/ledger"
	"acc-wallet-core/pkg/protocol"
	"acc-wallet-core/pkg/signer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLedger 可配置的账本假实现, 签名/待签名用例共用。
type fakeLedger struct {
	queryFn        func(url string) (*ledger.QueryResponse, error)
	queryTxFn      func(txHash string) (*ledger.TxResponse, error)
	queryPendingFn func(url string) ([]ledger.PendingTransaction, error)
	executeFn      func(envelope any) (*ledger.SubmitResponse, error)
}

func (f *fakeLedger) Query(ctx context.Context, url string) (*ledger.QueryResponse, error) {
	return f.queryFn(url)
}

func (f *fakeLedger) QueryTx(ctx context.Context, txHash string) (*ledger.TxResponse, error) {
	return f.queryTxFn(txHash)
}

func (f *fakeLedger) QueryPending(ctx context.Context, url string) ([]ledger.PendingTransaction, error) {
	return f.queryPendingFn(url)
}

func (f *fakeLedger) ExecuteDirect(ctx context.Context, envelope any) (*ledger.SubmitResponse, error) {
	return f.executeFn(envelope)
}

// 一笔可验证的 SendTokens 待签名交易: 原始 JSON 对象和它的规范哈希。
func pendingTxFixture(t *testing.T) (rawHeader, rawBody map[string]any, txHash []byte) {
	t.Helper()
	rawHeader = map[string]any{"principal": "acc://alice.acme/tokens"}
	rawBody = map[string]any{
		"type": "sendTokens",
		"to": []any{
			map[string]any{"url": "acc://bob.acme/tokens", "amount": "100"},
		},
	}
	tx := &protocol.Transaction{
		Header: protocol.Header{Principal: protocol.MustParseURL("acc://alice.acme/tokens")},
		Body: &protocol.SendTokens{To: []*protocol.TokenRecipient{
			{Url: protocol.MustParseURL("acc://bob.acme/tokens"), Amount: big.NewInt(100)},
		}},
	}
	hash, err := protocol.TxHash(tx)
	require.NoError(t, err)
	return rawHeader, rawBody, hash
}

func newTestSigningService(t *testing.T, lc ledger.Querier, signerUrl string) (*SigningService, ed25519.PublicKey) {
	t.Helper()
	vault := keyvault.NewVault(keyvault.NewMemoryStore())

	// 0x01 不是 hex 字符, 会按裸字节种子处理
	seed := bytes.Repeat([]byte{0x01}, ed25519.SeedSize)
	require.NoError(t, vault.Store(signerUrl, seed))

	resolver := signer.NewResolver(lc, &signer.GenerationB{Vault: vault})
	return NewSigningService(lc, resolver), ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey)
}

func TestSignTransactionFullFlow(t *testing.T) {
	rawHeader, rawBody, txHash := pendingTxFixture(t)
	const signerUrl = "acc://alice.acme/book/1"

	var submitted any
	lc := &fakeLedger{
		queryFn: func(url string) (*ledger.QueryResponse, error) {
			assert.Equal(t, signerUrl, url)
			return &ledger.QueryResponse{
				Type: "keyPage",
				Data: map[string]any{"version": float64(5)},
			}, nil
		},
		queryTxFn: func(h string) (*ledger.TxResponse, error) {
			return &ledger.TxResponse{
				TxID:        h,
				Transaction: &ledger.RawTx{Header: rawHeader, Body: rawBody},
			}, nil
		},
		executeFn: func(envelope any) (*ledger.SubmitResponse, error) {
			submitted = envelope
			return &ledger.SubmitResponse{TxID: "accepted-txid", Hash: hex.EncodeToString(txHash)}, nil
		},
	}

	svc, pub := newTestSigningService(t, lc, signerUrl)
	res, err := svc.SignTransaction(context.Background(), hex.EncodeToString(txHash), signerUrl)
	require.NoError(t, err)

	// 签名携带签名时刻的版本号, 且能通过本地验签
	assert.Equal(t, uint64(5), res.Signature.SignerVersion)
	assert.Equal(t, []byte(pub), res.Signature.PublicKey)
	assert.True(t, res.Signature.Verify(txHash))
	assert.Equal(t, "accepted-txid", res.Submission.TxID)
	assert.NotNil(t, submitted, "信封应被提交")
	// 100 基础单位 = 0.000001 ACME (8 位精度)
	assert.Equal(t, "sendTokens: 0.000001 ACME -> acc://bob.acme/tokens", res.Summary)
}

func TestSignTransactionNoLocalKey(t *testing.T) {
	_, _, txHash := pendingTxFixture(t)

	lc := &fakeLedger{
		queryFn: func(url string) (*ledger.QueryResponse, error) {
			return &ledger.QueryResponse{Type: "keyPage", Data: map[string]any{"version": float64(1)}}, nil
		},
	}

	// 空 Vault: 本地没有这把钥匙
	vault := keyvault.NewVault(keyvault.NewMemoryStore())
	resolver := signer.NewResolver(lc, &signer.GenerationB{Vault: vault})
	svc := NewSigningService(lc, resolver)

	_, err := svc.SignTransaction(context.Background(), hex.EncodeToString(txHash), "acc://alice.acme/book/1")
	assert.ErrorIs(t, err, ErrNoLocalKeyMaterial)
}

func TestSignTransactionHashMismatch(t *testing.T) {
	rawHeader, rawBody, txHash := pendingTxFixture(t)
	const signerUrl = "acc://alice.acme/book/1"

	// 账本声称的哈希与交易内容对不上
	bad := append([]byte{}, txHash...)
	bad[0] ^= 0xFF

	lc := &fakeLedger{
		queryFn: func(url string) (*ledger.QueryResponse, error) {
			return &ledger.QueryResponse{Type: "keyPage", Data: map[string]any{"version": float64(1)}}, nil
		},
		queryTxFn: func(h string) (*ledger.TxResponse, error) {
			return &ledger.TxResponse{
				Transaction: &ledger.RawTx{Header: rawHeader, Body: rawBody},
			}, nil
		},
		executeFn: func(envelope any) (*ledger.SubmitResponse, error) {
			t.Fatal("哈希不一致时绝不能提交")
			return nil, nil
		},
	}

	svc, _ := newTestSigningService(t, lc, signerUrl)
	_, err := svc.SignTransaction(context.Background(), hex.EncodeToString(bad), signerUrl)
	assert.ErrorIs(t, err, protocol.ErrHashMismatch)
}

func TestSignTransactionSubmissionRejected(t *testing.T) {
	rawHeader, rawBody, txHash := pendingTxFixture(t)
	const signerUrl = "acc://alice.acme/book/1"

	lc := &fakeLedger{
		queryFn: func(url string) (*ledger.QueryResponse, error) {
			return &ledger.QueryResponse{Type: "keyPage", Data: map[string]any{"version": float64(2)}}, nil
		},
		queryTxFn: func(h string) (*ledger.TxResponse, error) {
			return &ledger.TxResponse{
				Transaction: &ledger.RawTx{Header: rawHeader, Body: rawBody},
			}, nil
		},
		executeFn: func(envelope any) (*ledger.SubmitResponse, error) {
			// 账本拒绝, 错误文本原样透传
			return nil, errors.Join(ledger.ErrSubmissionFailed, errors.New("insufficient credits"))
		},
	}

	svc, _ := newTestSigningService(t, lc, signerUrl)
	_, err := svc.SignTransaction(context.Background(), hex.EncodeToString(txHash), signerUrl)
	assert.ErrorIs(t, err, ledger.ErrSubmissionFailed)
	assert.Contains(t, err.Error(), "insufficient credits")
}

func TestSignTransactionUnsupportedPayload(t *testing.T) {
	const signerUrl = "acc://alice.acme/book/1"

	lc := &fakeLedger{
		queryFn: func(url string) (*ledger.QueryResponse, error) {
			return &ledger.QueryResponse{Type: "keyPage", Data: map[string]any{"version": float64(1)}}, nil
		},
		queryTxFn: func(h string) (*ledger.TxResponse, error) {
			return &ledger.TxResponse{
				Transaction: &ledger.RawTx{
					Header: map[string]any{"principal": "acc://alice.acme"},
					Body:   map[string]any{"type": "acmeFaucet"},
				},
			}, nil
		},
	}

	svc, _ := newTestSigningService(t, lc, signerUrl)
	_, err := svc.SignTransaction(context.Background(), hex.EncodeToString(bytes.Repeat([]byte{0xAA}, 32)), signerUrl)
	assert.ErrorIs(t, err, protocol.ErrUnsupportedPayloadType)
}
