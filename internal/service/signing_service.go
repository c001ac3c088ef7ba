package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"acc-wallet-core/pkg/ledger"
	"acc-wallet-core/pkg/logger"
	"acc-wallet-core/pkg/monitor"
	"acc-wallet-core/pkg/protocol"
	"acc-wallet-core/pkg/signer"

	"go.uber.org/zap"
)

// ErrNoLocalKeyMaterial 本地两代存储都没有这个签名方的密钥。
// 这不是故障, 是"你不持有这把钥匙"的合法状态, 上层据此走对应的 UX 分支。
var ErrNoLocalKeyMaterial = errors.New("no local key material for signer")

// SigningService 把解析签名方、取交易、解码验哈希、签名、提交
// 串成一次完整的签名调用。除了提交这一次网络调用, 签名本身不改任何
// 本地状态; 交易记录的簿记由调用方通过外部持久层完成。
type SigningService struct {
	ledger   ledger.Querier
	resolver *signer.Resolver
}

var _ Signing = (*SigningService)(nil)

func NewSigningService(lc ledger.Querier, resolver *signer.Resolver) *SigningService {
	return &SigningService{ledger: lc, resolver: resolver}
}

// SignTransaction 签名并提交一笔待签名交易。
//
// 已知限制: 版本号查询和信封提交之间没有(也不可能有)跨设备的锁,
// 另一台设备在这个窗口里 bump 同一密钥页的版本会让本次签名被账本
// 拒绝 (stale version)。这是协议层固有的 TOCTOU, 客户端加锁挡不住,
// 是否重签由调用方决定 —— 本服务绝不自行重试。
func (s *SigningService) SignTransaction(ctx context.Context, txHash string, signerUrl string) (*SignResult, error) {
	u, err := protocol.ParseURL(signerUrl)
	if err != nil {
		return nil, err
	}
	expectedHash, err := hex.DecodeString(txHash)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction hash: %w", err)
	}

	// 1. 防重放版本: 签名前必须拿当前值, 不缓存
	info, err := s.resolver.Resolve(ctx, u)
	if err != nil {
		return nil, err
	}

	// 2. 本地密钥材料: A 代然后 B 代; 两代皆无走无签名方分支
	km, err := s.resolver.ResolveKeyMaterial(u)
	if err != nil {
		return nil, err
	}
	if km == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoLocalKeyMaterial, signerUrl)
	}
	priv, err := signer.NormalizeKey(km)
	if err != nil {
		return nil, err
	}
	defer km.Zero()
	defer func() {
		for i := range priv {
			priv[i] = 0
		}
	}()

	if len(info.PublicKey) == 0 {
		info.PublicKey = km.PublicKey
	}

	// 3. 取原始交易并解码 + 验哈希
	txres, err := s.ledger.QueryTx(ctx, txHash)
	if err != nil {
		return nil, err
	}
	timestamp := time.Now().UnixMicro()
	tx, err := protocol.DecodeTransaction(txres.Transaction.Header, txres.Transaction.Body, expectedHash, timestamp)
	if err != nil {
		return nil, err
	}

	// 4. 签名
	sig, err := protocol.SignTransaction(tx, info, priv, timestamp)
	if err != nil {
		return nil, err
	}
	monitor.Wallet.SignaturesTotal.WithLabelValues(tx.Body.Type().String()).Inc()

	// 5. 打包原始交易体提交, 账本错误原样透传
	env := protocol.BuildEnvelope(txres.Transaction.Header, txres.Transaction.Body, sig)
	sub, err := s.ledger.ExecuteDirect(ctx, env)
	if err != nil {
		monitor.Wallet.SubmissionsTotal.WithLabelValues("failed").Inc()
		logger.Error("envelope submission rejected",
			zap.String("tx", txHash),
			zap.String("signer", signerUrl),
			zap.Error(err))
		return nil, err
	}
	monitor.Wallet.SubmissionsTotal.WithLabelValues("ok").Inc()

	logger.Info("transaction signed and submitted",
		zap.String("tx", txHash),
		zap.String("signer", signerUrl),
		zap.Uint64("signer_version", info.Version),
		zap.String("type", tx.Body.Type().String()))

	return &SignResult{Signature: sig, Submission: sub, Summary: summarize(tx)}, nil
}

// summarize 刚签掉的内容的一行描述。金额换算只用于展示。
func summarize(tx *protocol.Transaction) string {
	switch b := tx.Body.(type) {
	case *protocol.SendTokens:
		parts := make([]string, 0, len(b.To))
		for _, to := range b.To {
			parts = append(parts, fmt.Sprintf("%s ACME -> %s",
				protocol.FormatAmount(to.Amount, protocol.ACMEPrecision), to.Url))
		}
		return "sendTokens: " + strings.Join(parts, ", ")
	case *protocol.AddCredits:
		return fmt.Sprintf("addCredits: %s ACME -> %s",
			protocol.FormatAmount(b.Amount, protocol.ACMEPrecision), b.Recipient)
	case *protocol.BurnTokens:
		return fmt.Sprintf("burnTokens: %s ACME",
			protocol.FormatAmount(b.Amount, protocol.ACMEPrecision))
	default:
		return tx.Body.Type().String() + " @ " + tx.Header.Principal.String()
	}
}
