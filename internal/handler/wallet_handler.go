package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"acc-wallet-core/internal/handler/request"
	"acc-wallet-core/internal/handler/response"
	"acc-wallet-core/internal/service"
	"acc-wallet-core/pkg/cache"
	"acc-wallet-core/pkg/errno"
	"acc-wallet-core/pkg/keyvault"
	"acc-wallet-core/pkg/ledger"
	"acc-wallet-core/pkg/protocol"
	"acc-wallet-core/pkg/signer"

	"github.com/gin-gonic/gin"
)

// WalletHandler 把签名核心暴露为 HTTP API。
type WalletHandler struct {
	Signing service.Signing
	Pending service.Pending
	Keys    *service.KeyService
	Cache   cache.Cache
}

// badgeTTL 角标缓存时长。核心本身不缓存 (每次发现都是全新查询),
// 缓存策略按约定归调用方 —— 这里 HTTP 层就是那个调用方。
const badgeTTL = 15 * time.Second

// Sign 签名并提交。
// POST /api/v1/wallet/sign
func (h *WalletHandler) Sign(c *gin.Context) {
	var req request.SignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}

	res, err := h.Signing.SignTransaction(c.Request.Context(), req.TxHash, req.SignerUrl)
	if err != nil {
		response.Error(c, mapSigningError(err))
		return
	}
	response.Success(c, res)
}

// FindPending 待签名交易发现。
// POST /api/v1/wallet/pending
func (h *WalletHandler) FindPending(c *gin.Context) {
	var req request.PendingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}

	res, err := h.Pending.FindPendingForPaths(c.Request.Context(), req.Paths, req.Identity, req.SignerUrl)
	if err != nil {
		response.Error(c, err)
		return
	}
	if req.Flatten {
		response.Success(c, gin.H{"count": res.Count, "items": service.Flatten(res)})
		return
	}
	response.Success(c, res)
}

// CheckPending 角标探测, 带短 TTL 缓存。
// POST /api/v1/wallet/pending/check
func (h *WalletHandler) CheckPending(c *gin.Context) {
	var req request.PendingCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}

	key := badgeCacheKey(req.Paths)
	var cached bool
	if h.Cache != nil && h.Cache.Get(c.Request.Context(), key, &cached) == nil {
		response.Success(c, gin.H{"has_pending": cached, "cached": true})
		return
	}

	has, err := h.Pending.HasPendingTransactions(c.Request.Context(), req.Paths)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.Cache != nil {
		_ = h.Cache.Set(c.Request.Context(), key, has, badgeTTL)
	}
	response.Success(c, gin.H{"has_pending": has, "cached": false})
}

// SetPassphrase 设置主密码 (解锁 Generation-A)。
// POST /api/v1/wallet/passphrase
func (h *WalletHandler) SetPassphrase(c *gin.Context) {
	var req request.PassphraseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}
	h.Keys.SetMasterPassphrase(req.Passphrase)
	response.Success(c, gin.H{"has_passphrase": true})
}

// ImportKey 导入助记词。
// POST /api/v1/wallet/keys/import
func (h *WalletHandler) ImportKey(c *gin.Context) {
	var req request.ImportKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}
	url, err := h.Keys.ImportMnemonic(req.Mnemonic)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"lite_identity": url})
}

// GenerateKey 生成新助记词并导入。
// POST /api/v1/wallet/keys/generate
func (h *WalletHandler) GenerateKey(c *gin.Context) {
	mnemonic, url, err := h.Keys.GenerateKey()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"mnemonic": mnemonic, "lite_identity": url})
}

// ClearKeys 登出/重置。
// DELETE /api/v1/wallet/keys
func (h *WalletHandler) ClearKeys(c *gin.Context) {
	if err := h.Keys.ClearAllKeys(); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// HealthCheck 探活。
// GET /health
func HealthCheck(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok"})
}

func badgeCacheKey(paths []string) string {
	h := sha256.Sum256([]byte(strings.Join(paths, "|")))
	return "wallet:pending_badge:" + hex.EncodeToString(h[:8])
}

// mapSigningError 把核心的哨兵错误翻译成对外的错误码。
// 账本拒绝时消息原样透传, 调用方靠它区分具体原因。
func mapSigningError(err error) error {
	switch {
	case errors.Is(err, protocol.ErrHashMismatch):
		return errno.ErrHashMismatch
	case errors.Is(err, protocol.ErrUnsupportedPayloadType),
		errors.Is(err, protocol.ErrUnsupportedEntryType):
		return errno.ErrUnsupportedTx
	case errors.Is(err, signer.ErrSignerNotFound):
		return errno.ErrSignerNotFound
	case errors.Is(err, service.ErrNoLocalKeyMaterial):
		return errno.ErrNoLocalKey
	case errors.Is(err, keyvault.ErrDecryptionFailed),
		errors.Is(err, keyvault.ErrNoPassphrase):
		return errno.ErrDecryptionFailed
	case errors.Is(err, ledger.ErrSubmissionFailed):
		return errno.Errno{Code: errno.ErrSubmissionFailed.Code, Message: err.Error()}
	default:
		return err
	}
}
