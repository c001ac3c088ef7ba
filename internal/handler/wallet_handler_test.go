package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"acc-wallet-core/internal/service"
	"acc-wallet-core/pkg/cache"
	"acc-wallet-core/pkg/errno"
	"acc-wallet-core/pkg/keyvault"
	"acc-wallet-core/pkg/protocol"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePending struct {
	hasPending bool
	probes     int
}

func (f *fakePending) FindPendingForPaths(ctx context.Context, paths []string, baseIdentity, userSignerUrl string) (*service.PendingResult, error) {
	return &service.PendingResult{}, nil
}

func (f *fakePending) HasPendingTransactions(ctx context.Context, paths []string) (bool, error) {
	f.probes++
	return f.hasPending, nil
}

func doPost(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCheckPendingBadgeCache(t *testing.T) {
	gin.SetMode(gin.TestMode)

	fp := &fakePending{hasPending: true}
	h := &WalletHandler{Pending: fp, Cache: cache.NewMemoryCache(time.Minute, 5*time.Minute)}

	r := gin.New()
	r.POST("/check", h.CheckPending)

	// 第一次: 真实探测
	w := doPost(t, r, "/check", map[string]any{"paths": []string{"acc://a.acme/book/1"}})
	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Code int `json:"code"`
		Data struct {
			HasPending bool `json:"has_pending"`
			Cached     bool `json:"cached"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 0, res.Code)
	assert.True(t, res.Data.HasPending)
	assert.False(t, res.Data.Cached)
	assert.Equal(t, 1, fp.probes)

	// 第二次: TTL 内命中缓存, 不再探测账本
	w = doPost(t, r, "/check", map[string]any{"paths": []string{"acc://a.acme/book/1"}})
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.Data.Cached)
	assert.Equal(t, 1, fp.probes)

	// 不同路径集合是不同的缓存键
	w = doPost(t, r, "/check", map[string]any{"paths": []string{"acc://b.acme/book/1"}})
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.False(t, res.Data.Cached)
	assert.Equal(t, 2, fp.probes)
}

func TestMapSigningError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want int
	}{
		{"哈希不一致", protocol.ErrHashMismatch, errno.ErrHashMismatch.Code},
		{"不支持的交易类型", protocol.ErrUnsupportedPayloadType, errno.ErrUnsupportedTx.Code},
		{"不支持的条目类型", protocol.ErrUnsupportedEntryType, errno.ErrUnsupportedTx.Code},
		{"本地无密钥", service.ErrNoLocalKeyMaterial, errno.ErrNoLocalKey.Code},
		{"解密失败", keyvault.ErrDecryptionFailed, errno.ErrDecryptionFailed.Code},
		{"主密码缺失", keyvault.ErrNoPassphrase, errno.ErrDecryptionFailed.Code},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := errno.Decode(mapSigningError(tt.in))
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", HealthCheck)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}
