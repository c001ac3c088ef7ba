package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"acc-wallet-core/internal/handler"
	"acc-wallet-core/internal/model"
	"acc-wallet-core/internal/server"
	"acc-wallet-core/internal/service"
	"acc-wallet-core/pkg/cache"
	"acc-wallet-core/pkg/config"
	"acc-wallet-core/pkg/database"
	"acc-wallet-core/pkg/keyvault"
	"acc-wallet-core/pkg/ledger"
	"acc-wallet-core/pkg/logger"
	"acc-wallet-core/pkg/signer"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// 0. 初始化 Config
	config.Init()

	// 1. 初始化 Logger
	logger.Init(config.Global.App.Env)
	defer logger.Sync()

	// 2. 连接数据库 (Generation-A 旧版密钥库)
	if err := database.Init(
		config.Global.DB.Host,
		config.Global.DB.Port,
		config.Global.DB.User,
		config.Global.DB.Password,
		config.Global.DB.Name,
	); err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	if err := model.AutoMigrate(database.DB); err != nil {
		logger.Fatal("建表失败", zap.Error(err))
	}

	// 3. Generation-B 安全存储
	secureStore, err := keyvault.OpenBoltStore(config.Global.Vault.SecureStorePath)
	if err != nil {
		logger.Fatal("打开安全存储失败", zap.Error(err))
	}
	defer secureStore.Close()

	vault := keyvault.NewVault(secureStore)
	if config.Global.Vault.Passphrase != "" {
		vault.SetMasterPassphrase(config.Global.Vault.Passphrase)
		logger.Info("主密码已从环境加载")
	}

	// 4. 账本节点
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	ledgerClient, err := ledger.Dial(ctx, config.Global.Ledger.RpcUrl)
	cancel()
	if err != nil {
		logger.Fatal("账本节点连接失败", zap.Error(err))
	}
	defer ledgerClient.Close()

	// 5. 组装签名核心: A 代在前, B 代在后 (固定优先级)
	legacyRepo := model.NewLegacyKeyRepo(database.DB)
	resolver := signer.NewResolver(ledgerClient,
		&signer.GenerationA{Store: legacyRepo, Vault: vault},
		&signer.GenerationB{Vault: vault},
	)

	signingService := service.NewSigningService(ledgerClient, resolver)
	pendingService := service.NewPendingService(ledgerClient)
	keyService := service.NewKeyService(vault, legacyRepo)

	// 6. 角标缓存: 有 Redis 用 Redis, 没有退化到进程内缓存
	var badgeCache cache.Cache
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.Global.Redis.Addr,
		Password: config.Global.Redis.Password,
		DB:       config.Global.Redis.DB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Warn("Redis 不可用, 角标缓存退化为内存缓存", zap.Error(err))
		badgeCache = cache.NewMemoryCache(time.Minute, 5*time.Minute)
	} else {
		badgeCache = cache.NewRedisCache(rdb)
		defer rdb.Close()
	}

	// 7. HTTP Router
	wh := &handler.WalletHandler{
		Signing: signingService,
		Pending: pendingService,
		Keys:    keyService,
		Cache:   badgeCache,
	}
	r := server.NewHTTPRouter(wh)

	srv := &http.Server{
		Addr:    ":" + config.Global.App.HttpPort,
		Handler: r,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("port", config.Global.App.HttpPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server 退出", zap.Error(err))
		}
	}()

	// 8. 优雅退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("收到退出信号, 正在关闭...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server 关闭失败", zap.Error(err))
	}

	if sqlDB, err := database.DB.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Info("系统已退出")
}
