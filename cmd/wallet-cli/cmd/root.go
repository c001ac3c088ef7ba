package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"acc-wallet-core/internal/model"
	"acc-wallet-core/internal/service"
	"acc-wallet-core/pkg/config"
	"acc-wallet-core/pkg/database"
	"acc-wallet-core/pkg/keyvault"
	"acc-wallet-core/pkg/ledger"
	"acc-wallet-core/pkg/logger"
	"acc-wallet-core/pkg/signer"

	"github.com/spf13/cobra"
)

// rootCmd 代表基础命令，没有子命令时直接调用
var rootCmd = &cobra.Command{
	Use:   "wallet-cli",
	Short: "Accumulate 钱包命令行工具",
	Long: `Accumulate 钱包签名核心的命令行入口。
支持生成/导入助记词、查看待签名交易、对待签名交易签名并提交。`,
}

// Execute 将所有子命令添加到根命令并设置标志
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// appContext CLI 一次调用用到的全部服务。
type appContext struct {
	Signing *service.SigningService
	Pending *service.PendingService
	Keys    *service.KeyService
	Vault   *keyvault.Vault

	cleanup []func()
}

func (a *appContext) Close() {
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		a.cleanup[i]()
	}
}

// buildApp 按配置组装签名核心。withLegacy 为 false 时跳过数据库
// (只用 Generation-B 的命令不需要连库)。
func buildApp(withLegacy bool) (*appContext, error) {
	config.Init()
	logger.Init(config.Global.App.Env)

	app := &appContext{}
	app.cleanup = append(app.cleanup, func() { logger.Sync() })

	secureStore, err := keyvault.OpenBoltStore(config.Global.Vault.SecureStorePath)
	if err != nil {
		return nil, fmt.Errorf("打开安全存储失败: %w", err)
	}
	app.cleanup = append(app.cleanup, func() { secureStore.Close() })

	app.Vault = keyvault.NewVault(secureStore)
	if config.Global.Vault.Passphrase != "" {
		app.Vault.SetMasterPassphrase(config.Global.Vault.Passphrase)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	ledgerClient, err := ledger.Dial(ctx, config.Global.Ledger.RpcUrl)
	if err != nil {
		return nil, fmt.Errorf("账本节点连接失败: %w", err)
	}
	app.cleanup = append(app.cleanup, ledgerClient.Close)

	var legacy signer.LegacyStore
	sources := []signer.KeySource{}
	if withLegacy {
		if err := database.Init(
			config.Global.DB.Host,
			config.Global.DB.Port,
			config.Global.DB.User,
			config.Global.DB.Password,
			config.Global.DB.Name,
		); err != nil {
			return nil, fmt.Errorf("数据库连接失败: %w", err)
		}
		if err := model.AutoMigrate(database.DB); err != nil {
			return nil, err
		}
		repo := model.NewLegacyKeyRepo(database.DB)
		legacy = repo
		sources = append(sources, &signer.GenerationA{Store: repo, Vault: app.Vault})
	}
	sources = append(sources, &signer.GenerationB{Vault: app.Vault})

	resolver := signer.NewResolver(ledgerClient, sources...)
	app.Signing = service.NewSigningService(ledgerClient, resolver)
	app.Pending = service.NewPendingService(ledgerClient)
	app.Keys = service.NewKeyService(app.Vault, legacy)
	return app, nil
}
