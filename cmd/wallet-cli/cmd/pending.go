package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"acc-wallet-core/internal/service"

	"github.com/spf13/cobra"
)

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "列出待签名交易",
	Long: `沿签名路径逐跳查询账本, 列出所有等待本方签名的交易。
路径格式: "acc://book/1" 或多跳 "acc://a/book/1 -> acc://b/book/2"。`,
	Run: func(cmd *cobra.Command, args []string) {
		paths, _ := cmd.Flags().GetStringArray("path")
		identity, _ := cmd.Flags().GetString("identity")
		signerUrl, _ := cmd.Flags().GetString("signer")

		app, err := buildApp(false)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		defer app.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		res, err := app.Pending.FindPendingForPaths(ctx, paths, identity, signerUrl)
		if err != nil {
			fmt.Println("查询失败:", err)
			os.Exit(1)
		}

		if res.Count == 0 {
			fmt.Println("没有待签名交易 ✅")
			return
		}

		fmt.Printf("共 %d 笔待签名交易:\n", res.Count)
		for _, row := range service.Flatten(res) {
			fmt.Printf("  [%s] txid=%v hash=%v signer=%v\n",
				row["type"], row["txid"], row["hash"], row["signer"])
		}
	},
}

func init() {
	pendingCmd.Flags().StringArray("path", nil, "签名路径, 可重复指定, 多跳用 \" -> \" 分隔")
	pendingCmd.Flags().String("identity", "", "身份 URL (路径为空时作为兜底)")
	pendingCmd.Flags().String("signer", "", "签名方 URL (路径为空时作为兜底)")
	rootCmd.AddCommand(pendingCmd)
}
