package cmd

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "对待签名交易签名并提交",
	Long: `按交易哈希取回待签名交易, 解码并校验内容哈希,
用本地密钥签名后把执行信封提交给账本。`,
	Run: func(cmd *cobra.Command, args []string) {
		txHash, _ := cmd.Flags().GetString("txid")
		signerUrl, _ := cmd.Flags().GetString("signer")

		app, err := buildApp(true)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		defer app.Close()

		// 主密码没从环境来就交互输入 (Generation-A 解密需要)
		if !app.Vault.HasMasterPassphrase() {
			fmt.Print("请输入主密码 (直接回车跳过, 只用新版密钥): ")
			bytePassword, err := term.ReadPassword(int(syscall.Stdin))
			fmt.Println()
			if err != nil {
				fmt.Println("读取密码失败:", err)
				os.Exit(1)
			}
			if len(bytePassword) > 0 {
				app.Vault.SetMasterPassphrase(string(bytePassword))
			}
		}

		fmt.Println("\n================ 待签名交易 ================")
		fmt.Printf("TxHash:  %s\n", txHash)
		fmt.Printf("Signer:  %s\n", signerUrl)
		fmt.Println("============================================")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		res, err := app.Signing.SignTransaction(ctx, txHash, signerUrl)
		if err != nil {
			fmt.Printf("签名失败: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("\n✅ 签名并提交成功")
		fmt.Printf("Content:        %s\n", res.Summary)
		fmt.Printf("Signature:      %s\n", hex.EncodeToString(res.Signature.Signature))
		fmt.Printf("SignerVersion:  %d\n", res.Signature.SignerVersion)
		fmt.Printf("Submission:     txid=%s hash=%s\n", res.Submission.TxID, res.Submission.Hash)
	},
}

func init() {
	signCmd.Flags().String("txid", "", "待签名交易的哈希 (hex)")
	signCmd.Flags().String("signer", "", "签名方 URL (密钥页或 lite 身份)")
	signCmd.MarkFlagRequired("txid")
	signCmd.MarkFlagRequired("signer")
	rootCmd.AddCommand(signCmd)
}
