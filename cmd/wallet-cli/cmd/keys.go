package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "本地密钥管理",
}

var keysNewCmd = &cobra.Command{
	Use:   "new",
	Short: "生成新助记词并导入本地密钥库",
	Run: func(cmd *cobra.Command, args []string) {
		app, err := buildApp(false)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		defer app.Close()

		mnemonic, liteUrl, err := app.Keys.GenerateKey()
		if err != nil {
			fmt.Println("生成失败:", err)
			os.Exit(1)
		}

		fmt.Println("\n================ 新钱包已生成 ================")
		fmt.Printf("助记词:       %s\n", mnemonic)
		fmt.Printf("Lite 身份:    %s\n", liteUrl)
		fmt.Println("==============================================")
		fmt.Println("⚠️  请立即抄写助记词并离线保存, 它不会再次显示。")
	},
}

var keysImportCmd = &cobra.Command{
	Use:   "import",
	Short: "从助记词导入密钥",
	Run: func(cmd *cobra.Command, args []string) {
		app, err := buildApp(false)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		defer app.Close()

		fmt.Print("请输入助记词: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("读取失败:", err)
			os.Exit(1)
		}
		mnemonic := strings.TrimSpace(line)

		liteUrl, err := app.Keys.ImportMnemonic(mnemonic)
		if err != nil {
			fmt.Println("导入失败:", err)
			os.Exit(1)
		}
		fmt.Printf("✅ 导入成功, Lite 身份: %s\n", liteUrl)
	},
}

var keysClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "清空本地全部密钥 (登出)",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print("该操作会删除本地所有密钥, 确认请输入 yes: ")
		reader := bufio.NewReader(os.Stdin)
		line, _ := reader.ReadString('\n')
		if strings.TrimSpace(line) != "yes" {
			fmt.Println("已取消")
			return
		}

		app, err := buildApp(true)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		defer app.Close()

		if err := app.Keys.ClearAllKeys(); err != nil {
			fmt.Println("清空失败:", err)
			os.Exit(1)
		}
		fmt.Println("✅ 本地密钥已全部清空")
	},
}

func init() {
	keysCmd.AddCommand(keysNewCmd)
	keysCmd.AddCommand(keysImportCmd)
	keysCmd.AddCommand(keysClearCmd)
	rootCmd.AddCommand(keysCmd)
}
