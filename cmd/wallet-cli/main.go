package main

import "acc-wallet-core/cmd/wallet-cli/cmd"

func main() {
	cmd.Execute()
}
