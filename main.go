package main

import "github/arcwallet/wallet-core/cmd"

func main() {
	cmd.Execute()
}
