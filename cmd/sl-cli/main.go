package main

import "github.com/tuanvumaihuynh/store-ledger/cmd/sl-cli/commands"

func main() {
	commands.Execute()
}
