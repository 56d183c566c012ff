package main

import "github.com/dsuarezv/bankledger/cmd/bankctl/commands"

func main() {
	commands.Execute()
}
