package main

import "github.com/iliyamo/marketplace-backend/cmd/server/commands"

func main() {
	commands.Execute()
}
