package main // Entry point package

import "github.com/iliyamo/restaurant-reservation/cmd/server/commands"

func main() {
	commands.Execute()
}
