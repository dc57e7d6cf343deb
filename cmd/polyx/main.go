package main

import "github.com/emiliopalmerini/polymer-explorer/internal/cli"

func main() {
	cli.Execute()
}
