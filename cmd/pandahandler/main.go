package main

import "github.com/zkurtz/pandahandler/internal/cli"

func main() {
	cli.Execute()
}
