package main

import "github.com/mcoot/sleuthgame-go/internal/cli"

func main() {
	cli.Execute()
}
