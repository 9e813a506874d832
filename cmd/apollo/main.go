package main

import "github.com/mcoot/apollo/internal/cli"

func main() {
	cli.Execute()
}
