package main

import "github.com/pie-flavor/yahtzee/internal/cli"

func main() {
	cli.Execute()
}
