package main

import "github.com/mcoot/tetris-showcase/internal/cli"

func main() {
	cli.Execute()
}
