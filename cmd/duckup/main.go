package main

import "duckup/internal/cli"

func main() {
	cli.Execute()
}
