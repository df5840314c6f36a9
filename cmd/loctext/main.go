package main

import "loctext/internal/cli"

func main() {
	cli.Execute()
}
