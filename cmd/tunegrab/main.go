package main

import "github.com/artur/tunegrab/internal/cli"

func main() {
	cli.Execute()
}
