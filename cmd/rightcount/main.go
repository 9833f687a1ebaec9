package main

import "github.com/emiliopalmerini/rightcount/internal/cli"

func main() {
	cli.Execute()
}
