package main

import "github.com/expunge-go/expunge/internal/cli"

func main() {
	cli.Execute()
}
