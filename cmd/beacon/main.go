package main

import "github.com/Tap30/beacon-go/internal/cli"

func main() {
	cli.Execute()
}
