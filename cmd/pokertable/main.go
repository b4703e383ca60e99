package main

import (
	"github.com/pokertable/pokertable/internal/cli"
)

func main() {
	cli.Execute()
}
