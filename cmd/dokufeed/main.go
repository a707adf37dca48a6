package main

import (
	"github.com/codexfons/dokufeed/internal/cli"
)

func main() {
	cli.Execute()
}
