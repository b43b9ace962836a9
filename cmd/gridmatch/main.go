package main

import (
	"github.com/gridmatch/gridmatch/internal/cli"
)

func main() {
	cli.Execute()
}
