package main

import (
	"os"

	"github.com/trimdiff/trimdiff/internal/cli"
)

func main() {
	code, _ := cli.Run(os.Args, nil)
	os.Exit(code)
}
