package main

import (
	"os"

	"github.com/sandeepkv93/tasklist/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
