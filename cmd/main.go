package main

import (
	"os"

	"eneagramas-site/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
