// Command prdchat is a terminal client for the PRD planning service.
package main

import (
	"os"

	"github.com/tessro/prdchat/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
