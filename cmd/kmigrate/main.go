package main

import (
	"os"

	"github.com/kentolin/korm-migrate/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:], nil))
}
