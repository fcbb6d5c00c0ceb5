package main

import (
	"os"

	"github.com/mmcdole/youhub/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
