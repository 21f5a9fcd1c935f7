package main

import (
	"os"

	"github.com/Nao-Mk2/done-log-analyzer/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
