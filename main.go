package main

import (
	"os"

	"github.com/danielmeppiel/vscode-mcp-installer/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
