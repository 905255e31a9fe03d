package main

import (
	"os"

	"github.com/funvibe/jsynth/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
