package main

import (
	"github.com/strataview/strata/internal/cli/cmd"
)

func main() {
	cmd.Execute()
}
