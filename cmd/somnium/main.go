package main

import (
	"github.com/somnium-cli/somnium/internal/cli"
	"github.com/somnium-cli/somnium/internal/util"
)

func main() {
	if err := cli.Execute(); err != nil {
		util.HandleError(err, "")
	}
}
