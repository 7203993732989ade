package main

import (
	"github.com/robotalks/senselink/pkg/cli/sh"

	_ "github.com/robotalks/senselink/pkg/cli/cmds/codec"
)

//go-build: CGO_ENABLED=0

func main() {
	sh.Main()
}
