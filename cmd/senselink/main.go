package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"

	"github.com/robotalks/senselink/pkg/env"
	fx "github.com/robotalks/senselink/pkg/framework"
)

func init() {
	env.SetupFlags()
}

func main() {
	flag.Parse()

	e := env.NewConfig().MustNewEnv()
	defer e.Close()
	if err := fx.NewRunner().HandleSignals().Go(e).Wait(); err != nil {
		log.Println(err)
	}
}
