// Package main provides the epwrap command-line application.
package main

import (
	"log"
	"os"

	"github.com/energyplus-tools/epwrap/internal/cli"
)

func main() {
	app := cli.NewApp()

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
