package main

import (
	"log"
	"os"

	"github.com/bitcoin-sv/p2p-wire/cmd/p2pwire/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		log.Fatalf("failed to run p2pwire: %v", err)
	}

	os.Exit(0)
}
