package main

import (
	"fmt"
	"os"

	"github.com/dropDatabas3/rentreminder/internal/observability/logger"
)

// version se setea con -ldflags "-X main.version=..."
var version = "dev"

func main() {
	err := newRootCmd().Execute()
	logger.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
