package main

import (
	"fmt"
	"os"

	"github.com/riverrun-transit/gtfs-tripify/internal"
)

func main() {
	internal.InitLogging()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
