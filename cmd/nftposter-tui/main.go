package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/handiism/nftposter/internal/config"
	"github.com/handiism/nftposter/internal/tui"
)

func main() {
	configFlag := flag.String("config", "", "Path to config file (.json or .yaml)")
	flag.Parse()

	settings, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := tui.Run(settings); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
