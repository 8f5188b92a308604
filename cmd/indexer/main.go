package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chainsafe/transfer-indexer/pkg/app"
	"github.com/chainsafe/transfer-indexer/pkg/app/indexer"
	"github.com/chainsafe/transfer-indexer/pkg/config"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	watch := flag.Bool("watch", false, "Keep following the chain head after the initial scan")
	from := flag.Uint64("from", 0, "First block of an explicit scan range (requires -to)")
	to := flag.Uint64("to", 0, "Last block of an explicit scan range (requires -from)")
	decodeABI := flag.Bool("abi", false, "Decode logs through the Transfer event ABI")
	flag.Parse()

	opts := indexer.Options{Watch: *watch, DecodeABI: *decodeABI}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "from":
			opts.From = from
		case "to":
			opts.To = to
		}
	})

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	var runner app.Runner = indexer.NewServer(cfg, opts)
	if err := runner.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Indexer failed: %v\n", err)
		os.Exit(1)
	}
}
