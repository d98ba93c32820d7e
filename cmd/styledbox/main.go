package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gompdf/styledbox"
)

func main() {
	var (
		inputFile  string
		outputFile string
		configFile string
		verbose    bool
	)

	flag.StringVar(&inputFile, "input", "", "Input markup file path")
	flag.StringVar(&outputFile, "output", "", "Output PDF file path")
	flag.StringVar(&configFile, "config", "", "Options file (TOML)")
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	flag.Parse()

	if inputFile == "" {
		fmt.Println("Error: input file is required")
		flag.Usage()
		os.Exit(1)
	}

	if outputFile == "" {
		ext := filepath.Ext(inputFile)
		outputFile = inputFile[:len(inputFile)-len(ext)] + ".pdf"
	}

	opts := styledbox.DefaultOptions()
	if configFile != "" {
		var err error
		if opts, err = styledbox.LoadOptions(configFile); err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if verbose {
		opts.Debug = true
	}

	converter := styledbox.NewWithOptions(opts)
	if err := converter.ConvertFile(inputFile, outputFile); err != nil {
		fmt.Printf("Error converting file: %v\n", err)
		os.Exit(1)
	}

	if verbose {
		fmt.Printf("Successfully converted %s to %s\n", inputFile, outputFile)
	}
}
