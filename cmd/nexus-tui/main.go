package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/modhoard/nexus-downloader/internal/config"
	"github.com/modhoard/nexus-downloader/internal/logging"
	"github.com/modhoard/nexus-downloader/internal/tui"
)

func main() {
	var (
		keyFlag      = flag.String("key", "", "Path to your Nexus Mods API key file (default \"key.txt\")")
		manifestFlag = flag.String("wabbajack-json", "", "Path to a Wabbajack modlist JSON file (prefills the prompt)")
		filterFlag   = flag.String("filter", "", "Filter manifest results by a substring in the filename or game name")
		outputFlag   = flag.String("output", "", "Download directory (overrides config)")
		verboseFlag  = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Parse()

	logger := logging.New(*verboseFlag)
	defer logger.Sync()

	settings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *keyFlag != "" {
		settings.KeyPath = *keyFlag
	}
	if *outputFlag != "" {
		settings.DownloadDir = *outputFlag
	}

	apiKey, err := config.LoadAPIKey(settings.KeyPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		fmt.Fprintln(os.Stderr, "Exiting. Create the key file and paste your Nexus Mods API key inside.")
		os.Exit(0)
	}

	err = tui.Run(tui.Options{
		Settings:     settings,
		APIKey:       apiKey,
		ManifestPath: *manifestFlag,
		Filter:       *filterFlag,
		Logger:       logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
