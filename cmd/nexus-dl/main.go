package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/modhoard/nexus-downloader/internal/config"
	"github.com/modhoard/nexus-downloader/internal/download"
	"github.com/modhoard/nexus-downloader/internal/logging"
	"github.com/modhoard/nexus-downloader/internal/model"
)

// console owns stdin prompting and keeps progress lines from colliding
// with event output.
type console struct {
	reader         *bufio.Reader
	inProgressLine bool
}

func (c *console) prompt(label string) string {
	fmt.Print(label)
	line, _ := c.reader.ReadString('\n')
	return strings.TrimSpace(line)
}

// onBytes renders an in-place byte counter for the transfer in flight.
func (c *console) onBytes(written, total int64) {
	c.inProgressLine = true
	if total > 0 {
		fmt.Printf("\r  Downloading: %.2f / %.2f MB (%.1f%%)",
			mb(written), mb(total), float64(written)/float64(total)*100)
	} else {
		fmt.Printf("\r  Downloading: %.2f MB", mb(written))
	}
}

// printEvent prints a pipeline event, terminating any active progress
// line first.
func (c *console) printEvent(verbose bool) func(download.ProgressEvent) {
	return func(event download.ProgressEvent) {
		if event.Level == download.LevelVerbose && !verbose {
			return
		}
		if c.inProgressLine {
			fmt.Println()
			c.inProgressLine = false
		}
		fmt.Println(event.Message)
	}
}

func mb(n int64) float64 {
	return float64(n) / 1024 / 1024
}

func main() {
	var (
		keyFlag      = flag.String("key", "", "Path to your Nexus Mods API key file (default \"key.txt\")")
		manifestFlag = flag.String("wabbajack-json", "", "Path to a Wabbajack modlist JSON file for bulk download selection. If provided, manual input mode is skipped.")
		filterFlag   = flag.String("filter", "", "Filter manifest results by a substring in the filename or game name (case-insensitive). Only applies with -wabbajack-json.")
		outputFlag   = flag.String("output", "", "Download directory (overrides config)")
		verboseFlag  = flag.Bool("verbose", false, "Show verbose output and debug logging")
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
		// A missing key is guidance, not a crash: the run ends cleanly.
		fmt.Fprintf(os.Stderr, "%v\n", err)
		fmt.Fprintln(os.Stderr, "Exiting. Create the key file and paste your Nexus Mods API key inside.")
		os.Exit(0)
	}

	c := &console{reader: bufio.NewReader(os.Stdin)}
	manager := download.NewManager(settings, apiKey, logger, c.printEvent(*verboseFlag))

	absDir, _ := filepath.Abs(settings.DownloadDir)
	fmt.Println("--- Nexus Mods Downloader ---")
	fmt.Printf("Files will be saved to: %s\n", absDir)

	ctx := context.Background()

	if *manifestFlag != "" {
		runManifest(ctx, manager, c, *manifestFlag, *filterFlag)
		return
	}
	runManual(ctx, manager, c)
}

// runManifest drives manifest mode: extract, enumerate, then loop on
// selection until one item, "all", or quit.
func runManifest(ctx context.Context, manager *download.Manager, c *console, path, filter string) {
	fmt.Printf("\nParsing Wabbajack JSON: %s\n", path)

	if err := manager.LoadManifest(path, filter); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}

	requests := manager.Requests()
	if len(requests) == 0 {
		fmt.Println("No downloadable Nexus files found in the Wabbajack JSON matching the criteria. Exiting.")
		return
	}

	fmt.Println("\nFound the following downloadable Nexus files:")
	for i, req := range requests {
		fmt.Printf("  %d. %s (Game: %s, Mod ID: %d)\n", i+1, req.Filename, req.GameDomain, req.ModID)
	}

	for {
		selection := strings.ToLower(c.prompt("\nEnter the number of the file to download (or 'all', 'q' to quit): "))

		switch selection {
		case "q":
			fmt.Println("Exiting.")
			return

		case "all":
			fmt.Println("Downloading all detected files...")
			results := manager.DownloadAll(ctx, c.onBytes)
			summarize(results)
			return

		default:
			index, err := strconv.Atoi(selection)
			if err != nil || index < 1 || index > len(requests) {
				fmt.Printf("Invalid selection. Please enter a number between 1 and %d, 'all', or 'q'.\n", len(requests))
				continue
			}
			manager.DownloadOne(ctx, requests[index-1], c.onBytes)
			return
		}
	}
}

// runManual drives manual mode: prompt for one item and download it.
// Non-integer ids are a fatal input error.
func runManual(ctx context.Context, manager *download.Manager, c *console) {
	fmt.Println("\n--- Manual Download Mode ---")

	domain := c.prompt("Enter Nexus game domain (e.g. 'skyrimse'): ")
	modStr := c.prompt("Enter Nexus mod ID (e.g. '12345'): ")
	fileStr := c.prompt("Enter Nexus file ID (e.g. '67890'): ")
	filename := c.prompt("Enter desired local filename (e.g. 'MyAwesomeMod.zip'): ")

	modID, modErr := strconv.Atoi(modStr)
	fileID, fileErr := strconv.Atoi(fileStr)
	if modErr != nil || fileErr != nil {
		fmt.Fprintln(os.Stderr, "Error: mod ID and file ID must be integers.")
		os.Exit(1)
	}

	fmt.Println("\n--- Initiating Download ---")
	manager.DownloadOne(ctx, model.DownloadRequest{
		GameDomain: domain,
		ModID:      modID,
		FileID:     fileID,
		Filename:   filename,
	}, c.onBytes)
}

func summarize(results []download.Result) {
	var ok, failed int
	for _, result := range results {
		if result.OK() {
			ok++
		} else {
			failed++
		}
	}
	fmt.Printf("\nFinished: %d downloaded, %d failed.\n", ok, failed)
}
