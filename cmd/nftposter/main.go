package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/handiism/nftposter/internal/config"
	"github.com/handiism/nftposter/internal/model"
	"github.com/handiism/nftposter/internal/poster"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Command line flags
	var (
		imageFlag    = flag.String("image", "", "Existing .jpg to draw on (skips image generation)")
		artistFlag   = flag.String("artist", "", "Artist or band name (concert)")
		matchFlag    = flag.String("match", "", "Match name (sports event)")
		dateFlag     = flag.String("date", "", "Event date, e.g. 12/05/2025")
		locationFlag = flag.String("location", "", "Event location, e.g. Texas")
		timeFlag     = flag.String("time", "night", "Time of day: day or night")
		eventsFlag   = flag.String("events", "", "JSON file with an array of events (batch mode)")
		mp3Flag      = flag.String("mp3", "", "MP3 file to embed the finished poster into")
		outputFlag   = flag.String("output", "", "Output directory (overrides config)")
		configFlag   = flag.String("config", "", "Path to config file (.json or .yaml)")
		verboseFlag  = flag.Bool("verbose", false, "Show verbose output")
		dryRunFlag   = flag.Bool("dry-run", false, "Print the planned files without generating anything")
	)

	flag.Parse()

	if *eventsFlag == "" && *artistFlag == "" && *matchFlag == "" {
		fmt.Println("nftposter - Generate promotional event posters")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  nftposter -artist <name> -date <date> -location <place> [options]")
		fmt.Println("  nftposter -match <name> -date <date> -location <place> [options]")
		fmt.Println("  nftposter -image poster.jpg -artist <name> -date <date> -location <place>")
		fmt.Println("  nftposter -events events.json [options]")
		fmt.Println()
		fmt.Println("For interactive mode, use: nftposter-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load config
	settings, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Apply flags
	if *outputFlag != "" {
		settings.OutputDir = *outputFlag
	}

	logger, err := newLogger(*verboseFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Collect events
	var events []model.Event
	if *eventsFlag != "" {
		events, err = poster.LoadEvents(*eventsFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading events: %v\n", err)
			os.Exit(1)
		}
	} else {
		events = []model.Event{{
			Artist:    *artistFlag,
			Match:     *matchFlag,
			Date:      *dateFlag,
			Location:  *locationFlag,
			TimeOfDay: *timeFlag,
			ImagePath: *imageFlag,
			MP3Path:   *mp3Flag,
		}}
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	// Create manager with progress callback
	manager, err := poster.Build(settings, logger, func(event poster.ProgressEvent) {
		if event.Level == poster.LevelVerbose && !*verboseFlag {
			return
		}

		prefix := ""
		switch event.Level {
		case poster.LevelError:
			prefix = "✗ "
		case poster.LevelWarning:
			prefix = "! "
		case poster.LevelSuccess:
			prefix = "✓ "
		case poster.LevelInfo:
			prefix = "› "
		default:
			prefix = "  "
		}

		fmt.Println(prefix + event.Message)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("NFT Poster")
	fmt.Println("────────────────────────────────────────")
	fmt.Println()

	if err := manager.Initialize(events); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing: %v\n", err)
		os.Exit(1)
	}

	if *dryRunFlag {
		fmt.Println("\n[Dry run - not generating]")
		for i, name := range manager.GetEventNames() {
			fmt.Printf("  %s -> %s\n", name, manager.Plan()[i])
		}
		return
	}

	results, err := manager.Run(ctx)
	if err != nil && ctx.Err() != nil {
		fmt.Println("\nGeneration cancelled.")
		os.Exit(130)
	}

	done, failed, total := manager.GetProgress()
	fmt.Println()
	fmt.Println("────────────────────────────────────────")
	fmt.Printf("Complete! %d/%d posters written\n", done-failed, total)
	for _, r := range results {
		if r.Err == nil {
			fmt.Println("  " + r.PosterPath)
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}

// newLogger returns a development logger when verbose, and a console
// logger limited to warnings otherwise.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}

	zapConfig := zap.NewProductionConfig()
	zapConfig.Encoding = "console"
	zapConfig.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.DisableStacktrace = true
	return zapConfig.Build()
}
