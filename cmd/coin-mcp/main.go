package main

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/ironsheep/coin-tools-mcp/internal/imaging"
	"github.com/ironsheep/coin-tools-mcp/internal/pipeline"
	"github.com/ironsheep/coin-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("coin-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("coin-tools-mcp - MCP server that counts euro coins in a photo")
			fmt.Println()
			fmt.Println("Usage: coin-mcp [options]")
			fmt.Println("       coin-mcp count <image> [outdir]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Commands:")
			fmt.Println("  count            Run the pipeline once, print the value and optionally")
			fmt.Println("                   write marker.png, coins.png and labels.png to outdir")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  COIN_MCP_LOG_LEVEL=debug    Enable debug logging")
			fmt.Println("  COIN_MCP_CONFIG=<file>      YAML file overriding the tuning constants")
			fmt.Println()
			fmt.Println("Without a command the server communicates via MCP protocol over stdin/stdout.")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	debug := os.Getenv("COIN_MCP_LOG_LEVEL") == "debug"
	if debug {
		log.Printf("Coin MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	cfg := pipeline.DefaultConfig()
	if path := os.Getenv("COIN_MCP_CONFIG"); path != "" {
		var err error
		cfg, err = pipeline.LoadConfig(path)
		if err != nil {
			log.Fatalf("Config error: %v", err)
		}
		if debug {
			log.Printf("Loaded config from %s", path)
		}
	}

	p, err := pipeline.New(cfg, nil)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	if len(os.Args) > 1 && os.Args[1] == "count" {
		if len(os.Args) < 3 {
			log.Fatal("Usage: coin-mcp count <image> [outdir]")
		}
		outdir := ""
		if len(os.Args) > 3 {
			outdir = os.Args[3]
		}
		if err := runCount(p, os.Args[2], outdir); err != nil {
			log.Fatalf("Count error: %v", err)
		}
		return
	}

	srv := server.New(p)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// runCount runs the pipeline over one photo, prints the total and, when
// outdir is set, saves the intermediate grids there.
func runCount(p *pipeline.Pipeline, path, outdir string) error {
	img, err := imaging.DecodeFile(path)
	if err != nil {
		return err
	}
	rgb, err := imaging.FromImage(img)
	if err != nil {
		return err
	}

	res, err := p.Run(context.Background(), rgb)
	if err != nil {
		return err
	}
	fmt.Printf("%.2f €\n", res.Total)

	if outdir == "" {
		return nil
	}
	if err := os.MkdirAll(outdir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	labels, err := imaging.Overlay(rgb, res.Coins.Visualization(), 0.6)
	if err != nil {
		return err
	}
	outputs := []struct {
		name string
		img  image.Image
	}{
		{"marker.png", res.MarkerGrid.Image()},
		{"coins.png", res.CoinGrid.Image()},
		{"labels.png", imaging.Annotate(labels, res.Coins.IDAnnotations())},
	}
	for _, o := range outputs {
		f := filepath.Join(outdir, o.name)
		if err := imgio.Save(f, o.img, imgio.PNGEncoder()); err != nil {
			return fmt.Errorf("failed to write %s: %w", f, err)
		}
		log.Printf("wrote %s", f)
	}
	return nil
}
