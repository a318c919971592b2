package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/draw-labels-mcp/internal/imaging"
	"github.com/ironsheep/draw-labels-mcp/internal/label"
	"github.com/ironsheep/draw-labels-mcp/internal/palette"
	"github.com/ironsheep/draw-labels-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const usage = `label-mcp - MCP server for drawing oriented labels on images

Usage:
  label-mcp [serve]                      Run the MCP server on stdin/stdout
  label-mcp render -in IMG -labels FILE -out OUT [-order rgb|bgr]
                                         Draw a JSON label file onto an image

Options:
  --version, -v    Print version information
  --help, -h       Print this help message

Environment variables:
  LABEL_MCP_LOG_LEVEL=debug         Enable debug logging
  LABEL_MCP_CHANNEL_ORDER=rgb|bgr   Channel order of drawn colors (default rgb)

The label file is a JSON array of records:
  [{"points": [{"x": 100, "y": 200}, {"x": 300, "y": 200}], "text": "Wall"}]
Two points draw an edge label, three points a T label.
`

func main() {
	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatalf("Error: %v", err)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	cmd := "serve"
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "--version", "-v", "version":
		fmt.Fprintf(stdout, "label-mcp %s\n", Version)
		fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
		return nil
	case "--help", "-h", "help":
		fmt.Fprint(stdout, usage)
		return nil
	}

	cfg, err := configFromEnv()
	if err != nil {
		return err
	}

	switch cmd {
	case "serve":
		if os.Getenv("LABEL_MCP_LOG_LEVEL") == "debug" {
			log.Printf("Label MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		}
		return server.New(cfg).Run(ctx)
	case "render":
		return render(ctx, cfg, args)
	default:
		return fmt.Errorf("unknown command %q (run label-mcp --help)", cmd)
	}
}

// configFromEnv builds the default label configuration and applies the
// environment overrides.
func configFromEnv() (label.Config, error) {
	cfg := label.DefaultConfig()

	order, err := palette.ParseChannelOrder(os.Getenv("LABEL_MCP_CHANNEL_ORDER"))
	if err != nil {
		return cfg, fmt.Errorf("LABEL_MCP_CHANNEL_ORDER: %w", err)
	}
	cfg.Order = order

	if os.Getenv("LABEL_MCP_LOG_LEVEL") == "debug" {
		label.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	return cfg, nil
}

func render(ctx context.Context, cfg label.Config, args []string) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	in := fs.String("in", "", "input image path or URL")
	labelsPath := fs.String("labels", "", "JSON label file")
	out := fs.String("out", "", "output image path; format follows the extension")
	order := fs.String("order", "", "channel order override: rgb or bgr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *labelsPath == "" || *out == "" {
		fs.Usage()
		return errors.New("render needs -in, -labels and -out")
	}
	if *order != "" {
		o, err := palette.ParseChannelOrder(*order)
		if err != nil {
			return err
		}
		cfg.Order = o
	}

	data, err := os.ReadFile(*labelsPath)
	if err != nil {
		return fmt.Errorf("failed to read labels: %w", err)
	}
	labels, err := label.ParseRecords(data)
	if err != nil {
		return err
	}

	img, err := imaging.NewLoader().Load(ctx, *in)
	if err != nil {
		return err
	}
	if err := label.NewDrawer(cfg).DrawLabels(img, labels); err != nil {
		return err
	}
	if err := imaging.Save(img, *out); err != nil {
		return err
	}
	log.Printf("Drew %d labels to %s", len(labels), *out)
	return nil
}
