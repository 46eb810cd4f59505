package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/arm64x86/dbt/api"
	"github.com/arm64x86/dbt/config"
	"github.com/arm64x86/dbt/debugger"
	"github.com/arm64x86/dbt/internal/dispatch"
	"github.com/arm64x86/dbt/internal/guest"
)

// Version information, overridable at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		tuiMode     = flag.Bool("tui", false, "Start the interactive TUI debugger")
		apiServer   = flag.Bool("api-server", false, "Start HTTP API server mode")
		apiPort     = flag.Int("port", 8080, "API server port (used with -api-server)")
		maxBlocks   = flag.Uint64("max-blocks", 1_000_000, "Maximum translated blocks before halting a batch run")
		entryPoint  = flag.String("entry", "0x0", "Entry point guest address (hex, 0x prefix optional)")
		loadAddr    = flag.String("load-addr", "0x0", "Guest address the image's first byte is mapped to")
		configPath  = flag.String("config", "", "Path to a config.toml (default: platform config dir)")
		enableTrace = flag.Bool("trace", false, "Enable the execution trace sink")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("dbt %s (%s)\n", Version, Commit)
		os.Exit(0)
	}
	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *enableTrace {
		cfg.Trace.Enabled = true
	}

	d, err := dispatch.NewFromConfig(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dispatcher init: %v\n", err)
		os.Exit(1)
	}

	if *apiServer {
		runAPIServer(d, *apiPort)
		return
	}

	if flag.NArg() == 0 {
		printHelp()
		os.Exit(0)
	}

	imagePath := flag.Arg(0)
	data, err := os.ReadFile(imagePath) // #nosec G304 -- user-specified input file
	if err != nil {
		fmt.Fprintf(os.Stderr, "read image %s: %v\n", imagePath, err)
		os.Exit(1)
	}

	base, err := parseAddr(*loadAddr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad -load-addr: %v\n", err)
		os.Exit(1)
	}
	entry, err := parseAddr(*entryPoint)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad -entry: %v\n", err)
		os.Exit(1)
	}

	img := guest.NewImage(base, data)
	st := guest.New()
	st.PC = entry

	dbg := debugger.New(d, img, st)

	if *tuiMode {
		runTUI(dbg)
		return
	}

	runBatch(dbg, *maxBlocks)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

func parseAddr(s string) (uint64, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	return strconv.ParseUint(s, 16, 64)
}

func runBatch(dbg *debugger.Debugger, maxBlocks uint64) {
	reason, err := dbg.Continue(int(maxBlocks))
	if err != nil {
		fmt.Fprintf(os.Stderr, "execution error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("stopped: %s\n", reason)
	fmt.Print(dbg.GetOutput())
}

func runTUI(dbg *debugger.Debugger) {
	t := debugger.NewTUI(dbg)
	if err := t.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "tui error: %v\n", err)
		os.Exit(1)
	}
}

func runAPIServer(d *dispatch.Dispatcher, port int) {
	img := guest.NewImage(0, nil)
	st := guest.New()
	dbg := debugger.New(d, img, st)

	server := api.NewServer(port, dbg)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var shutdownOnce sync.Once
	performShutdown := func() {
		shutdownOnce.Do(func() {
			fmt.Println("\nshutting down api server...")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "shutdown error: %v\n", err)
				os.Exit(1)
			}
			os.Exit(0)
		})
	}

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "api server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-sigChan
	performShutdown()
}

func printHelp() {
	fmt.Println(`dbt - AArch64 to x86_64 dynamic binary translator

Usage:
  dbt [flags] <image>

Flags:`)
	flag.PrintDefaults()
}
