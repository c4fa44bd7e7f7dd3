// ABOUTME: Entry point for multiadmin-host, the reference host for the admin module
// ABOUTME: Serves execute/query over HTTP and provides bootstrap, token and init commands

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/2389/multiadmin/internal/auth"
	"github.com/2389/multiadmin/internal/config"
	"github.com/2389/multiadmin/internal/host"
	"github.com/2389/multiadmin/internal/server"
	"github.com/2389/multiadmin/internal/store"
)

// Version is set at build time.
var version = "dev"

const banner = `
                 _ _   _           _           _
 _ __ ___  _   _| | |_(_) __ _  __| |_ __ ___ (_)_ __
| '_ ' _ \| | | | | __| |/ _' |/ _' | '_ ' _ \| | '_ \
| | | | | | |_| | | |_| | (_| | (_| | | | | | | | | | |
|_| |_| |_|\__,_|_|\__|_|\__,_|\__,_|_| |_| |_|_|_| |_|
`

// getConfigPath returns the path to the host config file.
// Priority: MULTIADMIN_CONFIG env var > XDG_CONFIG_HOME/multiadmin/host.yaml > ~/.config/multiadmin/host.yaml
func getConfigPath() string {
	if envPath := os.Getenv("MULTIADMIN_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "host.yaml"
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "multiadmin", "host.yaml")
}

// getDataPath returns the multiadmin data directory.
// Priority: XDG_DATA_HOME/multiadmin > ~/.local/share/multiadmin
func getDataPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "data"
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	return filepath.Join(dataDir, "multiadmin")
}

func printUsage() {
	fmt.Println("Usage: multiadmin-host <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve                          Start the HTTP host")
	fmt.Println("  init                           Create a new config file interactively")
	fmt.Println("  bootstrap <address>...         Seed admins without an admin check")
	fmt.Println("  token --sender ADDR [--ttl D]  Issue a bearer token for a sender")
	fmt.Println("  version                        Print the version")
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "init":
		err = runInit()
	case "bootstrap":
		err = runBootstrap(ctx, os.Args[2:])
	case "token":
		err = runToken(os.Args[2:])
	case "version":
		fmt.Println(version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
		os.Exit(1)
	}
}

// openHost loads config and wires the store, address codec and verifier.
// The returned close function releases the store.
func openHost(cfg *config.Config) (*server.Host, func() error, error) {
	st, err := store.Open(cfg.Database.Driver, cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}

	verifier, err := auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret))
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	h, err := server.New(server.Config{
		Store:    st,
		Api:      host.MockApi{CanonicalLength: cfg.Addresses.CanonicalLength},
		Verifier: verifier,
		Contract: host.HumanAddr(cfg.Server.Contract),
		ChainID:  cfg.Server.ChainID,
		Logger:   slog.Default(),
	})
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	return h, st.Close, nil
}

func toHumanAddrs(addrs []string) []host.HumanAddr {
	out := make([]host.HumanAddr, len(addrs))
	for i, a := range addrs {
		out[i] = host.HumanAddr(a)
	}
	return out
}

func runServe(ctx context.Context) error {
	configPath := getConfigPath()

	cyan := color.New(color.FgCyan)
	cyan.Print(banner)
	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging)

	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	fmt.Printf("Config:    %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("HTTP:      %s\n", cfg.Server.HTTPAddr)
	green.Print("    ▶ ")
	fmt.Printf("Database:  %s (%s)\n", cfg.Database.Path, cfg.Database.Driver)
	green.Print("    ▶ ")
	fmt.Printf("Contract:  %s\n", cfg.Server.Contract)
	fmt.Println()

	h, closeStore, err := openHost(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("closing store", "error", err)
		}
	}()

	if _, err := h.Seed(ctx, toHumanAddrs(cfg.Bootstrap.Admins)); err != nil {
		return err
	}

	ln, err := net.Listen("tcp", cfg.Server.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listening on HTTP address: %w", err)
	}

	logger.Info("starting multiadmin-host",
		"config", configPath,
		"http_addr", cfg.Server.HTTPAddr,
		"contract", cfg.Server.Contract,
	)
	return h.Serve(ctx, ln, cfg.Server.ShutdownTimeout)
}

func runBootstrap(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: multiadmin-host bootstrap <address>...")
	}

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	setupLogger(cfg.Logging)

	h, closeStore, err := openHost(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := h.Bootstrap(ctx, toHumanAddrs(args)); err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	for _, a := range args {
		green.Print("✓ ")
		fmt.Printf("admin %s added to %s\n", a, cfg.Server.Contract)
	}
	return nil
}

func runToken(args []string) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	sender := fs.String("sender", "", "sender address the token authenticates")
	ttl := fs.Duration("ttl", 0, "token lifetime (defaults to auth.token_ttl)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *sender == "" {
		return fmt.Errorf("--sender is required")
	}

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	verifier, err := auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret))
	if err != nil {
		return err
	}

	lifetime := cfg.Auth.TokenTTL
	if *ttl > 0 {
		lifetime = *ttl
	}

	token, err := verifier.Generate(host.HumanAddr(*sender), lifetime)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "%s token for %s, expires %s\n",
		color.GreenString("✓"), *sender, time.Now().Add(lifetime).Format(time.RFC3339))
	fmt.Println(token)
	return nil
}
