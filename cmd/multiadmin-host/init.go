// ABOUTME: Interactive config file generation for multiadmin-host
// ABOUTME: Prompts for listener, database and logging settings and writes host.yaml

package main

import (
	"bufio"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/2389/multiadmin/internal/config"
)

func runInit() error {
	return initConfig(bufio.NewReader(os.Stdin), os.Stdout, getConfigPath(), getDataPath())
}

// initConfig asks for each setting on in and writes the resulting config.
func initConfig(in *bufio.Reader, out io.Writer, defaultConfigPath, dataPath string) error {
	fmt.Fprintln(out, "multiadmin-host configuration setup")
	fmt.Fprintln(out, "===================================")
	fmt.Fprintln(out)

	outputFile := prompt(in, out, "Config file path", defaultConfigPath)

	if _, err := os.Stat(outputFile); err == nil {
		overwrite := prompt(in, out, "File exists. Overwrite?", "no")
		if !isYes(overwrite) {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	fmt.Fprintln(out, "\n--- Server Configuration ---")
	httpAddr := prompt(in, out, "HTTP address", config.DefaultHTTPAddr)
	contract := prompt(in, out, "Contract address", config.DefaultContract)

	fmt.Fprintln(out, "\n--- Database Configuration ---")
	dbPath := prompt(in, out, "SQLite database path", filepath.Join(dataPath, "host.db"))
	driver := prompt(in, out, "Driver (sqlite/sqlite3)", config.DriverModernc)

	fmt.Fprintln(out, "\n--- Bootstrap ---")
	firstAdmin := prompt(in, out, "First admin address (empty to skip)", "")

	fmt.Fprintln(out, "\n--- Logging Configuration ---")
	logLevel := prompt(in, out, "Log level (debug/info/warn/error)", "info")
	logFormat := prompt(in, out, "Log format (text/json)", "text")

	secretBytes := make([]byte, 32)
	if _, err := rand.Read(secretBytes); err != nil {
		return fmt.Errorf("generating JWT secret: %w", err)
	}
	jwtSecret := base64.StdEncoding.EncodeToString(secretBytes)

	var cfg strings.Builder
	cfg.WriteString("# multiadmin-host configuration\n")
	cfg.WriteString("# Generated by multiadmin-host init\n\n")

	cfg.WriteString("server:\n")
	cfg.WriteString(fmt.Sprintf("  http_addr: %q\n", httpAddr))
	cfg.WriteString(fmt.Sprintf("  contract: %q\n", contract))
	cfg.WriteString("  shutdown_timeout: \"10s\"\n\n")

	cfg.WriteString("database:\n")
	cfg.WriteString(fmt.Sprintf("  path: %q\n", dbPath))
	cfg.WriteString(fmt.Sprintf("  driver: %q\n\n", driver))

	cfg.WriteString("auth:\n")
	cfg.WriteString(fmt.Sprintf("  jwt_secret: %q\n", jwtSecret))
	cfg.WriteString("  token_ttl: \"24h\"\n\n")

	cfg.WriteString("addresses:\n")
	cfg.WriteString(fmt.Sprintf("  canonical_length: %d\n\n", config.DefaultCanonicalLength))

	if firstAdmin != "" {
		cfg.WriteString("bootstrap:\n")
		cfg.WriteString("  admins:\n")
		cfg.WriteString(fmt.Sprintf("    - %q\n\n", firstAdmin))
	}

	cfg.WriteString("logging:\n")
	cfg.WriteString(fmt.Sprintf("  level: %q\n", logLevel))
	cfg.WriteString(fmt.Sprintf("  format: %q\n", logFormat))

	// Refuse to write something serve would reject.
	if _, err := config.Parse([]byte(cfg.String())); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(outputFile, []byte(cfg.String()), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	green := color.New(color.FgGreen)
	green.Fprint(out, "\n✓ ")
	fmt.Fprintf(out, "Config written to %s\n", outputFile)
	fmt.Fprintln(out, "\nTo start the host:")
	fmt.Fprintln(out, "  multiadmin-host serve")

	return nil
}

func prompt(reader *bufio.Reader, out io.Writer, question, defaultVal string) string {
	if defaultVal != "" {
		fmt.Fprintf(out, "%s [%s]: ", question, defaultVal)
	} else {
		fmt.Fprintf(out, "%s: ", question)
	}

	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		// On EOF or error, return default
		fmt.Fprintln(out)
		return defaultVal
	}
	input = strings.TrimSpace(input)

	if input == "" {
		return defaultVal
	}
	return input
}

func isYes(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "yes" || s == "y"
}
