// ABOUTME: multiadmin is the command-line client for a multiadmin host
// ABOUTME: Lists the admin set and adds admins through the host's HTTP API

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2389/multiadmin/internal/client"
	"github.com/2389/multiadmin/internal/host"
)

const (
	defaultHostURL = "http://127.0.0.1:8080"
	requestTimeout = 30 * time.Second
)

var version = "dev"

var (
	hostURL string
	token   string
)

// rootCmd is the base command; subcommands talk to the host at --host.
var rootCmd = &cobra.Command{
	Use:           "multiadmin",
	Short:         "Manage the admin set of a multiadmin host",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// adminsCmd groups admin set operations.
var adminsCmd = &cobra.Command{
	Use:   "admins",
	Short: "List or add admins",
	Long: `The 'admins' command group reads and extends the admin set:
  - list shows every admin in stored order (no token needed)
  - add appends addresses; the token's sender must already be an admin`,
}

var adminsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all admins",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
		defer cancel()

		admins, err := newClient().ListAdmins(ctx)
		if err != nil {
			return fmt.Errorf("listing admins: %w", err)
		}
		printAdmins(cmd.OutOrStdout(), admins)
		return nil
	},
}

var adminsAddCmd = &cobra.Command{
	Use:   "add <address>...",
	Short: "Add one or more admins",
	Long: `Append addresses to the admin set. Duplicates are stored as given.
All addresses are validated before anything is written; one invalid
address rejects the whole call.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if token == "" {
			return fmt.Errorf("a token is required (--token or MULTIADMIN_TOKEN)")
		}

		addresses := make([]host.HumanAddr, len(args))
		for i, a := range args {
			addresses[i] = host.HumanAddr(a)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
		defer cancel()

		if _, err := newClient().AddAdmins(ctx, addresses); err != nil {
			return fmt.Errorf("adding admins: %w", err)
		}

		green := color.New(color.FgGreen)
		for _, a := range args {
			green.Fprint(cmd.OutOrStdout(), "✓ ")
			fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", a)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&hostURL, "host", envOr("MULTIADMIN_HOST", defaultHostURL), "host base URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("MULTIADMIN_TOKEN"), "bearer token for execute calls")

	adminsCmd.AddCommand(adminsListCmd, adminsAddCmd)
	rootCmd.AddCommand(adminsCmd)
}

func newClient() *client.Client {
	return client.New(hostURL, client.WithToken(token))
}

func printAdmins(w io.Writer, admins []host.HumanAddr) {
	if len(admins) == 0 {
		fmt.Fprintln(w, "No admins.")
		return
	}
	cyan := color.New(color.FgCyan)
	for i, a := range admins {
		fmt.Fprintf(w, "%3d  ", i+1)
		cyan.Fprintln(w, string(a))
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
		os.Exit(1)
	}
}
