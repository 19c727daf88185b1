package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// apiClient talks to the tradeledger HTTP API.
type apiClient struct {
	baseURL string
	http    *http.Client
	out     io.Writer
}

func newRootCmd() *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
	)
	client := &apiClient{}

	rootCmd := &cobra.Command{
		Use:           "tradeledger-cli",
		Short:         "TradeLedger CLI tool",
		Long:          `A command line interface for interacting with the TradeLedger API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			client.baseURL = baseURL
			client.http = &http.Client{Timeout: timeout}
			client.out = cmd.OutOrStdout()
		},
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the TradeLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		accountCmd(client),
		tradeCmd(client, "buy", "Buy quantity of symbol at price"),
		tradeCmd(client, "sell", "Sell quantity of symbol at price, cheapest lots first"),
		ledgerCmd(client),
	)

	return rootCmd
}

func accountCmd(client *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}

	var limit, offset int
	transactions := &cobra.Command{
		Use:   "transactions <name>",
		Short: "List an account's trades, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			query.Set("limit", strconv.Itoa(limit))
			query.Set("offset", strconv.Itoa(offset))
			return client.do(cmd.Context(), http.MethodGet, accountPath(args[0], "transactions")+"?"+query.Encode(), nil)
		},
	}
	transactions.Flags().IntVar(&limit, "limit", 20, "Maximum number of records")
	transactions.Flags().IntVar(&offset, "offset", 0, "Number of records to skip")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "create <name>",
			Short: "Create an account with the starting balance",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return client.do(cmd.Context(), http.MethodPost, "/api/v1/accounts", map[string]string{"name": args[0]})
			},
		},
		&cobra.Command{
			Use:   "show <name>",
			Short: "Show an account and its balance",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return client.do(cmd.Context(), http.MethodGet, accountPath(args[0], ""), nil)
			},
		},
		&cobra.Command{
			Use:   "holdings <name>",
			Short: "List an account's open lots",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return client.do(cmd.Context(), http.MethodGet, accountPath(args[0], "holdings"), nil)
			},
		},
		transactions,
		&cobra.Command{
			Use:   "pnl <name>",
			Short: "Show per-symbol profit and loss",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return client.do(cmd.Context(), http.MethodGet, accountPath(args[0], "pnl"), nil)
			},
		},
		&cobra.Command{
			Use:   "reset <name>",
			Short: "Delete all lots and trades and restore the starting balance",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return client.do(cmd.Context(), http.MethodPost, accountPath(args[0], "reset"), nil)
			},
		},
	)

	return cmd
}

func tradeCmd(client *apiClient, side, short string) *cobra.Command {
	var idempotencyKey string

	cmd := &cobra.Command{
		Use:   side + " <account> <symbol> <price> <quantity>",
		Short: short,
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{
				"account":  args[0],
				"symbol":   args[1],
				"price":    args[2],
				"quantity": args[3],
			}
			return client.doWithKey(cmd.Context(), http.MethodPost, "/api/v1/trades/"+side, body, idempotencyKey)
		},
	}
	cmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency-Key header for safe retries")

	return cmd
}

func ledgerCmd(client *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		RunE: func(cmd *cobra.Command, args []string) error {
			return client.do(cmd.Context(), http.MethodGet, "/api/v1/ledger/consistency", nil)
		},
	})

	return cmd
}

func accountPath(name, suffix string) string {
	path := "/api/v1/accounts/" + url.PathEscape(name)
	if suffix != "" {
		path += "/" + suffix
	}
	return path
}

func (c *apiClient) do(ctx context.Context, method, path string, body any) error {
	return c.doWithKey(ctx, method, path, body, "")
}

// doWithKey sends the request and prints the JSON response. Non-2xx
// responses are printed too and reported as an error.
func (c *apiClient) doWithKey(ctx context.Context, method, path string, body any, idempotencyKey string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("unexpected response (status %d): %s", resp.StatusCode, truncate(string(raw), 200))
	}
	printJSON(c.out, decoded)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	return nil
}

func printJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
