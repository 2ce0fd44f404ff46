package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/spf13/cobra"

	"github.com/iho/societyledger/internal/adapter/http/dto"
	"github.com/iho/societyledger/internal/domain"
	"github.com/iho/societyledger/internal/infrastructure/auth"
	"github.com/iho/societyledger/internal/infrastructure/catalog"
)

// cliConfig holds environment defaults for the global flags.
type cliConfig struct {
	BaseURL string        `env:"LEDGER_URL"      envDefault:"http://localhost:8080"`
	Society string        `env:"DEFAULT_SOCIETY" envDefault:""`
	Token   string        `env:"LEDGER_TOKEN"    envDefault:""`
	Timeout time.Duration `env:"LEDGER_TIMEOUT"  envDefault:"10s"`
}

type options struct {
	baseURL string
	society string
	token   string
	timeout time.Duration
}

func main() {
	var cfg cliConfig
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg cliConfig) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "societyledger",
		Short:         "Society ledger CLI tool",
		Long:          `A command line interface for the society ledger API and its offline tools.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", cfg.BaseURL, "Base URL of the ledger API")
	rootCmd.PersistentFlags().StringVar(&opts.society, "society", cfg.Society, "Society to operate on")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", cfg.Token, "Bearer token for the API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", cfg.Timeout, "Request timeout")

	rootCmd.AddCommand(ledgerCmd(opts), statementCmd(opts), layoutCmd(), catalogCmd(), tokenCmd())
	return rootCmd
}

func ledgerCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger reports",
	}

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check that the society's vouchers close to zero",
		RunE: func(cmd *cobra.Command, args []string) error {
			var report dto.ConsistencyResponse
			status, err := opts.get(cmd.Context(), "ledger/consistency", &report, http.StatusConflict)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if status == http.StatusConflict {
				fmt.Fprintf(out, "Consistency check FAILED\nTotal: %s\n", report.Total)
				for _, id := range report.Incomplete {
					fmt.Fprintf(out, "Incomplete transaction: %s\n", id)
				}
				return fmt.Errorf("ledger of %s is inconsistent", opts.society)
			}

			fmt.Fprintf(out, "Consistency check PASSED\nTotal: %s\n", report.Total)
			return nil
		},
	}

	balanceSheetCmd := &cobra.Command{
		Use:   "balance-sheet",
		Short: "Print the balance sheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			var sheet dto.BalanceSheetResponse
			if _, err := opts.get(cmd.Context(), "ledger/balance-sheet", &sheet); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), sheet)
		},
	}

	incomeCmd := &cobra.Command{
		Use:   "income-expenditure",
		Short: "Print the income and expenditure report",
		RunE: func(cmd *cobra.Command, args []string) error {
			var report dto.IncomeExpenditureResponse
			if _, err := opts.get(cmd.Context(), "ledger/income-expenditure", &report); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}

	cmd.AddCommand(consistencyCmd, balanceSheetCmd, incomeCmd)
	return cmd
}

func statementCmd(opts *options) *cobra.Command {
	var wing, floor, flat string

	cmd := &cobra.Command{
		Use:   "statement",
		Short: "Print a flat's account statement",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("wings/%s/floors/%s/flats/%s/statement",
				url.PathEscape(wing), url.PathEscape(floor), url.PathEscape(flat))

			var st dto.StatementResponse
			if _, err := opts.get(cmd.Context(), path, &st); err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tKIND\tREFERENCE\tDESCRIPTION\tSTATUS\tAMOUNT")
			for _, l := range st.Lines {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
					l.Date.Format(dto.DateLayout), l.Kind, l.Reference, truncate(l.Description, 32), l.Status, l.Amount)
			}
			fmt.Fprintf(tw, "\t\t\t\tCredit\t%s\n", st.CreditBalance)
			fmt.Fprintf(tw, "\t\t\t\tDebit\t%s\n", st.DebitBalance)
			fmt.Fprintf(tw, "\t\t\t\tDue\t%s\n", st.TotalDue)
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&wing, "wing", "", "Wing name")
	cmd.Flags().StringVar(&floor, "floor", "", "Floor key as stored on the flat, e.g. \"1\" or \"G\"")
	cmd.Flags().StringVar(&flat, "flat", "", "Flat number")
	_ = cmd.MarkFlagRequired("wing")
	_ = cmd.MarkFlagRequired("floor")
	_ = cmd.MarkFlagRequired("flat")
	return cmd
}

func layoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Unit layout tools",
	}

	var floors, units, format string
	previewCmd := &cobra.Command{
		Use:   "preview",
		Short: "Generate a wing layout without contacting the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, err := domain.GenerateLayout(floors, units, format, domain.LayoutFormats)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Format: %s (%d flats)\n", layout.Format.Label, layout.FlatCount())
			for _, f := range layout.Floors {
				fmt.Fprintf(out, "%-10s %s\n", f.Label, strings.Join(f.Flats, " "))
			}
			return nil
		},
	}
	previewCmd.Flags().StringVar(&floors, "floors", "", "Total floors")
	previewCmd.Flags().StringVar(&units, "units", "", "Units per floor")
	previewCmd.Flags().StringVar(&format, "format", string(domain.LayoutFloorUnit), "Numbering format type or label")

	formatsCmd := &cobra.Command{
		Use:   "formats",
		Short: "List numbering formats",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd.OutOrStdout(), dto.FormatsFromDomain(domain.LayoutFormats))
		},
	}

	cmd.AddCommand(previewCmd, formatsCmd)
	return cmd
}

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Ledger group catalog tools",
	}

	var file string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Print a catalog as YAML, validating it on the way",
		Long:  "Prints the built-in catalog, or the file given with --file after validating it.",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog.Load(file)
			if err != nil {
				return err
			}
			return catalog.Encode(cmd.OutOrStdout(), c)
		},
	}
	exportCmd.Flags().StringVar(&file, "file", "", "Catalog file to validate and print")

	cmd.AddCommand(exportCmd)
	return cmd
}

func tokenCmd() *cobra.Command {
	var secret, userID, email, society, role string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return fmt.Errorf("--secret is required")
			}
			if !domain.Role(role).IsValid() {
				return fmt.Errorf("unknown role %q", role)
			}
			token, err := auth.NewJWTManager(secret, ttl).Generate(domain.Principal{
				ID:      userID,
				Email:   email,
				Society: society,
				Role:    domain.Role(role),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "Signing secret")
	cmd.Flags().StringVar(&userID, "user", "cli", "User ID")
	cmd.Flags().StringVar(&email, "email", "", "User email")
	cmd.Flags().StringVar(&society, "for-society", "", "Bind the token to one society; empty allows all")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleMember), "admin, treasurer or member")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}

// get fetches a society-scoped resource. Statuses listed in also are decoded like 200.
func (o *options) get(ctx context.Context, path string, v any, also ...int) (int, error) {
	if o.society == "" {
		return 0, fmt.Errorf("--society or DEFAULT_SOCIETY is required")
	}
	endpoint := fmt.Sprintf("%s/api/v1/societies/%s/%s", strings.TrimRight(o.baseURL, "/"), url.PathEscape(o.society), path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}
	if o.token != "" {
		req.Header.Set("Authorization", "Bearer "+o.token)
	}

	client := &http.Client{Timeout: o.timeout}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, err
	}

	accepted := resp.StatusCode == http.StatusOK
	for _, s := range also {
		accepted = accepted || resp.StatusCode == s
	}
	if !accepted {
		var apiErr dto.ErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return resp.StatusCode, fmt.Errorf("request failed (status %d): %s: %s", resp.StatusCode, apiErr.Error, apiErr.Message)
		}
		return resp.StatusCode, fmt.Errorf("request failed (status %d): %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, v); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to parse response: %w", err)
	}
	return resp.StatusCode, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
