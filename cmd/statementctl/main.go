// Command statementctl extracts and ingests wallet statements from the command line.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/FACorreiaa/statement-ingest/internal/domain/categorization"
	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/dates"
	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/repository"
	"github.com/FACorreiaa/statement-ingest/internal/domain/statement/service"
	"github.com/FACorreiaa/statement-ingest/pkg/config"
	"github.com/FACorreiaa/statement-ingest/pkg/db"
	"github.com/FACorreiaa/statement-ingest/pkg/money"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

type globalOptions struct {
	yearPolicy string
	categorize bool
	verbose    bool
}

func (o *globalOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// service builds a statement service over repo. Extraction never touches the repository.
func (o *globalOptions) service(repo repository.ExpenseRepository, logger *slog.Logger) (*service.StatementService, error) {
	policy, err := dates.ParseYearPolicy(o.yearPolicy)
	if err != nil {
		return nil, err
	}
	svc := service.NewStatementService(repo, logger).
		WithResolver(dates.NewResolver(dates.WithYearPolicy(policy)))
	if o.categorize {
		svc.WithCategorizer(categorization.NewCategorizer(nil))
	}
	return svc, nil
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "statementctl",
		Short: "Extract and ingest GPay, PhonePe and Paytm statements",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.yearPolicy, "year-policy", "rollback", "year for dates without one: rollback or current")
	rootCmd.PersistentFlags().BoolVar(&opts.categorize, "categorize", false, "fill missing categories from merchant keywords")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging on stderr")

	rootCmd.AddCommand(
		newExtractCommand(opts),
		newIngestCommand(opts),
		newMigrateCommand(opts),
	)
	return rootCmd
}

func newExtractCommand(opts *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Print the debit transactions found in a statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading statement: %w", err)
			}

			svc, err := opts.service(nil, opts.logger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			ex, err := svc.Extract(cmd.Context(), data, filepath.Base(args[0]))
			if err != nil {
				return err
			}

			switch format {
			case "json":
				err = writeJSON(cmd.OutOrStdout(), ex)
			case "csv":
				err = writeCSV(cmd.OutOrStdout(), ex)
			default:
				return fmt.Errorf("unknown format %q, use json or csv", format)
			}
			if err != nil {
				return err
			}

			for _, w := range ex.Warnings {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d transactions, total %s\n", len(ex.Candidates), total(ex))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or csv")
	return cmd
}

func newIngestCommand(opts *globalOptions) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "Store the debit transactions of a statement for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading statement: %w", err)
			}

			logger := opts.logger(cmd.ErrOrStderr())
			database, err := openDatabase(logger)
			if err != nil {
				return err
			}
			defer database.Close()

			svc, err := opts.service(repository.NewPostgresExpenseRepository(database.Pool), logger)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			result, err := svc.ParseAndIngest(ctx, data, filepath.Base(args[0]), userID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "found %d, inserted %d, skipped %d\n", result.TotalFound, result.Inserted, result.Skipped)
			for _, w := range result.Warnings {
				fmt.Fprintln(out, "warning:", w)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id that owns the expenses (required)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newMigrateCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			database, err := openDatabase(opts.logger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer database.Close()
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

// openDatabase connects with the environment configuration and migrates the schema.
func openDatabase(logger *slog.Logger) (*db.DB, error) {
	cfg, err := config.LoadWithoutAuth()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	database, err := db.New(db.Config{DSN: cfg.Database.DSN()}, logger)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// csvRow is one exported transaction.
type csvRow struct {
	Date        string `csv:"date"`
	Amount      string `csv:"amount"`
	Description string `csv:"description"`
	Category    string `csv:"category"`
	Reference   string `csv:"reference"`
}

func writeCSV(w io.Writer, ex *service.Extraction) error {
	rows := make([]*csvRow, 0, len(ex.Candidates))
	for _, c := range ex.Candidates {
		rows = append(rows, &csvRow{
			Date:        c.Date.Format(time.DateOnly),
			Amount:      c.Amount.StringFixed(2),
			Description: c.Description,
			Category:    c.Category,
			Reference:   c.Reference,
		})
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

func writeJSON(w io.Writer, ex *service.Extraction) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ex); err != nil {
		return fmt.Errorf("writing json: %w", err)
	}
	return nil
}

func total(ex *service.Extraction) string {
	amounts := make([]decimal.Decimal, len(ex.Candidates))
	for i, c := range ex.Candidates {
		amounts[i] = c.Amount
	}
	return money.Sum(money.INR, amounts...).Display()
}
