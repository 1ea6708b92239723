package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/ashureev/folio/internal/content"
	"github.com/ashureev/folio/internal/domain"
	"github.com/ashureev/folio/internal/store"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type options struct {
	dbPath   string
	seedPath string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "folioctl",
		Short:         "Manage the portfolio database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if err := godotenv.Load(); err != nil {
				slog.Debug("No .env file found")
			}
			if opts.dbPath == "" {
				opts.dbPath = envOr("DB_PATH", "./data/folio.db")
			}
			if opts.seedPath == "" {
				opts.seedPath = os.Getenv("SEED_PATH")
			}
		},
	}
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "database path (default $DB_PATH or ./data/folio.db)")
	root.PersistentFlags().StringVar(&opts.seedPath, "seed", "", "seed content file merged under stored data (default $SEED_PATH)")

	root.AddCommand(
		newExportCmd(opts),
		newImportCmd(opts),
		newResetCmd(opts),
		newSetCredentialsCmd(opts),
		newPromptCmd(opts),
	)
	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// withStore opens the database for the duration of fn. seed is the content
// stored data is merged over.
func withStore(opts *options, fn func(repo *store.SQLiteStore, seed *domain.Portfolio) error) error {
	seed, err := content.LoadSeed(opts.seedPath)
	if err != nil {
		return err
	}
	repo, err := store.NewSQLite(opts.dbPath, store.Options{Defaults: seed})
	if err != nil {
		return fmt.Errorf("open database %s: %w", opts.dbPath, err)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()
	return fn(repo, seed)
}

func newExportCmd(opts *options) *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the stored portfolio merged over the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(opts, func(repo *store.SQLiteStore, _ *domain.Portfolio) error {
				p, err := repo.GetPortfolio(cmd.Context())
				if err != nil {
					return err
				}
				if asYAML {
					out, err := content.EncodeYAML(p)
					if err != nil {
						return err
					}
					_, err = cmd.OutOrStdout().Write(out)
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(p)
			})
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print YAML instead of JSON")
	return cmd
}

func newImportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the stored portfolio with a JSON or YAML document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			// Sections missing from the file come from the seed, as they would on read.
			return withStore(opts, func(repo *store.SQLiteStore, seed *domain.Portfolio) error {
				p, err := content.DecodeOver(seed, args[0], data)
				if err != nil {
					return fmt.Errorf("decode %s: %w", args[0], err)
				}
				if err := repo.SavePortfolio(cmd.Context(), p); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d projects, %d experience entries\n",
					len(p.Projects), len(p.Experience))
				return nil
			})
		},
	}
}

func newResetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Remove stored content and uploaded images (credentials are kept)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(opts, func(repo *store.SQLiteStore, _ *domain.Portfolio) error {
				if err := repo.ResetPortfolio(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "portfolio reset")
				return nil
			})
		},
	}
}

func newSetCredentialsCmd(opts *options) *cobra.Command {
	var creds domain.Credentials
	cmd := &cobra.Command{
		Use:   "set-credentials",
		Short: "Replace the admin username and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if creds.Username == "" || creds.Password == "" {
				return errors.New("--username and --password must not be empty")
			}
			return withStore(opts, func(repo *store.SQLiteStore, _ *domain.Portfolio) error {
				if err := repo.SaveCredentials(cmd.Context(), &creds); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "credentials updated for %s\n", creds.Username)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&creds.Username, "username", "", "admin username")
	cmd.Flags().StringVar(&creds.Password, "password", "", "admin password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newPromptCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "prompt",
		Short: "Print the assistant system prompt built from stored content",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(opts, func(repo *store.SQLiteStore, _ *domain.Portfolio) error {
				p, err := repo.GetPortfolio(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), content.BuildSystemPrompt(p))
				return nil
			})
		},
	}
}
