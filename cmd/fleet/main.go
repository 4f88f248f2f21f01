package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"fleet-go/internal/app"
	"fleet-go/internal/config"
	"fleet-go/internal/encryption"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates a FleetApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "VehicleAdd", "TripStart").
func newApp(operation string) (*app.FleetApp, error) {
	paths, err := app.DefaultPaths()
	if err != nil {
		return nil, err
	}

	cfg, err := config.ReadFromFile(paths.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewFleetApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// readPassword prompts on stderr and reads a line from the terminal without echo.
func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(b), nil
}

// readNewPassword prompts twice and returns both entries.
func readNewPassword(prompt string) (string, string, error) {
	password, err := readPassword(prompt)
	if err != nil {
		return "", "", err
	}
	confirm, err := readPassword("Confirm: ")
	if err != nil {
		return "", "", err
	}
	return password, confirm, nil
}

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

// parseDate accepts a date or a date and time in local time.
func parseDate(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(dateTimeLayout, s, time.Local); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD [HH:MM]", s)
	}
	return t, nil
}

var rootCmd = &cobra.Command{
	Use:          "fleet",
	Short:        "Fleet management console",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return app.LoadEnv()
	},
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		encrypt, _ := cmd.Flags().GetBool("encrypt")

		paths, err := app.DefaultPaths()
		if err != nil {
			return err
		}

		fleetID := uuid.New().String()
		cfg := config.NewConfig(fleetID, paths.BaseDir)

		if encrypt {
			cfg.Encryption.Type = "age"
			passphrase, confirm, err := readNewPassword("Backup passphrase: ")
			if err != nil {
				return err
			}
			if passphrase != confirm {
				return errors.New("passphrases do not match")
			}
			if err := app.SetupEncryption(cfg, passphrase); err != nil {
				return err
			}
		}

		if err := config.Init(paths.ConfigFile, cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", paths.ConfigFile)
		fmt.Printf("Fleet ID: %s\n", fleetID)
		fmt.Printf("Base Dir: %s\n", paths.BaseDir)
		if encrypt {
			pub, err := encryption.NewAgeEncryptor(cfg.Encryption).PublicKey()
			if err != nil {
				return err
			}
			fmt.Printf("Backup Key: %s\n", pub)
		}
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := app.DefaultPaths()
		if err != nil {
			return err
		}

		cfg, err := config.ReadFromFile(paths.ConfigFile)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", paths.ConfigFile)
		fmt.Printf("Fleet ID:       %s\n", cfg.FleetID)
		fmt.Printf("Base Dir:       %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:        %s\n", cfg.LogDir)
		fmt.Printf("Database:       %s\n", cfg.Database.Type)
		fmt.Printf("Encryption:     %s\n", cfg.Encryption.Type)
		fmt.Printf("Passwords:      %s\n", cfg.Auth.PasswordMode)
		fmt.Printf("Regulated City: %s (enforce: %t)\n", cfg.Rules.RegulatedCity, cfg.Rules.Enforce)
		fmt.Printf("Auto Backup:    %t\n", cfg.AutoBackup)
		for _, v := range cfg.Vaults {
			fmt.Printf("Vault:          %s (%s)\n", v.Name, v.Type)
		}
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View operation history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("History")
		if err != nil {
			return err
		}
		defer a.Close()

		ops, err := a.History(limit)
		if err != nil {
			return err
		}

		if len(ops) == 0 {
			fmt.Println("No operations recorded.")
			return nil
		}

		for _, op := range ops {
			duration := ""
			if op.FinishedAt != nil {
				duration = op.FinishedAt.Sub(op.StartedAt).Truncate(time.Millisecond).String()
			}
			fmt.Printf("#%d  %-20s  %s  %-10s  %-8s  %s\n",
				op.ID,
				op.Operation,
				op.StartedAt.Format("2006-01-02 15:04:05"),
				op.Status,
				duration,
				op.Parameters,
			)
		}
		return nil
	},
}

// backup command
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export a snapshot to the vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Backup")
		if err != nil {
			return err
		}
		defer a.Close()

		version, err := a.Backup()
		if err != nil {
			return fmt.Errorf("backup failed: %w", err)
		}

		fmt.Printf("Snapshot stored at version %d\n", version)
		return nil
	},
}

var backupStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Compare the vault snapshot with the local history",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("BackupStatus")
		if err != nil {
			return err
		}
		defer a.Close()

		info, local, ok, err := a.BackupStatus()
		if err != nil {
			return err
		}
		fmt.Printf("Local version:  %d\n", local)
		if !ok {
			fmt.Println("No snapshot in the vault.")
			return nil
		}
		fmt.Printf("Vault version:  %d (%d bytes, stored %s)\n", info.Version, info.Size, info.StoredAt.Local().Format("2006-01-02 15:04:05"))
		switch {
		case info.Version > local:
			fmt.Println("The vault is ahead; run 'fleet restore'.")
		case info.Version < local:
			fmt.Println("Local changes are not backed up; run 'fleet backup'.")
		}
		return nil
	},
}

// restore command
var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Replace every collection with the vault snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Restore")
		if err != nil {
			return err
		}
		defer a.Close()

		var passphrase string
		if a.NeedsPassphrase() {
			passphrase, err = readPassword("Backup passphrase: ")
			if err != nil {
				return err
			}
		}

		if err := a.Restore(passphrase); err != nil {
			return fmt.Errorf("restore failed: %w", err)
		}

		fmt.Println("Store restored from snapshot.")
		return nil
	},
}

// reset command
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Wipe every collection and reseed the admin driver",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return errors.New("reset deletes all fleet data; rerun with --yes")
		}

		a, err := newApp("Reset")
		if err != nil {
			return err
		}
		defer a.Close()

		keepCopy, _ := cmd.Flags().GetBool("keep-copy")
		if err := a.Reset(keepCopy); err != nil {
			return err
		}

		fmt.Println("Store reset. Log in as admin/admin.")
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().Bool("encrypt", false, "Encrypt backups with a passphrase-protected age key")
	configCmd.AddCommand(configListCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of operations to show")
	backupCmd.AddCommand(backupStatusCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
	resetCmd.Flags().Bool("keep-copy", false, "Copy the database to <fleet_id>.pre-reset.db before wiping it")
}
