package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gt-go/internal/app"
	"gt-go/internal/config"
	"gt-go/internal/plant"

	"github.com/spf13/cobra"
)

// needsCareMarker is appended to listing lines of plants due today.
const needsCareMarker = " ⚠️"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := app.Hint(err); hint != "" {
			fmt.Fprintln(os.Stderr, hint)
		}
		os.Exit(1)
	}
}

// newApp reads the config and creates a GTApp. The caller must defer app.Close().
// operation identifies the CLI command being run, args its parameters.
func newApp(operation string, args []string) (*app.GTApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := defaults.LoadConfig()
	if err != nil {
		return nil, err
	}

	a, err := app.NewGTApp(cfg, operation, strings.Join(args, " "), app.EnvOrPromptPassphrase())
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// closeApp closes a and reports a failed final save unless the command
// already failed.
func closeApp(a *app.GTApp, err *error) {
	if cerr := a.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}

func parsePosition(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("position %q is not a number", s)
	}
	return n, nil
}

var rootCmd = &cobra.Command{
	Use:           "gt",
	Short:         "Plant care schedule tracker",
	SilenceUsage:  true,
	SilenceErrors: true,
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
		storageType, _ := cmd.Flags().GetString("storage")

		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults.BaseDir)
		cfg.Storage.Type = storageType
		if storageType == "sqlite" {
			cfg.DataFile = "plants.db"
		}

		if encrypt {
			cfg.Encryption.Type = "age"
			passphrase, err := app.ReadNewPassphrase()
			if err != nil {
				return err
			}
			if err := app.SetupEncryption(cfg, passphrase); err != nil {
				return err
			}
		}

		if err := config.Init(defaults.ConfigPath, cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults.ConfigPath)
		fmt.Printf("Base Dir:  %s\n", cfg.BaseDir)
		fmt.Printf("Data File: %s\n", cfg.DataLocator())
		if encrypt {
			fmt.Printf("Keys:      %s\n", cfg.Encryption.PublicKeyPath)
		}
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := defaults.LoadConfig()
		if err != nil {
			return err
		}

		encryption := cfg.Encryption.Type
		if encryption == "" {
			encryption = "off"
		}

		fmt.Printf("Configuration from %s:\n\n", defaults.ConfigPath)
		fmt.Printf("Base Dir:   %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:    %s\n", cfg.LogDir)
		fmt.Printf("Data File:  %s\n", cfg.DataLocator())
		fmt.Printf("Storage:    %s\n", cfg.Storage.Type)
		if cfg.Storage.S3 != nil {
			fmt.Printf("S3 Region:  %s\n", cfg.Storage.S3.Region)
		}
		fmt.Printf("Encryption: %s\n", encryption)
		return nil
	},
}

// add command
var addCmd = &cobra.Command{
	Use:   "add NAME WATER_DAYS FERTILIZE_DAYS",
	Short: "Add a plant, watered and fertilized today",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp("add", args)
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		p, err := a.AddPlant(args[0], args[1], args[2])
		if err != nil {
			return err
		}

		fmt.Printf("Added plant: %s\n", p.Name)
		return nil
	},
}

// list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List plants and their next care dates",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		term, _ := cmd.Flags().GetString("search")

		a, err := newApp("list", args)
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		entries := a.List(term)
		if len(entries) == 0 {
			fmt.Println("No plants found.")
			return nil
		}

		for _, e := range entries {
			line := fmt.Sprintf("%3d. %s", e.Position, e.Status)
			if e.NeedsCare {
				line += needsCareMarker
			}
			fmt.Println(line)
		}
		return nil
	},
}

// care command
var careCmd = &cobra.Command{
	Use:   "care POSITION water|fertilize|both",
	Short: "Record watering and/or fertilizing today",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		position, err := parsePosition(args[0])
		if err != nil {
			return err
		}

		a, err := newApp("care", args)
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		p, err := a.UpdateCare(position, args[1])
		if err != nil {
			return err
		}

		fmt.Printf("Updated care for %s\n", p.Name)
		fmt.Println(plant.StatusText(p))
		return nil
	},
}

// remove command
var removeCmd = &cobra.Command{
	Use:   "remove POSITION",
	Short: "Delete a plant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		yes, _ := cmd.Flags().GetBool("yes")

		position, err := parsePosition(args[0])
		if err != nil {
			return err
		}

		a, err := newApp("remove", args)
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		p, err := a.PlantAt(position)
		if err != nil {
			return err
		}

		if !yes {
			if !app.IsInteractive() {
				return fmt.Errorf("refusing to delete %q without confirmation: pass --yes", p.Name)
			}
			ok, err := app.Confirm(os.Stdin, os.Stdout, fmt.Sprintf("Are you sure you want to delete '%s'?", p.Name))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Nothing deleted.")
				return nil
			}
		}

		removed, err := a.RemovePlant(position)
		if err != nil {
			return err
		}

		fmt.Printf("Deleted plant: %s\n", removed.Name)
		return nil
	},
}

// reminders command
var remindersCmd = &cobra.Command{
	Use:   "reminders",
	Short: "Show plants that need care today",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp("reminders", args)
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		fmt.Println(a.Reminders())
		return nil
	},
}

// save command
var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Write the plant list to another file or s3://bucket/key",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		to, _ := cmd.Flags().GetString("to")

		a, err := newApp("save", []string{to})
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		if err := a.SaveAs(to); err != nil {
			return err
		}

		fmt.Printf("Data saved to %s\n", to)
		return nil
	},
}

// load command
var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Replace the plant list with one from another file or s3://bucket/key",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		from, _ := cmd.Flags().GetString("from")

		a, err := newApp("load", []string{from})
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		n, err := a.Import(from)
		if err != nil {
			return err
		}

		fmt.Printf("Loaded %d plant(s) from %s into %s\n", n, from, a.DataLocator())
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configInitCmd.Flags().Bool("encrypt", false, "Encrypt the data file with a new age key pair")
	configInitCmd.Flags().String("storage", "json", "Storage type: json or sqlite")

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringP("search", "s", "", "Only show plants whose name contains this text")
	rootCmd.AddCommand(careCmd)
	rootCmd.AddCommand(removeCmd)
	removeCmd.Flags().BoolP("yes", "y", false, "Delete without asking for confirmation")
	rootCmd.AddCommand(remindersCmd)
	rootCmd.AddCommand(saveCmd)
	saveCmd.Flags().String("to", "", "Destination file path or s3://bucket/key")
	saveCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(loadCmd)
	loadCmd.Flags().String("from", "", "Source file path or s3://bucket/key")
	loadCmd.MarkFlagRequired("from")
}
