// ABOUTME: Config subcommand for viewing and editing settings.
// ABOUTME: Writes the YAML file under the XDG config dir.

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harper/mobi/internal/config"
	"github.com/harper/mobi/internal/ui"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or change settings",
	Long: `View or change mobi settings.

Commands:
  show  - Print every setting and the config file path
  set   - Change one setting

Examples:
  mobi config show
  mobi config set attachments.subfolder_name media
  mobi config set attachments.subfolder_enabled false`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		faint := color.New(color.Faint).SprintFunc()

		fmt.Printf("%s %s\n", faint("File:"), config.ConfigPath())
		if !config.ConfigExists() {
			fmt.Println(faint("(not created yet, showing defaults and environment)"))
		}
		for _, key := range config.Keys() {
			value, err := cfg.Get(key)
			if err != nil {
				return err
			}
			fmt.Printf("  %-32s %s\n", key, value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Edit the file contents, not the environment-merged view.
		fileCfg, err := config.ReadConfigFile(config.ConfigPath())
		if err != nil {
			return err
		}
		if err := fileCfg.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := config.SaveConfig(fileCfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Println(ui.Success(fmt.Sprintf("Set %s = %s", args[0], args[1])))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
