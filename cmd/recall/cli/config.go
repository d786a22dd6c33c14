package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/recall/internal/preferences"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		v, s, err := openVault()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := v.Set(key, value); err != nil {
			return fmt.Errorf("failed to set config: %w", err)
		}
		if !isKnown(key) {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s is not a recognized key\n", key)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved: %s\n", key)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Get a configuration value (secrets are masked)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, s, err := openVault()
		if err != nil {
			return err
		}
		defer s.Close()

		val, err := v.Display(args[0])
		if err != nil {
			return err
		}
		if val == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "(not set)")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), val)
		}
		return nil
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset [key]",
	Short: "Remove a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, s, err := openVault()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := v.Unset(args[0]); err != nil {
			return fmt.Errorf("failed to unset config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration removed: %s\n", args[0])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configuration values and defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, s, err := openVault()
		if err != nil {
			return err
		}
		defer s.Close()

		entries, err := s.ListConfig()
		if err != nil {
			return err
		}
		keys := map[string]bool{}
		for _, k := range preferences.Known {
			keys[k.Key] = true
		}
		for _, e := range entries {
			keys[e.Key] = true
		}
		sorted := make([]string, 0, len(keys))
		for k := range keys {
			sorted = append(sorted, k)
		}
		sort.Strings(sorted)

		out := cmd.OutOrStdout()
		for _, key := range sorted {
			val, err := v.Display(key)
			if err != nil {
				return err
			}
			desc, def := describe(key)
			if val == "" {
				val = "(not set)"
				if def != "" {
					val = def + " (default)"
				}
			}
			if desc != "" {
				val += "  # " + desc
			}
			fmt.Fprintf(out, "%-16s %s\n", key, val)
		}
		return nil
	},
}

func isKnown(key string) bool {
	for _, k := range preferences.Known {
		if k.Key == key {
			return true
		}
	}
	return false
}

// describe returns the description and default of a known key.
func describe(key string) (description, def string) {
	for _, k := range preferences.Known {
		if k.Key == key {
			return k.Description, k.Default
		}
	}
	return "", ""
}

func init() {
	RootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configUnsetCmd)
	configCmd.AddCommand(configListCmd)
}
