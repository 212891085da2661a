package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func OptionalStringFlag(cmd *cobra.Command, name string) (string, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return "", nil
	}
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return strings.TrimSpace(value), nil
}

func OptionalBoolFlag(cmd *cobra.Command, name string, fallback bool) (bool, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return fallback, nil
	}
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		return fallback, fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return value, nil
}

func OptionalIntFlag(cmd *cobra.Command, name string, fallback int) (int, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return fallback, nil
	}
	value, err := cmd.Flags().GetInt(name)
	if err != nil {
		return fallback, fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	if value <= 0 {
		return fallback, nil
	}
	return value, nil
}

// flagChanged reports whether the user set name explicitly.
func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return false
	}
	return cmd.Flags().Changed(name)
}
