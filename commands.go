package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"batterytext/internal/settings"
)

func openSettings(configPath string) (*settings.File, error) {
	conf, _, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	path, err := conf.SettingsPath()
	if err != nil {
		return nil, err
	}
	return settings.OpenFile(path)
}

func newGetCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "get [key]",
		Short: "Print a setting of the current user, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := settings.Keys()
			if len(args) == 1 {
				if !settings.Known(args[0]) {
					return fmt.Errorf("%w: %q", settings.ErrUnknownKey, args[0])
				}
				keys = args
			}

			store, err := openSettings(*configPath)
			if err != nil {
				return err
			}
			user := settings.CurrentUser{}.CurrentUserID()
			for _, key := range keys {
				def, err := settings.DefaultFor(key)
				if err != nil {
					return err
				}
				value := settings.FormatValue(key, store.Int(key, def, user))
				if len(args) == 1 {
					fmt.Fprintln(cmd.OutOrStdout(), value)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", key, value)
				}
			}
			return nil
		},
	}
}

func newSetCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store a setting for the current user",
		Long:  "Store a setting for the current user. Values are decimal integers, or colours written #RRGGBB or #AARRGGBB. A running batterytext picks the change up immediately.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			if !settings.Known(key) {
				return fmt.Errorf("%w: %q", settings.ErrUnknownKey, key)
			}
			value, err := settings.ParseValue(args[1])
			if err != nil {
				return err
			}

			store, err := openSettings(*configPath)
			if err != nil {
				return err
			}
			if err := store.Put(settings.CurrentUser{}.CurrentUserID(), key, value); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", key, settings.FormatValue(key, value))
			return nil
		},
	}
}
