package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dgterm/vtcore/internal/config"
)

func newRunCmd() *cobra.Command {
	var profileName string

	c := &cobra.Command{
		Use:   "run [-- <shell> [args...]]",
		Short: "Start a local shell session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			profile, err := cfg.Profile(profileName)
			if err != nil {
				return err
			}
			if len(args) > 0 {
				profile.Shell = args[0]
				profile.Args = args[1:]
			}
			if profile.Shell == "" {
				profile.Shell = os.Getenv("SHELL")
			}
			profile.SSHHost = nil

			channel, err := config.NewChannel(profile)
			if err != nil {
				return err
			}
			return runTerminal(profile, channel)
		},
	}

	c.Flags().StringVar(&profileName, "profile", "", "named profile from ~/.config/vtcore/config.yaml")
	return c
}
