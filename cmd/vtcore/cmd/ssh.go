package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgterm/vtcore/internal/config"
)

func newSSHCmd() *cobra.Command {
	var profileName string
	var user string
	var port int
	var knownHosts string
	var identities []string

	c := &cobra.Command{
		Use:   "ssh <host>[:port]",
		Short: "Start a remote session over SSH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			host, hostPort, err := splitHostPort(args[0], port)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			profile, err := cfg.Profile(profileName)
			if err != nil {
				return err
			}
			profile.Shell = ""
			profile.SSHHost = &config.SSHHost{
				Host:            host,
				Port:            hostPort,
				User:            user,
				KnownHostsPath:  knownHosts,
				PrivateKeyPaths: identities,
			}

			channel, err := config.NewChannel(profile)
			if err != nil {
				return err
			}
			return runTerminal(profile, channel)
		},
	}

	c.Flags().StringVar(&profileName, "profile", "", "named profile from ~/.config/vtcore/config.yaml")
	c.Flags().StringVarP(&user, "user", "l", "", "remote user (defaults to $USER)")
	c.Flags().IntVarP(&port, "port", "p", 22, "remote port")
	c.Flags().StringVar(&knownHosts, "known-hosts", "", "known_hosts path (defaults to ~/.ssh/known_hosts)")
	c.Flags().StringArrayVarP(&identities, "identity", "i", nil, "private key path (repeatable)")
	return c
}

// splitHostPort parses "host" or "host:port", falling back to
// defaultPort when no port is given.
func splitHostPort(arg string, defaultPort int) (string, int, error) {
	if !strings.Contains(arg, ":") {
		return arg, defaultPort, nil
	}
	host, portStr, found := strings.Cut(arg, ":")
	if !found {
		return arg, defaultPort, nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid port in %q: %w", arg, err)
	}
	return host, port, nil
}
