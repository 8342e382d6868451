package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var (
		password string
		server   string
	)

	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Sign in",
		Long: `Sign in on the server. The password is read from --password or,
if that is empty, from the first line of stdin.

Examples:
  hv login jane@example.com
  echo "$PW" | hv login jane@example.com`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(args[0], password, server, cmd.InOrStdin())
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "password (default: read from stdin)")
	cmd.Flags().StringVar(&server, "server", "", "server URL to use and remember")

	return cmd
}

func runLogin(email, password, serverFlag string, in io.Reader) error {
	if serverFlag != "" {
		// Load existing config to preserve other fields
		cfg, err := loadConfig()
		if err != nil {
			cfg = CLIConfig{}
		}
		cfg.ServerURL = serverFlag
		if err := saveConfig(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
	}

	if password == "" {
		var err error
		if password, err = readSecret(in); err != nil {
			return err
		}
	}

	s, err := newAPIClient().Login(email, password)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(s)
	}

	fmt.Printf("✓ Signed in as %s (%s)\n", s.Name, s.Role)
	return nil
}

// readSecret reads one line from in, prompting when it is a terminal.
func readSecret(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok {
		if fi, err := f.Stat(); err == nil && fi.Mode()&os.ModeCharDevice != 0 {
			fmt.Fprint(os.Stderr, "Password: ")
		}
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading input: %w", err)
	}

	secret := strings.TrimRight(line, "\r\n")
	if secret == "" {
		return "", fmt.Errorf("no password provided")
	}
	return secret, nil
}
