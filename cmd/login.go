package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/askanna-io/askanna-cli/internal/api"
	"github.com/askanna-io/askanna-cli/internal/output"
	"github.com/askanna-io/askanna-cli/internal/utils"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var errNoToken = errors.New("no token given, use --token or run in a terminal")

func newLoginCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "login [--token TOKEN]",
		Short: "Store an AskAnna API token",
		Long: `Validate an API token against AskAnna and save it in the config file.

Without --token the token is read from a hidden prompt.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := loadConfig()
			if err != nil {
				fail(err)
			}
			if token == "" {
				token, err = promptToken()
				if err != nil {
					fail(err)
				}
			}
			cfg.Auth.Token = token
			client := utils.NewAskAnnaHTTPClient(httpConfig(cfg))
			user, err := api.Me(context.Background(), client, api.Routes{Base: cfg.Remote()})
			if err != nil {
				fail(fmt.Errorf("login failed: %w", err))
			}
			if err := cfg.Save(resolveConfigPath()); err != nil {
				fail(err)
			}
			name := user.Name
			if name == "" {
				name = user.Email
			}
			output.PrintSuccess(fmt.Sprintf("Logged in as %s", name))
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "API token (prompted for when empty)")
	return cmd
}

func promptToken() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errNoToken
	}
	fmt.Print("Token: ")
	raw, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("error reading token: %v", err)
	}
	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", errNoToken
	}
	return token, nil
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored API token",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := loadConfig()
			if err != nil {
				fail(err)
			}
			cfg.Logout()
			if err := cfg.Save(resolveConfigPath()); err != nil {
				fail(err)
			}
			output.PrintSuccess("Logged out")
		},
	}
}
