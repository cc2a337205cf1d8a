package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"gtasksync/internal/backend/googletasks"
	"gtasksync/internal/exitcode"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct{}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Authenticate with Google" }
func (c *LoginCmd) Usage() string     { return "gtasksync login [common flags]" }
func (c *LoginCmd) NeedsStore() bool  { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LoginCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	cfg := env.Config

	if !cfg.HasOAuthClient() {
		fmt.Fprintf(errOut, "error: oauth_client.json not found in %s\n\n", cfg.Dir)
		fmt.Fprintf(errOut, oauthSetupText, cfg.Dir)
		return exitcode.AuthError
	}

	if cfg.HasToken() {
		err := googletasks.CheckToken(ctx, cfg)
		if err == nil {
			if !cfg.Quiet {
				fmt.Fprintln(out, "already logged in")
			}
			return exitcode.Success
		}
		env.Logger.Debug("stored token unusable", "error", err)
	}

	oauthConfig, err := googletasks.OAuthConfig(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	token, err := googletasks.Authorize(ctx, oauthConfig, errOut)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	if err := cfg.EnsureDir(); err != nil {
		fmt.Fprintf(errOut, "error: failed to create config directory: %v\n", err)
		return exitcode.AuthError
	}
	if err := googletasks.SaveToken(cfg.TokenPath(), token); err != nil {
		fmt.Fprintf(errOut, "error: failed to save token: %v\n", err)
		return exitcode.AuthError
	}

	env.Logger.Debug("saved token", "path", cfg.TokenPath())
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

const oauthSetupText = `To authenticate with Google Tasks, you need OAuth credentials:

1. Go to https://console.cloud.google.com/apis/credentials
2. Create a project (or select an existing one)
3. Enable the Google Tasks API:
   https://console.cloud.google.com/apis/library/tasks.googleapis.com
4. Create OAuth 2.0 credentials:
   - Click 'Create Credentials' > 'OAuth client ID'
   - Choose 'Desktop app' as application type
   - Download the JSON file
5. Save it as:
   %s/oauth_client.json

Then run 'gtasksync login' again.
`
