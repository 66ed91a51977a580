// Package cli implements the terminal commands over the auth and
// profile synchronizers. Commands only prompt, validate, and print;
// all state logic lives in the synchronizers.
package cli

import (
	"context"
	"fmt"

	"basekit/internal/client/auth"
	"basekit/internal/client/iocli"
	"basekit/internal/client/profile"
)

type Cli struct {
	io      iocli.IO
	auth    auth.Service
	profile profile.Service
}

func New(io iocli.IO, authService auth.Service, profileService profile.Service) *Cli {
	return &Cli{
		io:      io,
		auth:    authService,
		profile: profileService,
	}
}

// Run dispatches one command. The caller is expected to have run
// auth.Bootstrap already.
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "signup":
		return c.runSignup(ctx)
	case "login":
		return c.runLogin(ctx)
	case "login-google":
		return c.runLoginGoogle(ctx)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "profile":
		return c.runProfile(ctx, args)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

func (c *Cli) PrintUsage() {
	c.io.Println("BaseKit Client")
	c.io.Println()
	c.io.Println("Usage:")
	c.io.Println("  basekit [OPTIONS] COMMAND")
	c.io.Println()
	c.io.Println("Options:")
	c.io.Println("  --version        Show version information")
	c.io.Println("  --server URL     Backend URL (default: http://localhost:8085)")
	c.io.Println("  --db PATH        Path to local database (default: basekit-client.db)")
	c.io.Println()
	c.io.Println("Commands:")
	c.io.Println("  signup                  Register a new account")
	c.io.Println("  login                   Sign in with email and password")
	c.io.Println("  login-google            Print the Google OAuth sign-in URL")
	c.io.Println("  logout                  Sign out and clear the local session")
	c.io.Println("  status                  Show authentication status")
	c.io.Println("  profile show            Show your profile")
	c.io.Println("  profile create          Create your profile")
	c.io.Println("  profile update          Update profile fields")
	c.io.Println("  profile watch           Follow live profile changes")
	c.io.Println()
	c.io.Println("Examples:")
	c.io.Println("  basekit signup")
	c.io.Println("  basekit login")
	c.io.Println("  basekit profile create")
	c.io.Println("  basekit --server https://api.example.com status")
}
