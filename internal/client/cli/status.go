package cli

import (
	"context"
	"time"
)

func (c *Cli) runStatus(_ context.Context) error {
	c.io.Println("=== Authentication Status ===")
	c.io.Println()

	state := c.auth.State()

	if state.Err != nil {
		c.io.Printf("Warning: session restore failed: %v\n", state.Err)
		c.io.Println()
	}

	if !state.SignedIn() {
		c.io.Println("Status: Not authenticated")
		c.io.Println()
		c.io.Println("Run 'basekit login' to authenticate.")
		return nil
	}

	c.io.Println("Status: Authenticated")
	c.io.Printf("Email: %s\n", state.User.Email)
	c.io.Printf("User ID: %s\n", state.User.ID)

	if !state.Session.ExpiresAt.IsZero() {
		c.io.Printf("Token expires: %s\n", state.Session.ExpiresAt.Format(time.RFC3339))
		remaining := time.Until(state.Session.ExpiresAt)
		if remaining > 0 {
			c.io.Printf("Time remaining: %s\n", remaining.Round(time.Second))
		} else {
			c.io.Println("⚠️  Token has expired. Please login again.")
		}
	}

	return nil
}
