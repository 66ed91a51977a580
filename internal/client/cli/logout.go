package cli

import "context"

func (c *Cli) runLogout(ctx context.Context) error {
	c.io.Println("=== Logout ===")

	// Always ends signed out locally, even when the backend call fails.
	c.auth.SignOut(ctx)

	c.io.Println("✓ Logout successful!")
	c.io.Println("Your local session has been deleted.")
	return nil
}
