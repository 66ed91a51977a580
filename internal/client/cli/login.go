package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runLogin(ctx context.Context) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	c.io.Println()
	c.io.Println("Authenticating...")

	if err := c.auth.SignIn(ctx, email, password); err != nil {
		return err
	}

	state := c.auth.State()
	c.io.Println()
	c.io.Println("✓ Login successful!")
	if state.User != nil {
		c.io.Printf("Email: %s\n", state.User.Email)
	}
	c.io.Println("Your session has been saved.")
	return nil
}

func (c *Cli) runLoginGoogle(_ context.Context) error {
	url, err := c.auth.SignInWithOAuth("google")
	if err != nil {
		return err
	}

	c.io.Println("=== Login with Google ===")
	c.io.Println()
	c.io.Println("Open this URL in your browser to continue:")
	c.io.Println()
	c.io.Printf("  %s\n", url)
	c.io.Println()
	c.io.Println("After consenting you will be redirected to the app's callback.")
	return nil
}
