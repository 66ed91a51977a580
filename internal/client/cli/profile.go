package cli

import (
	"context"
	"fmt"

	"basekit/internal/client/profile"
	"basekit/internal/models"
	"basekit/internal/validation"
)

func (c *Cli) runProfile(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: basekit profile show|create|update|watch")
	}

	user, err := c.requireUser()
	if err != nil {
		return err
	}

	switch args[0] {
	case "show":
		return c.runProfileShow(ctx, user)
	case "create":
		return c.runProfileCreate(ctx, user)
	case "update":
		return c.runProfileUpdate(ctx, user)
	case "watch":
		return c.runProfileWatch(ctx, user)
	default:
		return fmt.Errorf("unknown profile subcommand: %s", args[0])
	}
}

func (c *Cli) requireUser() (*models.User, error) {
	state := c.auth.State()
	if !state.SignedIn() {
		return nil, fmt.Errorf("not authenticated. Please run 'basekit login' first")
	}
	return state.User, nil
}

func (c *Cli) runProfileShow(ctx context.Context, user *models.User) error {
	c.profile.SetUser(ctx, user.ID)
	state := c.profile.State()

	c.io.Println("=== Profile ===")
	c.io.Println()

	switch state.Phase {
	case profile.PhaseLoaded:
		c.printProfile(state.Profile)
		return nil
	case profile.PhaseEmpty:
		c.io.Println("No profile yet.")
		c.io.Println("Run 'basekit profile create' to set one up.")
		return nil
	case profile.PhaseErrored:
		return fmt.Errorf("failed to load profile: %w", state.Err)
	default:
		return fmt.Errorf("profile is still loading, try again")
	}
}

func (c *Cli) runProfileCreate(ctx context.Context, user *models.User) error {
	c.io.Println("=== Create Profile ===")
	c.io.Println()

	username, err := c.io.ReadInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}
	if err := validation.ValidateUsername(username); err != nil {
		return err
	}

	fields := models.ProfileFields{Username: &username}
	if err := c.promptOptionalFields(&fields); err != nil {
		return err
	}

	row, err := c.profile.CreateProfile(ctx, user.ID, fields)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Profile created!")
	c.printProfile(row)
	return nil
}

func (c *Cli) runProfileUpdate(ctx context.Context, user *models.User) error {
	c.io.Println("=== Update Profile ===")
	c.io.Println("Leave a field blank to keep its current value.")
	c.io.Println()

	var fields models.ProfileFields

	username, err := c.io.ReadInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}
	if username != "" {
		if err := validation.ValidateUsername(username); err != nil {
			return err
		}
		fields.Username = &username
	}

	if err := c.promptOptionalFields(&fields); err != nil {
		return err
	}

	row, err := c.profile.UpdateProfile(ctx, user.ID, fields)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Profile updated!")
	c.printProfile(row)
	return nil
}

// runProfileWatch follows live profile changes until ctx is cancelled.
func (c *Cli) runProfileWatch(ctx context.Context, user *models.User) error {
	c.io.Println("=== Watching Profile ===")
	c.io.Println("Press Ctrl+C to stop.")
	c.io.Println()

	sub := c.profile.OnChange(func(state profile.State) {
		switch state.Phase {
		case profile.PhaseLoaded:
			c.io.Println("--- profile changed ---")
			c.printProfile(state.Profile)
		case profile.PhaseEmpty:
			c.io.Println("--- profile removed ---")
		case profile.PhaseErrored:
			c.io.Printf("Error: %v\n", state.Err)
		}
	})
	defer sub.Unsubscribe()

	c.profile.SetUser(ctx, user.ID)

	<-ctx.Done()
	c.io.Println()
	c.io.Println("Stopped.")
	return nil
}

// promptOptionalFields reads the non-username profile fields, skipping
// blanks, and validates each entered value.
func (c *Cli) promptOptionalFields(fields *models.ProfileFields) error {
	prompts := []struct {
		label    string
		validate func(string) error
		dest     **string
	}{
		{"Display name: ", validation.ValidateDisplayName, &fields.DisplayName},
		{"Bio: ", validation.ValidateBio, &fields.Bio},
		{"Website: ", validation.ValidateWebsite, &fields.Website},
		{"Location: ", validation.ValidateLocation, &fields.Location},
	}

	for _, p := range prompts {
		value, err := c.io.ReadInput(p.label)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if value == "" {
			continue
		}
		if err := p.validate(value); err != nil {
			return err
		}
		v := value
		*p.dest = &v
	}
	return nil
}

func (c *Cli) printProfile(p *models.UserProfile) {
	c.io.Printf("Username:     %s\n", strOrDash(p.Username))
	c.io.Printf("Display name: %s\n", strOrDash(p.DisplayName))
	c.io.Printf("Bio:          %s\n", strOrDash(p.Bio))
	c.io.Printf("Website:      %s\n", strOrDash(p.Website))
	c.io.Printf("Location:     %s\n", strOrDash(p.Location))
}

func strOrDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
