package main

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/desertthunder/taskly/internal/auth"
	"github.com/desertthunder/taskly/internal/models"
	"github.com/desertthunder/taskly/internal/shared"
	"github.com/urfave/cli/v3"
)

// Sign-in methods offered when the TUI starts signed out.
const (
	methodPassword = "password"
	methodRegister = "register"
	methodGoogle   = "google"
)

// AuthLogin signs in with email and password.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email, password, err := r.credentials(cmd, "Sign in")
	if err != nil {
		return err
	}

	session, err := r.authSession(ctx)
	if err != nil {
		return err
	}

	user, err := session.SignIn(ctx, email, password)
	return r.reportSignIn(user, err, auth.MsgSignedIn, "Sign-in failed")
}

// AuthRegister creates an email/password account and signs it in.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	email, password, err := r.credentials(cmd, "Create account")
	if err != nil {
		return err
	}

	session, err := r.authSession(ctx)
	if err != nil {
		return err
	}

	user, err := session.SignUp(ctx, email, password)
	return r.reportSignIn(user, err, auth.MsgRegistered, "Registration failed")
}

// AuthGoogle signs in through Google's consent page in the browser.
func (r *Runner) AuthGoogle(ctx context.Context, cmd *cli.Command) error {
	session, err := r.authSession(ctx)
	if err != nil {
		return err
	}

	r.writePlain("Waiting for Google sign-in in your browser...\n")
	user, err := session.SignInWithGoogle(ctx)
	return r.reportSignIn(user, err, auth.MsgSignedIn, "Google sign-in failed")
}

// AuthLogout signs out and deletes the saved session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	session, err := r.authSession(ctx)
	if err != nil {
		return err
	}

	if err := session.SignOut(ctx); err != nil {
		r.writePlain("✗ %s\n", auth.FailureMessage("Sign-out failed", err))
		return err
	}
	return r.writePlain("✓ %s\n", auth.MsgSignedOut)
}

// AuthStatus reports the signed-in user.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	session, err := r.authSession(ctx)
	if err != nil {
		return err
	}

	user, err := session.Restore(ctx)
	if err != nil && !errors.Is(err, shared.ErrNotAuthenticated) {
		return fmt.Errorf("failed to restore session: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{"authenticated": user != nil, "user": user}, true)
	}

	if user == nil {
		return r.writePlain("Authentication: ✗ Not signed in\n")
	}
	r.writePlain("Authentication: ✓ Signed in\n")
	r.writePlain("User: %s\n", user.Name())
	return r.writePlain("Email: %s\n", user.Email)
}

func (r *Runner) reportSignIn(user *models.User, err error, success, prefix string) error {
	if err != nil {
		r.logger.Debug("sign-in failed", "error", err)
		r.writePlain("✗ %s\n", auth.FailureMessage(prefix, err))
		return err
	}

	r.writePlain("✓ %s\n", success)
	return r.writePlain("Welcome, %s!\n", user.Name())
}

// credentials reads --email and --password, prompting for whichever is missing.
func (r *Runner) credentials(cmd *cli.Command, title string) (string, string, error) {
	email := strings.TrimSpace(cmd.String("email"))
	password := cmd.String("password")

	if email == "" || password == "" {
		if err := credentialsForm(title, &email, &password).Run(); err != nil {
			return "", "", err
		}
	}

	if err := validateEmail(email); err != nil {
		return "", "", fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	if err := validatePassword(password); err != nil {
		return "", "", fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	return strings.TrimSpace(email), password, nil
}

func credentialsForm(title string, email, password *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Description("Email").
				Validate(validateEmail).
				Value(email),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Validate(validatePassword).
				Value(password),
		),
	).WithTheme(huh.ThemeCharm())
}

// promptSignIn asks a signed-out user how to sign in and runs that flow.
func (r *Runner) promptSignIn(ctx context.Context, session Session) (*models.User, error) {
	method := methodPassword
	options := []huh.Option[string]{
		huh.NewOption("Sign in with email", methodPassword),
		huh.NewOption("Create an account", methodRegister),
	}
	if r.config.Auth.Google.Enabled() {
		options = append(options, huh.NewOption("Sign in with Google", methodGoogle))
	}

	if err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("You are not signed in").
				Options(options...).
				Value(&method),
		),
	).WithTheme(huh.ThemeCharm()).Run(); err != nil {
		return nil, err
	}

	var email, password string
	switch method {
	case methodGoogle:
		user, err := session.SignInWithGoogle(ctx)
		return user, r.reportSignIn(user, err, auth.MsgSignedIn, "Google sign-in failed")
	case methodRegister:
		if err := credentialsForm("Create account", &email, &password).Run(); err != nil {
			return nil, err
		}
		user, err := session.SignUp(ctx, strings.TrimSpace(email), password)
		return user, r.reportSignIn(user, err, auth.MsgRegistered, "Registration failed")
	default:
		if err := credentialsForm("Sign in", &email, &password).Run(); err != nil {
			return nil, err
		}
		user, err := session.SignIn(ctx, strings.TrimSpace(email), password)
		return user, r.reportSignIn(user, err, auth.MsgSignedIn, "Sign-in failed")
	}
}

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("email is required")
	}
	if _, err := mail.ParseAddress(s); err != nil {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

func validatePassword(s string) error {
	if s == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}
