package cli

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/biztoolkit/internal/client/api"
	"github.com/dmitrijs2005/biztoolkit/internal/client/session"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// errReported marks failures the notifier has already shown to the user.
var errReported = errors.New("reported")

var (
	errNameTooShort     = errors.New("name must be at least 2 characters")
	errInvalidEmail     = errors.New("please enter a valid email address")
	errPasswordTooShort = errors.New("password must be at least 6 characters")
	errPasswordMismatch = errors.New("passwords do not match")
)

var emailPattern = regexp.MustCompile(`^\S+@\S+$`)

// outcome turns a session result into a command error. A superseded
// result is dropped; the newer command reports for itself.
func outcome(res session.Result) error {
	if res.Success || errors.Is(res.Err, session.ErrSuperseded) {
		return nil
	}
	if errors.Is(res.Err, session.ErrClosed) {
		return res.Err
	}
	return fmt.Errorf("%w: %s", errReported, res.Error)
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// validateRegistration checks the registration form before it is sent.
func validateRegistration(in api.RegisterInput, confirm string) error {
	var errs []error
	if len(strings.TrimSpace(in.Name)) < 2 {
		errs = append(errs, errNameTooShort)
	}
	if !emailPattern.MatchString(in.Email) {
		errs = append(errs, errInvalidEmail)
	}
	if len(in.Password) < 6 {
		errs = append(errs, errPasswordTooShort)
	} else if in.Password != confirm {
		errs = append(errs, errPasswordMismatch)
	}
	return errors.Join(errs...)
}

// Register prompts for name, email and a confirmed password and creates
// the account. A successful registration signs the user in.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Enter password: ", a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	confirm, err := getPassword(a.reader, "Confirm password: ", a.out)
	if err != nil {
		return err
	}
	defer wipe(confirm)

	input := api.RegisterInput{Name: strings.TrimSpace(name), Email: email, Password: string(password)}
	if err := validateRegistration(input, string(confirm)); err != nil {
		return err
	}

	return outcome(a.session.Register(ctx, input))
}

// Login prompts for credentials and signs in.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Enter password: ", a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	return outcome(a.session.Login(ctx, email, string(password)))
}

// Logout drops the local session. It needs no network.
func (a *App) Logout(_ context.Context) error {
	return outcome(a.session.Logout())
}

// Verify asks the backend whether the current token is still accepted.
func (a *App) Verify(ctx context.Context) error {
	res := a.session.VerifyToken(ctx)
	if !res.Success {
		if res.Error == "" {
			return outcome(res)
		}
		fmt.Fprintln(a.out, res.Error)
		return nil
	}
	fmt.Fprintln(a.out, "Token is valid.")
	return nil
}

// ClearError dismisses the last session error.
func (a *App) ClearError(_ context.Context) error {
	a.session.ClearError()
	return nil
}
