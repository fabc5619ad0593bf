package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/biztoolkit/internal/client/api"
)

// Profile prints the signed-in user.
func (a *App) Profile(_ context.Context) error {
	st := a.session.State()
	if st.User == nil {
		fmt.Fprintln(a.out, "No profile loaded.")
		return nil
	}
	u := st.User

	fmt.Fprintf(a.out, "Name:       %s\n", u.Name)
	fmt.Fprintf(a.out, "Email:      %s\n", u.Email)
	fmt.Fprintf(a.out, "ID:         %s\n", u.ID)

	if bp := u.BusinessProfile; bp != nil && bp.BusinessName != "" {
		fmt.Fprintf(a.out, "Business:   %s (%s)\n", bp.BusinessName, bp.Industry)
	} else {
		fmt.Fprintln(a.out, "Business:   not set up")
	}
	if u.NeedsOnboarding() {
		fmt.Fprintln(a.out, "Onboarding: pending (use 'update' to add your business)")
	} else {
		fmt.Fprintln(a.out, "Onboarding: complete")
	}

	if c, err := api.ParseClaims(st.Token); err == nil && !c.ExpiresAt.IsZero() {
		fmt.Fprintf(a.out, "Session:    valid until %s\n", c.ExpiresAt.Local().Format(time.DateTime))
	}
	return nil
}

// Update prompts for profile changes. Empty answers keep the current
// value. The business profile counts as onboarded once it has both a name
// and an industry.
func (a *App) Update(ctx context.Context) error {
	st := a.session.State()
	if st.User == nil {
		fmt.Fprintln(a.out, "No profile loaded.")
		return nil
	}
	u := st.User

	answers := make([]string, 4)
	prompts := []string{
		"Name (empty to keep)",
		"Email (empty to keep)",
		"Business name (empty to keep)",
		"Industry (empty to keep)",
	}
	for i, p := range prompts {
		v, err := getSimpleText(a.reader, p, a.out)
		if err != nil {
			return err
		}
		answers[i] = v
	}

	update := buildUpdate(*u, answers[0], answers[1], answers[2], answers[3])
	if update == (api.ProfileUpdate{}) {
		fmt.Fprintln(a.out, "Nothing to update.")
		return nil
	}

	return outcome(a.session.UpdateProfile(ctx, update))
}

func buildUpdate(u api.User, name, email, businessName, industry string) api.ProfileUpdate {
	var update api.ProfileUpdate

	if name != "" && name != u.Name {
		update.Name = &name
	}
	if email != "" && email != u.Email {
		update.Email = &email
	}

	if businessName == "" && industry == "" {
		return update
	}

	bp := api.BusinessProfile{}
	if u.BusinessProfile != nil {
		bp = *u.BusinessProfile
	}
	if businessName != "" {
		bp.BusinessName = businessName
	}
	if industry != "" {
		bp.Industry = industry
	}
	bp.OnboardingCompleted = bp.BusinessName != "" && bp.Industry != ""
	update.BusinessProfile = &bp

	return update
}
