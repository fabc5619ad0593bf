package cli

import (
	"context"
	"fmt"
	"strings"
)

// getStatus renders the prompt status: the signed-in user, the effective
// theme and the connectivity mode.
func (a *App) getStatus() string {
	var parts []string

	if st := a.session.State(); st.Authenticated() && st.User != nil {
		name := st.User.Email
		if name == "" {
			name = st.User.Name
		}
		parts = append(parts, name)
	}
	parts = append(parts, string(a.prefs.State().EffectiveTheme()))
	if m := a.Mode(); m != "" {
		parts = append(parts, string(m))
	}

	return fmt.Sprintf("(%s)", strings.Join(parts, " "))
}

func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to the AI Business Toolkit client (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}
