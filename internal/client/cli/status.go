package cli

import (
	"context"
	"fmt"
)

// Status prints the session status, its last error and connectivity.
func (a *App) Status(_ context.Context) error {
	st := a.session.State()

	fmt.Fprintf(a.out, "Session:    %s\n", st.Status)
	if st.Authenticated() && st.User != nil {
		fmt.Fprintf(a.out, "User:       %s <%s>\n", st.User.Name, st.User.Email)
	}
	if st.Error != "" {
		fmt.Fprintf(a.out, "Last error: %s (type 'clear-error' to dismiss)\n", st.Error)
	}

	mode := a.Mode()
	if mode == "" {
		mode = "unknown"
	}
	fmt.Fprintf(a.out, "Backend:    %s (%s)\n", mode, a.config.APIBaseURL)
	return nil
}
