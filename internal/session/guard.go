// Package session gates views on an authenticated session and turns session tokens into sessions.
package session

import (
	"github.com/verrloren/hackathon-evrz/internal/session/domain"
	"github.com/verrloren/hackathon-evrz/internal/ui"
)

// EnsureAuthenticated redirects to the login surface when sess has no user and reports whether the
// caller may continue. It never touches the network and is safe to call repeatedly.
func EnsureAuthenticated(sess *domain.Session, nav ui.Navigator) bool {
	if sess.Authenticated() {
		return true
	}
	nav.Navigate(ui.LoginPath)
	return false
}
