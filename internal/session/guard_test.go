package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verrloren/hackathon-evrz/internal/session/domain"
	"github.com/verrloren/hackathon-evrz/internal/ui"
)

type recordingNavigator struct {
	paths []string
}

func (n *recordingNavigator) Navigate(path string) { n.paths = append(n.paths, path) }

func TestEnsureAuthenticated(t *testing.T) {
	testCases := []struct {
		name      string
		sess      *domain.Session
		want      bool
		wantPaths []string
	}{
		{"absent session", nil, false, []string{ui.LoginPath}},
		{"no user id", &domain.Session{SessionID: "s1"}, false, []string{ui.LoginPath}},
		{"authenticated", &domain.Session{UserID: "u1"}, true, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			nav := &recordingNavigator{}
			assert.Equal(t, tc.want, EnsureAuthenticated(tc.sess, nav))
			assert.Equal(t, tc.wantPaths, nav.paths)
		})
	}
}

func TestEnsureAuthenticated_Idempotent(t *testing.T) {
	nav := &recordingNavigator{}
	for i := 0; i < 3; i++ {
		assert.False(t, EnsureAuthenticated(nil, nav))
	}
	assert.Equal(t, []string{ui.LoginPath, ui.LoginPath, ui.LoginPath}, nav.paths)
}
