package submit

import (
	"context"
	"sync"

	"github.com/lborres/flex/core"
)

// stubRemote is a scripted Remote that counts calls.
type stubRemote struct {
	mu    sync.Mutex
	calls map[string]int

	signUpErr  error
	signInErr  error
	signOutErr error
	upsertErr  error
	selectErr  error
	userErr    error
	user       *core.User
	profile    *core.Profile
	panicWith  any

	// when set, SignInWithPassword signals entered and waits for release
	entered chan struct{}
	release chan struct{}

	upserted []core.ProfileInput
}

var _ Remote = (*stubRemote)(nil)

func newStub() *stubRemote {
	return &stubRemote{calls: map[string]int{}}
}

func (s *stubRemote) record(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[name]++
}

func (s *stubRemote) count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

func (s *stubRemote) maybePanic() {
	if s.panicWith != nil {
		panic(s.panicWith)
	}
}

func (s *stubRemote) SignUp(ctx context.Context, email, password string) error {
	s.record("SignUp")
	s.maybePanic()
	return s.signUpErr
}

func (s *stubRemote) SignInWithPassword(ctx context.Context, email, password string) error {
	s.record("SignInWithPassword")
	if s.entered != nil {
		s.entered <- struct{}{}
		<-s.release
	}
	s.maybePanic()
	return s.signInErr
}

func (s *stubRemote) SignOut(ctx context.Context) error {
	s.record("SignOut")
	return s.signOutErr
}

func (s *stubRemote) GetCurrentUser(ctx context.Context) (*core.User, error) {
	s.record("GetCurrentUser")
	return s.user, s.userErr
}

func (s *stubRemote) UpsertProfile(ctx context.Context, userID string, in core.ProfileInput) error {
	s.record("UpsertProfile")
	s.mu.Lock()
	s.upserted = append(s.upserted, in)
	s.mu.Unlock()
	s.maybePanic()
	return s.upsertErr
}

func (s *stubRemote) SelectProfile(ctx context.Context, userID string) (*core.Profile, error) {
	s.record("SelectProfile")
	return s.profile, s.selectErr
}

// recordingNavigator remembers every GoTo.
type recordingNavigator struct {
	visited []Screen
}

func (n *recordingNavigator) GoTo(screen Screen) {
	n.visited = append(n.visited, screen)
}
