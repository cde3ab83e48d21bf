package orchestrators_test

import (
	"context"
	"sync"
	"time"

	"mergington/internal/adapters/api"
	"mergington/internal/application/state"
	"mergington/internal/domain/activity"
	"mergington/internal/domain/session"
)

// fakeAPI implements the orchestrators' server-call interfaces with
// configurable behaviour and call counting.
type fakeAPI struct {
	mu sync.Mutex

	catalog      activity.Catalog
	fetchErr     error
	fetchCalls   int
	signUpMsg    string
	signUpErr    error
	signUpCalls  int
	signUpToken  string
	unregMsg     string
	unregErr     error
	unregCalls   int
	loginResult  api.LoginResult
	loginErr     error
	logoutErr    error
	logoutCalls  int
	statusResult api.StatusResult
	statusErr    error
	statusCalls  int
}

func (f *fakeAPI) FetchActivities(ctx context.Context) (activity.Catalog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.catalog, nil
}

func (f *fakeAPI) SignUp(ctx context.Context, name, emailAddr, token string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signUpCalls++
	f.signUpToken = token
	if f.signUpErr != nil {
		return "", f.signUpErr
	}
	return f.signUpMsg, nil
}

func (f *fakeAPI) Unregister(ctx context.Context, name, emailAddr, token string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unregCalls++
	if f.unregErr != nil {
		return "", f.unregErr
	}
	return f.unregMsg, nil
}

func (f *fakeAPI) Login(ctx context.Context, username, password string) (api.LoginResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loginErr != nil {
		return api.LoginResult{}, f.loginErr
	}
	return f.loginResult, nil
}

func (f *fakeAPI) Logout(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logoutCalls++
	return f.logoutErr
}

func (f *fakeAPI) Status(ctx context.Context, token string) (api.StatusResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls++
	if f.statusErr != nil {
		return api.StatusResult{}, f.statusErr
	}
	return f.statusResult, nil
}

// fakeSessionStore is an in-memory session store.
type fakeSessionStore struct {
	mu      sync.Mutex
	sess    session.Session
	saveErr error
	clears  int
}

func (f *fakeSessionStore) Get(ctx context.Context) (session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sess, nil
}

func (f *fakeSessionStore) Save(ctx context.Context, s session.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.sess = s
	return nil
}

func (f *fakeSessionStore) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	f.sess = session.Anonymous()
	return nil
}

func (f *fakeSessionStore) stored() session.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sess
}

func newTestState() *state.Store {
	// Long timer delays so they never fire mid-test.
	return state.New(time.Hour, time.Hour)
}
