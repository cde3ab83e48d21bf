package web

import (
	"crypto/rand"
	"log"
	"net/http"

	"mergington/internal/adapters/http/middleware"
	"mergington/internal/application/orchestrators"
	"mergington/internal/application/state"
)

// Deps holds the engine dependencies the surface forwards intents to.
type Deps struct {
	State      *state.Store
	Refresh    orchestrators.RefreshDeps
	SignUp     orchestrators.SignUpDeps
	Unregister orchestrators.UnregisterDeps
	Login      orchestrators.LoginDeps
	Logout     orchestrators.LogoutDeps
}

// NewMux wires the HTTP surface. An empty csrfKey generates a random key
// for the run (forms won't survive a restart mid-submission).
func NewMux(templatesDir string, deps Deps, csrfKey []byte) http.Handler {
	h := &Handlers{deps: deps, templatesDir: templatesDir}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.handleDirectory)
	mux.HandleFunc("POST /signup/open", h.handleSignupOpen)
	mux.HandleFunc("POST /signup/close", h.handleSignupClose)
	mux.HandleFunc("POST /signup", h.handleSignup)
	mux.HandleFunc("POST /unregister", h.handleUnregister)
	mux.HandleFunc("GET /login", h.handleLoginPage)
	mux.HandleFunc("POST /login", h.handleLogin)
	mux.HandleFunc("POST /logout", h.handleLogout)

	if len(csrfKey) == 0 {
		csrfKey = randomCSRFKey()
	}

	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
	)
}

func randomCSRFKey() []byte {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	return key
}
