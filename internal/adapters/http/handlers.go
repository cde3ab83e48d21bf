package web

import (
	"bytes"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"mergington/internal/adapters/api"
	"mergington/internal/application/orchestrators"
	"mergington/internal/application/projections"
	"mergington/internal/application/state"
)

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// Handlers forwards surface intents to the dispatcher and renders the
// derived display list.
type Handlers struct {
	deps         Deps
	templatesDir string
}

// directoryView is the template model for the directory page.
type directoryView struct {
	Rows       []projections.DisplayRow
	Categories []string
	NoMatches  bool
	Loaded     bool
	Stale      bool
	Snapshot   state.Snapshot
}

// internalError logs the real error and returns a generic message to the
// client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func (h *Handlers) renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	funcMap := template.FuncMap{
		"csrfToken": func() string { return csrf.Token(r) },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
	}

	tmpl, err := template.New(templateName).Funcs(funcMap).ParseFiles(
		filepath.Join(h.templatesDir, templateName),
	)
	if err != nil {
		internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		slog.Error("template_render_failed", "template", templateName, "error", err.Error())
	}
}

// handleDirectory renders the activity directory. Toolbar params in the
// query update the criteria before derivation.
func (h *Handlers) handleDirectory(w http.ResponseWriter, r *http.Request) {
	if HasCriteriaParams(r.URL.Query()) {
		h.deps.State.SetCriteria(ParseCriteria(r.URL.Query()))
	}

	snap := h.deps.State.Snapshot()
	result := projections.QueryDeriveView(projections.DeriveViewQuery{
		Catalog:       snap.Catalog,
		Criteria:      snap.Criteria,
		Authenticated: snap.Session.IsAuthenticated(),
	})

	h.renderTemplate(w, r, "directory.html", directoryView{
		Rows:       result.Rows,
		Categories: result.Categories,
		NoMatches:  result.NoMatches,
		Loaded:     snap.Loaded,
		Stale:      snap.Stale,
		Snapshot:   snap,
	})
}

// handleSignupOpen opens the registration surface for one activity.
func (h *Handlers) handleSignupOpen(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	if name := r.FormValue("activity"); name != "" {
		h.deps.State.OpenSignup(name)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleSignupClose closes the registration surface.
func (h *Handlers) handleSignupClose(w http.ResponseWriter, r *http.Request) {
	h.deps.State.CloseSignup()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleSignup dispatches a sign-up intent. The banner carries the
// outcome; on failure the registration surface stays open.
func (h *Handlers) handleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	input := orchestrators.SignUpInput{
		ActivityName: r.FormValue("activity"),
		Email:        r.FormValue("email"),
	}
	if _, err := orchestrators.ExecuteSignUp(r.Context(), input, h.deps.SignUp); err != nil {
		slog.Debug("signup_rejected", "error", err.Error())
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleUnregister dispatches an unregister intent. Unreachable for
// anonymous visitors: the affordance is omitted from the rendered list and
// the dispatcher refuses the call.
func (h *Handlers) handleUnregister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	input := orchestrators.UnregisterInput{
		ActivityName: r.FormValue("activity"),
		Email:        r.FormValue("email"),
	}
	_, err := orchestrators.ExecuteUnregister(r.Context(), input, h.deps.Unregister)
	if errors.Is(err, orchestrators.ErrNotAuthenticated) {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleLoginPage renders the login form.
func (h *Handlers) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if h.deps.State.Snapshot().Session.IsAuthenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderTemplate(w, r, "login.html", map[string]any{})
}

// handleLogin dispatches a login intent. The server's rejection detail is
// surfaced verbatim on the form.
func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	input := orchestrators.LoginInput{
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
	}
	if _, err := orchestrators.ExecuteLogin(r.Context(), input, h.deps.Login); err != nil {
		h.renderTemplate(w, r, "login.html", map[string]any{
			"Error": loginErrorMessage(err),
		})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleLogout dispatches a logout intent.
func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	orchestrators.ExecuteLogout(r.Context(), h.deps.Logout)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// loginErrorMessage maps a login error to the message shown on the form:
// the server's detail verbatim when present, a generic fallback otherwise.
func loginErrorMessage(err error) string {
	if errors.Is(err, orchestrators.ErrCredentialsRequired) {
		return err.Error()
	}
	if se, ok := api.AsServerError(err); ok && se.Detail != "" {
		return se.Detail
	}
	return "Login failed. Please try again."
}
