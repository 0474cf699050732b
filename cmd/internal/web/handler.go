package web

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"porter/cmd/identity"
	"porter/cmd/internal/auth/session"
	"porter/cmd/internal/watch"
	"porter/cmd/security/password"
)

// Handler serves the credential flow: register, login, dashboard, logout.
// Identity is carried exclusively by the server-side session looked up from
// the opaque cookie token; no handler reads an identity from client input.
type Handler struct {
	log *slog.Logger
	cfg Config

	users    identity.Store
	sessions *session.Manager
	hasher   password.Config
	hub      *watch.Hub

	tmpl     *template.Template
	throttle *loginThrottle

	// dummyVerifier is verified against when a login email is unknown, so the
	// unknown-email and wrong-password paths cost the same.
	dummyVerifier string
}

// NewHandler constructs the web Handler. hub may be nil; events are then
// dropped.
func NewHandler(log *slog.Logger, cfg Config, users identity.Store, sessions *session.Manager, hasher password.Config, hub *watch.Hub) (*Handler, error) {
	if log == nil {
		log = slog.Default()
	}
	if users == nil {
		return nil, errors.New("web: nil user store")
	}
	if sessions == nil {
		return nil, errors.New("web: nil session manager")
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	h := &Handler{
		log:      log,
		cfg:      cfg,
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		hub:      hub,
		tmpl:     tmpl,
		throttle: newLoginThrottle(cfg.LoginIPMax, cfg.LoginIPWindow),
	}

	if v, err := hasher.Hash("dummy-password-for-timing-only"); err == nil {
		h.dummyVerifier = v
	}

	return h, nil
}

// Register wires web routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("/", h.handleRoot)
	mux.HandleFunc("/register", h.handleRegister)
	mux.HandleFunc("/login", h.handleLogin)
	mux.HandleFunc("/dashboard", h.handleDashboard)
	mux.HandleFunc("/logout", h.handleLogout)
}

func (h *Handler) publish(kind, email string) {
	if h.hub == nil {
		return
	}
	h.hub.Publish(watch.Event{Kind: kind, Email: email, At: time.Now().UTC()})
}

// ---- handlers ----

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	// "/" matches everything the mux doesn't route elsewhere.
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if h.signedIn(r) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// signedIn reports whether the request carries a live session.
func (h *Handler) signedIn(r *http.Request) bool {
	token, ok := h.sessionToken(r)
	if !ok {
		return false
	}
	_, err := h.sessions.Resolve(r.Context(), time.Now().UTC(), token)
	return err == nil
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if h.signedIn(r) {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		h.render(w, h.log, "register.html", formPage{})
	case http.MethodPost:
		h.registerPost(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) registerPost(w http.ResponseWriter, r *http.Request) {
	email, pw, ok := h.credentials(w, r)
	if !ok {
		Registrations.WithLabelValues(outcomeError).Inc()
		h.renderStatus(w, http.StatusBadRequest, "register.html", formPage{Notice: "Email and password are required."})
		return
	}

	if err := h.hasher.Validate(pw); err != nil {
		Registrations.WithLabelValues(outcomeError).Inc()
		h.renderStatus(w, http.StatusBadRequest, "register.html", formPage{Notice: passwordNotice(err)})
		return
	}

	verifier, err := h.hasher.Hash(pw)
	if err != nil {
		h.log.Error("web.register.hash.fail", "err", err)
		Registrations.WithLabelValues(outcomeError).Inc()
		h.renderStatus(w, http.StatusInternalServerError, "register.html", formPage{Notice: "Something went wrong. Please try again."})
		return
	}

	_, err = h.users.Create(r.Context(), email, verifier)
	switch {
	case err == nil:
		Registrations.WithLabelValues(outcomeOK).Inc()
		h.publish(watch.KindRegister, email)
		http.Redirect(w, r, "/login?registered=1", http.StatusSeeOther)
	case identity.IsConflict(err):
		Registrations.WithLabelValues(outcomeConflict).Inc()
		h.renderStatus(w, http.StatusConflict, "register.html", formPage{Notice: "That email is already registered."})
	case identity.IsInvalidInput(err):
		Registrations.WithLabelValues(outcomeError).Inc()
		h.renderStatus(w, http.StatusBadRequest, "register.html", formPage{Notice: "Email and password are required."})
	default:
		h.log.Error("web.register.create.fail", "err", err)
		Registrations.WithLabelValues(outcomeError).Inc()
		h.renderStatus(w, http.StatusInternalServerError, "register.html", formPage{Notice: "Something went wrong. Please try again."})
	}
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if h.signedIn(r) {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		page := formPage{}
		switch {
		case r.URL.Query().Get("failed") != "":
			page.Notice = "Invalid email or password."
		case r.URL.Query().Get("registered") != "":
			page.Notice = "Account created. Sign in to continue."
		case r.URL.Query().Get("loggedout") != "":
			page.Notice = "You have been signed out."
		}
		h.render(w, h.log, "login.html", page)
	case http.MethodPost:
		h.loginPost(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// loginPost collapses every failure mode into the same redirect so the
// response never distinguishes an unknown email from a wrong password.
func (h *Handler) loginPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := time.Now().UTC()
	ip := clientIP(r, h.cfg.TrustProxy)

	if !h.throttle.Allow(ip, now) {
		LoginAttempts.WithLabelValues(outcomeThrottled).Inc()
		h.log.Warn("web.login.throttled", "ip", ip)
		http.Redirect(w, r, "/login?failed=1", http.StatusSeeOther)
		return
	}

	email, pw, ok := h.credentials(w, r)
	if !ok {
		LoginAttempts.WithLabelValues(outcomeBadCredentials).Inc()
		http.Redirect(w, r, "/login?failed=1", http.StatusSeeOther)
		return
	}

	user, err := h.users.FindByEmail(ctx, email)
	if err != nil {
		if !identity.IsNotFound(err) && !identity.IsInvalidInput(err) {
			h.log.Error("web.login.lookup.fail", "err", err)
			LoginAttempts.WithLabelValues(outcomeError).Inc()
		} else {
			// Timing resistance: verify against a throwaway verifier so the
			// unknown-email path still pays the hash cost.
			if h.dummyVerifier != "" {
				_, _ = h.hasher.Verify(h.dummyVerifier, pw)
			}
			LoginAttempts.WithLabelValues(outcomeBadCredentials).Inc()
			h.publish(watch.KindLoginFailed, email)
		}
		http.Redirect(w, r, "/login?failed=1", http.StatusSeeOther)
		return
	}

	okPw, err := h.hasher.Verify(user.PasswordHash, pw)
	if err != nil || !okPw {
		if err != nil {
			h.log.Error("web.login.verify.fail", "err", err)
		}
		LoginAttempts.WithLabelValues(outcomeBadCredentials).Inc()
		h.publish(watch.KindLoginFailed, email)
		http.Redirect(w, r, "/login?failed=1", http.StatusSeeOther)
		return
	}

	token, err := h.sessions.Establish(ctx, now, user.Email)
	if err != nil {
		h.log.Error("web.login.establish.fail", "err", err)
		LoginAttempts.WithLabelValues(outcomeError).Inc()
		http.Redirect(w, r, "/login?failed=1", http.StatusSeeOther)
		return
	}

	LoginAttempts.WithLabelValues(outcomeOK).Inc()
	SessionsEstablished.Inc()
	h.publish(watch.KindLoginOK, user.Email)
	h.setSessionCookie(w, token, now.Add(h.sessions.TTL()))
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()

	token, ok := h.sessionToken(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	email, err := h.sessions.Resolve(ctx, now, token)
	if err != nil {
		if !errors.Is(err, session.ErrNotActive) {
			h.log.Error("web.dashboard.resolve.fail", "err", err)
		}
		h.clearSessionCookie(w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	page := dashboardPage{Email: email}
	if user, err := h.users.FindByEmail(ctx, email); err == nil {
		page.Email = user.Email
		page.CreatedAt = user.CreatedAt
	}
	h.render(w, h.log, "dashboard.html", page)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()

	if token, ok := h.sessionToken(r); ok {
		// Resolve first so the event carries the acting email; logout still
		// proceeds when the session is already dead.
		email, rerr := h.sessions.Resolve(ctx, now, token)
		if err := h.sessions.Revoke(ctx, now, token); err != nil {
			h.log.Error("web.logout.revoke.fail", "err", err)
		} else if rerr == nil {
			SessionsRevoked.Inc()
			h.publish(watch.KindLogout, email)
		}
	}

	h.clearSessionCookie(w)
	http.Redirect(w, r, "/login?loggedout=1", http.StatusSeeOther)
}

// ---- helpers ----

// credentials parses the form body and returns trimmed email and raw
// password. The password is never trimmed or normalized.
func (h *Handler) credentials(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return "", "", false
	}
	email := strings.TrimSpace(r.PostFormValue("email"))
	pw := r.PostFormValue("password")
	if email == "" || pw == "" {
		return "", "", false
	}
	return email, pw, true
}

func (h *Handler) renderStatus(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		h.log.Error("web.render.fail", "template", name, "err", err)
	}
}

func passwordNotice(err error) string {
	switch {
	case errors.Is(err, password.ErrPasswordTooShort):
		return "Password is too short."
	case errors.Is(err, password.ErrPasswordTooLong):
		return "Password is too long."
	case errors.Is(err, password.ErrWeakPassword):
		return "Password is too easy to guess."
	default:
		return "Password was rejected."
	}
}
