package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func cookieHandler(secure bool) *Handler {
	cfg := LoadConfigFromEnv()
	cfg.CookieSecure = secure
	return &Handler{cfg: cfg}
}

func TestSetSessionCookieFlags(t *testing.T) {
	h := cookieHandler(true)
	rec := httptest.NewRecorder()
	exp := time.Now().Add(24 * time.Hour).UTC()

	h.setSessionCookie(rec, "opaque-token-value", exp)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}
	c := cookies[0]
	if c.Name != "porter_session" || c.Value != "opaque-token-value" {
		t.Fatalf("cookie = %s=%s", c.Name, c.Value)
	}
	if !c.HttpOnly {
		t.Error("cookie not HttpOnly")
	}
	if !c.Secure {
		t.Error("cookie not Secure despite config")
	}
	if c.SameSite != http.SameSiteLaxMode {
		t.Errorf("SameSite = %v, want Lax", c.SameSite)
	}
	if c.Path != "/" {
		t.Errorf("Path = %q, want /", c.Path)
	}
}

func TestClearSessionCookieExpires(t *testing.T) {
	h := cookieHandler(false)
	rec := httptest.NewRecorder()

	h.clearSessionCookie(rec)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}
	c := cookies[0]
	if c.Value != "" {
		t.Errorf("cleared cookie has value %q", c.Value)
	}
	if c.MaxAge >= 0 {
		t.Errorf("cleared cookie MaxAge = %d, want negative", c.MaxAge)
	}
	if !c.HttpOnly {
		t.Error("cleared cookie not HttpOnly")
	}
}

func TestSessionTokenExtraction(t *testing.T) {
	h := cookieHandler(false)

	r := httptest.NewRequest("GET", "/", nil)
	if _, ok := h.sessionToken(r); ok {
		t.Fatal("token extracted from request without cookie")
	}

	r.AddCookie(&http.Cookie{Name: "porter_session", Value: "  "})
	if _, ok := h.sessionToken(r); ok {
		t.Fatal("token extracted from blank cookie")
	}

	r2 := httptest.NewRequest("GET", "/", nil)
	r2.AddCookie(&http.Cookie{Name: "porter_session", Value: "tok-123"})
	tok, ok := h.sessionToken(r2)
	if !ok || tok != "tok-123" {
		t.Fatalf("sessionToken = %q, %v", tok, ok)
	}
}
