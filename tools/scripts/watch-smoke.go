// Package main provides a CI-friendly smoke test for the /watch event stream.
//
// It validates:
//   - register + login via the HTML form endpoints
//   - session cookie issued on login
//   - WebSocket subscription to /watch with the cookie
//   - a second login producing an auth.login.ok event on the stream
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/coder/websocket"
)

type event struct {
	Kind  string    `json:"kind"`
	Email string    `json:"email"`
	At    time.Time `json:"at"`
}

func main() {
	var (
		baseURL    = flag.String("url", "http://127.0.0.1:8080", "Server base URL")
		email      = flag.String("email", "", "Account email (default: unique per run)")
		pw         = flag.String("password", "smoke-test-password-1", "Account password")
		cookieName = flag.String("cookie", "porter_session", "Session cookie name")
		timeout    = flag.Duration("timeout", 7*time.Second, "Per-step timeout")
	)
	flag.Parse()

	acct := strings.TrimSpace(*email)
	if acct == "" {
		acct = fmt.Sprintf("smoke-%d@example.test", time.Now().UnixNano())
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		fatalf("cookie jar: %v", err)
	}
	client := &http.Client{
		Jar:     jar,
		Timeout: *timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	form := url.Values{"email": {acct}, "password": {*pw}}

	mustPost(client, *baseURL+"/register", form, http.StatusSeeOther)
	mustPost(client, *baseURL+"/login", form, http.StatusSeeOther)

	cookie := sessionCookie(jar, *baseURL, *cookieName)
	if cookie == nil {
		fatalf("no %s cookie after login", *cookieName)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	wsURL := wsBase(*baseURL) + "/watch"
	h := http.Header{}
	h.Set("Cookie", cookie.Name+"="+cookie.Value)

	conn, resp, err := websocket.Dial(ctx, wsURL, &websocket.DialOptions{HTTPHeader: h})
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		fatalf("dial %s: %v", wsURL, err)
	}
	defer func() { _ = conn.Close(websocket.StatusNormalClosure, "bye") }()

	// Trigger an event while subscribed.
	mustPost(client, *baseURL+"/login", form, http.StatusSeeOther)

	deadline := time.Now().Add(*timeout)
	for {
		if time.Now().After(deadline) {
			fatalf("timeout waiting for auth.login.ok event")
		}

		readCtx, readCancel := context.WithDeadline(context.Background(), deadline)
		_, data, err := conn.Read(readCtx)
		readCancel()
		if err != nil {
			fatalf("read: %v", err)
		}

		var ev event
		if err := json.Unmarshal(data, &ev); err != nil {
			fatalf("bad event json: %v", err)
		}
		if ev.Kind == "auth.login.ok" && ev.Email == acct {
			fmt.Printf("OK: email=%s kind=%s at=%s\n", ev.Email, ev.Kind, ev.At.Format(time.RFC3339))
			return
		}
	}
}

func mustPost(client *http.Client, target string, form url.Values, wantStatus int) {
	resp, err := client.PostForm(target, form)
	if err != nil {
		fatalf("POST %s: %v", target, err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != wantStatus {
		fatalf("POST %s: status=%d want=%d", target, resp.StatusCode, wantStatus)
	}
}

func sessionCookie(jar *cookiejar.Jar, baseURL, name string) *http.Cookie {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}
	for _, c := range jar.Cookies(u) {
		if c.Name == name && c.Value != "" {
			return c
		}
	}
	return nil
}

func wsBase(baseURL string) string {
	if rest, ok := strings.CutPrefix(baseURL, "https://"); ok {
		return "wss://" + rest
	}
	if rest, ok := strings.CutPrefix(baseURL, "http://"); ok {
		return "ws://" + rest
	}
	return "ws://" + baseURL
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "FAIL: "+format+"\n", args...)
	os.Exit(1)
}
