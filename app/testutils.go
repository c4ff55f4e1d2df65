package main

import (
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/mbeaufort/inkwell/internal/common"
	"github.com/mbeaufort/inkwell/internal/mailservice"
	"github.com/mbeaufort/inkwell/internal/postservice"
	"github.com/mbeaufort/inkwell/internal/userservice"
)

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

// newClient returns a client with its own cookie jar, so tests can hold
// several identities against the same server. Redirects are not followed;
// the tests assert on the raw 303s.
func (ts *testServer) newClient(t *testing.T) *http.Client {
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}

	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func readResponse(t *testing.T, res *http.Response) (int, http.Header, envelope) {
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}

	var envelope envelope
	if len(responseBody) > 0 {
		err = json.Unmarshal(responseBody, &envelope)
		if err != nil {
			t.Fatal(err)
		}
	}

	return res.StatusCode, res.Header, envelope
}

func newTestApplication(t *testing.T) (*application, *sql.DB, *mailservice.MockDialer) {
	db := common.TestDB(t)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	dialer := &mailservice.MockDialer{}

	cfg := &Config{
		Port:        ":0",
		Environment: "testing",
		Version:     "test",
		MailOwner:   "owner@example.com",
	}

	app := &application{
		config:      cfg,
		logger:      logger,
		userService: userservice.NewUserService(db),
		postService: postservice.NewPostService(db),
		mailService: mailservice.NewMockMailService(cfg.MailOwner, dialer),
	}

	return app, db, dialer
}

func (ts *testServer) get(t *testing.T, client *http.Client, path string) (int, http.Header, envelope) {
	res, err := client.Get(ts.URL + path)
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}

func (ts *testServer) postForm(t *testing.T, client *http.Client, path string, form url.Values) (int, http.Header, envelope) {
	res, err := client.Post(ts.URL+path, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatal(err)
	}

	return readResponse(t, res)
}

func signupForm(email, password, name string) url.Values {
	return url.Values{
		"email":    {email},
		"password": {password},
		"name":     {name},
	}
}

func loginForm(email, password string) url.Values {
	return url.Values{
		"email":    {email},
		"password": {password},
	}
}

func postFormValues(title string) url.Values {
	return url.Values{
		"title":    {title},
		"subtitle": {"A subtitle"},
		"body":     {"<p>Body text</p>"},
		"img_url":  {"https://example.com/cover.jpg"},
	}
}
