package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mbeaufort/inkwell/internal/userservice"
	"github.com/stretchr/testify/assert"
)

func TestRecoverPanic(t *testing.T) {
	app, _, _ := newTestApplication(t)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("something went wrong")
	})

	middleware := app.recoverPanic(handler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	res := httptest.NewRecorder()

	middleware.ServeHTTP(res, req)

	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.Equal(t, "close", res.Header().Get("Connection"))
}

func TestAuthenticate(t *testing.T) {
	app, _, _ := newTestApplication(t)
	ctx := context.Background()

	user, err := app.userService.RegisterUser(ctx, "user@example.com", "TestPassword123!", "User")
	assert.NoError(t, err)

	session, err := app.userService.CreateSession(ctx, user.ID)
	assert.NoError(t, err)

	testCases := []struct {
		name          string
		cookie        *http.Cookie
		wantAnonymous bool
	}{
		{
			name:          "no session cookie",
			cookie:        nil,
			wantAnonymous: true,
		},
		{
			name:          "unknown session token",
			cookie:        &http.Cookie{Name: sessionCookieName, Value: "NOSUCHTOKEN"},
			wantAnonymous: true,
		},
		{
			name:          "valid session token",
			cookie:        &http.Cookie{Name: sessionCookieName, Value: session.Plain},
			wantAnonymous: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var resolved *userservice.User

			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				resolved = app.getUserContext(r)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.cookie != nil {
				req.AddCookie(tc.cookie)
			}
			res := httptest.NewRecorder()

			app.authenticate(handler).ServeHTTP(res, req)

			// a stale or missing session is anonymous, never an error
			assert.Equal(t, http.StatusOK, res.Code)
			assert.Equal(t, tc.wantAnonymous, resolved.IsAnonymous())
			if !tc.wantAnonymous {
				assert.Equal(t, user.ID, resolved.ID)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	app, _, _ := newTestApplication(t)
	ctx := context.Background()

	admin, err := app.userService.RegisterUser(ctx, "admin@example.com", "TestPassword123!", "Admin")
	assert.NoError(t, err)

	member, err := app.userService.RegisterUser(ctx, "member@example.com", "TestPassword123!", "Member")
	assert.NoError(t, err)

	testCases := []struct {
		name       string
		user       *userservice.User
		wantStatus int
	}{
		{name: "anonymous", user: &userservice.AnonymousUser, wantStatus: http.StatusForbidden},
		{name: "member", user: member, wantStatus: http.StatusForbidden},
		{name: "admin", user: admin, wantStatus: http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := app.requireAdmin(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/new-post", nil)
			req = app.createUserContext(req, tc.user)
			res := httptest.NewRecorder()

			handler.ServeHTTP(res, req)

			assert.Equal(t, tc.wantStatus, res.Code)
		})
	}
}
