package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mbeaufort/inkwell/internal/common"
	"github.com/mbeaufort/inkwell/internal/userservice"
)

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.serverErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			ip     = r.RemoteAddr
			method = r.Method
			proto  = r.Proto
			uri    = r.URL.RequestURI()
		)

		app.logger.Info("request from", slog.String("method", method), slog.String("uri", uri), slog.String("remote_addr", ip), slog.String("proto", proto))

		next.ServeHTTP(w, r)
	})
}

// authenticate resolves the session cookie to an identity. A missing, stale,
// or unknown token resolves to the anonymous user, never to an error; only
// storage failures surface as 500s.
func (app *application) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Cookie")

		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || cookie.Value == "" {
			r = app.createUserContext(r, &userservice.AnonymousUser)
			next.ServeHTTP(w, r)
			return
		}

		user, err := app.userService.GetUserBySessionToken(r.Context(), cookie.Value)
		if err != nil {
			switch {
			case errors.Is(err, userservice.ErrNotFound):
				r = app.createUserContext(r, &userservice.AnonymousUser)
				next.ServeHTTP(w, r)
			case errors.As(err, &common.ValidationError{}):
				r = app.createUserContext(r, &userservice.AnonymousUser)
				next.ServeHTTP(w, r)
			default:
				app.serverErrorResponse(w, r, err)
			}
			return
		}

		r = app.createUserContext(r, user)
		next.ServeHTTP(w, r)
	})
}

// requireAdmin gates the post management routes to the admin identity.
// Every other identity, anonymous included, is rejected with a 403 and no
// side effects.
func (app *application) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := app.getUserContext(r)
		if !user.IsAdmin() {
			app.forbiddenErrorResponse(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}
