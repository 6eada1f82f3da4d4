package middleware

import (
	"context"
	"esignserver/internal/models"
	utils "esignserver/internal/utils/http_errors"
	"log/slog"
	"net/http"
	"strings"
)

func Auth(log *slog.Logger, storer SessionStorer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			op := pkg + "Auth"

			log := log.With(slog.String("op", op))

			token := bearerToken(r)

			requester, err := storer.UserByToken(r.Context(), token)
			if err != nil {
				log.Warn("failed get user by token", slog.String("error", err.Error()))
				utils.WriteJSONError(w, http.StatusForbidden, "token is invalid")
				return
			}

			ctx := context.WithValue(r.Context(), models.UserContextKey, requester)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Admin allows only requesters whose account carries the admin flag. Must
// run after Auth.
func Admin(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			op := pkg + "Admin"

			log := log.With(slog.String("op", op))

			requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
			if !ok || !requester.IsAdmin {
				log.Warn("non-admin request to admin route", slog.String("path", r.URL.Path))
				utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken reads the session token from the Authorization header, falling
// back to the token query parameter.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if after, found := strings.CutPrefix(h, "Bearer "); found {
			return after
		}
		return h
	}

	return r.URL.Query().Get("token")
}
