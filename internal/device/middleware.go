package device

import (
	"context"
	"log/slog"
	"net/http"
)

// CookieName is the cookie carrying the signed device token.
const CookieName = "device"

type contextKey string

const deviceIDKey contextKey = "deviceID"

// Identify attaches a device id to every request. A valid cookie supplies
// the id; otherwise a new id is minted and its cookie set on the response.
// The request always continues.
func Identify(tokens *Tokens, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := fromCookie(r, tokens)
			if !ok {
				id = NewID()
				token, err := tokens.Issue(id)
				if err != nil {
					logger.Error("issuing device token", slog.String("error", err.Error()))
				} else {
					http.SetCookie(w, &http.Cookie{
						Name:     CookieName,
						Value:    token,
						Path:     "/",
						MaxAge:   int(TokenLifetime.Seconds()),
						HttpOnly: true,
						Secure:   r.TLS != nil,
						SameSite: http.SameSiteLaxMode,
					})
					logger.Debug("new device", slog.String("device_id", id))
				}
			}

			next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
		})
	}
}

// WithID returns a context carrying deviceID. Callers outside HTTP, like
// the CLI, use it to pick a fixed device.
func WithID(ctx context.Context, deviceID string) context.Context {
	return context.WithValue(ctx, deviceIDKey, deviceID)
}

// IDFromContext returns the device id set by Identify or WithID.
func IDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(deviceIDKey).(string)
	return id, ok && id != ""
}

func fromCookie(r *http.Request, tokens *Tokens) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", false
	}
	id, err := tokens.Verify(cookie.Value)
	if err != nil {
		return "", false
	}
	return id, true
}
