package middleware

import (
	"net/http"

	"wachat/internal/auth"
	"wachat/internal/httputil"
	"wachat/internal/metrics"

	"github.com/sirupsen/logrus"
)

// BearerAuth rejects requests whose Authorization header does not carry
// a valid token. The client reacts to 401 by dropping its stored token
// and returning to the login screen.
func BearerAuth(authenticator *auth.Authenticator, logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.BearerToken(r.Header.Get("Authorization"))
			if err == nil {
				err = authenticator.Verify(token)
			}

			if err != nil {
				logger.WithFields(logrus.Fields{
					"path":      r.URL.Path,
					"remote_ip": httputil.GetClientIP(r),
				}).Warn("Rejected unauthenticated request")
				metrics.IncrementCounter("auth_rejections_total", nil, "Requests rejected by auth middleware")
				httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
