package middleware

import (
	"fmt"
	"net/http"

	"github.com/davidcastaneda/clubsync/api/responses"
	pkgerrors "github.com/davidcastaneda/clubsync/pkg/errors"
	"github.com/davidcastaneda/clubsync/pkg/logger"
)

// Recoverer keeps a panicking handler from taking the daemon down
// with it. The poll loops and the store outlive any single request,
// so the panic is logged with the route that caused it and answered
// with the standard internal-error envelope.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err := fmt.Errorf("panic: %v", rec)
					ctx := r.Context()
					if logg != nil {
						ctx = logg.WithFields(ctx, map[string]any{
							"panic": rec,
							"path":  r.URL.Path,
						})
						logg.Error(ctx, "panic.recovered", err)
					}
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "panic"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
