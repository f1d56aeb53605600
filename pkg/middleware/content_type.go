package middleware

import (
	"mime"
	"net/http"

	httputil "facilityhub/pkg/http"
	"facilityhub/pkg/logger"
)

// ContentTypeValidation rejects bodies that are not JSON. Body-less PATCH requests such as
// approve or cancel are let through.
func ContentTypeValidation(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !carriesBody(r) {
				next.ServeHTTP(w, r)
				return
			}

			mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil || mediaType != "application/json" {
				log.FromContext(r.Context()).Warn("Invalid Content-Type header",
					"content_type", r.Header.Get("Content-Type"),
					"path", r.URL.Path,
					"method", r.Method,
				)
				_ = httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.ErrorResponse{
					Error: "Content-Type must be application/json",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// carriesBody reports whether the Content-Type must be checked. A request of unknown length
// (chunked) is only checked when it declares a Content-Type.
func carriesBody(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return false
	}
	if r.Body == nil || r.Body == http.NoBody {
		return false
	}
	if r.ContentLength < 0 {
		return r.Header.Get("Content-Type") != ""
	}
	return r.ContentLength > 0
}
