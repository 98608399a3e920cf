package middleware

import (
	"net/http"
	"strings"
)

// заголовки ответа, которые браузерный клиент должен видеть (итог пакета, имя файла)
var exposeHeaders = strings.Join([]string{
	"Content-Disposition",
	"X-Request-ID",
	"X-Conversion-Status",
	"X-Files-Converted",
	"X-Files-Failed",
	"X-Conversion-Error",
}, ", ")

func CORS(allowOrigins []string) func(http.Handler) http.Handler {
	allowAll := len(allowOrigins) == 1 && allowOrigins[0] == "*"
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if allowAll {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else if origin := r.Header.Get("Origin"); origin != "" {
				for _, o := range allowOrigins {
					if strings.TrimSpace(o) == origin {
						w.Header().Set("Access-Control-Allow-Origin", origin)
						w.Header().Add("Vary", "Origin")
						break
					}
				}
			}
			w.Header().Set("Access-Control-Allow-Headers", "*, Content-Type, Authorization, X-Request-ID")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			w.Header().Set("Access-Control-Expose-Headers", exposeHeaders)
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
