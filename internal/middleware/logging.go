package middleware

import (
	"net/http"

	"github.com/2beens/practicetrack/pkg"

	log "github.com/sirupsen/logrus"
)

func LogRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userAgent := r.Header.Get("User-Agent")
			userIP, err := pkg.ReadUserIP(r)
			if err != nil {
				userIP = "unknown"
			}
			log.Tracef(" ====> request [%s] path: [%s] [IP: %s] [UA: %s]", r.Method, r.URL.Path, userIP, userAgent)
			next.ServeHTTP(w, r)
		})
	}
}
