package middleware

import (
	"net/http"

	"github.com/danielaviles128-glitch/avarjoyas-api/pkg"

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

			logRequest := log.Debugf
			if pkg.IPIsLocal(r.RemoteAddr) {
				// traffic from the docker network is mostly probes and scrapes
				logRequest = log.Tracef
			}
			logRequest(" ====> request [%s] path: [%s] [IP: %s] [UA: %s]", r.Method, r.URL.Path, userIP, userAgent)
			next.ServeHTTP(w, r)
		})
	}
}
