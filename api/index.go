package handler

import (
	"net/http"
	"simaru/config"
	"simaru/di"
	"simaru/shared/logger"
	httpTransport "simaru/transport/http"
	"sync"
)

var (
	service *httpTransport.HTTP
	once    sync.Once
)

// Handler is the serverless entrypoint. The service graph is built on the first
// invocation and reused while the instance stays warm.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()
		logger.SetLogLevel(cfg)

		service = di.InitializeService()
	})

	r.RequestURI = r.URL.String()
	service.ServeHTTP(w, r)
}
