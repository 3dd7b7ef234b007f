package handler

import (
	"net/http"
	"rentals/config"
	"rentals/di"
	"rentals/shared/logger"
	rentalsHTTP "rentals/transport/http"
	"sync"
)

var (
	service *rentalsHTTP.HTTP
	once    sync.Once
)

// Handler is the serverless entry point; the service graph is built on the first invocation.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		logger.InitLogger()
		logger.Configure(config.Get())

		service = di.InitializeService()
	})

	service.ServeHTTP(w, r)
}
