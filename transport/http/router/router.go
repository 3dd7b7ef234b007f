package router

import (
	"net/http"
	"path/filepath"
	"rentals/config"
	_ "rentals/docs"
	"rentals/internal/handlers/auth"
	"rentals/internal/handlers/booking"
	"rentals/internal/handlers/listing"
	"rentals/internal/handlers/user"
	"rentals/transport/http/middleware"
	"rentals/transport/http/response"
	"slices"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
)

const (
	healthMessage = "Rentals API is running"
	swaggerPath   = "/swagger/*"
)

type DomainHandlers struct {
	Auth    auth.Handler
	Listing listing.Handler
	Booking booking.Handler
	User    user.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	auth           middleware.Auth
	cfg            *config.Config
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		response.WithMessage(w, http.StatusOK, healthMessage)
	})

	router.Get(swaggerPath, httpSwagger.WrapHandler)

	r.mountUploads(router)

	router.Group(func(routerGroup chi.Router) {
		routerGroup.Use(r.auth.Auth)

		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.Listing.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
	})
}

// mountUploads serves the local upload directory under its stored path ("/public/uploads/...")
// and under its base name ("/uploads/...").
func (r *Router) mountUploads(router chi.Router) {
	dir := filepath.Clean(r.cfg.Storage.Local.Directory)
	files := http.FileServer(http.Dir(dir))

	prefixes := []string{"/" + filepath.Base(dir) + "/"}
	if !filepath.IsAbs(dir) {
		prefixes = append(prefixes, "/"+filepath.ToSlash(dir)+"/")
	}

	for _, prefix := range slices.Compact(prefixes) {
		router.Handle(prefix+"*", http.StripPrefix(prefix, files))
	}
}

func New(domainHandlers DomainHandlers, auth middleware.Auth, cfg *config.Config) Router {
	return Router{
		DomainHandlers: domainHandlers,
		auth:           auth,
		cfg:            cfg,
	}
}
