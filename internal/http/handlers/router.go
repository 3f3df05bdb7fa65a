package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Middleware = func(http.Handler) http.Handler

// APIRouter assembles the /api surface. requireAuth guards the
// identity-scoped routes; authLimit (optional) throttles the credential
// endpoints.
func APIRouter(
	users *UserHandler,
	attractions *AttractionsHandler,
	bookings *BookingHandler,
	orders *OrderHandler,
	requireAuth Middleware,
	authLimit Middleware,
) chi.Router {
	if authLimit == nil {
		authLimit = func(next http.Handler) http.Handler { return next }
	}

	r := chi.NewRouter()

	r.With(authLimit).Post("/user", users.signup)
	r.With(authLimit).Put("/user/auth", users.signin)
	r.With(requireAuth).Get("/user/auth", users.me)

	r.Get("/attractions", attractions.list)
	r.Get("/attraction/{id}", attractions.getByID)
	r.Get("/mrts", attractions.mrts)

	r.Route("/booking", func(pr chi.Router) {
		pr.Use(requireAuth)
		pr.Get("/", bookings.get)
		pr.Post("/", bookings.create)
		pr.Delete("/", bookings.clear)
	})

	r.Route("/order", func(pr chi.Router) {
		pr.Use(requireAuth)
		pr.Post("/", orders.submit)
		pr.Get("/{number}", orders.get)
	})

	return r
}
