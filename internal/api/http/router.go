package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"equipbook-backend/internal/security"
	"equipbook-backend/internal/service"
)

// NewRouter wires all handlers behind the auth middleware. /metrics and
// /healthz stay unauthenticated for scrapers and probes.
func NewRouter(
	tokens security.TokenManager,
	bookingSvc service.BookingService,
	policySvc service.PolicyService,
	ledgerSvc service.LedgerService,
	routingSvc service.RoutingService,
	lifecycleSvc service.RequestLifecycleService,
) *mux.Router {
	bookings := NewBookingHandler(bookingSvc, policySvc)
	fines := NewFineHandler(ledgerSvc)
	crossDept := NewCrossDepartmentHandler(routingSvc, lifecycleSvc)

	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(tokens))

	api.HandleFunc("/reservations", bookings.Create).Methods(http.MethodPost)
	api.HandleFunc("/reservations", bookings.List).Methods(http.MethodGet)
	api.HandleFunc("/reservations/availability", bookings.Availability).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{id}/approve", bookings.Approve).Methods(http.MethodPost)
	api.HandleFunc("/reservations/{id}/deny", bookings.Deny).Methods(http.MethodPost)
	api.HandleFunc("/reservations/{id}/complete", bookings.Complete).Methods(http.MethodPost)
	api.HandleFunc("/reservations/{id}", bookings.Cancel).Methods(http.MethodDelete)
	api.HandleFunc("/policy-check", bookings.PolicyCheck).Methods(http.MethodGet)

	api.HandleFunc("/fines", fines.List).Methods(http.MethodGet)
	api.HandleFunc("/fines/{id}/resolve", fines.Resolve).Methods(http.MethodPost)
	api.HandleFunc("/standing/{userId}", fines.Standing).Methods(http.MethodGet)

	api.HandleFunc("/cross-department/routing", crossDept.RoutePreview).Methods(http.MethodGet)
	api.HandleFunc("/cross-department/requests", crossDept.Create).Methods(http.MethodPost)
	api.HandleFunc("/cross-department/requests", crossDept.List).Methods(http.MethodGet)
	api.HandleFunc("/cross-department/requests/{id}/approve", crossDept.Approve).Methods(http.MethodPost)
	api.HandleFunc("/cross-department/requests/{id}/deny", crossDept.Deny).Methods(http.MethodPost)
	api.HandleFunc("/cross-department/requests/{id}/cancel", crossDept.Cancel).Methods(http.MethodPost)

	return r
}
