package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmorenov/servicedesk-backend/api/controllers"
	"github.com/dmorenov/servicedesk-backend/api/middleware"
	"github.com/dmorenov/servicedesk-backend/internal/complaints"
	"github.com/dmorenov/servicedesk-backend/internal/customers"
	"github.com/dmorenov/servicedesk-backend/internal/engineers"
	"github.com/dmorenov/servicedesk-backend/internal/products"
	"github.com/dmorenov/servicedesk-backend/internal/settings"
	"github.com/dmorenov/servicedesk-backend/internal/spareparts"
	"github.com/dmorenov/servicedesk-backend/internal/stats"
	"github.com/dmorenov/servicedesk-backend/internal/users"
	"github.com/dmorenov/servicedesk-backend/pkg/config"
	"github.com/dmorenov/servicedesk-backend/pkg/logger"
)

// Services bundles the wired domain services the router mounts.
type Services struct {
	Complaints complaints.Service
	Customers  customers.Service
	Engineers  engineers.Service
	Products   products.Service
	SpareParts spareparts.Service
	Settings   settings.Service
	Stats      stats.Service
	Users      users.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	idempotencyStore middleware.IdempotencyStore,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Route("/complaints", func(r chi.Router) {
			r.Post("/", controllers.CreateComplaint(svcs.Complaints, logg))
			r.Get("/", controllers.ListComplaints(svcs.Complaints, logg))
			r.Get("/{complaintId}", controllers.GetComplaint(svcs.Complaints, logg))
			r.Post("/{complaintId}/assign", controllers.AssignComplaintEngineer(svcs.Complaints, logg))
			r.Post("/{complaintId}/investigate", controllers.BeginComplaintInvestigation(svcs.Complaints, logg))
			r.Post("/{complaintId}/repair", controllers.CompleteComplaintRepair(svcs.Complaints, logg))
			r.Delete("/{complaintId}", controllers.DeleteComplaint(svcs.Complaints, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Post("/", controllers.CreateCustomer(svcs.Customers, logg))
			r.Get("/", controllers.ListCustomers(svcs.Customers, logg))
			r.Get("/{customerId}", controllers.GetCustomer(svcs.Customers, logg))
			r.Patch("/{customerId}", controllers.UpdateCustomer(svcs.Customers, logg))
			r.Delete("/{customerId}", controllers.DeleteCustomer(svcs.Customers, logg))
		})

		r.Route("/engineers", func(r chi.Router) {
			r.Post("/", controllers.CreateEngineer(svcs.Engineers, logg))
			r.Get("/", controllers.ListEngineers(svcs.Engineers, logg))
			r.Get("/{engineerId}", controllers.GetEngineer(svcs.Engineers, logg))
			r.Patch("/{engineerId}", controllers.UpdateEngineer(svcs.Engineers, logg))
			r.Delete("/{engineerId}", controllers.DeleteEngineer(svcs.Engineers, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.CreateProduct(svcs.Products, logg))
			r.Get("/", controllers.ListProducts(svcs.Products, logg))
			r.Get("/{productId}", controllers.GetProduct(svcs.Products, logg))
			r.Patch("/{productId}", controllers.UpdateProduct(svcs.Products, logg))
			r.Delete("/{productId}", controllers.DeleteProduct(svcs.Products, logg))
		})

		r.Route("/spare-parts", func(r chi.Router) {
			r.Post("/", controllers.CreateSparePart(svcs.SpareParts, logg))
			r.Get("/", controllers.ListSpareParts(svcs.SpareParts, logg))
			r.Get("/low-stock", controllers.ListLowStockSpareParts(svcs.SpareParts, logg))
			r.Get("/{sparePartId}", controllers.GetSparePart(svcs.SpareParts, logg))
			r.Patch("/{sparePartId}", controllers.UpdateSparePart(svcs.SpareParts, logg))
			r.Post("/{sparePartId}/adjust", controllers.AdjustSparePartQuantity(svcs.SpareParts, logg))
			r.Delete("/{sparePartId}", controllers.DeleteSparePart(svcs.SpareParts, logg))
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", controllers.ListSettings(svcs.Settings, logg))
			r.Get("/{settingKey}", controllers.GetSetting(svcs.Settings, logg))
			r.Put("/{settingKey}", controllers.UpdateSetting(svcs.Settings, logg))
		})
		r.Get("/complaint-types", controllers.ListComplaintTypes(svcs.Settings, logg))

		r.Get("/stats/overview", controllers.StatsOverview(svcs.Stats, logg))

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", controllers.CurrentUser(svcs.Users, logg))
			r.Patch("/{userId}", controllers.UpdateUser(svcs.Users, logg))
			r.Get("/{userId}/preferences", controllers.UserPreferences(svcs.Users, logg))
			r.Put("/{userId}/preferences", controllers.SetUserPreference(svcs.Users, logg))
		})
	})

	return r
}
