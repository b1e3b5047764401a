package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/codetroon/bobbin-storefront/api/controllers"
	"github.com/codetroon/bobbin-storefront/api/middleware"
	"github.com/codetroon/bobbin-storefront/internal/auth"
	"github.com/codetroon/bobbin-storefront/internal/cart"
	"github.com/codetroon/bobbin-storefront/internal/catalog"
	"github.com/codetroon/bobbin-storefront/internal/checkout"
	"github.com/codetroon/bobbin-storefront/internal/contact"
	"github.com/codetroon/bobbin-storefront/internal/content"
	"github.com/codetroon/bobbin-storefront/internal/orders"
	"github.com/codetroon/bobbin-storefront/pkg/config"
	"github.com/codetroon/bobbin-storefront/pkg/imagekit"
	"github.com/codetroon/bobbin-storefront/pkg/logger"
	"github.com/codetroon/bobbin-storefront/pkg/metrics"
)

// Deps bundles everything the router mounts. LocalOrders and Signer are
// optional; their routes answer 404 / 500 when the deployment leaves them
// unconfigured.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Metrics     *metrics.HTTPMetrics
	Health      map[string]controllers.Pinger
	Catalog     catalog.Service
	Cart        cart.Service
	Checkout    checkout.Service
	LocalOrders checkout.LocalService
	Orders      orders.Service
	Auth        auth.Service
	Contact     contact.Service
	Content     content.Service
	Signer      *imagekit.Signer
	CORSOrigins []string
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(middleware.Recoverer(logg))
	r.Use(middleware.RequestID(logg))
	r.Use(middleware.Logging(logg))
	r.Use(middleware.Metrics(d.Metrics))
	r.Use(middleware.CORS(d.CORSOrigins...))

	r.Get("/health/live", controllers.HealthLive(cfg))
	r.Get("/health/ready", controllers.HealthReady(cfg, logg, d.Health))
	r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/products", controllers.ListProducts(d.Catalog, logg))
			r.Get("/products/{id}", controllers.GetProduct(d.Catalog, logg))
			r.Get("/products/{id}/sizes", controllers.ListProductSizes(d.Catalog, logg))
			r.Get("/categories", controllers.ListCategories(d.Catalog, logg))
		})

		r.Get("/size-guides", controllers.ListSizeGuides(d.Content, logg))
		r.Get("/hero", controllers.GetHero(d.Content, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.CartSession(cfg.Cart, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(d.Cart, logg))
				r.Delete("/", controllers.ClearCart(d.Cart, logg))
				r.Post("/items", controllers.AddCartItem(d.Cart, logg))
				r.Patch("/items", controllers.UpdateCartItem(d.Cart, logg))
				r.Delete("/items", controllers.RemoveCartItem(d.Cart, logg))
			})

			r.Post("/checkout", controllers.Checkout(d.Checkout, logg))
		})

		if d.LocalOrders != nil {
			r.Post("/orders", controllers.CreateLocalOrder(d.LocalOrders, logg))
			r.Get("/orders/{id}", controllers.GetLocalOrder(d.LocalOrders, logg))
		}

		r.Post("/contact", controllers.SubmitContact(d.Contact, logg))
		r.Get("/upload-auth", controllers.UploadAuth(d.Signer, logg))

		r.Route("/admin", func(r chi.Router) {
			r.Post("/auth/login", controllers.Login(d.Auth, cfg.Session, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminAuth(cfg.Session, d.Auth, logg))

				r.Post("/auth/logout", controllers.Logout(d.Auth, cfg.Session, logg))

				r.Get("/orders", controllers.ListOrders(d.Orders, logg))
				r.Patch("/orders/{id}/status", controllers.UpdateOrderStatus(d.Orders, logg))

				r.Post("/products", controllers.CreateProduct(d.Catalog, logg))
				r.Patch("/products/{id}", controllers.UpdateProduct(d.Catalog, logg))
				r.Delete("/products/{id}", controllers.DeleteProduct(d.Catalog, logg))

				r.Post("/categories", controllers.CreateCategory(d.Catalog, logg))
				r.Patch("/categories/{id}", controllers.UpdateCategory(d.Catalog, logg))
				r.Delete("/categories/{id}", controllers.DeleteCategory(d.Catalog, logg))

				r.Get("/sizes", controllers.ListSizes(d.Catalog, logg))
				r.Post("/sizes", controllers.CreateSize(d.Catalog, logg))
				r.Patch("/sizes/{id}", controllers.UpdateSize(d.Catalog, logg))
				r.Delete("/sizes/{id}", controllers.DeleteSize(d.Catalog, logg))

				r.Put("/hero", controllers.UpdateHero(d.Content, logg))

				r.Post("/size-guides", controllers.CreateSizeGuide(d.Content, logg))
				r.Patch("/size-guides/{id}", controllers.UpdateSizeGuide(d.Content, logg))
				r.Delete("/size-guides/{id}", controllers.DeleteSizeGuide(d.Content, logg))

				r.Get("/messages", controllers.ListContactMessages(d.Contact, logg))
			})
		})
	})

	return r
}
