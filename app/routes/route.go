package routes

import (
	"net/http"

	"github.com/devrodri-com/mutter-games-dev/app/configs"
	"github.com/devrodri-com/mutter-games-dev/app/handlers"
	"github.com/devrodri-com/mutter-games-dev/app/handlers/admin"
	"github.com/devrodri-com/mutter-games-dev/app/middlewares"
	"github.com/devrodri-com/mutter-games-dev/app/repositories"
	"github.com/devrodri-com/mutter-games-dev/app/services"
	"github.com/devrodri-com/mutter-games-dev/app/utils/httperr"
	"github.com/devrodri-com/mutter-games-dev/app/utils/renderer"
	"github.com/devrodri-com/mutter-games-dev/app/utils/sessions"
	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// NewRouter wires the repositories, services and handlers into the API
// surface. rdb may be nil; everything backed by Redis degrades to its
// in-process fallback.
func NewRouter(db *gorm.DB, rdb *redis.Client, keys *configs.SessionKeys, env configs.ENV) (*mux.Router, error) {
	rnd := renderer.New()

	productRepo := repositories.NewProductRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	cartRepo := repositories.NewCartRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	clientRepo := repositories.NewClientRepository(db)
	adminUserRepo := repositories.NewAdminUserRepository(db)

	var claims services.ClaimsStore
	if rdb != nil {
		claims = services.NewRedisClaimsStore(rdb)
	} else {
		claims = services.NewMemoryClaimsStore()
	}

	authService := services.NewAuthService([]byte(env.JWTSecret), claims, adminUserRepo)
	stream := services.NewIdentityStream()
	source := services.NewCachedProductSource(productRepo, rdb)
	sessionStore := sessions.NewCookieSessionStore(keys.AuthKey, keys.EncKey)

	paymentService, err := services.NewPaymentService(env.MercadoPagoToken(), env.PublicBaseURL)
	if err != nil {
		return nil, err
	}
	checkoutService := services.NewCheckoutService(orderRepo, productRepo)
	signer := services.NewUploadSigner(env.ImageKitPrivateKey)

	shopHandler := handlers.NewShopHandler(rnd, source, productRepo, categoryRepo, sessionStore)
	cartHandler := handlers.NewCartHandler(rnd, sessionStore, cartRepo, productRepo, authService)
	authHandler := handlers.NewAuthHandler(rnd, authService, stream, sessionStore)
	checkoutHandler := handlers.NewCheckoutHandler(rnd, paymentService, checkoutService, clientRepo)

	productAdmin := admin.NewProductAdminHandler(rnd, productRepo, categoryRepo, source)
	userAdmin := admin.NewUserAdminHandler(rnd, adminUserRepo, authService)
	orderAdmin := admin.NewOrderAdminHandler(rnd, orderRepo)
	clientAdmin := admin.NewClientAdminHandler(rnd, clientRepo)
	uploadAdmin := admin.NewUploadAdminHandler(rnd, signer)

	router := mux.NewRouter()
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		renderer.JSONError(rnd, w, httperr.New(httperr.MethodNotAllowed, "Method not allowed"))
	})

	api := router.PathPrefix("/api").Subrouter()

	// Storefront.
	api.HandleFunc("/shop", shopHandler.GetShop).Methods(http.MethodGet)
	api.HandleFunc("/shop/load-more", shopHandler.LoadMore).Methods(http.MethodPost)
	api.HandleFunc("/shop/query", shopHandler.UpdateQuery).Methods(http.MethodPut)
	api.HandleFunc("/categories", shopHandler.GetCategories).Methods(http.MethodGet)
	api.HandleFunc("/products/{slug}", shopHandler.GetProductBySlug).Methods(http.MethodGet)

	// Identity.
	api.HandleFunc("/auth/anonymous", authHandler.Anonymous).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", authHandler.Refresh).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods(http.MethodPost)

	// Checkout. Preference creation is public: the buyer has no account.
	api.HandleFunc("/create-mp-preference", checkoutHandler.CreatePreference).Methods(http.MethodPost)

	ordersRouter := api.PathPrefix("/orders").Subrouter()
	ordersRouter.Use(middlewares.AuthenticatedMiddleware(authService, rnd))
	ordersRouter.HandleFunc("", checkoutHandler.CreateOrder).Methods(http.MethodPost)
	ordersRouter.HandleFunc("", checkoutHandler.GetOrders).Methods(http.MethodGet)

	// Cart routes ride on the cookie session, so they get CSRF protection.
	csrfProtect := csrf.Protect(keys.AuthKey[:32],
		csrf.Path("/"),
		csrf.Secure(false),
	)
	cartRouter := api.PathPrefix("/cart").Subrouter()
	cartRouter.Use(csrfProtect)
	cartRouter.HandleFunc("", cartHandler.GetCart).Methods(http.MethodGet)
	cartRouter.HandleFunc("", cartHandler.ClearCart).Methods(http.MethodDelete)
	cartRouter.HandleFunc("/items", cartHandler.AddItem).Methods(http.MethodPost)
	cartRouter.HandleFunc("/items", cartHandler.UpdateItem).Methods(http.MethodPatch)
	cartRouter.HandleFunc("/items", cartHandler.RemoveItem).Methods(http.MethodDelete)
	cartRouter.HandleFunc("/shipping", cartHandler.SetShipping).Methods(http.MethodPut)

	api.Handle("/csrf-token", csrfProtect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rnd.JSON(w, http.StatusOK, map[string]string{"token": csrf.Token(r)})
	}))).Methods(http.MethodGet)

	// Back office.
	adminRouter := api.PathPrefix("/admin").Subrouter()
	adminRouter.Use(middlewares.AdminAuthMiddleware(authService, rnd))

	adminRouter.HandleFunc("/products", productAdmin.List).Methods(http.MethodGet)
	adminRouter.HandleFunc("/products", productAdmin.Create).Methods(http.MethodPost)
	adminRouter.HandleFunc("/products/{id}", productAdmin.Get).Methods(http.MethodGet)
	adminRouter.HandleFunc("/products/{id}", productAdmin.Update).Methods(http.MethodPatch)
	adminRouter.HandleFunc("/products/{id}", productAdmin.Delete).Methods(http.MethodDelete)

	adminRouter.HandleFunc("/orders", orderAdmin.List).Methods(http.MethodGet)
	adminRouter.HandleFunc("/orders/{id}", orderAdmin.Get).Methods(http.MethodGet)
	adminRouter.HandleFunc("/orders/{id}/estado", orderAdmin.UpdateEstado).Methods(http.MethodPatch)

	adminRouter.HandleFunc("/clients", clientAdmin.List).Methods(http.MethodGet)
	adminRouter.HandleFunc("/clients/{id}", clientAdmin.Delete).Methods(http.MethodDelete)

	adminRouter.HandleFunc("/upload-signature", uploadAdmin.Signature).Methods(http.MethodGet)

	adminRouter.HandleFunc("/users", userAdmin.List).Methods(http.MethodGet)
	adminRouter.HandleFunc("/users/{email}", userAdmin.Get).Methods(http.MethodGet)
	adminRouter.HandleFunc("/users/{email}", userAdmin.Update).Methods(http.MethodPatch)
	adminRouter.Handle("/users", middlewares.RequireSuperadmin(rnd, http.HandlerFunc(userAdmin.Create))).Methods(http.MethodPost)
	adminRouter.Handle("/users/{email}", middlewares.RequireSuperadmin(rnd, http.HandlerFunc(userAdmin.Delete))).Methods(http.MethodDelete)

	return router, nil
}
