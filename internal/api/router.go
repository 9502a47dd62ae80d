package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/laritechfarms/farms-api/docs"
	"github.com/laritechfarms/farms-api/internal/api/handler"
	"github.com/laritechfarms/farms-api/internal/api/middleware"
	"github.com/laritechfarms/farms-api/internal/core/domain"
	"github.com/laritechfarms/farms-api/internal/core/ports"
	"github.com/laritechfarms/farms-api/internal/infrastructure/http/handlers"
)

const (
	apiPrefix  = "/api/v1"
	authPrefix = apiPrefix + "/auth"
)

var (
	supervisors = []string{domain.RoleAdmin, domain.RoleManager, domain.RoleSupervisor}
	managers    = []string{domain.RoleAdmin, domain.RoleManager}
	admins      = []string{domain.RoleAdmin}
)

// Services are the use cases the router exposes.
type Services struct {
	Auth       ports.AuthService
	Batches    ports.BatchService
	Birds      ports.BirdService
	Products   ports.ProductService
	Clients    ports.ClientService
	Sales      ports.SaleService
	Employees  ports.EmployeeService
	Attendance ports.AttendanceService
	Loans      ports.LoanService
	Inventory  ports.InventoryService
	Vehicles   ports.VehicleService
	Health     ports.HealthService
	Mortality  ports.MortalityService
	Eggs       ports.EggService
	Expenses   ports.ExpenseService
	Audit      ports.AuditService
}

// Options configure the HTTP surface.
type Options struct {
	Service        string
	Version        string
	Environment    string
	Production     bool
	AllowedOrigins []string
	BodyLimit      string
	RateLimiter    echomiddleware.RateLimiterStore
	Checks         []handlers.Check
	// Registry receives the HTTP metrics and backs /metrics. Defaults to
	// the global registry the custom metrics live in.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, opts Options, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log, opts.Production)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if opts.Registry != nil {
		registerer, gatherer = opts.Registry, opts.Registry
	}
	// Outside the request logger, which hands errors to the error handler, so
	// the committed status is what gets counted.
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "farms",
		Registerer: registerer,
	}))
	e.Use(middleware.RequestLogger(log))
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: opts.AllowedOrigins,
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept,
			echo.HeaderAuthorization, handler.HeaderIdempotencyKey,
		},
		ExposeHeaders: []string{echo.HeaderXRequestID, handler.HeaderIdempotentReplay},
	}))
	e.Use(echomiddleware.Gzip())
	e.Use(echomiddleware.BodyLimit(opts.BodyLimit))
	if opts.RateLimiter != nil {
		e.Use(middleware.RateLimit(opts.RateLimiter, log))
	}
	e.Use(middleware.CaptureBody(authPrefix))

	// --- Probes and tooling (no auth required) ---
	healthHandler := handlers.NewHealthHandler(opts.Service, opts.Version)
	healthDepsHandler := handlers.NewHealthDependenciesHandler(opts.Checks...)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	started := time.Now().UTC()
	e.GET(apiPrefix+"/status", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"success":     true,
			"service":     opts.Service,
			"version":     opts.Version,
			"environment": opts.Environment,
			"started_at":  started,
			"timestamp":   time.Now().UTC(),
		})
	})

	authenticate := middleware.Auth(svc.Auth)
	audit := middleware.Audit(svc.Audit, apiPrefix)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(svc.Auth)
	auth := e.Group(authPrefix)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authHandler.Me, authenticate)
	auth.PUT("/change-password", authHandler.ChangePassword, authenticate, audit)
	auth.POST("/users", authHandler.CreateUser, authenticate, audit, middleware.RBAC(admins...))

	// --- Farm resources ---
	v1 := e.Group(apiPrefix, authenticate, audit)
	registerResources(v1, svc)

	return e
}

func gate(roles []string) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{middleware.RBAC(roles...)}
}

func registerResources(v1 *echo.Group, svc Services) {
	open := []echo.MiddlewareFunc(nil)

	batches := handler.NewBatchHandler(svc.Batches)
	batches.Mount(v1.Group("/lotes"), open, gate(managers))

	birds := handler.NewBirdHandler(svc.Birds)
	g := v1.Group("/aves")
	g.GET("/estadisticas", birds.Stats)
	birds.Mount(g, open, gate(managers))

	products := handler.NewProductHandler(svc.Products)
	g = v1.Group("/productos")
	g.GET("/categorias", products.Categories)
	g.PATCH("/:id/stock", products.AdjustStock)
	products.Mount(g, open, gate(managers))

	clients := handler.NewClientHandler(svc.Clients, svc.Sales)
	g = v1.Group("/clientes")
	g.GET("/:id/ventas", clients.Sales)
	clients.Mount(g, open, gate(managers))

	sales := handler.NewSaleHandler(svc.Sales)
	g = v1.Group("/ventas")
	g.GET("/estadisticas", sales.Stats)
	g.GET("", sales.List)
	g.GET("/:id", sales.Get)
	g.POST("", sales.Create)
	g.PATCH("/:id/estado", sales.UpdateStatus, gate(supervisors)...)

	employees := handler.NewEmployeeHandler(svc.Employees, svc.Attendance)
	g = v1.Group("/empleados")
	g.GET("/puestos", employees.Positions)
	g.POST("/:id/asistencia", employees.RecordAttendance, gate(supervisors)...)
	employees.Mount(g, gate(managers), gate(managers))

	inventory := handler.NewInventoryHandler(svc.Inventory)
	g = v1.Group("/inventario")
	g.GET("/categorias", inventory.Categories)
	g.GET("/alertas", inventory.Alerts)
	g.PATCH("/:id/stock", inventory.AdjustStock)
	inventory.Mount(g, open, gate(managers))

	attendance := handler.NewAttendanceHandler(svc.Attendance)
	g = v1.Group("/asistencias")
	g.GET("/stats", attendance.Stats)
	attendance.Mount(g, gate(supervisors), gate(managers))

	loans := handler.NewLoanHandler(svc.Loans)
	g = v1.Group("/prestamos-empleados")
	g.GET("/stats", loans.Stats)
	loans.Mount(g, gate(managers), gate(admins))

	vehicles := handler.NewVehicleHandler(svc.Vehicles)
	g = v1.Group("/vehiculos")
	g.GET("/stats", vehicles.Stats)
	vehicles.Mount(g, gate(managers), gate(admins))

	health := handler.NewBirdHealthHandler(svc.Health)
	g = v1.Group("/salud-aves")
	g.GET("/stats", health.Stats)
	health.Mount(g, gate(supervisors), gate(managers))

	mortality := handler.NewMortalityHandler(svc.Mortality)
	g = v1.Group("/control-muertes")
	g.GET("/stats", mortality.Stats)
	mortality.Mount(g, gate(supervisors), gate(managers))

	eggs := handler.NewEggHandler(svc.Eggs)
	g = v1.Group("/control-huevos")
	g.GET("/stats", eggs.Stats)
	eggs.Mount(g, gate(supervisors), gate(managers))

	expenses := handler.NewExpenseHandler(svc.Expenses)
	g = v1.Group("/gastos-operacion")
	g.GET("/stats", expenses.Stats)
	expenses.Mount(g, gate(supervisors), gate(managers))

	auditHandler := handler.NewAuditHandler(svc.Audit)
	v1.GET("/auditoria", auditHandler.List, gate(admins)...)
}
