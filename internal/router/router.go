package router

import (
	"time"

	"tippool/internal/config"
	"tippool/internal/handler"
	"tippool/internal/middleware"
	"tippool/internal/repository"
	"tippool/internal/service"
	"tippool/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	checkinRepo := repository.NewCheckInRepository(db)
	propinaRepo := repository.NewPropinaRepository(db)
	repartoRepo := repository.NewRepartoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	usuarioSvc := service.NewUsuarioService(usuarioRepo)
	checkinSvc := service.NewCheckInService(checkinRepo)
	propinaSvc := service.NewPropinaService(propinaRepo)
	repartoSvc := service.NewRepartoService(repartoRepo, rdb)
	soporteSvc := service.NewSoporteService(dispatcher, cfg.SoporteEmail)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(usuarioSvc)
	checkinsH := handler.NewCheckInsHandler(checkinSvc)
	propinasH := handler.NewPropinasHandler(propinaSvc)
	repartosH := handler.NewRepartosHandler(repartoSvc)
	soporteH := handler.NewSoporteHandler(soporteSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/api/auth", middleware.LoginRateLimiter())
	{
		auth.POST("/register", authH.Register)
		auth.POST("/login", authH.Login)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	api := r.Group("/api", jwtMW)
	{
		// Usuarios: listing and mutation are manager-only, anyone
		// authenticated can look up a profile
		api.GET("/users/:id", usuariosH.Obtener)
		usuarios := api.Group("/users", middleware.RequireRole("ENCARGADO"))
		{
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
		}

		// Check-ins: any authenticated employee manages their own shift
		checkins := api.Group("/checkins")
		{
			checkins.POST("/entrada", checkinsH.Entrada)
			checkins.POST("/salida", checkinsH.Salida)
			checkins.GET("/mis-checkins", checkinsH.MisCheckins)
			checkins.GET("/fecha/:fecha", middleware.RequireRole("ENCARGADO"), checkinsH.PorFecha)
		}

		// Propinas: any employee can add to the pool, listing open to all
		propinas := api.Group("/propinas")
		{
			propinas.POST("", propinasH.Registrar)
			propinas.GET("", propinasH.Listar)
			propinas.GET("/pendientes", propinasH.Pendientes)
		}

		// Repartos: computing and full history are manager-only,
		// each employee reads their own allocations
		repartos := api.Group("/repartos")
		{
			repartos.POST("/calcular", middleware.RequireRole("ENCARGADO"), repartosH.Calcular)
			repartos.GET("/mis-repartos", repartosH.MisRepartos)
			repartos.GET("/historial", middleware.RequireRole("ENCARGADO"), repartosH.Historial)
			repartos.GET("/detalle/:id", repartosH.Detalle)
		}

		api.POST("/soporte/reporte", soporteH.Reporte)
	}

	// Swagger UI, only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
