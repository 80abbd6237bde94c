package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/urmzd/ledhub/pkg/api/handlers"
	"github.com/urmzd/ledhub/pkg/fleet"
	"github.com/urmzd/ledhub/pkg/light/schema"
)

// Dependencies are the services the routes are served from.
type Dependencies struct {
	Fleet     *fleet.Fleet
	Refresher handlers.Refresher
	Zones     handlers.ZoneStore
	Values    handlers.ValueStore
	Validator *schema.Validator
}

// Router holds the Gin engine and dependencies
type Router struct {
	engine *gin.Engine
	deps   Dependencies
}

// NewRouter creates a new API router
func NewRouter(deps Dependencies) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	SetupMiddleware(engine)

	if deps.Validator == nil {
		deps.Validator = schema.NewValidator()
	}

	router := &Router{
		engine: engine,
		deps:   deps,
	}

	router.setupRoutes()

	return router
}

// setupRoutes configures all API routes
func (r *Router) setupRoutes() {
	// Swagger UI
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	// Health check at root
	healthHandler := handlers.NewHealthHandler(r.deps.Fleet)
	r.engine.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.engine.Group("/api/v1")
	{
		// Health
		v1.GET("/health", healthHandler.Health)

		// Lights
		lightsHandler := handlers.NewLightsHandler(r.deps.Fleet, r.deps.Validator)
		discoveryHandler := handlers.NewDiscoveryHandler(r.deps.Refresher, r.deps.Fleet)
		rgb := v1.Group("/rgb")
		{
			rgb.POST("/color", lightsHandler.SetColor)
			rgb.POST("/rgb", lightsHandler.SetRGB)
			rgb.POST("/power", lightsHandler.SetPower)
			rgb.POST("/effect", lightsHandler.RunEffect)
			rgb.POST("/fade", lightsHandler.Fade)
			rgb.GET("/clients", lightsHandler.ListClients)
			rgb.GET("/clients/:id", lightsHandler.GetClient)
			rgb.GET("/effects", lightsHandler.ListEffects)

			rgb.POST("/refresh", discoveryHandler.Refresh)
			rgb.GET("/events", discoveryHandler.Events)
		}

		// Zones
		if r.deps.Zones != nil {
			zonesHandler := handlers.NewZonesHandler(r.deps.Zones, r.deps.Fleet.Registry())
			v1.GET("/zones", zonesHandler.ListZones)
			v1.PUT("/zones/:name", zonesHandler.PutZone)
		}

		// Mirrored values
		if r.deps.Values != nil {
			valuesHandler := handlers.NewValuesHandler(r.deps.Values, r.deps.Fleet)
			v1.GET("/values", valuesHandler.ListValues)
			v1.PUT("/values/:key", valuesHandler.PutValue)
		}
	}
}

// Handler returns the HTTP handler serving the routes.
func (r *Router) Handler() http.Handler {
	return r.engine
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
