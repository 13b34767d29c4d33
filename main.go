package main

import (
	"log"

	"github.com/fasthttp/router"
	"github.com/joho/godotenv"
	"github.com/valyala/fasthttp"

	"servicereg/internal/config"
	"servicereg/internal/db"
	"servicereg/internal/http/handlers"
	appmw "servicereg/internal/http/middleware"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	sqlDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	appmw.InitMetrics()

	r := router.New()

	auth := appmw.APIKeyAuth(cfg)
	prefix := cfg.RoutePrefix

	r.GET(prefix+"/healthcheck", handlers.Healthcheck())
	r.GET("/metrics", handlers.Metrics())

	r.GET(prefix+"/", auth(handlers.ListServices(sqlDB)))
	r.POST(prefix+"/", auth(handlers.RegisterService(sqlDB, cfg)))
	r.GET(prefix+"/{id}", auth(handlers.GetService(sqlDB)))
	r.PATCH(prefix+"/{id}/update_status", auth(handlers.UpdateServiceStatus(sqlDB)))
	r.PATCH(prefix+"/{id}/update_cache", auth(handlers.UpdateServiceCache(sqlDB)))
	r.DELETE(prefix+"/{id}", auth(handlers.DeleteService(sqlDB)))

	// Global middleware chain: request logger, then prometheus metrics, then router
	handler := appmw.RequestLogger(appmw.RequestMetrics(r.Handler))

	log.Printf("servicereg listening on %s", cfg.ListenAddr)
	if err := fasthttp.ListenAndServe(cfg.ListenAddr, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
