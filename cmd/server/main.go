package main

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/example/okeetropics/internal/config"
	"github.com/example/okeetropics/internal/database"
	"github.com/example/okeetropics/internal/metrics"
	"github.com/example/okeetropics/internal/routes"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	app := fiber.New(fiber.Config{
		AppName: "Okeetropics Backend",
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.AllowOrigins}))
	app.Use(collector.Middleware())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	routes.Register(app, db, cfg, collector)

	log.Info().Str("port", cfg.AppPort).Msg("starting server")
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
