// Package api serves the ledger over HTTP.
package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/tallybook/tally/internal/buildinfo"
	"github.com/tallybook/tally/internal/config"
	"github.com/tallybook/tally/internal/ledger"
)

// Server is the HTTP front end of a ledger Service.
type Server struct {
	app *fiber.App
	svc *ledger.Service
	log zerolog.Logger
}

// New builds the fiber app and registers every route.
func New(svc *ledger.Service, cfg config.ServerConfig, log zerolog.Logger) *Server {
	s := &Server{svc: svc, log: log}

	bodyLimit := cfg.BodyLimitMB
	if bodyLimit <= 0 {
		bodyLimit = 10
	}
	s.app = fiber.New(fiber.Config{
		AppName:               "tally " + buildinfo.Version,
		BodyLimit:             bodyLimit * 1024 * 1024,
		ErrorHandler:          s.handleError,
		DisableStartupMessage: true,
	})

	s.app.Use(requestLogger(log))
	s.app.Use(recover.New())
	origins := strings.Join(cfg.AllowOrigins, ",")
	if origins == "" {
		origins = "*"
	}
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, " + headerUserID + ", " + headerPlan,
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
	}))

	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.app.Group("/api/v1")

	api.Get("/health", s.health)

	imports := api.Group("/imports", requireActor)
	imports.Post("/", s.importStatement)
	imports.Get("/", s.listImports)

	txs := api.Group("/transactions", requireActor)
	txs.Post("/", s.createTransaction)
	txs.Get("/", s.listTransactions)
	txs.Get("/:id", s.getTransaction)
	txs.Patch("/:id", s.updateTransaction)
	txs.Delete("/:id", s.deleteTransaction)

	goals := api.Group("/goals", requireActor)
	goals.Post("/", s.createGoal)
	goals.Get("/", s.listGoals)
	goals.Get("/:id", s.getGoal)
	goals.Patch("/:id", s.updateGoal)
	goals.Delete("/:id", s.deleteGoal)
	goals.Post("/:id/reconcile", s.reconcileGoal)

	api.Get("/categories", s.listCategories)
	api.Get("/export", requireActor, s.exportLedger)
}

// App returns the underlying fiber app, for tests and embedding.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.log.Info().Str("addr", addr).Str("version", buildinfo.Version).Msg("listening")
	return s.app.Listen(addr)
}

// Shutdown stops the server, letting in-flight requests finish.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "version": buildinfo.Version})
}
