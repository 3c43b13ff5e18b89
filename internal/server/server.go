package server

import (
	"backend-gpstrack/internal/auth"
	"backend-gpstrack/internal/config"
	"backend-gpstrack/internal/gps"
	"backend-gpstrack/internal/session"
	"backend-gpstrack/internal/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App     *fiber.App
	Cfg     config.Config
	DB      *pgxpool.Pool
	Redis   *redis.Client
	Stream  *stream.Hub
	Tracker *session.Tracker
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:     app,
		Cfg:     cfg,
		DB:      db,
		Redis:   redisClient,
		Stream:  stream.NewHub(redisClient),
		Tracker: session.NewTracker(cfg.SessionIdleTimeout),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	gpsSvc := gps.NewService(gps.NewStore(s.DB), s.Tracker, s.Stream, s.Cfg.SpeedLimitKph)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB), jwtMiddleware)
	gps.RegisterRoutes(s.App.Group("/gps"), gpsSvc, jwtMiddleware)
	session.RegisterRoutes(s.App.Group("/sessions"), s.Tracker, jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
