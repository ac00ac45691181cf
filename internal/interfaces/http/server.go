package http

import (
	"os"
	"strings"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/licorera-api/internal/application/dto"
)

// ServerConfig opciones del servidor Fiber.
type ServerConfig struct {
	AppName          string
	CORSAllowOrigins string
	DocsFile         string // swagger.json; vacío o inexistente deja /docs sin montar
	DocsTitle        string
}

// NewApp construye la app Fiber con recover, request id, CORS, log de accesos y Swagger UI en /docs.
func NewApp(cfg ServerConfig, log zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				code = fe.Code
			}
			return c.Status(code).JSON(dto.Response{Success: false, Message: err.Error()})
		},
	})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: func() string { return uuid.NewString() },
	}))
	origins := strings.TrimSpace(cfg.CORSAllowOrigins)
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: strings.Join([]string{
			fiber.HeaderContentType, fiber.HeaderAuthorization, HeaderUserID, fiber.HeaderXRequestID,
		}, ","),
		ExposeHeaders: fiber.HeaderXRequestID + "," + fiber.HeaderContentDisposition,
	}))
	app.Use(RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.DocsFile != "" {
		if _, err := os.Stat(cfg.DocsFile); err != nil {
			log.Warn().Err(err).Str("file", cfg.DocsFile).Msg("swagger no disponible")
		} else {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.DocsFile,
				Path:     "docs",
				Title:    cfg.DocsTitle,
			}))
		}
	}
	return app
}
