package api

import (
	"embed"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/katakuxiko/pdfchat/internal/client"
	"github.com/katakuxiko/pdfchat/internal/config"
	"github.com/katakuxiko/pdfchat/internal/service"
	"github.com/katakuxiko/pdfchat/internal/util"
)

//go:embed static/*.js
var staticFS embed.FS

// CSRFCookie is the cookie that pairs with the page's csrfmiddlewaretoken.
const CSRFCookie = "csrftoken"

// NewApp builds the fiber app with middleware and routes.
func NewApp(cfg *config.Config, b service.Backend, log *slog.Logger) *fiber.App {
	if log == nil {
		log = util.Discard()
	}
	app := fiber.New(fiber.Config{
		AppName:               "pdfchat",
		BodyLimit:             cfg.Server.MaxUploadMB << 20,
		DisableStartupMessage: true,
		ErrorHandler:          jsonErrorHandler(log),
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(requestLogger(log))
	if cfg.Server.CSRF {
		app.Use(csrf.New(csrf.Config{
			KeyLookup:      "header:" + client.CSRFHeader,
			CookieName:     CSRFCookie,
			CookieSameSite: "Lax",
			Expiration:     12 * time.Hour,
			KeyGenerator:   uuid.NewString,
			ContextKey:     csrfContextKey,
			ErrorHandler: func(c *fiber.Ctx, err error) error {
				log.Warn("csrf check failed", "path", c.Path(), "error", err)
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "CSRF token missing or incorrect"})
			},
		}))
	}

	RegisterRoutes(app, NewHandler(b, cfg, log))
	return app
}

func RegisterRoutes(app *fiber.App, h *Handler) {
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}

	app.Get("/health", h.Health)
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/chatbot/", fiber.StatusFound)
	})
	app.Use("/static/chatbot", filesystem.New(filesystem.Config{Root: http.FS(static)}))

	chat := app.Group("/chatbot")
	chat.Get("/", h.ChatPage)
	chat.Post("/upload/", h.UploadPDF)
	chat.Post("/ask/", h.AskQuestion)
}

func requestLogger(log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
		log.Info("request",
			"id", c.Locals("requestid"),
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"duration", time.Since(start),
		)
		return err
	}
}

func jsonErrorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := "internal error"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			msg = fe.Message
		} else {
			log.Error("unhandled error", "path", c.Path(), "error", err)
		}
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}
}
