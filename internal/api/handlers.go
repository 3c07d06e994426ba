package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/katakuxiko/pdfchat/internal/client"
	"github.com/katakuxiko/pdfchat/internal/config"
	"github.com/katakuxiko/pdfchat/internal/model"
	"github.com/katakuxiko/pdfchat/internal/page"
	"github.com/katakuxiko/pdfchat/internal/pdf"
	"github.com/katakuxiko/pdfchat/internal/service"
	"github.com/katakuxiko/pdfchat/internal/util"
)

// csrfContextKey is where the csrf middleware stores the page token.
const csrfContextKey = "csrf"

// Handler хранит зависимости для обработчиков
type Handler struct {
	backend service.Backend
	server  config.ServerConfig
	tabs    []config.TabConfig
	log     *slog.Logger
}

// NewHandler конструктор
func NewHandler(b service.Backend, cfg *config.Config, log *slog.Logger) *Handler {
	if log == nil {
		log = util.Discard()
	}
	return &Handler{backend: b, server: cfg.Server, tabs: cfg.Tabs, log: log}
}

// Health — простая проверка
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.SendString("ok")
}

// ChatPage renders the chat page with a fresh transcript and the configured
// tabs in their initial visibility.
func (h *Handler) ChatPage(c *fiber.Ctx) error {
	token, _ := c.Locals(csrfContextKey).(string)

	tabs, err := page.TabsFromConfig(h.tabs)
	if err != nil {
		h.log.Error("building tabs", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "page misconfigured"})
	}
	doc := page.NewDocument(token, tabs)

	c.Type("html", "utf-8")
	return page.Render(c, page.NewView(doc, page.ContentsFromConfig(h.tabs)))
}

// UploadPDF — приём PDF (поле pdf), проверка, сохранение и передача в backend
func (h *Handler) UploadPDF(c *fiber.Ctx) error {
	file, err := c.FormFile(client.UploadField)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required (form field: pdf)"})
	}

	f, err := file.Open()
	if err != nil {
		h.log.Error("open upload", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read upload"})
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		h.log.Error("read upload", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read upload"})
	}

	info, err := pdf.Inspect(data)
	if err != nil {
		h.log.Info("rejected upload", "file", file.Filename, "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is not a readable PDF"})
	}

	if err := os.MkdirAll(h.server.UploadDir, 0o755); err != nil {
		h.log.Error("mkdir upload dir", "dir", h.server.UploadDir, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to prepare storage"})
	}
	saveName := util.Timestamped(file.Filename)
	savePath := filepath.Join(h.server.UploadDir, saveName)
	if err := os.WriteFile(savePath, data, 0o644); err != nil {
		h.log.Error("save upload", "path", savePath, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save file"})
	}

	resp := model.UploadResponse{Status: "success", Name: saveName, Pages: info.Pages}
	raw, err := h.backend.Index(c.UserContext(), util.SafeName(file.Filename), data)
	switch {
	case errors.Is(err, service.ErrNoBackend):
		resp.Warnings = append(resp.Warnings, "no QA backend configured; file stored only")
	case err != nil:
		h.log.Error("index upload", "file", saveName, "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "indexing service unavailable"})
	default:
		resp.Backend = raw
	}

	h.log.Info("pdf uploaded", "file", saveName, "pages", info.Pages, "bytes", len(data))
	return c.JSON(resp)
}

// AskQuestion — передаёт вопрос в backend и возвращает answer или error
func (h *Handler) AskQuestion(c *fiber.Ctx) error {
	var req model.AskRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request, expected JSON: {\"question\":\"...\"}"})
	}
	if req.Question == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "empty question"})
	}

	resp, err := h.backend.Ask(c.UserContext(), req.Question)
	switch {
	case errors.Is(err, service.ErrNoBackend):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		h.log.Error("ask relay", "question", util.TruncateRunes(req.Question, 80), "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "answering service unavailable"})
	}

	if resp.Answer == "" {
		msg := resp.Error
		if msg == "" {
			msg = "no answer"
		}
		status := fiber.StatusInternalServerError
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			status = resp.StatusCode
		}
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}
	return c.JSON(fiber.Map{"answer": resp.Answer})
}
