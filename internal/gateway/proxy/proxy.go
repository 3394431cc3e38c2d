package proxy

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// ============================================================
// Proxy
// ============================================================

// заголовки запроса, которые уходят к upstream
var forwardedHeaders = []string{"Content-Type", "Authorization", "Accept", "Origin"}

// hop-by-hop заголовки ответа не копируются
var skippedResponseHeaders = map[string]bool{
	"Connection":        true,
	"Keep-Alive":        true,
	"Transfer-Encoding": true,
	"Content-Length":    true,
}

type Proxy struct {
	client *http.Client
	log    *zap.Logger
}

func New(timeout time.Duration, log *zap.Logger) *Proxy {
	if log == nil {
		log = zap.NewNop()
	}
	return &Proxy{
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

// To проксирует запрос на фиксированный URL.
func (p *Proxy) To(targetURL string) fiber.Handler {
	return func(c fiber.Ctx) error {
		return p.Forward(c, targetURL)
	}
}

// Mount проксирует всё под префиксом: /prefix/* -> upstream/*, query сохраняется.
func (p *Proxy) Mount(upstream string) fiber.Handler {
	upstream = strings.TrimSuffix(upstream, "/")
	return func(c fiber.Ctx) error {
		target := upstream + "/" + c.Params("*")
		if qs := string(c.Request().URI().QueryString()); qs != "" {
			target += "?" + qs
		}
		return p.Forward(c, target)
	}
}

// Forward проксирует любой метод; тело (в том числе multipart) уходит как есть.
func (p *Proxy) Forward(c fiber.Ctx, targetURL string) error {
	p.log.Debug("proxy request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("content_length", len(c.Body())),
		zap.String("target", targetURL),
	)

	req, err := http.NewRequest(c.Method(), targetURL, bytes.NewReader(c.Body()))
	if err != nil {
		p.log.Error("proxy build request", zap.String("target", targetURL), zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "proxy failed"})
	}

	for _, key := range forwardedHeaders {
		if v := c.Get(key); v != "" {
			req.Header.Set(key, v)
		}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.log.Warn("upstream unreachable", zap.String("target", targetURL), zap.Error(err))
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": "failed to reach upstream service"})
	}
	defer resp.Body.Close()

	return p.copyResponse(c, resp)
}

func (p *Proxy) copyResponse(c fiber.Ctx, resp *http.Response) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		p.log.Warn("upstream read failed", zap.Error(err))
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": "invalid upstream response"})
	}

	for key, values := range resp.Header {
		if skippedResponseHeaders[key] || len(values) == 0 {
			continue
		}
		c.Set(key, values[0])
	}

	c.Status(resp.StatusCode)
	return c.Send(data)
}
