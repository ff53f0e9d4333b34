package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func newTestApp(appCtx *AppContext) *fiber.App {
	app := fiber.New()
	app.Use(RequestContext())
	app.Get("/open", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/operator", ProtectedRoute(appCtx), func(c *fiber.Ctx) error { return c.SendString("ok") })
	return app
}

func TestProtectedRoute(t *testing.T) {
	app := newTestApp(&AppContext{OperatorKey: "s3cret"})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", fiber.StatusUnauthorized},
		{"wrong scheme", "Basic s3cret", fiber.StatusUnauthorized},
		{"wrong key", "Bearer nope", fiber.StatusUnauthorized},
		{"valid", "Bearer s3cret", fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/operator", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestProtectedRouteOpenWithoutKey(t *testing.T) {
	app := newTestApp(&AppContext{})
	resp, err := app.Test(httptest.NewRequest("GET", "/operator", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestRequestContextEchoesRequestID(t *testing.T) {
	app := newTestApp(nil)

	req := httptest.NewRequest("GET", "/open", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if got := resp.Header.Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q, want abc-123", got)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/open", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("expected a generated request id")
	}
}
