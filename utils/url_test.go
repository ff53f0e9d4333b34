package utils

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestGetDownloadURL(t *testing.T) {
	tests := []struct {
		name   string
		appEnv string
		want   string
	}{
		{"development", "", "http://example.com/api/v1/documents/MAT-INS00001.LIC-ENF.25-09-25-18-12.Mar%C3%ADa_Gonz%C3%A1lez.CURP.pdf"},
		{"production", "production", "https://example.com/api/v1/documents/MAT-INS00001.LIC-ENF.25-09-25-18-12.Mar%C3%ADa_Gonz%C3%A1lez.CURP.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_ENV", tt.appEnv)

			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return c.SendString(GetDownloadURL(c, "/api/v1/documents/MAT-INS00001.LIC-ENF.25-09-25-18-12.María_González.CURP.pdf"))
			})

			resp, err := app.Test(httptest.NewRequest("GET", "http://example.com/", nil))
			if err != nil {
				t.Fatal(err)
			}
			body, _ := io.ReadAll(resp.Body)
			if string(body) != tt.want {
				t.Errorf("GetDownloadURL = %s, want %s", body, tt.want)
			}
		})
	}
}
