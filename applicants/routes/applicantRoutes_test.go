package routes

import (
	"net/http/httptest"
	"strings"
	"testing"

	"enrollment-backend/applicants/services"
	documents_services "enrollment-backend/documents/services"
	"enrollment-backend/middleware"
	"enrollment-backend/remote"
	"enrollment-backend/tables"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

func TestOperatorRoutesRequireKey(t *testing.T) {
	dialer := remote.NewMemoryDialer()
	ledger := tables.NewLedgerRepository(tables.NewStore(dialer), tables.DefaultPaths("/srv/escuela"))
	submissions := services.NewSubmissionService(services.SubmissionConfig{
		Ledger:     ledger,
		Placer:     documents_services.NewPlacer(dialer, "/srv/escuela", false),
		SecretCost: bcrypt.MinCost,
	})

	app := fiber.New()
	ApplicantInitRoutes(app, &middleware.AppContext{OperatorKey: "s3cret"}, submissions, services.NewAuditService(ledger, nil))

	tests := []struct {
		name   string
		method string
		target string
		body   string
		auth   string
		want   int
	}{
		{"list without key", "GET", "/api/v1/applicants", "", "", fiber.StatusUnauthorized},
		{"audit without key", "GET", "/api/v1/audit", "", "", fiber.StatusUnauthorized},
		{"list with key", "GET", "/api/v1/applicants", "", "Bearer s3cret", fiber.StatusOK},
		{"registration is public", "POST", "/api/v1/registrations", `{"full_name":"Ana López","email":"ana@example.org","phone":"5598765432"}`, "", fiber.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			}
			if tt.auth != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.auth)
			}
			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}
