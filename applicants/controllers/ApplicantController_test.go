package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"enrollment-backend/applicants/services"
	documents_services "enrollment-backend/documents/services"
	"enrollment-backend/remote"
	"enrollment-backend/tables"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

const testRoot = "/srv/escuela"

func fixedNow() time.Time {
	return time.Date(2025, 9, 25, 18, 12, 0, 0, time.UTC)
}

func newTestApp(t *testing.T) (*fiber.App, *remote.MemoryDialer) {
	t.Helper()

	dialer := remote.NewMemoryDialer()
	ledger := tables.NewLedgerRepository(tables.NewStore(dialer), tables.DefaultPaths(testRoot))
	submissions := services.NewSubmissionService(services.SubmissionConfig{
		Ledger:     ledger,
		Placer:     documents_services.NewPlacer(dialer, testRoot, false).WithClock(fixedNow),
		SecretCost: bcrypt.MinCost,
		Now:        fixedNow,
	})
	ac := &ApplicantController{
		Submissions: submissions,
		Audit:       services.NewAuditService(ledger, nil),
	}

	app := fiber.New()
	app.Post("/submissions", ac.CreateSubmissionController)
	app.Post("/submissions/stage", ac.StageDocumentsController)
	app.Post("/registrations", ac.RegisterApplicantController)
	app.Get("/applicants", ac.GetFilteredApplicantsController)
	app.Get("/applicants/export", ac.ExportApplicantsController)
	app.Get("/applicants/:id/documents", ac.GetApplicantDocumentsController)
	app.Get("/audit", ac.RunLedgerAuditController)
	return app, dialer
}

type formFile struct {
	name    string
	docType string
	content string
}

func multipartRequest(t *testing.T, target string, fields map[string]string, files []formFile) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatal(err)
		}
	}
	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="documents"; filename="`+f.name+`"`)
		header.Set("Content-Type", "application/pdf")
		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatal(err)
		}
		io.WriteString(part, f.content)
		if err := writer.WriteField("document_types", f.docType); err != nil {
			t.Fatal(err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())
	return req
}

func applicantFields() map[string]string {
	return map[string]string{
		"full_name": "María González",
		"email":     "maria@example.org",
		"phone":     "5512345678",
		"program":   "LIC-ENF",
		"final":     "true",
	}
}

type submissionBody struct {
	Success bool                      `json:"success"`
	Message string                    `json:"message"`
	Data    services.SubmissionResult `json:"data"`
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestCreateSubmissionController(t *testing.T) {
	app, dialer := newTestApp(t)

	req := multipartRequest(t, "/submissions", applicantFields(), []formFile{
		{name: "curp.pdf", docType: "CURP", content: "%PDF-curp"},
	})
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var body submissionBody
	decode(t, resp, &body)
	if !body.Success || body.Data.ApplicantID == "" {
		t.Fatalf("unexpected body %+v", body)
	}
	if body.Data.IssuedSecret == "" {
		t.Error("expected a one-time secret for a new applicant")
	}
	if len(body.Data.Documents) != 1 {
		t.Fatalf("documents = %d, want 1", len(body.Data.Documents))
	}
	if _, ok := dialer.File(body.Data.Documents[0].StoragePath); !ok {
		t.Errorf("document not written at %s", body.Data.Documents[0].StoragePath)
	}
	if !strings.Contains(body.Message, "documents: 1 succeeded, 0 failed") {
		t.Errorf("message = %q", body.Message)
	}
}

func TestCreateSubmissionControllerRejectsInvalidInput(t *testing.T) {
	app, dialer := newTestApp(t)

	fields := applicantFields()
	fields["email"] = "not-an-email"
	resp, err := app.Test(multipartRequest(t, "/submissions", fields, nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	var body submissionBody
	decode(t, resp, &body)
	if body.Data.Validation == nil || body.Data.Validation.Fields["email"] == "" {
		t.Errorf("validation = %+v", body.Data.Validation)
	}
	if connects, _ := dialer.Stats(); connects != 0 {
		t.Errorf("connects = %d, want 0", connects)
	}
}

func TestCreateSubmissionControllerMismatchedTypes(t *testing.T) {
	app, _ := newTestApp(t)

	// A file with no matching document_types value.
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range applicantFields() {
		writer.WriteField(key, value)
	}
	part, _ := writer.CreateFormFile("documents", "a.pdf")
	io.WriteString(part, "x")
	writer.Close()
	req := httptest.NewRequest(http.MethodPost, "/submissions", &body)
	req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestRegisterAndListApplicants(t *testing.T) {
	app, _ := newTestApp(t)

	payload := `{"full_name":"Ana López","email":"ana@example.org","phone":"5598765432","program":"Diplomado de Hemodinámica"}`
	req := httptest.NewRequest(http.MethodPost, "/registrations", strings.NewReader(payload))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("register status = %d, want 201", resp.StatusCode)
	}
	resp.Body.Close()

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/applicants?status=pre-registered", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("list status = %d, want 200", resp.StatusCode)
	}

	var list struct {
		Items []struct {
			ID      string `json:"id"`
			Program string `json:"program"`
			Status  string `json:"status"`
		} `json:"items"`
		Pagination struct {
			TotalItems int64 `json:"total_items"`
		} `json:"pagination"`
	}
	decode(t, resp, &list)
	if list.Pagination.TotalItems != 1 || len(list.Items) != 1 {
		t.Fatalf("list = %+v", list)
	}
	if list.Items[0].Program != "Diplomado de Hemodinámica" || list.Items[0].Status != "pre-registered" {
		t.Errorf("item = %+v", list.Items[0])
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/applicants?status=completed", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	decode(t, resp, &list)
	if list.Pagination.TotalItems != 0 {
		t.Errorf("completed filter returned %d items", list.Pagination.TotalItems)
	}
}

func TestStageThenDocumentsEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	stage := multipartRequest(t, "/submissions/stage", map[string]string{
		"full_name": "María González",
		"program":   "LIC-ENF",
	}, []formFile{{name: "acta.pdf", docType: "Acta de nacimiento", content: "%PDF-acta"}})
	resp, err := app.Test(stage, -1)
	if err != nil {
		t.Fatal(err)
	}
	var staged submissionBody
	decode(t, resp, &staged)
	if staged.Data.TemporaryID == "" {
		t.Fatalf("no temporary id in %+v", staged)
	}

	fields := applicantFields()
	fields["temporary_id"] = staged.Data.TemporaryID
	resp, err = app.Test(multipartRequest(t, "/submissions", fields, nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	var submitted submissionBody
	decode(t, resp, &submitted)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/applicants/"+submitted.Data.ApplicantID+"/documents", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	var docs struct {
		Total int `json:"total"`
	}
	decode(t, resp, &docs)
	if docs.Total != 1 {
		t.Errorf("documents for %s = %d, want 1", submitted.Data.ApplicantID, docs.Total)
	}
}

func TestExportApplicantsController(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/applicants/export", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get(fiber.HeaderContentType); !strings.Contains(got, "spreadsheetml") {
		t.Errorf("content type = %q", got)
	}
	if got := resp.Header.Get(fiber.HeaderContentDisposition); !strings.Contains(got, ".xlsx") {
		t.Errorf("content disposition = %q", got)
	}
}

func TestRunLedgerAuditController(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/audit", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	var body struct {
		Clean bool `json:"clean"`
	}
	decode(t, resp, &body)
	if !body.Clean {
		t.Error("empty ledger should audit clean")
	}
}

func TestCreateSubmissionControllerRejectsForeignIDs(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
	}{
		{"traversal applicant id", "applicant_id", "../../x"},
		{"unregistered applicant id", "applicant_id", "MAT-INS99999"},
		{"applicant id as temporary id", "temporary_id", "MAT-INS00001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, dialer := newTestApp(t)

			fields := applicantFields()
			fields[tt.field] = tt.value
			req := multipartRequest(t, "/submissions", fields, []formFile{
				{name: "curp.pdf", docType: "CURP", content: "%PDF-curp"},
			})
			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != fiber.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}

			var body submissionBody
			decode(t, resp, &body)
			if body.Data.Validation == nil || body.Data.Validation.Fields[tt.field] == "" {
				t.Errorf("validation = %+v", body.Data.Validation)
			}
			if files := dialer.Files(); len(files) != 0 {
				t.Errorf("files written: %v", files)
			}
		})
	}
}
