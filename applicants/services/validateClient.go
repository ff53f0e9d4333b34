package services

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	documents_requests "enrollment-backend/documents/requests"
	"enrollment-backend/documents/validators"
	"enrollment-backend/utils"

	"github.com/go-playground/validator/v10"
)

// ValidationError lists every rejected field. It is always returned before
// the store is touched.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) add(field, problem string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	e.Fields[field] = problem
}

// ValidEmail needs an @ and a dot somewhere in the domain part.
func ValidEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return false
	}
	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}

// newValidator reports fields by their JSON names and knows the
// applicant_email tag.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	// Registration only fails for an empty tag or a nil function.
	_ = v.RegisterValidation("applicant_email", func(fl validator.FieldLevel) bool {
		return ValidEmail(fl.Field().String())
	})
	_ = v.RegisterValidation("applicant_id", func(fl validator.FieldLevel) bool {
		return utils.IsApplicantID(fl.Field().String())
	})
	_ = v.RegisterValidation("temporary_id", func(fl validator.FieldLevel) bool {
		return utils.IsTemporaryID(fl.Field().String())
	})
	return v
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "applicant_email":
		return "is not a valid email address"
	case "applicant_id":
		return "is not a valid applicant id"
	case "temporary_id":
		return "is not a valid temporary id"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "datetime":
		return "must be a date formatted " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}

// validateStruct runs the tag rules and folds failures into a ValidationError.
func validateStruct(v *validator.Validate, s interface{}, verr *ValidationError) {
	err := v.Struct(s)
	if err == nil {
		return
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		verr.add("request", err.Error())
		return
	}
	for _, fe := range validationErrors {
		verr.add(fe.Field(), describeTag(fe))
	}
}

func validateDocuments(dv *validators.DocumentValidator, docs []documents_requests.UploadedDocument, verr *ValidationError) {
	for i, doc := range docs {
		if err := dv.ValidateUploadedDocument(doc); err != nil {
			verr.add(fmt.Sprintf("documents[%d]", i), err.Error())
		}
	}
}
