package services

import (
	"strings"
	"unicode"
)

// Document categories are the top-level folders under the storage root.
const (
	CategorySpecialties = "ESPECIALIDADES"
	CategoryBachelors   = "LICENCIATURAS"
	CategoryDiplomas    = "DIPLOMADOS"
	CategoryOther       = "OTROS"

	OtherProgramCode = "OTRO"
	// OtherProgramName is stored for programs outside the catalog.
	OtherProgramName = "other"
	// DefaultDocumentCode names documents whose type label is empty.
	DefaultDocumentCode = "DOC"
)

// Program is one entry of the program catalog.
type Program struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	Category string `json:"category"`
}

// Programs is the catalog in display order.
var Programs = []Program{
	{Name: "Especialidad en Enfermería Cardiovascular", Code: "ESP-CARD", Category: CategorySpecialties},
	{Name: "Especialidad en Enfermería Nefrológica", Code: "ESP-NEFR", Category: CategorySpecialties},
	{Name: "Especialidad en Gestión del Cuidado", Code: "ESP-GEST", Category: CategorySpecialties},
	{Name: "Especialidad de Enfermería en Circulación Extracorpórea y Perfusión", Code: "ESP-PERF", Category: CategorySpecialties},
	{Name: "Licenciatura en Enfermería", Code: "LIC-ENF", Category: CategoryBachelors},
	{Name: "Diplomado de Cardiología Básica para Profesionales de Enfermería", Code: "DIP-CBAS", Category: CategoryDiplomas},
	{Name: "Diplomado de Cardiología Pediátrica para Profesionales de Enfermería", Code: "DIP-CPED", Category: CategoryDiplomas},
	{Name: "Diplomado de Oxigenación por Membrana Extracorpórea", Code: "DIP-ECMO", Category: CategoryDiplomas},
	{Name: "Diplomado de Enseñanza en Simulación Clínica", Code: "DIP-SIMU", Category: CategoryDiplomas},
	{Name: "Diplomado de Hemodinámica", Code: "DIP-HEMO", Category: CategoryDiplomas},
	{Name: "Diplomado de Nefro-Intervencionismo", Code: "DIP-NINT", Category: CategoryDiplomas},
}

var otherProgram = Program{Name: OtherProgramName, Code: OtherProgramCode, Category: CategoryOther}

// ResolveProgram looks a program up by full name or by code, ignoring case
// and surrounding space. The second result is false for programs outside the
// catalog, which resolve to the "other" program.
func ResolveProgram(nameOrCode string) (Program, bool) {
	key := strings.TrimSpace(nameOrCode)
	if key == "" {
		return otherProgram, false
	}

	for _, program := range Programs {
		if strings.EqualFold(program.Name, key) || strings.EqualFold(program.Code, key) {
			return program, true
		}
	}
	return otherProgram, false
}

// CategoryFor returns the folder a program's documents are stored in.
func CategoryFor(nameOrCode string) string {
	program, _ := ResolveProgram(nameOrCode)
	return program.Category
}

type documentPattern struct {
	pattern string
	code    string
}

// documentPatterns is matched in order. A pattern must come before any
// shorter pattern it starts with, or the shorter one wins the substring pass.
var documentPatterns = []documentPattern{
	{"acta de nacimiento", "ACTNAC"},
	{"certificado de bachillerato", "BACH"},
	{"curp", "CURP"},
	{"comprobante de domicilio", "DOM"},
	{"identificación oficial", "INE"},
	{"título profesional", "TITULO"},
	{"cédula profesional", "CEDULA"},
	{"cv actualizado", "CV"},
	{"carta de exposición de motivos", "EXPMOT"},
	{"carta de motivos", "MOTIVOS"},
	{"certificado médico de buena salud", "MEDICO"},
	{"fotografías tamaño infantil", "FOTOS"},
	{"cartas de recomendación", "RECOM"},
	{"comprobante de estudios de enfermería", "ESTENF"},
	{"comprobante de estudios", "ESTUDIOS"},
}

// DocumentTypeCode maps a document type label to its short code. Exact
// matches win over substring matches; labels outside the list get a code
// derived from their words.
func DocumentTypeCode(label string) string {
	key := strings.ToLower(strings.TrimSpace(label))
	if key == "" {
		return DefaultDocumentCode
	}

	for _, p := range documentPatterns {
		if key == p.pattern {
			return p.code
		}
	}
	for _, p := range documentPatterns {
		if strings.Contains(key, p.pattern) {
			return p.code
		}
	}

	return derivedDocumentCode(key)
}

// derivedDocumentCode builds a code from the letters and digits of the
// label: three from each of the first two words, or six from a single word.
func derivedDocumentCode(label string) string {
	var words []string
	for _, word := range strings.Fields(label) {
		if clean := alphanumeric(word); clean != "" {
			words = append(words, clean)
		}
	}

	switch {
	case len(words) >= 2:
		return strings.ToUpper(firstRunes(words[0], 3) + firstRunes(words[1], 3))
	case len(words) == 1:
		return strings.ToUpper(firstRunes(words[0], 6))
	default:
		return DefaultDocumentCode
	}
}

func alphanumeric(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

func firstRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes)
}
