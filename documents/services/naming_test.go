package services

import (
	"testing"
	"time"
)

func TestBuildFileName(t *testing.T) {
	at := time.Date(2025, 9, 25, 18, 12, 40, 0, time.Local)

	tests := []struct {
		name string
		in   FileName
		want string
	}{
		{
			name: "catalog program",
			in:   FileName{OwnerID: "A1", ProgramCode: "LIC-ENF", FullName: "María González", DocumentType: "CURP", At: at},
			want: "A1.LIC-ENF.25-09-25-18-12.María_González.CURP.pdf",
		},
		{
			name: "extension from upload",
			in:   FileName{OwnerID: "MAT-INS00001", ProgramCode: "DIP-HEMO", FullName: "Ana / López!", DocumentType: "Fotografías tamaño infantil", OriginalName: "foto.JPG", At: at},
			want: "MAT-INS00001.DIP-HEMO.25-09-25-18-12.Ana__López.FOTOS.jpg",
		},
		{
			name: "unknown program and long name",
			in:   FileName{OwnerID: "TMP-AB12CD34", FullName: "Guadalupe Fernández de la Concepción Martínez", DocumentType: "Constancia laboral", At: at},
			want: "TMP-AB12CD34.OTRO.25-09-25-18-12.Guadalupe_Fernández_de_la_Conc.CONLAB.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildFileName(tt.in); got != tt.want {
				t.Errorf("BuildFileName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtension(t *testing.T) {
	tests := map[string]string{
		"":                  "pdf",
		"scan":              "pdf",
		"scan.PDF":          "pdf",
		"archive.tar.gz":    "gz",
		`C:\docs\photo.Png`: "png",
	}
	for in, want := range tests {
		if got := Extension(in); got != want {
			t.Errorf("Extension(%q) = %q, want %q", in, got, want)
		}
	}
}
