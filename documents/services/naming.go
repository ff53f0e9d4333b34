package services

import (
	"path"
	"strings"
	"time"

	"enrollment-backend/utils"
)

const (
	// FileTimestampLayout is the minute-resolution stamp embedded in names.
	FileTimestampLayout = "06-01-02-15-04"
	DefaultExtension    = "pdf"
	maxNameRunes        = 30
)

// FileName holds the parts of a standardized document filename.
type FileName struct {
	OwnerID      string
	ProgramCode  string
	FullName     string
	DocumentType string
	OriginalName string
	At           time.Time
}

// BuildFileName renders
// {owner}.{program}.{yy-mm-dd-HH-MM}.{name}.{document code}.{ext}.
func BuildFileName(f FileName) string {
	programCode := f.ProgramCode
	if programCode == "" {
		programCode = OtherProgramCode
	}

	return strings.Join([]string{
		f.OwnerID,
		programCode,
		f.At.Format(FileTimestampLayout),
		utils.CleanNameForFilename(f.FullName, maxNameRunes),
		DocumentTypeCode(f.DocumentType),
		Extension(f.OriginalName),
	}, ".")
}

// Extension returns the lowercased extension of an uploaded file name, or
// pdf when it has none.
func Extension(originalName string) string {
	ext := strings.TrimPrefix(path.Ext(strings.ReplaceAll(originalName, "\\", "/")), ".")
	if ext == "" {
		return DefaultExtension
	}
	return strings.ToLower(ext)
}
