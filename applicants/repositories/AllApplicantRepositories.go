package repositories

import (
	"strings"

	"enrollment-backend/db/models"
	"enrollment-backend/tables"
)

// ApplicantFilters narrows a listing. Empty fields match everything.
type ApplicantFilters struct {
	Status  string
	Program string
	// Search matches name or email, ignoring case.
	Search string
}

func GetAllApplicants(table *tables.Table) []models.Applicant {
	return GetFilteredApplicants(table, ApplicantFilters{})
}

func GetFilteredApplicants(table *tables.Table, filters ApplicantFilters) []models.Applicant {
	program := strings.ToLower(strings.TrimSpace(filters.Program))
	search := strings.ToLower(strings.TrimSpace(filters.Search))

	applicants := make([]models.Applicant, 0, table.Len())
	for _, row := range table.Rows {
		applicant := models.ApplicantFromRow(row)
		if filters.Status != "" && string(applicant.Status) != filters.Status {
			continue
		}
		if program != "" && !strings.Contains(strings.ToLower(applicant.Program), program) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(applicant.FullName), search) &&
			!strings.Contains(strings.ToLower(applicant.Email), search) {
			continue
		}
		applicants = append(applicants, applicant)
	}
	return applicants
}

// FindApplicant returns the applicant with id, if recorded.
func FindApplicant(table *tables.Table, id string) (models.Applicant, bool) {
	i := table.Find(models.ApplicantColumnID, id)
	if i < 0 {
		return models.Applicant{}, false
	}
	return models.ApplicantFromRow(table.Rows[i]), true
}

// FindAccount returns the account whose login is id, if recorded.
func FindAccount(table *tables.Table, id string) (models.Account, bool) {
	i := table.Find(models.AccountColumnLogin, id)
	if i < 0 {
		return models.Account{}, false
	}
	return models.AccountFromRow(table.Rows[i]), true
}
