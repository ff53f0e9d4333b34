package models

import (
	"strconv"
	"strings"
)

// ApplicantRole is the role given to every account created at registration.
const ApplicantRole = "applicant"

const (
	AccountColumnLogin       = "login"
	AccountColumnSecret      = "secret"
	AccountColumnRole        = "role"
	AccountColumnActive      = "active"
	AccountColumnFullName    = "full_name"
	AccountColumnEmail       = "email"
	AccountColumnSubmittedAt = "submitted_at"
	AccountColumnStatus      = "status"
)

var AccountColumns = []string{
	AccountColumnLogin,
	AccountColumnSecret,
	AccountColumnRole,
	AccountColumnActive,
	AccountColumnFullName,
	AccountColumnEmail,
	AccountColumnSubmittedAt,
	AccountColumnStatus,
}

// Account is the login created alongside an applicant. Secret holds a bcrypt
// hash, never the credential itself.
type Account struct {
	Login       string          `json:"login"`
	Secret      string          `json:"-"`
	Role        string          `json:"role"`
	Active      bool            `json:"active"`
	FullName    string          `json:"full_name"`
	Email       string          `json:"email"`
	SubmittedAt string          `json:"submitted_at"`
	Status      ApplicantStatus `json:"status"`
}

// NewAccountFor denormalizes the applicant fields into an account.
func NewAccountFor(applicant Applicant, secretHash string) Account {
	return Account{
		Login:       applicant.ID,
		Secret:      secretHash,
		Role:        ApplicantRole,
		Active:      true,
		FullName:    applicant.FullName,
		Email:       applicant.Email,
		SubmittedAt: applicant.SubmittedAt,
		Status:      applicant.Status,
	}
}

func (a Account) ToRow() map[string]string {
	return map[string]string{
		AccountColumnLogin:       a.Login,
		AccountColumnSecret:      a.Secret,
		AccountColumnRole:        a.Role,
		AccountColumnActive:      strconv.FormatBool(a.Active),
		AccountColumnFullName:    a.FullName,
		AccountColumnEmail:       a.Email,
		AccountColumnSubmittedAt: a.SubmittedAt,
		AccountColumnStatus:      string(a.Status),
	}
}

func AccountFromRow(row map[string]string) Account {
	active, err := strconv.ParseBool(strings.TrimSpace(row[AccountColumnActive]))
	if err != nil {
		active = false
	}

	return Account{
		Login:       row[AccountColumnLogin],
		Secret:      row[AccountColumnSecret],
		Role:        row[AccountColumnRole],
		Active:      active,
		FullName:    row[AccountColumnFullName],
		Email:       row[AccountColumnEmail],
		SubmittedAt: row[AccountColumnSubmittedAt],
		Status:      ApplicantStatus(row[AccountColumnStatus]),
	}
}
