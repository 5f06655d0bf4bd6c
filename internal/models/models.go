package models

import (
	"time"
)

// Role is the role of an authenticated account
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
)

// IsValid checks if the role is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleOperator:
		return true
	default:
		return false
	}
}

// TokenResponse is returned by the login endpoint
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserProfile represents the current user as returned by /auth/me
type UserProfile struct {
	ID      int     `json:"id"`
	Login   string  `json:"login"`
	Role    Role    `json:"role"`
	SpoID   *int    `json:"spo_id"`
	SpoName *string `json:"spo_name"`
}

// Spo represents an educational institution
type Spo struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// SpoWithStats is an SPO with aggregated counters, as listed by admins
type SpoWithStats struct {
	Spo
	SpecialtiesCount int `json:"specialties_count"`
	StudentsCount    int `json:"students_count"`
	OperatorsCount   int `json:"operators_count"`
}

// SpoInput is the create/update payload of an SPO
type SpoInput struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

// Operator represents an operator account
type Operator struct {
	ID        int       `json:"id"`
	Login     string    `json:"login"`
	Role      Role      `json:"role"`
	SpoID     *int      `json:"spo_id"`
	CreatedAt time.Time `json:"created_at"`
}

// OperatorWithPassword is returned when credentials are generated for an operator
type OperatorWithPassword struct {
	Operator
	GeneratedPassword string `json:"generated_password"`
}

// OperatorInput is the create payload of an operator; credentials are generated server-side
type OperatorInput struct {
	SpoID int `json:"spo_id" validate:"required,gt=0"`
}

// Settings holds global quota settings
type Settings struct {
	BaseQuota int `json:"base_quota" validate:"gte=0"`
}

// SpecialtyTemplate is an entry of the global specialty catalog
type SpecialtyTemplate struct {
	ID        int       `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	SpoCount  int       `json:"spo_count"`
}

// SpecialtyTemplateInput is the create/update payload of a catalog entry
type SpecialtyTemplateInput struct {
	Code string `json:"code" validate:"required,min=1,max=50"`
	Name string `json:"name" validate:"required,min=1,max=255"`
}

// Specialty is a field of study offered by an SPO, with an admission quota
type Specialty struct {
	ID             int       `json:"id"`
	SpoID          int       `json:"spo_id"`
	TemplateID     *int      `json:"template_id,omitempty"`
	Code           *string   `json:"code,omitempty"`
	Name           string    `json:"name"`
	Quota          int       `json:"quota"`
	CreatedAt      time.Time `json:"created_at"`
	StudentsCount  int       `json:"students_count"`
	AvailableSlots int       `json:"available_slots"`
}

// SpecialtyInput assigns a catalog template to an SPO
type SpecialtyInput struct {
	SpoID      int `json:"spo_id" validate:"required,gt=0"`
	TemplateID int `json:"template_id" validate:"required,gt=0"`
}

// QuotaInput is the payload of a quota update
type QuotaInput struct {
	Quota int `json:"quota" validate:"gte=0"`
}

// Student represents an enrolled student
type Student struct {
	ID             int       `json:"id"`
	SpecialtyID    int       `json:"specialty_id"`
	FullName       string    `json:"full_name"`
	AttestatNumber string    `json:"attestat_number"`
	CreatedAt      time.Time `json:"created_at"`
	SpecialtyName  *string   `json:"specialty_name,omitempty"`
	SpoName        *string   `json:"spo_name,omitempty"`
}

// StudentInput is the create/update payload of a student
type StudentInput struct {
	FullName       string `json:"full_name" validate:"required,min=1,max=255"`
	AttestatNumber string `json:"attestat_number" validate:"required,min=1,max=50"`
	SpecialtyID    int    `json:"specialty_id" validate:"required,gt=0"`
}

// SpecialtyStats is the per-specialty row of the statistics report
type SpecialtyStats struct {
	SpecialtyID    int     `json:"specialty_id"`
	SpecialtyName  string  `json:"specialty_name"`
	SpecialtyCode  *string `json:"specialty_code"`
	SpoID          int     `json:"spo_id"`
	SpoName        string  `json:"spo_name"`
	Quota          int     `json:"quota"`
	StudentsCount  int     `json:"students_count"`
	AvailableSlots int     `json:"available_slots"`
}

// SpoStats is the per-SPO section of the statistics report
type SpoStats struct {
	SpoID         int              `json:"spo_id"`
	SpoName       string           `json:"spo_name"`
	TotalQuota    int              `json:"total_quota"`
	TotalStudents int              `json:"total_students"`
	Specialties   []SpecialtyStats `json:"specialties"`
}

// Stats is the statistics report. Operators only see their own SPO in SpoList.
type Stats struct {
	TotalSpo         int        `json:"total_spo"`
	TotalSpecialties int        `json:"total_specialties"`
	TotalStudents    int        `json:"total_students"`
	TotalQuota       int        `json:"total_quota"`
	SpoList          []SpoStats `json:"spo_list"`
}
