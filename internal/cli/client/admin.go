package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spoadmin/spoadmin/internal/models"
)

// SPO

// ListSpo returns all SPO with their counters
func (c *Client) ListSpo(ctx context.Context) ([]models.SpoWithStats, error) {
	var list []models.SpoWithStats
	if err := c.do(ctx, http.MethodGet, "/admin/spo", nil, nil, &list); err != nil {
		return nil, err
	}

	return list, nil
}

// GetSpo returns one SPO by ID
func (c *Client) GetSpo(ctx context.Context, id int) (*models.SpoWithStats, error) {
	var spo models.SpoWithStats
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/admin/spo/%d", id), nil, nil, &spo); err != nil {
		return nil, err
	}

	return &spo, nil
}

// CreateSpo creates a new SPO
func (c *Client) CreateSpo(ctx context.Context, in models.SpoInput) (*models.Spo, error) {
	var spo models.Spo
	if err := c.do(ctx, http.MethodPost, "/admin/spo", nil, in, &spo); err != nil {
		return nil, err
	}

	return &spo, nil
}

// UpdateSpo renames an SPO
func (c *Client) UpdateSpo(ctx context.Context, id int, in models.SpoInput) (*models.Spo, error) {
	var spo models.Spo
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/admin/spo/%d", id), nil, in, &spo); err != nil {
		return nil, err
	}

	return &spo, nil
}

// DeleteSpo deletes an SPO by ID
func (c *Client) DeleteSpo(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/spo/%d", id), nil, nil, nil)
}

// Operators

// ListOperators returns all operator accounts
func (c *Client) ListOperators(ctx context.Context) ([]models.Operator, error) {
	var operators []models.Operator
	if err := c.do(ctx, http.MethodGet, "/admin/operators", nil, nil, &operators); err != nil {
		return nil, err
	}

	return operators, nil
}

// CreateOperator creates an operator for an SPO and returns its generated credentials
func (c *Client) CreateOperator(ctx context.Context, in models.OperatorInput) (*models.OperatorWithPassword, error) {
	var operator models.OperatorWithPassword
	if err := c.do(ctx, http.MethodPost, "/admin/operators", nil, in, &operator); err != nil {
		return nil, err
	}

	return &operator, nil
}

// DeleteOperator deletes an operator by ID
func (c *Client) DeleteOperator(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/operators/%d", id), nil, nil, nil)
}

// ResetOperatorPassword generates a new password for an operator
func (c *Client) ResetOperatorPassword(ctx context.Context, id int) (*models.OperatorWithPassword, error) {
	var operator models.OperatorWithPassword
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/admin/operators/%d/reset-password", id), nil, nil, &operator); err != nil {
		return nil, err
	}

	return &operator, nil
}

// Quota settings

// GetSettings returns the global quota settings
func (c *Client) GetSettings(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	if err := c.do(ctx, http.MethodGet, "/admin/settings", nil, nil, &settings); err != nil {
		return nil, err
	}

	return &settings, nil
}

// UpdateSettings replaces the global quota settings
func (c *Client) UpdateSettings(ctx context.Context, in models.Settings) (*models.Settings, error) {
	var settings models.Settings
	if err := c.do(ctx, http.MethodPut, "/admin/settings", nil, in, &settings); err != nil {
		return nil, err
	}

	return &settings, nil
}

// Specialty catalog

// ListSpecialtyTemplates returns the global specialty catalog
func (c *Client) ListSpecialtyTemplates(ctx context.Context) ([]models.SpecialtyTemplate, error) {
	var templates []models.SpecialtyTemplate
	if err := c.do(ctx, http.MethodGet, "/admin/specialty-templates", nil, nil, &templates); err != nil {
		return nil, err
	}

	return templates, nil
}

// CreateSpecialtyTemplate adds an entry to the catalog
func (c *Client) CreateSpecialtyTemplate(ctx context.Context, in models.SpecialtyTemplateInput) (*models.SpecialtyTemplate, error) {
	var template models.SpecialtyTemplate
	if err := c.do(ctx, http.MethodPost, "/admin/specialty-templates", nil, in, &template); err != nil {
		return nil, err
	}

	return &template, nil
}

// UpdateSpecialtyTemplate changes the code or name of a catalog entry
func (c *Client) UpdateSpecialtyTemplate(ctx context.Context, id int, in models.SpecialtyTemplateInput) (*models.SpecialtyTemplate, error) {
	var template models.SpecialtyTemplate
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/admin/specialty-templates/%d", id), nil, in, &template); err != nil {
		return nil, err
	}

	return &template, nil
}

// DeleteSpecialtyTemplate removes a catalog entry
func (c *Client) DeleteSpecialtyTemplate(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/specialty-templates/%d", id), nil, nil, nil)
}

// SPO specialties

// ListAdminSpecialties returns specialties across SPO, optionally filtered by SPO
func (c *Client) ListAdminSpecialties(ctx context.Context, spoID *int) ([]models.Specialty, error) {
	var specialties []models.Specialty
	if err := c.do(ctx, http.MethodGet, "/admin/specialties", idQuery("spo_id", spoID), nil, &specialties); err != nil {
		return nil, err
	}

	return specialties, nil
}

// CreateAdminSpecialty assigns a catalog template to an SPO
func (c *Client) CreateAdminSpecialty(ctx context.Context, in models.SpecialtyInput) (*models.Specialty, error) {
	var specialty models.Specialty
	if err := c.do(ctx, http.MethodPost, "/admin/specialties", nil, in, &specialty); err != nil {
		return nil, err
	}

	return &specialty, nil
}

// DeleteAdminSpecialty removes a specialty from its SPO
func (c *Client) DeleteAdminSpecialty(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/specialties/%d", id), nil, nil, nil)
}

// UpdateSpecialtyQuota sets the admission quota of a specialty
func (c *Client) UpdateSpecialtyQuota(ctx context.Context, specialtyID, quota int) (*models.Specialty, error) {
	var specialty models.Specialty
	reqBody := models.QuotaInput{Quota: quota}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/admin/specialties/%d/quota", specialtyID), nil, reqBody, &specialty); err != nil {
		return nil, err
	}

	return &specialty, nil
}
