package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spoadmin/spoadmin/internal/models"
)

// ListSpecialties returns the specialties of the operator's SPO (read-only)
func (c *Client) ListSpecialties(ctx context.Context) ([]models.Specialty, error) {
	var specialties []models.Specialty
	if err := c.do(ctx, http.MethodGet, "/specialties", nil, nil, &specialties); err != nil {
		return nil, err
	}

	return specialties, nil
}

// ListStudents returns students, optionally filtered by specialty
func (c *Client) ListStudents(ctx context.Context, specialtyID *int) ([]models.Student, error) {
	var students []models.Student
	if err := c.do(ctx, http.MethodGet, "/students", idQuery("specialty_id", specialtyID), nil, &students); err != nil {
		return nil, err
	}

	return students, nil
}

// CreateStudent enrols a student in a specialty
func (c *Client) CreateStudent(ctx context.Context, in models.StudentInput) (*models.Student, error) {
	var student models.Student
	if err := c.do(ctx, http.MethodPost, "/students", nil, in, &student); err != nil {
		return nil, err
	}

	return &student, nil
}

// UpdateStudent replaces a student's data
func (c *Client) UpdateStudent(ctx context.Context, id int, in models.StudentInput) (*models.Student, error) {
	var student models.Student
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/students/%d", id), nil, in, &student); err != nil {
		return nil, err
	}

	return &student, nil
}

// DeleteStudent removes a student by ID
func (c *Client) DeleteStudent(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/students/%d", id), nil, nil, nil)
}
