package repositories

import (
	"context"

	"comercia/internal/models"

	"github.com/google/uuid"
)

type CompanyRepository interface {
	Create(ctx context.Context, company *models.Company) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	FindConflicts(ctx context.Context, nit, name string) ([]*models.Company, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type companyRepo struct {
	db Database
}

func NewCompanyRepo(db Database) CompanyRepository {
	return &companyRepo{db: db}
}

func (r *companyRepo) Create(ctx context.Context, company *models.Company) error {
	query := `
		INSERT INTO companies (id, document_id, name, nit, address, phone, email, security_code, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, company.ID, company.DocumentID, company.Name, company.NIT, company.Address, company.Phone, company.Email, company.SecurityCode, company.Status)
	return err
}

func (r *companyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	company := &models.Company{}
	query := `
		SELECT id, document_id, name, nit, address, phone, email, security_code, status, created_at, updated_at
		FROM companies
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&company.ID, &company.DocumentID, &company.Name, &company.NIT, &company.Address, &company.Phone, &company.Email, &company.SecurityCode, &company.Status, &company.CreatedAt, &company.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return company, nil
}

// FindConflicts returns companies that collide with the given NIT or name.
// The name comparison is repeated case-insensitively by the caller; the query
// casts both sides to lower so the row is found regardless of stored casing.
func (r *companyRepo) FindConflicts(ctx context.Context, nit, name string) ([]*models.Company, error) {
	query := `
		SELECT id, document_id, name, nit, address, phone, email, security_code, status, created_at, updated_at
		FROM companies
		WHERE nit = $1 OR LOWER(name) = LOWER($2)
	`
	rows, err := r.db.Query(ctx, query, nit, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []*models.Company
	for rows.Next() {
		company := &models.Company{}
		if err := rows.Scan(&company.ID, &company.DocumentID, &company.Name, &company.NIT, &company.Address, &company.Phone, &company.Email, &company.SecurityCode, &company.Status, &company.CreatedAt, &company.UpdatedAt); err != nil {
			return nil, err
		}
		companies = append(companies, company)
	}
	return companies, rows.Err()
}

func (r *companyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM companies WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
