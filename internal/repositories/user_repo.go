package repositories

import (
	"context"

	"comercia/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByAuthSubject(ctx context.Context, subject string) (*models.User, error)
}

type userRepo struct {
	db Database
}

func NewUserRepo(db Database) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, auth_subject, email, first_name, last_name, phone, birth_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, user.ID, user.AuthSubject, user.Email, user.FirstName, user.LastName, user.Phone, user.BirthDate)
	return err
}

func (r *userRepo) GetByAuthSubject(ctx context.Context, subject string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, auth_subject, email, first_name, last_name, phone, birth_date, created_at, updated_at
		FROM users
		WHERE auth_subject = $1
	`
	err := r.db.QueryRow(ctx, query, subject).Scan(&user.ID, &user.AuthSubject, &user.Email, &user.FirstName, &user.LastName, &user.Phone, &user.BirthDate, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}
