package repository

import (
	"context"
	"errors"

	"AleesaStoreAPI/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*model.User, error) {
	query := `SELECT userid, email, firstname, lastname, role FROM users WHERE userid=$1`
	var u model.User
	err := r.DB.QueryRow(ctx, query, userID).Scan(&u.UserID, &u.Email, &u.FirstName, &u.LastName, &u.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
