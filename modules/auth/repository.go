package auth

import (
	"context"
	"errors"
	"time"

	domain "github.com/example/furniture-store-api/domain/user"
	"gorm.io/gorm"
)

// DefaultQueryTimeout bounds every database call made by the repository.
const DefaultQueryTimeout = 5 * time.Second

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrAccountExists is returned when the unique index rejects an insert.
	ErrAccountExists = errors.New("email or username already in use")
)

// UserRepository is the account directory backed by GORM.
type UserRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *gorm.DB, timeout time.Duration) *UserRepository {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return &UserRepository{
		db:      db,
		timeout: timeout,
	}
}

// Migrate creates the users table and its unique indexes.
func (r *UserRepository) Migrate() error {
	return r.db.AutoMigrate(&domain.User{})
}

// Create inserts a new user. A unique-index violation is reported as ErrAccountExists.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result := r.db.WithContext(ctx).Create(user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrAccountExists
		}
		return result.Error
	}
	return nil
}

// FindByEmail finds a user by email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// FindByEmailOrUsername finds a user holding either the email or the username.
// An email match is preferred when two different accounts match.
func (r *UserRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var users []domain.User
	result := r.db.WithContext(ctx).
		Where("email = ? OR username = ?", email, username).
		Limit(2).
		Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}
	if len(users) == 0 {
		return nil, ErrUserNotFound
	}

	for i := range users {
		if users[i].Email == email {
			return &users[i], nil
		}
	}
	return &users[0], nil
}

func (r *UserRepository) findOne(ctx context.Context, query string, args ...any) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var user domain.User
	result := r.db.WithContext(ctx).Where(query, args...).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}
