package repository

import (
	"errors"

	"github.com/prodtrack/auth-service/internal/domain"

	"gorm.io/gorm"
)

// DefaultRoleName must exist as seed data before the first registration.
const DefaultRoleName = "user"

var (
	// ErrDefaultRoleMissing signals a deployment fault (missing seed data),
	// not a user error. Handlers must not surface it as a client failure.
	ErrDefaultRoleMissing = errors.New("default role " + DefaultRoleName + " not found")

	// ErrDuplicateEmail maps the store-level unique violation raised when
	// two registrations race past the service-level existence check.
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrDuplicateUsername covers the other unique index on users.
	ErrDuplicateUsername = errors.New("username already exists")
)

type UserRepository interface {
	GetByID(id uint) (*domain.User, error)
	GetByEmail(email string) (*domain.User, error)
	Create(user *domain.User) (*domain.User, error)
	Update(user *domain.User) (*domain.User, error)
	Delete(id uint) error
}

type GormUserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &GormUserRepository{db: db} }

// GetByID returns the active user with the given id. Soft-deleted rows
// are filtered at the query boundary, never at the application layer.
func (r *GormUserRepository) GetByID(id uint) (*domain.User, error) {
	var u domain.User
	if err := r.db.Where("id = ? AND is_active = ?", id, true).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) GetByEmail(email string) (*domain.User, error) {
	var u domain.User
	if err := r.db.Where("email = ? AND is_active = ?", email, true).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts the user row and its default-role association as one
// transaction; either both rows land or neither does.
func (r *GormUserRepository) Create(user *domain.User) (*domain.User, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var role domain.Role
		if err := tx.Where("name = ?", DefaultRoleName).First(&role).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDefaultRoleMissing
			}
			return err
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Create(&domain.UserRole{UserID: user.ID, RoleID: role.ID}).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// The driver reports the violation but not which index fired, and
		// the aborted transaction accepts no further statements. Re-check
		// from a fresh session; the conflicting row is committed and
		// visible here.
		return nil, r.classifyDuplicate(user)
	}
	if err != nil {
		return nil, err
	}
	return r.refresh(user.ID)
}

func (r *GormUserRepository) classifyDuplicate(user *domain.User) error {
	var count int64
	if err := r.db.Model(&domain.User{}).Where("email = ?", user.Email).Count(&count).Error; err == nil && count > 0 {
		return ErrDuplicateEmail
	}
	if user.Username != nil {
		if err := r.db.Model(&domain.User{}).Where("username = ?", *user.Username).Count(&count).Error; err == nil && count > 0 {
			return ErrDuplicateUsername
		}
	}
	return ErrDuplicateEmail
}

func (r *GormUserRepository) Update(user *domain.User) (*domain.User, error) {
	if err := r.db.Save(user).Error; err != nil {
		return nil, err
	}
	return r.refresh(user.ID)
}

// Delete soft-deletes by flipping is_active. Deleting an unknown or
// already-inactive user is a no-op, not an error.
func (r *GormUserRepository) Delete(id uint) error {
	return r.db.Model(&domain.User{}).Where("id = ?", id).Update("is_active", false).Error
}

func (r *GormUserRepository) refresh(id uint) (*domain.User, error) {
	var u domain.User
	if err := r.db.Preload("UserRoles").First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}
