package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prodtrack/auth-service/internal/domain"
	"github.com/prodtrack/auth-service/internal/observability"

	"gorm.io/gorm"
)

func strptr(s string) *string { return &s }

var defaultPermissions = []domain.Permission{
	{Name: "users:read", Resource: strptr("users"), Action: strptr("read")},
	{Name: "users:write", Resource: strptr("users"), Action: strptr("write")},
	{Name: "roles:read", Resource: strptr("roles"), Action: strptr("read")},
	{Name: "roles:write", Resource: strptr("roles"), Action: strptr("write")},
	{Name: "permissions:read", Resource: strptr("permissions"), Action: strptr("read")},
	{Name: "permissions:write", Resource: strptr("permissions"), Action: strptr("write")},
}

type SeedReport struct {
	CreatedPermissions int  `json:"created_permissions"`
	CreatedRoles       int  `json:"created_roles"`
	BoundPermissions   int  `json:"bound_permissions"`
	Noop               bool `json:"noop"`
}

// Seed provisions the baseline roles and permissions. Registration depends
// on the "user" role existing, so this runs before the API serves traffic.
func Seed(db *gorm.DB, bootstrapSuperuserEmail string) error {
	_, err := SeedSync(db, bootstrapSuperuserEmail)
	return err
}

func SeedSync(db *gorm.DB, bootstrapSuperuserEmail string) (*SeedReport, error) {
	start := time.Now()
	defer func() {
		observability.RecordDatabaseStartupDuration(context.Background(), "seed", time.Since(start))
	}()

	report := &SeedReport{}

	for _, p := range defaultPermissions {
		res := db.Where("name = ?", p.Name).FirstOrCreate(&p)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected > 0 {
			report.CreatedPermissions++
		}
	}

	userRole := domain.Role{Name: "user", Description: strptr("Default user role"), IsActive: true}
	adminRole := domain.Role{Name: "admin", Description: strptr("Administrator role"), IsActive: true}
	res := db.Where("name = ?", userRole.Name).FirstOrCreate(&userRole)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected > 0 {
		report.CreatedRoles++
	}
	res = db.Where("name = ?", adminRole.Name).FirstOrCreate(&adminRole)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected > 0 {
		report.CreatedRoles++
	}

	var perms []domain.Permission
	if err := db.Find(&perms).Error; err != nil {
		return nil, err
	}
	for _, p := range perms {
		rp := domain.RolePermission{RoleID: adminRole.ID, PermissionID: p.ID}
		res := db.Where("role_id = ? AND permission_id = ?", adminRole.ID, p.ID).FirstOrCreate(&rp)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected > 0 {
			report.BoundPermissions++
		}
	}

	email := strings.TrimSpace(bootstrapSuperuserEmail)
	if email != "" {
		if err := promoteSuperuser(db, email, adminRole.ID); err != nil {
			return nil, err
		}
	}

	report.Noop = report.CreatedPermissions == 0 && report.CreatedRoles == 0 && report.BoundPermissions == 0
	return report, nil
}

func promoteSuperuser(db *gorm.DB, email string, adminRoleID uint) error {
	var u domain.User
	if err := db.Where("email = ?", email).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}
	if !u.IsSuperuser {
		if err := db.Model(&u).Update("is_superuser", true).Error; err != nil {
			return fmt.Errorf("promote superuser: %w", err)
		}
	}
	var count int64
	if err := db.Model(&domain.UserRole{}).Where("user_id = ? AND role_id = ?", u.ID, adminRoleID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		assoc := domain.UserRole{UserID: u.ID, RoleID: adminRoleID}
		if err := db.Create(&assoc).Error; err != nil {
			return fmt.Errorf("assign admin role: %w", err)
		}
	}
	return nil
}
