package repositories

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/jwtpizza/app/models"
	"github.com/shashiranjanraj/jwtpizza/pkg/apperr"
	"github.com/shashiranjanraj/jwtpizza/pkg/orm"
)

// UserRepository handles database operations for User.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) q(ctx context.Context) *orm.Query {
	return orm.On(r.db).WithContext(ctx)
}

// FindUserByEmail looks up a user, with roles, by email address.
func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.q(ctx).Preload("Roles").Where("email = ?", normalizeEmail(email)).First(&user)
	return user, translate(err, "user")
}

// FindUserByID looks up a user, with roles, by primary key.
func (r *UserRepository) FindUserByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	err := r.q(ctx).Preload("Roles").Where("id = ?", id).First(&user)
	return user, translate(err, "user")
}

// CreateUser inserts user and its roles. A taken email is a Conflict.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	user.Email = normalizeEmail(user.Email)
	return translate(r.q(ctx).Create(user), "user")
}

// UpdateUser applies changes and returns the stored result.
func (r *UserRepository) UpdateUser(ctx context.Context, id uint, changes models.UserChanges) (models.User, error) {
	values := map[string]interface{}{}
	if changes.Name != "" {
		values["name"] = changes.Name
	}
	if changes.Email != "" {
		values["email"] = normalizeEmail(changes.Email)
	}
	if changes.PasswordHash != "" {
		values["password"] = changes.PasswordHash
	}

	if _, err := r.FindUserByID(ctx, id); err != nil {
		return models.User{}, err
	}
	if len(values) > 0 {
		if err := r.q(ctx).Model(&models.User{}).Where("id = ?", id).Updates(values); err != nil {
			return models.User{}, translate(err, "user")
		}
	}
	return r.FindUserByID(ctx, id)
}

// DeleteUser removes a user and its role grants.
func (r *UserRepository) DeleteUser(ctx context.Context, id uint) error {
	return r.q(ctx).Transaction(func(tx *orm.Query) error {
		if _, err := tx.Delete(&models.UserRole{}, "user_id = ?", id); err != nil {
			return translate(err, "user")
		}
		n, err := tx.Delete(&models.User{}, id)
		if err != nil {
			return translate(err, "user")
		}
		if n == 0 {
			return apperr.NotFound("user not found")
		}
		return nil
	})
}

// ListUsers returns one page of users whose name matches the filter. A '*'
// in the filter matches any run of characters.
func (r *UserRepository) ListUsers(ctx context.Context, page orm.Page, name string) ([]models.User, bool, error) {
	users := []models.User{}
	q := r.q(ctx).Model(&models.User{}).Preload("Roles").Order("id")
	if like := likePattern(name); like != "" {
		q = q.Where(nameLike, like)
	}
	more, err := q.Paginate(&users, page)
	return users, more, translate(err, "user")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// nameLike matches a column against a likePattern result.
const nameLike = "name LIKE ? ESCAPE '!'"

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_", "[", "![")

// likePattern turns a '*' glob into a LIKE pattern; every other character,
// including % and _, matches literally.
func likePattern(filter string) string {
	filter = strings.TrimSpace(filter)
	if filter == "" || strings.Trim(filter, "*") == "" {
		return ""
	}
	return strings.ReplaceAll(likeEscaper.Replace(filter), "*", "%")
}
