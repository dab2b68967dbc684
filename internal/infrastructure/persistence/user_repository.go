package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gridbase/backend/internal/domain/models"
	"github.com/gridbase/backend/pkg/constants"
)

// UserRepository reads accounts from _System_User with group and permission
// grants attached. Writes go through the row path; authorization only reads.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

var userColumns = fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s",
	constants.FieldID,
	constants.FieldName,
	constants.FieldEmail,
	constants.FieldPassword,
	constants.FieldRole,
	constants.FieldStatus,
	constants.FieldGroupID,
)

// FindWithPermissions loads a user by id with their group and its permission
// grants fully populated. Returns nil when the account does not exist.
func (r *UserRepository) FindWithPermissions(ctx context.Context, id string) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?", userColumns, constants.TableUser, constants.FieldID)
	return r.findOne(ctx, query, id)
}

// FindByEmail loads a user by email for login
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?", userColumns, constants.TableUser, constants.FieldEmail)
	return r.findOne(ctx, query, email)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg string) (*models.User, error) {
	var (
		user    models.User
		groupID sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Name, &user.Email, &user.Password,
		&user.Role, &user.Status, &groupID,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if groupID.Valid {
		group, err := r.loadGroup(ctx, groupID.String)
		if err != nil {
			return nil, err
		}
		user.Group = group
	}
	return &user, nil
}

func (r *UserRepository) loadGroup(ctx context.Context, groupID string) (*models.UserGroup, error) {
	var group models.UserGroup
	query := fmt.Sprintf("SELECT %s, %s, %s FROM %s WHERE %s = ?",
		constants.FieldID, constants.FieldName, constants.FieldSlug,
		constants.TableGroup, constants.FieldID)
	err := r.db.QueryRowContext(ctx, query, groupID).Scan(&group.ID, &group.Name, &group.Slug)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	permissions, err := r.loadPermissions(ctx, groupID)
	if err != nil {
		return nil, err
	}
	group.Permissions = permissions
	return &group, nil
}

// loadPermissions joins _System_GroupPermission against _System_Permission
func (r *UserRepository) loadPermissions(ctx context.Context, groupID string) ([]models.Permission, error) {
	query := fmt.Sprintf(
		"SELECT p.%s, p.%s, p.%s FROM %s p INNER JOIN %s gp ON gp.%s = p.%s WHERE gp.%s = ?",
		constants.FieldID, constants.FieldName, constants.FieldSlug,
		constants.TablePermission, constants.TableGroupPermission,
		constants.FieldPermissionID, constants.FieldID,
		constants.FieldGroupID,
	)
	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	permissions := make([]models.Permission, 0)
	for rows.Next() {
		var p models.Permission
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug); err != nil {
			return nil, err
		}
		permissions = append(permissions, p)
	}
	return permissions, rows.Err()
}
