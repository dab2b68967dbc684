package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gridbase/backend/internal/domain/models"
	"github.com/gridbase/backend/pkg/constants"
)

// MenuRepository persists navigation entries in _System_Menu
type MenuRepository struct {
	db *sql.DB
}

// NewMenuRepository creates a new MenuRepository
func NewMenuRepository(db *sql.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

var menuColumns = fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s",
	constants.FieldID,
	constants.FieldName,
	constants.FieldSlug,
	constants.FieldTypeName,
	constants.FieldLink,
	constants.FieldTableSlug,
	constants.FieldParentID,
	constants.FieldPosition,
	constants.FieldTrashed,
)

// FindByID resolves a menu entry by id
func (r *MenuRepository) FindByID(ctx context.Context, id string) (*models.Menu, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?", menuColumns, constants.TableMenu, constants.FieldID)
	row := r.db.QueryRowContext(ctx, query, id)
	menu, err := scanMenu(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return menu, nil
}

// SlugExists checks slug uniqueness among non-trashed entries
func (r *MenuRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE %s = ? AND %s = 0)",
		constants.TableMenu, constants.FieldSlug, constants.FieldTrashed)
	if err := r.db.QueryRowContext(ctx, query, slug).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Children returns the non-trashed children of an entry ordered by position
func (r *MenuRepository) Children(ctx context.Context, parentID string) ([]models.Menu, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ? AND %s = 0 ORDER BY %s ASC",
		menuColumns, constants.TableMenu, constants.FieldParentID,
		constants.FieldTrashed, constants.FieldPosition)
	return r.queryMenus(ctx, query, parentID)
}

// List returns every non-trashed entry ordered by position; the handler
// assembles them into a tree
func (r *MenuRepository) List(ctx context.Context) ([]models.Menu, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = 0 ORDER BY %s ASC",
		menuColumns, constants.TableMenu, constants.FieldTrashed, constants.FieldPosition)
	return r.queryMenus(ctx, query)
}

func (r *MenuRepository) queryMenus(ctx context.Context, query string, args ...interface{}) ([]models.Menu, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	menus := make([]models.Menu, 0)
	for rows.Next() {
		menu, err := scanMenu(rows.Scan)
		if err != nil {
			return nil, err
		}
		menus = append(menus, *menu)
	}
	return menus, rows.Err()
}

func scanMenu(scan func(dest ...interface{}) error) (*models.Menu, error) {
	var (
		menu      models.Menu
		link      sql.NullString
		tableSlug sql.NullString
		parentID  sql.NullString
	)
	err := scan(&menu.ID, &menu.Name, &menu.Slug, &menu.Type,
		&link, &tableSlug, &parentID, &menu.Position, &menu.Trashed)
	if err != nil {
		return nil, err
	}
	if link.Valid {
		menu.Link = &link.String
	}
	if tableSlug.Valid {
		menu.TableSlug = &tableSlug.String
	}
	if parentID.Valid {
		menu.ParentID = &parentID.String
	}
	return &menu, nil
}

// Create inserts a menu entry
func (r *MenuRepository) Create(ctx context.Context, menu *models.Menu) error {
	query := fmt.Sprintf(
		"INSERT INTO %s (%s, %s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		constants.TableMenu, menuColumns, constants.FieldCreatedAt,
	)
	_, err := r.db.ExecContext(ctx, query,
		menu.ID, menu.Name, menu.Slug, menu.Type,
		menu.Link, menu.TableSlug, menu.ParentID, menu.Position, menu.Trashed,
		time.Now(),
	)
	return err
}

// Update persists a menu entry in place
func (r *MenuRepository) Update(ctx context.Context, menu *models.Menu) error {
	query := fmt.Sprintf(
		"UPDATE %s SET %s = ?, %s = ?, %s = ?, %s = ?, %s = ?, %s = ?, %s = ?, %s = ? WHERE %s = ?",
		constants.TableMenu,
		constants.FieldName, constants.FieldSlug, constants.FieldTypeName,
		constants.FieldLink, constants.FieldTableSlug, constants.FieldParentID,
		constants.FieldPosition, constants.FieldTrashed,
		constants.FieldID,
	)
	_, err := r.db.ExecContext(ctx, query,
		menu.Name, menu.Slug, menu.Type,
		menu.Link, menu.TableSlug, menu.ParentID,
		menu.Position, menu.Trashed,
		menu.ID,
	)
	return err
}

// Delete permanently removes a menu entry
func (r *MenuRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", constants.TableMenu, constants.FieldID)
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
