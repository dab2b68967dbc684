package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/gridbase/backend/internal/domain/models"
	"github.com/gridbase/backend/internal/domain/ports"
	"github.com/gridbase/backend/pkg/constants"
	"github.com/gridbase/backend/pkg/errors"
	"github.com/gridbase/backend/pkg/utils"
)

// MenuService maintains the navigation tree. Two invariants: entry slugs are
// unique among non-trashed entries, and a leaf that gains a child is promoted
// to a SEPARATOR with its original content duplicated as the first child so
// existing links keep working.
type MenuService struct {
	menus  ports.MenuStore
	tables ports.TableStore
}

// NewMenuService creates a new MenuService
func NewMenuService(menus ports.MenuStore, tables ports.TableStore) *MenuService {
	return &MenuService{menus: menus, tables: tables}
}

// CreateMenuInput is the payload for creating a menu entry
type CreateMenuInput struct {
	Name      string  `json:"name" binding:"required"`
	Slug      string  `json:"slug" binding:"required"`
	Type      string  `json:"type" binding:"required"`
	Link      *string `json:"link"`
	TableSlug *string `json:"table_slug"`
	ParentID  *string `json:"parent_id"`
	Position  int     `json:"position"`
}

// CreateMenu validates and inserts a menu entry, promoting the parent from
// leaf to SEPARATOR when necessary
func (s *MenuService) CreateMenu(ctx context.Context, input CreateMenuInput) (*models.Menu, error) {
	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	if slug == "" || strings.TrimSpace(input.Name) == "" {
		return nil, errors.NewValidationCause(errors.CauseInvalidParameters, "name and slug are required")
	}

	menuType := constants.MenuType(input.Type)
	switch menuType {
	case constants.MenuTypeLink:
		if input.Link == nil || *input.Link == "" {
			return nil, errors.NewValidationCause(errors.CauseInvalidParameters, "link entries require a link")
		}
	case constants.MenuTypeTable:
		if input.TableSlug == nil || *input.TableSlug == "" {
			return nil, errors.NewValidationCause(errors.CauseInvalidParameters, "table entries require a table slug")
		}
		table, err := s.tables.FindBySlug(ctx, *input.TableSlug, false)
		if err != nil {
			return nil, errors.NewInternalError(errors.CauseMenuOperationError, err)
		}
		if table == nil {
			return nil, errors.NewNotFoundError("table", *input.TableSlug, errors.CauseTableNotFound)
		}
	case constants.MenuTypeSeparator:
	default:
		return nil, errors.NewValidationCause(errors.CauseInvalidParameters, "unknown menu type "+input.Type)
	}

	taken, err := s.menus.SlugExists(ctx, slug)
	if err != nil {
		return nil, errors.NewInternalError(errors.CauseMenuOperationError, err)
	}
	if taken {
		return nil, errors.NewConflictError("menu", "slug already in use", errors.CauseSlugTaken)
	}

	if input.ParentID != nil {
		parent, err := s.menus.FindByID(ctx, *input.ParentID)
		if err != nil {
			return nil, errors.NewInternalError(errors.CauseMenuOperationError, err)
		}
		if parent == nil {
			return nil, errors.NewNotFoundError("menu", *input.ParentID, errors.CauseMenuNotFound)
		}
		if err := s.promoteLeaf(ctx, parent); err != nil {
			return nil, err
		}
	}

	menu := &models.Menu{
		ID:        utils.GenerateID(),
		Name:      input.Name,
		Slug:      slug,
		Type:      menuType,
		Link:      input.Link,
		TableSlug: input.TableSlug,
		ParentID:  input.ParentID,
		Position:  input.Position,
	}
	if err := s.menus.Create(ctx, menu); err != nil {
		log.Printf("❌ MenuService: create failed for %s: %v", slug, err)
		return nil, errors.NewInternalError(errors.CauseMenuOperationError, err)
	}
	return menu, nil
}

// promoteLeaf converts a childless non-SEPARATOR parent into a SEPARATOR and
// re-creates its original content as the first child, preserving its link or
// table binding.
func (s *MenuService) promoteLeaf(ctx context.Context, parent *models.Menu) error {
	if parent.Type == constants.MenuTypeSeparator {
		return nil
	}
	children, err := s.menus.Children(ctx, parent.ID)
	if err != nil {
		return errors.NewInternalError(errors.CauseMenuOperationError, err)
	}
	if len(children) > 0 {
		// Already has children; it was promoted when the first one arrived
		return nil
	}

	childSlug, err := s.availableSlug(ctx, parent.Slug+"-item")
	if err != nil {
		return errors.NewInternalError(errors.CauseMenuOperationError, err)
	}
	duplicate := &models.Menu{
		ID:        utils.GenerateID(),
		Name:      parent.Name,
		Slug:      childSlug,
		Type:      parent.Type,
		Link:      parent.Link,
		TableSlug: parent.TableSlug,
		ParentID:  &parent.ID,
		Position:  0,
	}
	if err := s.menus.Create(ctx, duplicate); err != nil {
		return errors.NewInternalError(errors.CauseMenuOperationError, err)
	}

	parent.Type = constants.MenuTypeSeparator
	parent.Link = nil
	parent.TableSlug = nil
	if err := s.menus.Update(ctx, parent); err != nil {
		return errors.NewInternalError(errors.CauseMenuOperationError, err)
	}

	log.Printf("🔀 Promoted menu %s to separator; content moved to %s", parent.Slug, duplicate.Slug)
	return nil
}

// availableSlug returns candidate, or the first numeric-suffixed variant that
// is not taken yet
func (s *MenuService) availableSlug(ctx context.Context, candidate string) (string, error) {
	slug := candidate
	for suffix := 2; ; suffix++ {
		taken, err := s.menus.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", candidate, suffix)
	}
}

// UpdateMenuInput is the payload for updating a menu entry
type UpdateMenuInput struct {
	Name     *string `json:"name"`
	Link     *string `json:"link"`
	Position *int    `json:"position"`
	Trash    bool    `json:"trash"`
}

// UpdateMenu applies a partial update to a menu entry
func (s *MenuService) UpdateMenu(ctx context.Context, id string, input UpdateMenuInput) (*models.Menu, error) {
	menu, err := s.menus.FindByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError(errors.CauseMenuOperationError, err)
	}
	if menu == nil {
		return nil, errors.NewNotFoundError("menu", id, errors.CauseMenuNotFound)
	}

	if input.Name != nil {
		menu.Name = *input.Name
	}
	if input.Link != nil && menu.Type == constants.MenuTypeLink {
		menu.Link = input.Link
	}
	if input.Position != nil {
		menu.Position = *input.Position
	}
	if input.Trash {
		menu.Trashed = true
	}

	if err := s.menus.Update(ctx, menu); err != nil {
		log.Printf("❌ MenuService: update failed for %s: %v", id, err)
		return nil, errors.NewInternalError(errors.CauseMenuOperationError, err)
	}
	return menu, nil
}

// DeleteMenu permanently removes a menu entry and reparents its children to
// the entry's own parent
func (s *MenuService) DeleteMenu(ctx context.Context, id string) error {
	menu, err := s.menus.FindByID(ctx, id)
	if err != nil {
		return errors.NewInternalError(errors.CauseMenuOperationError, err)
	}
	if menu == nil {
		return errors.NewNotFoundError("menu", id, errors.CauseMenuNotFound)
	}

	children, err := s.menus.Children(ctx, id)
	if err != nil {
		return errors.NewInternalError(errors.CauseMenuOperationError, err)
	}
	for i := range children {
		children[i].ParentID = menu.ParentID
		if err := s.menus.Update(ctx, &children[i]); err != nil {
			return errors.NewInternalError(errors.CauseMenuOperationError, err)
		}
	}

	if err := s.menus.Delete(ctx, id); err != nil {
		log.Printf("❌ MenuService: delete failed for %s: %v", id, err)
		return errors.NewInternalError(errors.CauseMenuOperationError, err)
	}
	return nil
}

// ListMenus returns the whole navigation forest as flat entries ordered by
// position; the frontend assembles the tree by parent_id
func (s *MenuService) ListMenus(ctx context.Context) ([]models.Menu, error) {
	menus, err := s.menus.List(ctx)
	if err != nil {
		return nil, errors.NewInternalError(errors.CauseMenuOperationError, err)
	}
	return menus, nil
}
