package services

import (
	"log"

	"github.com/gridbase/backend/internal/domain/models"
	"github.com/gridbase/backend/pkg/expression"
)

// HookService runs a table's user-defined lifecycle hooks. Hook code is
// compile-checked at table save time, so failures here are runtime-only
// (bad data, not bad code) and never abort the surrounding operation except
// for beforeSave, which gates the write.
type HookService struct {
	engine *expression.Engine
}

// NewHookService creates a new HookService
func NewHookService() *HookService {
	return &HookService{engine: expression.NewEngine()}
}

func hookEnv(table *models.Table, user *models.User, row models.Row) map[string]interface{} {
	env := map[string]interface{}{
		"record": map[string]interface{}(row),
		"table":  table.Slug,
	}
	if user != nil {
		env["user"] = map[string]interface{}{
			"id":    user.ID,
			"email": user.Email,
			"role":  string(user.Role),
		}
	}
	return env
}

// RunOnLoad runs the onLoad hook against a fetched row. The hook result, when
// it is a map, replaces the row presented to the caller.
func (s *HookService) RunOnLoad(table *models.Table, user *models.User, row models.Row) models.Row {
	code := table.Methods.OnLoad.Code
	if code == nil || *code == "" {
		return row
	}
	result, err := s.engine.Evaluate(*code, hookEnv(table, user, row))
	if err != nil {
		log.Printf("⚠️ HookService: onLoad failed for %s: %v", table.Slug, err)
		return row
	}
	if mapped, ok := result.(map[string]interface{}); ok {
		return models.Row(mapped)
	}
	return row
}

// RunBeforeSave runs the beforeSave hook. A map result rewrites the row; an
// evaluation error aborts the save.
func (s *HookService) RunBeforeSave(table *models.Table, user *models.User, row models.Row) (models.Row, error) {
	code := table.Methods.BeforeSave.Code
	if code == nil || *code == "" {
		return row, nil
	}
	result, err := s.engine.Evaluate(*code, hookEnv(table, user, row))
	if err != nil {
		return nil, err
	}
	if mapped, ok := result.(map[string]interface{}); ok {
		return models.Row(mapped), nil
	}
	return row, nil
}

// RunAfterSave runs the afterSave hook, fire-and-forget
func (s *HookService) RunAfterSave(table *models.Table, user *models.User, row models.Row) {
	code := table.Methods.AfterSave.Code
	if code == nil || *code == "" {
		return
	}
	if _, err := s.engine.Evaluate(*code, hookEnv(table, user, row)); err != nil {
		log.Printf("⚠️ HookService: afterSave failed for %s: %v", table.Slug, err)
	}
}
