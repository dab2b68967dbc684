package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSelect(t *testing.T) {
	result := From("data_projects").
		Select([]string{"id", "title"}).
		Where("`status` = ?", "open").
		ExcludeTrashed().
		OrderBy("created_at", "DESC").
		Limit(10).
		Offset(20).
		Build()

	assert.Equal(t, "SELECT `id`, `title` FROM `data_projects` WHERE `status` = ? AND `trashed` = 0 ORDER BY `created_at` DESC LIMIT 10 OFFSET 20", result.SQL)
	assert.Equal(t, []interface{}{"open"}, result.Params)
}

func TestBuildSelectDefaultsToStar(t *testing.T) {
	result := From("data_projects").Build()

	assert.Equal(t, "SELECT * FROM `data_projects`", result.SQL)
	assert.Empty(t, result.Params)
}

func TestBuildSelectOffsetRequiresLimit(t *testing.T) {
	result := From("data_projects").Offset(20).Build()

	assert.Equal(t, "SELECT * FROM `data_projects`", result.SQL)
}

func TestBuildWhereIn(t *testing.T) {
	result := From("data_projects").
		WhereIn("id", []interface{}{"a", "b", "c"}).
		Build()

	assert.Equal(t, "SELECT * FROM `data_projects` WHERE `id` IN (?, ?, ?)", result.SQL)
	assert.Equal(t, []interface{}{"a", "b", "c"}, result.Params)
}

func TestBuildWhereInEmptyIsNoop(t *testing.T) {
	result := From("data_projects").WhereIn("id", nil).Build()

	assert.Equal(t, "SELECT * FROM `data_projects`", result.SQL)
}

func TestBuildInsertSortsColumns(t *testing.T) {
	result := Insert("data_projects", map[string]interface{}{
		"title":  "Launch",
		"id":     "row-1",
		"status": "open",
	}).Build()

	assert.Equal(t, "INSERT INTO `data_projects` (`id`, `status`, `title`) VALUES (?, ?, ?)", result.SQL)
	assert.Equal(t, []interface{}{"row-1", "open", "Launch"}, result.Params)
}

func TestBuildUpdate(t *testing.T) {
	result := Update("data_projects").
		Set(map[string]interface{}{"title": "Renamed", "status": "closed"}).
		Where("`id` = ?", "row-1").
		Build()

	assert.Equal(t, "UPDATE `data_projects` SET `status` = ?, `title` = ? WHERE `id` = ?", result.SQL)
	assert.Equal(t, []interface{}{"closed", "Renamed", "row-1"}, result.Params)
}

func TestBuildDelete(t *testing.T) {
	result := Delete("data_projects").Where("`id` = ?", "row-1").Build()

	assert.Equal(t, "DELETE FROM `data_projects` WHERE `id` = ?", result.SQL)
	assert.Equal(t, []interface{}{"row-1"}, result.Params)
}
