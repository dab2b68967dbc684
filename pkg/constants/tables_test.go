package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSystemTable(t *testing.T) {
	assert.True(t, IsSystemTable("_System_User"))
	assert.True(t, IsSystemTable("_system_user"))
	assert.True(t, IsSystemTable("_SYSTEM_Anything"))
	assert.False(t, IsSystemTable("projects"))
	assert.False(t, IsSystemTable("system_user"))
}

func TestDataTableName(t *testing.T) {
	assert.Equal(t, "data_projects", DataTableName("projects"))
	assert.Equal(t, "data_projects", DataTableName("Projects"))
}
