package migration

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/jwtpizza/pkg/database"
)

type crust struct {
	ID   uint
	Name string
}

type createCrusts struct{}

func (createCrusts) Up(db *gorm.DB) error   { return db.AutoMigrate(&crust{}) }
func (createCrusts) Down(db *gorm.DB) error { return db.Migrator().DropTable(&crust{}) }

func TestRunRollbackStatus(t *testing.T) {
	saved := registry
	registry = nil
	t.Cleanup(func() { registry = saved })
	Register("20260101000000_create_crusts", createCrusts{})

	db, err := database.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	var out bytes.Buffer
	r := New(db).Output(&out)

	require.NoError(t, r.Run())
	assert.True(t, db.Migrator().HasTable(&crust{}))
	assert.Contains(t, out.String(), "Migrated:  20260101000000_create_crusts")

	pending, err := r.Pending()
	require.NoError(t, err)
	assert.Empty(t, pending)

	out.Reset()
	require.NoError(t, r.Run())
	assert.Contains(t, out.String(), "Nothing to migrate.")

	out.Reset()
	require.NoError(t, r.Status())
	assert.Contains(t, out.String(), "Ran")

	require.NoError(t, r.Rollback())
	assert.False(t, db.Migrator().HasTable(&crust{}))

	pending, err = r.Pending()
	require.NoError(t, err)
	assert.Equal(t, []string{"20260101000000_create_crusts"}, pending)

	out.Reset()
	require.NoError(t, r.Rollback())
	assert.Contains(t, out.String(), "Nothing to roll back.")
}
