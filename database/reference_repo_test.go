package database_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-admin-backend/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRepoOptionsAndExists(t *testing.T) {
	db := newTestDB(t)
	repo := database.NewCategoryRepo(db)
	category := seedCategory(t, db, "Web")
	seedCategory(t, db, "Mobile")

	options, err := repo.Options()
	require.NoError(t, err)
	assert.Len(t, options, 2)

	exists, err := repo.Exists(category.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(uuid.New())
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestTechnologyRepoExist(t *testing.T) {
	db := newTestDB(t)
	repo := database.NewTechnologyRepo(db)
	t1 := seedTechnology(t, db, "Go")
	t2 := seedTechnology(t, db, "Postgres")

	exist, err := repo.Exist([]uuid.UUID{t1.ID, t2.ID})
	require.NoError(t, err)
	assert.True(t, exist)

	// duplicate ids are checked once
	exist, err = repo.Exist([]uuid.UUID{t1.ID, t1.ID})
	require.NoError(t, err)
	assert.True(t, exist)

	exist, err = repo.Exist([]uuid.UUID{t1.ID, uuid.New()})
	require.NoError(t, err)
	assert.False(t, exist)

	exist, err = repo.Exist(nil)
	require.NoError(t, err)
	assert.True(t, exist)
}
