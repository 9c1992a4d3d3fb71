package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/cookbook/backend/internal/models"
	"github.com/pageza/cookbook/backend/internal/testhelpers"
)

func TestSeedIsIdempotent(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)

	created, err := seed(db)
	require.NoError(t, err)
	assert.Equal(t, int64(len(ingredients)), created)

	created, err = seed(db)
	require.NoError(t, err)
	assert.Zero(t, created)

	var tags, catalog int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&tags).Error)
	require.NoError(t, db.Model(&models.Ingredient{}).Count(&catalog).Error)
	assert.Equal(t, int64(len(models.TagNames)), tags)
	assert.Equal(t, int64(len(ingredients)), catalog)
}
