package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wealth-tracker/models"
)

func TestProviderInstitutionUnique(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateProviderInstitution(ctx, &models.ProviderInstitution{
		Provider: models.ProviderPlaid, ProviderID: "ins_1", Name: "First Bank",
	}))
	err := s.CreateProviderInstitution(ctx, &models.ProviderInstitution{
		Provider: models.ProviderPlaid, ProviderID: "ins_1", Name: "First Bank again",
	})
	assert.ErrorIs(t, err, ErrDuplicate)

	// the same id under the other provider is a different institution
	require.NoError(t, s.CreateProviderInstitution(ctx, &models.ProviderInstitution{
		Provider: models.ProviderFinicity, ProviderID: "ins_1", Name: "First Bank",
	}))
}

func TestUpsertProviderInstitutionsKeepsLink(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	inst := &models.Institution{Name: "First Bank"}
	require.NoError(t, s.CreateInstitution(ctx, inst))
	require.NoError(t, s.UpsertProviderInstitutions(ctx, []models.ProviderInstitution{
		{Provider: models.ProviderPlaid, ProviderID: "ins_1", Name: "First Bank", Rank: 1},
	}))

	pi, err := s.GetProviderInstitution(ctx, models.ProviderPlaid, "ins_1")
	require.NoError(t, err)
	require.NoError(t, s.LinkProviderInstitution(ctx, pi.ID, inst.ID))

	require.NoError(t, s.UpsertProviderInstitutions(ctx, []models.ProviderInstitution{
		{Provider: models.ProviderPlaid, ProviderID: "ins_1", Name: "First Bank NA", Rank: 7, OAuth: true},
	}))
	assert.EqualValues(t, 1, count(t, s, &models.ProviderInstitution{}))

	pi, err = s.GetProviderInstitution(ctx, models.ProviderPlaid, "ins_1")
	require.NoError(t, err)
	assert.Equal(t, "First Bank NA", pi.Name)
	assert.Equal(t, 7, pi.Rank)
	assert.True(t, pi.OAuth)
	require.NotNil(t, pi.InstitutionID)
	assert.Equal(t, inst.ID, *pi.InstitutionID)

	assert.ErrorIs(t, s.LinkProviderInstitution(ctx, 999, inst.ID), ErrNotFound)
	assert.ErrorIs(t, s.LinkProviderInstitution(ctx, pi.ID, 999), ErrForeignKey)
}

func TestDeleteInstitutionUnlinks(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	inst := &models.Institution{Name: "Credit Union"}
	require.NoError(t, s.CreateInstitution(ctx, inst))
	pi := &models.ProviderInstitution{Provider: models.ProviderFinicity, ProviderID: "101", Name: "CU", InstitutionID: &inst.ID}
	require.NoError(t, s.CreateProviderInstitution(ctx, pi))

	require.NoError(t, s.DeleteInstitution(ctx, inst.ID))

	got, err := s.GetProviderInstitution(ctx, models.ProviderFinicity, "101")
	require.NoError(t, err)
	assert.Nil(t, got.InstitutionID)

	assert.ErrorIs(t, s.DeleteInstitution(ctx, inst.ID), ErrNotFound)
}
