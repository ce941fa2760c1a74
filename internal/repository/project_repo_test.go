package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labcore/internal/domain"
	"labcore/internal/platform/logger"
	"labcore/internal/testutil"
)

func TestProjectGetByIDLoadsAssociations(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	log := logger.NewNop()
	projects := NewProjectRepository(tx, log)
	partners := NewPartnerRepository(tx, log)
	resources := NewResourceRepository(tx, log)

	lab := testutil.SeedLaboratory(t, ctx, tx, "Space Lab")
	member := testutil.SeedAccount(t, ctx, tx, lab.ID, "sally@lab.test")
	p := &domain.Project{Title: "Orbit", Type: domain.ProjectCommercial, LaboratoryID: lab.ID}
	require.NoError(t, projects.Create(ctx, p))
	assert.Equal(t, domain.ProjectActive, p.Status)

	sponsor := &domain.Partner{Title: "Space Agency", Type: domain.PartnerNational}
	require.NoError(t, partners.Create(ctx, sponsor))

	all := sampleResources()
	for _, res := range all {
		require.NoError(t, resources.Create(ctx, res))
	}

	require.NoError(t, projects.AddResources(ctx, p.ID, all[1].ID, all[2].ID))
	require.NoError(t, projects.AddPartners(ctx, p.ID, sponsor.ID))
	require.NoError(t, projects.AddParticipants(ctx, p.ID, member.ID))

	got, err := projects.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Resources, 2)
	require.Len(t, got.Partners, 1)
	require.Len(t, got.Participants, 1)
	assert.Equal(t, "Space Agency", got.Partners[0].Title)
	assert.Equal(t, member.ID, got.Participants[0].ID)
	for _, res := range got.Resources {
		v, err := res.Variant()
		require.NoError(t, err)
		assert.Contains(t, []domain.ResourceType{domain.ResourceReport, domain.ResourcePublication}, v.Kind())
	}
}

func TestProjectLinksAreIdempotent(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	log := logger.NewNop()
	projects := NewProjectRepository(tx, log)
	resources := NewResourceRepository(tx, log)

	lab := testutil.SeedLaboratory(t, ctx, tx, "Space Lab")
	p := &domain.Project{Title: "Orbit", Type: domain.ProjectResearch, LaboratoryID: lab.ID}
	require.NoError(t, projects.Create(ctx, p))
	res := sampleResources()[0]
	require.NoError(t, resources.Create(ctx, res))

	require.NoError(t, projects.AddResources(ctx, p.ID, res.ID))
	require.NoError(t, projects.AddResources(ctx, p.ID, res.ID))

	var links int64
	require.NoError(t, tx.Model(&domain.ProjectResource{}).Count(&links).Error)
	assert.Equal(t, int64(1), links)

	require.NoError(t, projects.RemoveResources(ctx, p.ID, res.ID))
	require.NoError(t, tx.Model(&domain.ProjectResource{}).Count(&links).Error)
	assert.Zero(t, links)
}

func TestProjectLinkUnknownResource(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	projects := NewProjectRepository(tx, logger.NewNop())
	lab := testutil.SeedLaboratory(t, ctx, tx, "Space Lab")
	p := &domain.Project{Title: "Orbit", Type: domain.ProjectResearch, LaboratoryID: lab.ID}
	require.NoError(t, projects.Create(ctx, p))

	require.ErrorIs(t, projects.AddResources(ctx, p.ID, 9999), domain.ErrConstraintViolation)
}

func TestProjectUpdateDeleteAndList(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	projects := NewProjectRepository(tx, logger.NewNop())
	lab := testutil.SeedLaboratory(t, ctx, tx, "Space Lab")
	member := testutil.SeedAccount(t, ctx, tx, lab.ID, "mae@lab.test")

	p := &domain.Project{Title: "Orbit", Type: domain.ProjectResearch, LaboratoryID: lab.ID}
	require.NoError(t, projects.Create(ctx, p))
	require.NoError(t, projects.AddParticipants(ctx, p.ID, member.ID))

	p.Status = domain.ProjectCompleted
	require.NoError(t, projects.Update(ctx, p))

	p.Type = "hobby"
	require.ErrorIs(t, projects.Update(ctx, p), domain.ErrConstraintViolation)

	list, err := projects.ListByLaboratory(ctx, lab.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.ProjectCompleted, list[0].Status)

	require.NoError(t, projects.Delete(ctx, p.ID))
	_, err = projects.GetByID(ctx, p.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	var links int64
	require.NoError(t, tx.Model(&domain.ProjectParticipant{}).Count(&links).Error)
	assert.Zero(t, links)
}

func TestPartnerDefaultsAndList(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	partners := NewPartnerRepository(tx, logger.NewNop())

	local := &domain.Partner{Title: "Town Hall"}
	require.NoError(t, partners.Create(ctx, local))
	assert.Equal(t, domain.PartnerLocal, local.Type)

	require.ErrorIs(t, partners.Create(ctx, &domain.Partner{Title: "Mars", Type: "interplanetary"}), domain.ErrConstraintViolation)

	list, err := partners.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	got, err := partners.GetByID(ctx, local.ID)
	require.NoError(t, err)
	assert.Equal(t, "Town Hall", got.Title)
}
