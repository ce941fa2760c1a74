package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"labcore/internal/domain"
	platformlogger "labcore/internal/platform/logger"
	"labcore/internal/testutil"
)

func newResourceRepo(t *testing.T) (*ResourceRepository, *gorm.DB) {
	t.Helper()
	tx := testutil.Tx(t, testutil.DB(t))
	return NewResourceRepository(tx, platformlogger.NewNop()), tx
}

func sampleResources() []*domain.Resource {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	license := "MIT"
	return []*domain.Resource{
		domain.NewPresentation("Kickoff", "https://slides.test/kickoff", domain.Presentation{
			Duration:   900,
			Subtitles:  map[string]interface{}{"en": "https://subs.test/en.vtt"},
			Visibility: domain.VisibilityPublicCommunity,
		}),
		domain.NewReport("Q1 report", "https://docs.test/q1", domain.Report{
			StartTS: start, EndTS: start.AddDate(0, 3, 0), Status: domain.ReportSubmitted,
		}),
		domain.NewPublication("Swarm control", "https://doi.test/10.1/swarm", domain.Publication{
			Keywords: []string{"swarm", "control"},
		}),
		domain.NewSoftwareRepository("Firmware", "https://git.test/firmware", domain.SoftwareRepository{
			License: &license, LinesAmount: 42000,
		}),
		domain.NewDataset("Lidar scans", "https://data.test/lidar", domain.Dataset{
			Tags: []string{"lidar"}, Size: 5 << 30,
			Attributes: map[string]interface{}{"x": "float", "y": "float"},
		}),
	}
}

func TestResourceCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo, _ := newResourceRepo(t)

	for _, res := range sampleResources() {
		require.NoError(t, repo.Create(ctx, res))
		require.NotZero(t, res.ID)

		got, err := repo.GetByID(ctx, res.ID)
		require.NoError(t, err)
		assert.Equal(t, res.Type, got.Type)

		v, err := got.Variant()
		require.NoError(t, err, "resource %d", res.ID)
		assert.Equal(t, res.Type, v.Kind())
	}
}

func TestResourceVariantPayloadRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, _ := newResourceRepo(t)
	all := sampleResources()
	for _, res := range all {
		require.NoError(t, repo.Create(ctx, res))
	}

	pub, err := repo.GetByID(ctx, all[2].ID)
	require.NoError(t, err)
	require.NotNil(t, pub.Publication)
	assert.Equal(t, []string{"swarm", "control"}, []string(pub.Publication.Keywords))
	assert.Equal(t, pub.ID, pub.Publication.ID)

	ds, err := repo.GetByID(ctx, all[4].ID)
	require.NoError(t, err)
	require.NotNil(t, ds.Dataset)
	assert.Equal(t, int64(5<<30), ds.Dataset.Size)
	assert.Equal(t, "float", ds.Dataset.Attributes["x"])
}

func TestResourceListResolvesVariantsInConstantQueries(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewResourceRepository(tx, platformlogger.NewNop())
	for i := 0; i < 3; i++ {
		for _, res := range sampleResources() {
			require.NoError(t, repo.Create(ctx, res))
		}
	}

	counter := &queryCounter{}
	counted := NewResourceRepository(tx.Session(&gorm.Session{Logger: counter}), platformlogger.NewNop())
	list, err := counted.List(ctx, ResourceFilter{})
	require.NoError(t, err)
	require.Len(t, list, 15)
	for _, res := range list {
		_, err := res.Variant()
		require.NoError(t, err, "resource %d", res.ID)
	}
	assert.Equal(t, 1+len(domain.VariantAssociations), counter.queries)

	reports, err := repo.List(ctx, ResourceFilter{Type: domain.ResourceReport})
	require.NoError(t, err)
	require.Len(t, reports, 3)
	for _, res := range reports {
		assert.NotNil(t, res.Report)
	}
}

func TestResourceListByProject(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	log := platformlogger.NewNop()
	resources := NewResourceRepository(tx, log)
	projects := NewProjectRepository(tx, log)

	lab := testutil.SeedLaboratory(t, ctx, tx, "Vision Lab")
	p := &domain.Project{Title: "Mapping", Type: domain.ProjectResearch, LaboratoryID: lab.ID}
	require.NoError(t, projects.Create(ctx, p))

	all := sampleResources()
	for _, res := range all {
		require.NoError(t, resources.Create(ctx, res))
	}
	require.NoError(t, projects.AddResources(ctx, p.ID, all[0].ID, all[4].ID))

	list, err := resources.List(ctx, ResourceFilter{ProjectID: p.ID})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.NotNil(t, list[0].Presentation)
	assert.NotNil(t, list[1].Dataset)
}

func TestResourceCreateRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	repo, tx := newResourceRepo(t)

	bad := domain.NewDataset("Broken", "https://data.test/broken", domain.Dataset{Size: -1})
	require.ErrorIs(t, repo.Create(ctx, bad), domain.ErrConstraintViolation)

	mismatch := domain.NewDataset("Broken", "https://data.test/broken", domain.Dataset{})
	mismatch.Type = domain.ResourceReport
	require.ErrorIs(t, repo.Create(ctx, mismatch), domain.ErrConstraintViolation)

	var count int64
	require.NoError(t, tx.Model(&domain.Resource{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestResourceUpdate(t *testing.T) {
	ctx := context.Background()
	repo, _ := newResourceRepo(t)
	res := sampleResources()[3]
	require.NoError(t, repo.Create(ctx, res))

	res.Title = "Firmware v2"
	res.SoftwareRepository.LinesAmount = 50000
	require.NoError(t, repo.Update(ctx, res))

	got, err := repo.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, "Firmware v2", got.Title)
	assert.Equal(t, int64(50000), got.SoftwareRepository.LinesAmount)

	got.SetVariant(&domain.Dataset{})
	require.ErrorIs(t, repo.Update(ctx, got), domain.ErrImmutableType)
}

func TestResourceDeleteRemovesBothRows(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	log := platformlogger.NewNop()
	repo := NewResourceRepository(tx, log)
	projects := NewProjectRepository(tx, log)
	stats := NewStatsRepository(tx, log)

	lab := testutil.SeedLaboratory(t, ctx, tx, "Bio Lab")
	p := &domain.Project{Title: "Cells", Type: domain.ProjectResearch, LaboratoryID: lab.ID}
	require.NoError(t, projects.Create(ctx, p))

	all := sampleResources()
	for _, res := range all {
		require.NoError(t, repo.Create(ctx, res))
	}
	require.NoError(t, projects.AddResources(ctx, p.ID, all[1].ID))
	require.NoError(t, repo.Delete(ctx, all[1].ID))

	_, err := repo.GetByID(ctx, all[1].ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	var reports int64
	require.NoError(t, tx.Model(&domain.Report{}).Count(&reports).Error)
	assert.Zero(t, reports)

	unpaired, err := stats.UnpairedResources(ctx)
	require.NoError(t, err)
	assert.Zero(t, unpaired)

	require.ErrorIs(t, repo.Delete(ctx, all[1].ID), domain.ErrNotFound)
}

func TestResourceBaseDeleteCascadesToVariant(t *testing.T) {
	ctx := context.Background()
	repo, tx := newResourceRepo(t)
	res := sampleResources()[0]
	require.NoError(t, repo.Create(ctx, res))

	require.NoError(t, tx.Exec("DELETE FROM resource WHERE id = ?", res.ID).Error)

	var count int64
	require.NoError(t, tx.Model(&domain.Presentation{}).Where("id = ?", res.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestResourceCountByType(t *testing.T) {
	ctx := context.Background()
	repo, _ := newResourceRepo(t)
	for _, res := range sampleResources() {
		require.NoError(t, repo.Create(ctx, res))
	}
	require.NoError(t, repo.Create(ctx, sampleResources()[4]))

	counts, err := repo.CountByType(ctx)
	require.NoError(t, err)
	got := map[domain.ResourceType]int64{}
	for _, c := range counts {
		got[c.Type] = c.Total
	}
	assert.Equal(t, int64(2), got[domain.ResourceDataset])
	assert.Equal(t, int64(1), got[domain.ResourcePresentation])
	assert.Len(t, got, 5)
}

// queryCounter counts statements executed through a session.
type queryCounter struct {
	logger.Interface
	queries int
}

func (c *queryCounter) LogMode(logger.LogLevel) logger.Interface { return c }
func (c *queryCounter) Info(context.Context, string, ...interface{}) {}
func (c *queryCounter) Warn(context.Context, string, ...interface{}) {}
func (c *queryCounter) Error(context.Context, string, ...interface{}) {}
func (c *queryCounter) Trace(_ context.Context, _ time.Time, _ func() (string, int64), _ error) {
	c.queries++
}
