package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/stemma/internal/flow"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewDB(filepath.Join(t.TempDir(), "stemma.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestEnsureDefault_CreatesFlowWithDefaultGraph(t *testing.T) {
	repo := newTestDB(t).Flows()
	ctx := context.Background()

	fl, err := repo.EnsureDefault(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, "default", fl.Name)
	assert.Equal(t, flow.DefaultRootID, fl.RootID)
	assert.NotEmpty(t, fl.GUID)
	assert.NotZero(t, fl.ID)

	g, err := repo.LoadGraph(ctx, fl.ID)
	require.NoError(t, err)
	assert.Equal(t, flow.DefaultGraph(), g)
}

func TestEnsureDefault_Idempotent(t *testing.T) {
	repo := newTestDB(t).Flows()
	ctx := context.Background()

	first, err := repo.EnsureDefault(ctx, "default")
	require.NoError(t, err)
	second, err := repo.EnsureDefault(ctx, "default")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.GUID, second.GUID)
}

func TestFindByName_NotFound(t *testing.T) {
	repo := newTestDB(t).Flows()

	_, err := repo.FindByName(context.Background(), "missing")
	var notFound *FlowNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.Name)
}

func TestSaveGraph_RoundTrip(t *testing.T) {
	repo := newTestDB(t).Flows()
	ctx := context.Background()

	fl, err := repo.EnsureDefault(ctx, "default")
	require.NoError(t, err)

	g := flow.DefaultGraph()
	g, _, ok := flow.Insert(g, flow.DefaultRootID, "", flow.KindBranch)
	require.True(t, ok)
	g, _, ok = flow.Insert(g, "node-2", flow.EdgeFalse, flow.KindAction)
	require.True(t, ok)
	g, ok = flow.UpdateLabel(g, "node-3", "Notify the team")
	require.True(t, ok)

	require.NoError(t, repo.SaveGraph(ctx, fl.ID, flow.DefaultRootID, g))

	loaded, err := repo.LoadGraph(ctx, fl.ID)
	require.NoError(t, err)
	assert.Equal(t, g, loaded)
}

func TestSaveGraph_ReplacesPriorSnapshot(t *testing.T) {
	repo := newTestDB(t).Flows()
	ctx := context.Background()

	fl, err := repo.EnsureDefault(ctx, "default")
	require.NoError(t, err)

	g := flow.DefaultGraph()
	g, _, _ = flow.Insert(g, flow.DefaultRootID, "", flow.KindAction)
	require.NoError(t, repo.SaveGraph(ctx, fl.ID, flow.DefaultRootID, g))

	// Save the smaller default graph again; the extra node must be gone.
	require.NoError(t, repo.SaveGraph(ctx, fl.ID, flow.DefaultRootID, flow.DefaultGraph()))

	loaded, err := repo.LoadGraph(ctx, fl.ID)
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestLoadGraph_EmptyFlowFallsBack(t *testing.T) {
	db := newTestDB(t)
	repo := db.Flows()
	ctx := context.Background()

	fl, err := repo.EnsureDefault(ctx, "default")
	require.NoError(t, err)

	_, err = db.Connection().Exec(`DELETE FROM flow_nodes WHERE flow_id = ?`, fl.ID)
	require.NoError(t, err)

	g, err := repo.LoadGraph(ctx, fl.ID)
	require.NoError(t, err)
	assert.Equal(t, flow.DefaultGraph(), g)
}

func TestLoadGraph_CorruptEdgesFallsBack(t *testing.T) {
	db := newTestDB(t)
	repo := db.Flows()
	ctx := context.Background()

	fl, err := repo.EnsureDefault(ctx, "default")
	require.NoError(t, err)

	_, err = db.Connection().Exec(
		`UPDATE flow_nodes SET edges = 'not json' WHERE flow_id = ?`, fl.ID,
	)
	require.NoError(t, err)

	g, err := repo.LoadGraph(ctx, fl.ID)
	require.NoError(t, err, "corruption is absorbed, not surfaced")
	assert.Equal(t, flow.DefaultGraph(), g)
}

func TestList_OrdersByUpdatedAt(t *testing.T) {
	db := newTestDB(t)
	repo := db.Flows()
	ctx := context.Background()

	_, err := repo.EnsureDefault(ctx, "alpha")
	require.NoError(t, err)
	_, err = repo.EnsureDefault(ctx, "beta")
	require.NoError(t, err)

	// Force distinct updated_at ordering regardless of clock resolution.
	_, err = db.Connection().Exec(`UPDATE flows SET updated_at = updated_at + 60 WHERE name = 'alpha'`)
	require.NoError(t, err)

	flows, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, flows, 2)
	assert.Equal(t, "alpha", flows[0].Name)
	assert.Equal(t, "beta", flows[1].Name)
}
