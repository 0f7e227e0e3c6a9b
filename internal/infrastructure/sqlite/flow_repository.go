package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/stemma/internal/flow"
	"github.com/zjrosen/stemma/internal/log"
)

// FlowNotFoundError indicates no flow exists with the requested name.
type FlowNotFoundError struct {
	Name string
}

func (e *FlowNotFoundError) Error() string {
	return fmt.Sprintf("flow %q not found", e.Name)
}

// FlowRepository persists workflow trees. A flow's graph is stored as one
// row per node with the edge list JSON-encoded, exactly the serialized
// layout the core hands out: a node-id-keyed map of node records.
type FlowRepository struct {
	db *sql.DB
}

func newFlowRepository(db *sql.DB) *FlowRepository {
	return &FlowRepository{db: db}
}

var tracer = otel.Tracer("stemma/sqlite")

// EnsureDefault finds the flow with the given name, creating it with the
// default single-node graph when absent.
func (r *FlowRepository) EnsureDefault(ctx context.Context, name string) (*Flow, error) {
	fl, err := r.FindByName(ctx, name)
	if err == nil {
		return fl, nil
	}
	var notFound *FlowNotFoundError
	if !errors.As(err, &notFound) {
		return nil, err
	}

	now := time.Now().Unix()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO flows (guid, name, root_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), name, flow.DefaultRootID, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert flow: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}
	log.Info(log.CatDB, "Created flow", "name", name, "id", id)

	if err := r.SaveGraph(ctx, id, flow.DefaultRootID, flow.DefaultGraph()); err != nil {
		return nil, err
	}
	return r.FindByName(ctx, name)
}

// FindByName retrieves a flow by its unique name.
// Returns FlowNotFoundError if no matching flow exists.
func (r *FlowRepository) FindByName(ctx context.Context, name string) (*Flow, error) {
	var row flowRow
	err := r.db.QueryRowContext(ctx,
		`SELECT id, guid, name, root_id, created_at, updated_at FROM flows WHERE name = ?`,
		name,
	).Scan(&row.ID, &row.GUID, &row.Name, &row.RootID, &row.CreatedAt, &row.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, &FlowNotFoundError{Name: name}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find flow by name: %w", err)
	}
	return row.toFlow(), nil
}

// List retrieves all flows ordered by most recently updated.
func (r *FlowRepository) List(ctx context.Context) ([]*Flow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, guid, name, root_id, created_at, updated_at FROM flows ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list flows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var flows []*Flow
	for rows.Next() {
		var row flowRow
		if err := rows.Scan(&row.ID, &row.GUID, &row.Name, &row.RootID, &row.CreatedAt, &row.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan flow row: %w", err)
		}
		flows = append(flows, row.toFlow())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating flow rows: %w", err)
	}
	return flows, nil
}

// SaveGraph replaces the stored graph for a flow with the given snapshot in
// a single transaction and bumps the flow's updated_at.
func (r *FlowRepository) SaveGraph(ctx context.Context, flowID int64, rootID string, g flow.Graph) (retErr error) {
	ctx, span := tracer.Start(ctx, "FlowRepository.SaveGraph")
	defer span.End()
	span.SetAttributes(attribute.Int64("flow.id", flowID), attribute.Int("flow.nodes", len(g)))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if retErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				retErr = errors.Join(retErr, rbErr)
			}
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM flow_nodes WHERE flow_id = ?`, flowID); err != nil {
		return fmt.Errorf("failed to clear flow nodes: %w", err)
	}

	for _, n := range g {
		row, err := toNodeRow(n)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO flow_nodes (flow_id, node_id, label, kind, edges) VALUES (?, ?, ?, ?, ?)`,
			flowID, row.NodeID, row.Label, row.Kind, row.Edges,
		); err != nil {
			return fmt.Errorf("failed to insert node %s: %w", n.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE flows SET root_id = ?, updated_at = ? WHERE id = ?`,
		rootID, time.Now().Unix(), flowID,
	); err != nil {
		return fmt.Errorf("failed to update flow: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	log.Debug(log.CatDB, "Saved graph", "flow", flowID, "nodes", len(g))
	return nil
}

// LoadGraph reads a flow's stored graph. Corruption is absorbed here, not
// surfaced to the editor: missing rows or undecodable edge JSON fall back
// to the default single-node graph with the condition logged.
func (r *FlowRepository) LoadGraph(ctx context.Context, flowID int64) (flow.Graph, error) {
	ctx, span := tracer.Start(ctx, "FlowRepository.LoadGraph")
	defer span.End()
	span.SetAttributes(attribute.Int64("flow.id", flowID))

	rows, err := r.db.QueryContext(ctx,
		`SELECT node_id, label, kind, edges FROM flow_nodes WHERE flow_id = ?`,
		flowID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load flow nodes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	g := flow.Graph{}
	for rows.Next() {
		var row nodeRow
		if err := rows.Scan(&row.NodeID, &row.Label, &row.Kind, &row.Edges); err != nil {
			return nil, fmt.Errorf("failed to scan node row: %w", err)
		}
		n, err := row.toNode()
		if err != nil {
			log.ErrorErr(log.CatDB, "Corrupt node row, falling back to default graph", err, "flow", flowID, "node", row.NodeID)
			return flow.DefaultGraph(), nil
		}
		g[n.ID] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating node rows: %w", err)
	}

	if len(g) == 0 {
		log.Warn(log.CatDB, "Flow has no stored nodes, using default graph", "flow", flowID)
		return flow.DefaultGraph(), nil
	}
	return g, nil
}
