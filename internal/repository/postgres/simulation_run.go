package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/warehousesim/core/internal/repository"
)

// SimulationRunRepository implements repository.SimulationRunRepository for
// PostgreSQL, persisting one row per completed simulation run so successive
// runs (different seeds, different parameter sets) can be compared later.
type SimulationRunRepository struct {
	db *sql.DB
}

// NewSimulationRunRepository creates a new SimulationRunRepository.
func NewSimulationRunRepository(db *sql.DB) *SimulationRunRepository {
	return &SimulationRunRepository{db: db}
}

// Create inserts a new simulation run summary.
func (r *SimulationRunRepository) Create(ctx context.Context, run *repository.SimulationRunSummary) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}

	query := `
		INSERT INTO simulation_runs
			(id, started_at, finished_at, random_seed, tasks_completed,
			 tasks_cancelled, exceptions_raised, overtime_episodes, late_shipments, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.StartedAt,
		run.FinishedAt,
		run.RandomSeed,
		run.TasksCompleted,
		run.TasksCancelled,
		run.ExceptionsRaised,
		run.OvertimeEpisodes,
		run.LateShipments,
		run.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to create simulation run: %w", err)
	}
	return nil
}

// GetByID retrieves a simulation run summary by ID.
func (r *SimulationRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*repository.SimulationRunSummary, error) {
	run := &repository.SimulationRunSummary{}

	query := `
		SELECT id, started_at, finished_at, random_seed, tasks_completed,
		       tasks_cancelled, exceptions_raised, overtime_episodes, late_shipments, notes
		FROM simulation_runs
		WHERE id = $1
	`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID, &run.StartedAt, &run.FinishedAt, &run.RandomSeed,
		&run.TasksCompleted, &run.TasksCancelled, &run.ExceptionsRaised,
		&run.OvertimeEpisodes, &run.LateShipments, &run.Notes,
	)
	if err == sql.ErrNoRows {
		return nil, &NotFoundError{ResourceType: "simulation_run", ResourceID: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get simulation run: %w", err)
	}
	return run, nil
}

// ListRecent retrieves the most recently finished simulation runs, newest
// first.
func (r *SimulationRunRepository) ListRecent(ctx context.Context, limit int) ([]*repository.SimulationRunSummary, error) {
	query := `
		SELECT id, started_at, finished_at, random_seed, tasks_completed,
		       tasks_cancelled, exceptions_raised, overtime_episodes, late_shipments, notes
		FROM simulation_runs
		ORDER BY finished_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list simulation runs: %w", err)
	}
	defer rows.Close()

	var out []*repository.SimulationRunSummary
	for rows.Next() {
		run := &repository.SimulationRunSummary{}
		if err := rows.Scan(
			&run.ID, &run.StartedAt, &run.FinishedAt, &run.RandomSeed,
			&run.TasksCompleted, &run.TasksCancelled, &run.ExceptionsRaised,
			&run.OvertimeEpisodes, &run.LateShipments, &run.Notes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan simulation run: %w", err)
		}
		out = append(out, run)
	}
	return out, rows.Err()
}
