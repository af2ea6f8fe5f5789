package scenario

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that the requested scenario was not found.
var ErrNotFound = errors.New("scenario not found")

// Scenario is a stored simulation input with the totals it is expected to produce.
type Scenario struct {
	ID             uuid.UUID        `json:"id"`
	Name           string           `json:"name"`
	Description    string           `json:"description,omitempty"`
	Input          json.RawMessage  `json:"input"`
	ExpectedTax    *decimal.Decimal `json:"expectedTotalTax,omitempty"`
	ExpectedEstate *decimal.Decimal `json:"expectedTotalEstate,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// Run is the outcome of replaying a scenario.
type Run struct {
	ID              int64           `json:"id"`
	ScenarioID      uuid.UUID       `json:"scenarioId"`
	ScenarioName    string          `json:"scenarioName"`
	LegislationYear int             `json:"legislationYear"`
	TotalTax        decimal.Decimal `json:"totalTax"`
	TotalEstate     decimal.Decimal `json:"totalEstate"`
	Passed          bool            `json:"passed"`
	Mismatches      []string        `json:"mismatches,omitempty"`
	Output          json.RawMessage `json:"output,omitempty"`
	RanAt           time.Time       `json:"ranAt"`
}

// Repository defines persistent storage for scenarios and their runs.
type Repository interface {
	Create(ctx context.Context, s Scenario) error
	Get(ctx context.Context, id uuid.UUID) (*Scenario, error)
	List(ctx context.Context, limit int) ([]Scenario, error)
	SaveRun(ctx context.Context, run Run) (int64, error)
	LatestRuns(ctx context.Context, id uuid.UUID, limit int) ([]Run, error)
}

// PgRepository implements Repository with PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a new PostgreSQL scenario repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, s Scenario) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO scenarios (id, name, description, input, expected_tax, expected_estate, created_at)
		 VALUES ($1, $2, $3, $4::jsonb, $5::numeric, $6::numeric, $7)`,
		s.ID, s.Name, s.Description, []byte(s.Input), decimalParam(s.ExpectedTax), decimalParam(s.ExpectedEstate), s.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating scenario: %w", err)
	}
	return nil
}

func (r *PgRepository) Get(ctx context.Context, id uuid.UUID) (*Scenario, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, name, description, input, expected_tax::text, expected_estate::text, created_at
		 FROM scenarios WHERE id = $1`, id)
	s, err := scanScenario(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting scenario %s: %w", id, err)
	}
	return s, nil
}

func (r *PgRepository) List(ctx context.Context, limit int) ([]Scenario, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, name, description, input, expected_tax::text, expected_estate::text, created_at
		 FROM scenarios ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing scenarios: %w", err)
	}
	defer rows.Close()

	var scenarios []Scenario
	for rows.Next() {
		s, err := scanScenario(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning scenario: %w", err)
		}
		scenarios = append(scenarios, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating scenarios: %w", err)
	}
	return scenarios, nil
}

func (r *PgRepository) SaveRun(ctx context.Context, run Run) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO scenario_runs (scenario_id, legislation_year, total_tax, total_estate, passed, mismatches, output, ran_at)
		 VALUES ($1, $2, $3::numeric, $4::numeric, $5, $6, $7::jsonb, $8)
		 RETURNING id`,
		run.ScenarioID, run.LegislationYear, run.TotalTax.String(), run.TotalEstate.String(),
		run.Passed, run.Mismatches, []byte(run.Output), run.RanAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("saving run of scenario %s: %w", run.ScenarioID, err)
	}
	return id, nil
}

func (r *PgRepository) LatestRuns(ctx context.Context, id uuid.UUID, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.pool.Query(ctx,
		`SELECT sr.id, sr.scenario_id, s.name, sr.legislation_year, sr.total_tax::text, sr.total_estate::text,
		        sr.passed, sr.mismatches, sr.ran_at
		 FROM scenario_runs sr
		 JOIN scenarios s ON s.id = sr.scenario_id
		 WHERE sr.scenario_id = $1
		 ORDER BY sr.ran_at DESC
		 LIMIT $2`, id, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run         Run
			tax, estate string
		)
		if err := rows.Scan(&run.ID, &run.ScenarioID, &run.ScenarioName, &run.LegislationYear,
			&tax, &estate, &run.Passed, &run.Mismatches, &run.RanAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if run.TotalTax, err = decimal.NewFromString(tax); err != nil {
			return nil, fmt.Errorf("parsing run tax: %w", err)
		}
		if run.TotalEstate, err = decimal.NewFromString(estate); err != nil {
			return nil, fmt.Errorf("parsing run estate: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

func scanScenario(row pgx.Row) (*Scenario, error) {
	var (
		s              Scenario
		input          []byte
		expectedTax    *string
		expectedEstate *string
	)
	if err := row.Scan(&s.ID, &s.Name, &s.Description, &input, &expectedTax, &expectedEstate, &s.CreatedAt); err != nil {
		return nil, err
	}
	s.Input = input
	var err error
	if s.ExpectedTax, err = parseOptional(expectedTax); err != nil {
		return nil, fmt.Errorf("parsing expected tax: %w", err)
	}
	if s.ExpectedEstate, err = parseOptional(expectedEstate); err != nil {
		return nil, fmt.Errorf("parsing expected estate: %w", err)
	}
	return &s, nil
}

func parseOptional(v *string) (*decimal.Decimal, error) {
	if v == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func decimalParam(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}
