package legislation

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// PgRepository stores legislation tables in PostgreSQL and implements Provider.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a new PostgreSQL legislation repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Active loads the active snapshot inside a single read-only transaction.
func (r *PgRepository) Active(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{AccessMode: pgx.ReadOnly}, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`SELECT year, name FROM legislations WHERE is_active LIMIT 1`).Scan(&snap.Year, &snap.Name)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNoActiveLegislation
			}
			return fmt.Errorf("getting active legislation: %w", err)
		}
		return loadTables(ctx, tx, &snap)
	})
	if err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// ForYear loads the snapshot of a given year.
func (r *PgRepository) ForYear(ctx context.Context, year int) (Snapshot, error) {
	var snap Snapshot
	err := pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{AccessMode: pgx.ReadOnly}, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`SELECT year, name FROM legislations WHERE year = $1`, year).Scan(&snap.Year, &snap.Name)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("year %d: %w", year, ErrNotFound)
			}
			return fmt.Errorf("getting legislation %d: %w", year, err)
		}
		return loadTables(ctx, tx, &snap)
	})
	if err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Years lists the stored legislation years, most recent first.
func (r *PgRepository) Years(ctx context.Context) ([]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT year FROM legislations ORDER BY year DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing legislations: %w", err)
	}
	years, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, fmt.Errorf("scanning legislation years: %w", err)
	}
	return years, nil
}

// Save replaces the tables of the snapshot's year.
func (r *PgRepository) Save(ctx context.Context, snap Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	return pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO legislations (year, name) VALUES ($1, $2)
			 ON CONFLICT (year) DO UPDATE SET name = $2`,
			snap.Year, snap.Name); err != nil {
			return fmt.Errorf("saving legislation %d: %w", snap.Year, err)
		}
		for _, table := range []string{"legislation_allowances", "legislation_brackets", "usufruct_scale"} {
			if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE year = $1`, snap.Year); err != nil {
				return fmt.Errorf("clearing %s for %d: %w", table, snap.Year, err)
			}
		}

		batch := &pgx.Batch{}
		for _, c := range lo.Keys(snap.Allowances) {
			batch.Queue(`INSERT INTO legislation_allowances (year, category, amount) VALUES ($1, $2, $3::numeric)`,
				snap.Year, string(c), snap.Allowances[c].String())
		}
		for c, brackets := range snap.Brackets {
			for i, b := range brackets {
				var maxAmount *string
				if b.Max != nil {
					maxAmount = lo.ToPtr(b.Max.String())
				}
				batch.Queue(`INSERT INTO legislation_brackets (year, category, position, min_amount, max_amount, rate)
					 VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6::numeric)`,
					snap.Year, string(c), i, b.Min.String(), maxAmount, b.Rate.String())
			}
		}
		for _, band := range snap.UsufructScale {
			batch.Queue(`INSERT INTO usufruct_scale (year, max_age, rate) VALUES ($1, $2, $3::numeric)`,
				snap.Year, band.MaxAge, band.Rate.String())
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("saving tables for %d: %w", snap.Year, err)
		}
		return nil
	})
}

// Activate flags year as the active legislation and clears the flag elsewhere.
func (r *PgRepository) Activate(ctx context.Context, year int) error {
	return pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `UPDATE legislations SET is_active = FALSE WHERE is_active`); err != nil {
			return fmt.Errorf("clearing active legislation: %w", err)
		}
		tag, err := tx.Exec(ctx, `UPDATE legislations SET is_active = TRUE WHERE year = $1`, year)
		if err != nil {
			return fmt.Errorf("activating legislation %d: %w", year, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("year %d: %w", year, ErrNotFound)
		}
		return nil
	})
}

func loadTables(ctx context.Context, tx pgx.Tx, snap *Snapshot) error {
	snap.Allowances = make(map[Category]decimal.Decimal)
	snap.Brackets = make(map[Category][]Bracket)

	rows, err := tx.Query(ctx,
		`SELECT category, amount::text FROM legislation_allowances WHERE year = $1`, snap.Year)
	if err != nil {
		return fmt.Errorf("reading allowances: %w", err)
	}
	for rows.Next() {
		var category, amount string
		if err := rows.Scan(&category, &amount); err != nil {
			rows.Close()
			return fmt.Errorf("scanning allowance: %w", err)
		}
		value, err := decimal.NewFromString(amount)
		if err != nil {
			rows.Close()
			return fmt.Errorf("parsing allowance %s: %w", category, err)
		}
		snap.Allowances[Category(category)] = value
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating allowances: %w", err)
	}

	rows, err = tx.Query(ctx,
		`SELECT category, min_amount::text, max_amount::text, rate::text
		 FROM legislation_brackets WHERE year = $1 ORDER BY category, position`, snap.Year)
	if err != nil {
		return fmt.Errorf("reading brackets: %w", err)
	}
	for rows.Next() {
		var (
			category, minAmount, rate string
			maxAmount                 *string
		)
		if err := rows.Scan(&category, &minAmount, &maxAmount, &rate); err != nil {
			rows.Close()
			return fmt.Errorf("scanning bracket: %w", err)
		}
		b, err := parseBracket(minAmount, maxAmount, rate)
		if err != nil {
			rows.Close()
			return fmt.Errorf("parsing %s bracket: %w", category, err)
		}
		snap.Brackets[Category(category)] = append(snap.Brackets[Category(category)], b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating brackets: %w", err)
	}

	rows, err = tx.Query(ctx,
		`SELECT max_age, rate::text FROM usufruct_scale WHERE year = $1
		 ORDER BY CASE WHEN max_age = 0 THEN 1 ELSE 0 END, max_age`, snap.Year)
	if err != nil {
		return fmt.Errorf("reading usufruct scale: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			maxAge int
			rate   string
		)
		if err := rows.Scan(&maxAge, &rate); err != nil {
			return fmt.Errorf("scanning usufruct band: %w", err)
		}
		r, err := decimal.NewFromString(rate)
		if err != nil {
			return fmt.Errorf("parsing usufruct rate: %w", err)
		}
		snap.UsufructScale = append(snap.UsufructScale, UsufructBand{MaxAge: maxAge, Rate: r})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating usufruct scale: %w", err)
	}
	return nil
}

func parseBracket(minAmount string, maxAmount *string, rate string) (Bracket, error) {
	var b Bracket
	var err error
	if b.Min, err = decimal.NewFromString(minAmount); err != nil {
		return Bracket{}, err
	}
	if b.Rate, err = decimal.NewFromString(rate); err != nil {
		return Bracket{}, err
	}
	if maxAmount != nil {
		m, err := decimal.NewFromString(*maxAmount)
		if err != nil {
			return Bracket{}, err
		}
		b.Max = &m
	}
	return b, nil
}
