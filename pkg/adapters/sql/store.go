package sql

import (
	"context"
	backend "database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

var _ ports.RecordStore = (*Store)(nil)

// Store implements ports.RecordStore on a relational database.
// Competence sets live in their own table and are replaced as a whole.
type Store struct {
	db      *backend.DB
	dialect Dialect
}

// Open connects to dsn with the dialect's driver and applies the schema.
func Open(ctx context.Context, dialect Dialect, dsn string) (*Store, error) {
	db, err := backend.Open(dialect.Name, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", dialect.Name, err)
	}
	if dialect.Name == SQLite.Name {
		// A single writer avoids SQLITE_BUSY across pooled connections.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}

	store := New(db, dialect)
	if err := store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// New wraps an existing connection pool. The schema is not applied.
func New(db *backend.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// Migrate creates the tables when they do not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range s.dialect.schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
	}
	return nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ph(n int) string {
	return s.dialect.placeholder(n)
}

// Create inserts a record in its initial state.
func (s *Store) Create(ctx context.Context) (string, error) {
	query := "INSERT INTO applications (current_step, submitted) VALUES (" + s.ph(1) + ", 0) RETURNING id"

	var id int64
	if err := s.db.QueryRowContext(ctx, query, domain.FirstStep.String()).Scan(&id); err != nil {
		return "", unavailable(err)
	}
	return strconv.FormatInt(id, 10), nil
}

// Get loads the record and its competence set.
func (s *Store) Get(ctx context.Context, id string) (domain.Record, error) {
	key, ok := parseID(id)
	if !ok {
		return domain.Record{}, domain.ErrRecordNotFound
	}

	var (
		step      string
		submitted int64
		age       backend.NullString
		gender    backend.NullString
	)
	query := "SELECT current_step, submitted, age_bracket, gender_identity FROM applications WHERE id = " + s.ph(1)
	err := s.db.QueryRowContext(ctx, query, key).Scan(&step, &submitted, &age, &gender)
	if errors.Is(err, backend.ErrNoRows) {
		return domain.Record{}, domain.ErrRecordNotFound
	}
	if err != nil {
		return domain.Record{}, unavailable(err)
	}

	names, err := s.competences(ctx, key)
	if err != nil {
		return domain.Record{}, err
	}

	rec, err := decodeRecord(id, step, submitted, age, gender, names)
	if err != nil {
		return domain.Record{}, domain.CorruptRecordError(id, err)
	}
	return rec, nil
}

func (s *Store) competences(ctx context.Context, key int64) ([]string, error) {
	query := "SELECT name FROM application_competences WHERE application_id = " + s.ph(1) + " ORDER BY position"
	rows, err := s.db.QueryContext(ctx, query, key)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, unavailable(err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err)
	}
	return names, nil
}

// Patch applies the patch in a single transaction.
func (s *Store) Patch(ctx context.Context, id string, patch domain.Patch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	key, ok := parseID(id)
	if !ok {
		return domain.ErrRecordNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable(err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.patchColumns(ctx, tx, key, patch); err != nil {
		return err
	}

	if patch.Competences != nil {
		del := "DELETE FROM application_competences WHERE application_id = " + s.ph(1)
		if _, err := tx.ExecContext(ctx, del, key); err != nil {
			return unavailable(err)
		}
		ins := "INSERT INTO application_competences (application_id, name, position) VALUES (" +
			s.ph(1) + ", " + s.ph(2) + ", " + s.ph(3) + ")"
		for i, c := range domain.CompetenceSet(*patch.Competences) {
			if _, err := tx.ExecContext(ctx, ins, key, string(c), i); err != nil {
				return unavailable(err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return unavailable(err)
	}
	return nil
}

// patchColumns updates the scalar columns, or checks existence when the patch
// carries none.
func (s *Store) patchColumns(ctx context.Context, tx *backend.Tx, key int64, patch domain.Patch) error {
	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, column+" = "+s.ph(len(args)))
	}
	if patch.Step != nil {
		add("current_step", patch.Step.String())
	}
	if patch.Submit {
		add("submitted", 1)
	}
	if patch.AgeBracket != nil {
		add("age_bracket", string(*patch.AgeBracket))
	}
	if patch.GenderIdentity != nil {
		add("gender_identity", string(*patch.GenderIdentity))
	}

	if len(sets) == 0 {
		var one int
		query := "SELECT 1 FROM applications WHERE id = " + s.ph(1)
		err := tx.QueryRowContext(ctx, query, key).Scan(&one)
		if errors.Is(err, backend.ErrNoRows) {
			return domain.ErrRecordNotFound
		}
		if err != nil {
			return unavailable(err)
		}
		return nil
	}

	args = append(args, key)
	query := "UPDATE applications SET " + strings.Join(sets, ", ") + " WHERE id = " + s.ph(len(args))
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return unavailable(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return unavailable(err)
	}
	if n == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

// List returns summaries ordered by id, which is creation order.
func (s *Store) List(ctx context.Context) ([]domain.Summary, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, current_step, submitted FROM applications ORDER BY id")
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	out := []domain.Summary{}
	for rows.Next() {
		var (
			key       int64
			step      string
			submitted int64
		)
		if err := rows.Scan(&key, &step, &submitted); err != nil {
			return nil, unavailable(err)
		}
		id := strconv.FormatInt(key, 10)
		st, err := domain.ParseStep(step)
		if err != nil {
			return nil, domain.CorruptRecordError(id, err)
		}
		out = append(out, domain.Summary{ID: id, CurrentStep: st, Submitted: submitted != 0})
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err)
	}
	return out, nil
}

func parseID(id string) (int64, bool) {
	key, err := strconv.ParseInt(id, 10, 64)
	if err != nil || key <= 0 {
		return 0, false
	}
	return key, true
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
}

func decodeRecord(id, step string, submitted int64, age, gender backend.NullString, competences []string) (domain.Record, error) {
	st, err := domain.ParseStep(step)
	if err != nil {
		return domain.Record{}, err
	}
	rec := domain.Record{ID: id, CurrentStep: st, Submitted: submitted != 0}

	if age.Valid {
		a, err := domain.ParseAgeBracket(age.String)
		if err != nil {
			return domain.Record{}, err
		}
		rec.AgeBracket = &a
	}
	if gender.Valid {
		g, err := domain.ParseGenderIdentity(gender.String)
		if err != nil {
			return domain.Record{}, err
		}
		rec.GenderIdentity = &g
	}
	set, err := domain.ParseCompetences(competences)
	if err != nil {
		return domain.Record{}, err
	}
	rec.Competences = set
	return rec, nil
}
