package gradescale

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
	log    *slog.Logger
}

func NewSQLStore(db *sql.DB, driver string, log *slog.Logger) *SQLStore {
	if log == nil {
		log = slog.Default()
	}
	return &SQLStore{db: db, driver: driver, log: log}
}

func (s *SQLStore) PutScale(ctx context.Context, sc Scale) (Scale, error) {
	if sc.ID == "" {
		sc.ID = uuid.NewString()
	}
	if sc.CreatedAt == 0 {
		sc.CreatedAt = time.Now().Unix()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Scale{}, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO grade_scales (id,name,scale_type,school_id,grading_system_id,is_default,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name, scale_type=EXCLUDED.scale_type`,
		sc.ID, sc.Name, string(sc.Type), sc.SchoolID, sc.GradingSystemID, sc.IsDefault, sc.CreatedAt)
	if err != nil {
		return Scale{}, err
	}
	if err := replaceRangesTx(ctx, tx, sc.ID, sc.Ranges); err != nil {
		return Scale{}, err
	}
	if err := tx.Commit(); err != nil {
		return Scale{}, err
	}
	return s.GetScale(ctx, sc.ID)
}

func (s *SQLStore) GetScale(ctx context.Context, id string) (Scale, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,name,scale_type,school_id,grading_system_id,is_default,created_at
		FROM grade_scales WHERE id=$1`, id)
	sc, err := scanScale(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Scale{}, ErrScaleNotFound
		}
		return Scale{}, err
	}
	sc.Ranges, err = s.rangesFor(ctx, sc.ID)
	if err != nil {
		return Scale{}, err
	}
	return sc, nil
}

func (s *SQLStore) ListScales(ctx context.Context, opts ListOpts) ([]Scale, error) {
	q := `SELECT id,name,scale_type,school_id,grading_system_id,is_default,created_at FROM grade_scales WHERE 1=1`
	var args []interface{}
	add := func(cond string, v interface{}) {
		args = append(args, v)
		q += cond + placeholder(len(args))
	}
	if opts.SchoolID != "" {
		add(` AND school_id=`, opts.SchoolID)
	}
	if opts.GradingSystemID != "" {
		add(` AND grading_system_id=`, opts.GradingSystemID)
	}
	if opts.Type != "" {
		add(` AND scale_type=`, string(opts.Type))
	}
	q += ` ORDER BY created_at DESC, id`
	if opts.Limit > 0 {
		add(` LIMIT `, opts.Limit)
	} else if opts.Offset > 0 && s.driver == "sqlite" {
		// sqlite's grammar only allows OFFSET after a LIMIT; -1 is unbounded
		q += ` LIMIT -1`
	}
	if opts.Offset > 0 {
		add(` OFFSET `, opts.Offset)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Scale
	for rows.Next() {
		sc, err := scanScale(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Ranges, err = s.rangesFor(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *SQLStore) DeleteScale(ctx context.Context, id string) error {
	var isDefault bool
	err := s.db.QueryRowContext(ctx, `SELECT is_default FROM grade_scales WHERE id=$1`, id).Scan(&isDefault)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrScaleNotFound
	}
	if err != nil {
		return err
	}
	if isDefault {
		return ErrScaleIsDefault
	}
	// ranges go with the scale via ON DELETE CASCADE
	_, err = s.db.ExecContext(ctx, `DELETE FROM grade_scales WHERE id=$1`, id)
	return err
}

func (s *SQLStore) ReplaceRanges(ctx context.Context, scaleID string, ranges []Range) (Scale, error) {
	if _, err := s.GetScale(ctx, scaleID); err != nil {
		return Scale{}, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Scale{}, err
	}
	defer tx.Rollback()
	if err := replaceRangesTx(ctx, tx, scaleID, ranges); err != nil {
		return Scale{}, err
	}
	if err := tx.Commit(); err != nil {
		return Scale{}, err
	}
	return s.GetScale(ctx, scaleID)
}

func (s *SQLStore) PutRange(ctx context.Context, scaleID string, r Range) (Range, error) {
	if _, err := s.GetScale(ctx, scaleID); err != nil {
		return Range{}, err
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.ScaleID = scaleID
	_, err := s.db.ExecContext(ctx, `INSERT INTO grade_scale_ranges
		(id,scale_id,min_value,max_value,label,description,color,gpa_equivalent,is_passing,ord)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET min_value=EXCLUDED.min_value, max_value=EXCLUDED.max_value,
			label=EXCLUDED.label, description=EXCLUDED.description, color=EXCLUDED.color,
			gpa_equivalent=EXCLUDED.gpa_equivalent, is_passing=EXCLUDED.is_passing, ord=EXCLUDED.ord`,
		r.ID, r.ScaleID, r.MinValue, r.MaxValue, r.Label, r.Description, r.Color, r.GPAEquiv, r.IsPassing, r.Order)
	if err != nil {
		return Range{}, err
	}
	return r, nil
}

func (s *SQLStore) DeleteRange(ctx context.Context, scaleID, rangeID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM grade_scale_ranges WHERE id=$1 AND scale_id=$2`, rangeID, scaleID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRangeNotFound
	}
	return nil
}

// SetDefault clears every sibling default in the scale's scope and marks
// the target, all inside one transaction so readers never observe zero
// or two defaults.
func (s *SQLStore) SetDefault(ctx context.Context, scaleID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var schoolID, systemID string
	err = tx.QueryRowContext(ctx, `SELECT school_id,grading_system_id FROM grade_scales WHERE id=$1`, scaleID).
		Scan(&schoolID, &systemID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrScaleNotFound
	}
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE grade_scales SET is_default=FALSE
		WHERE school_id=$1 AND grading_system_id=$2 AND id<>$3`, schoolID, systemID, scaleID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE grade_scales SET is_default=TRUE WHERE id=$1`, scaleID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLStore) GetDefaultScale(ctx context.Context, schoolID, gradingSystemID string) (Scale, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM grade_scales
		WHERE school_id=$1 AND grading_system_id=$2 AND is_default=TRUE ORDER BY id`, schoolID, gradingSystemID)
	if err != nil {
		return Scale{}, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return Scale{}, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return Scale{}, err
	}
	if len(ids) == 0 {
		return Scale{}, ErrScaleNotFound
	}
	if len(ids) > 1 {
		s.log.Warn("multiple default scales in scope, picking lowest id",
			"school_id", schoolID, "grading_system_id", gradingSystemID, "count", len(ids))
	}
	return s.GetScale(ctx, ids[0])
}

func (s *SQLStore) rangesFor(ctx context.Context, scaleID string) ([]Range, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,scale_id,min_value,max_value,label,description,color,gpa_equivalent,is_passing,ord
		FROM grade_scale_ranges WHERE scale_id=$1 ORDER BY ord, min_value`, scaleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Range
	for rows.Next() {
		var r Range
		var gpa sql.NullFloat64
		if err := rows.Scan(&r.ID, &r.ScaleID, &r.MinValue, &r.MaxValue, &r.Label,
			&r.Description, &r.Color, &gpa, &r.IsPassing, &r.Order); err != nil {
			return nil, err
		}
		if gpa.Valid {
			v := gpa.Float64
			r.GPAEquiv = &v
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func replaceRangesTx(ctx context.Context, tx *sql.Tx, scaleID string, ranges []Range) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM grade_scale_ranges WHERE scale_id=$1`, scaleID); err != nil {
		return err
	}
	for _, r := range ranges {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO grade_scale_ranges
			(id,scale_id,min_value,max_value,label,description,color,gpa_equivalent,is_passing,ord)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			r.ID, scaleID, r.MinValue, r.MaxValue, r.Label, r.Description, r.Color, r.GPAEquiv, r.IsPassing, r.Order); err != nil {
			return err
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanScale(row rowScanner) (Scale, error) {
	var sc Scale
	var typ string
	if err := row.Scan(&sc.ID, &sc.Name, &typ, &sc.SchoolID, &sc.GradingSystemID, &sc.IsDefault, &sc.CreatedAt); err != nil {
		return Scale{}, err
	}
	sc.Type = ScaleType(typ)
	return sc, nil
}

// both pgx and the sqlite driver accept $N placeholders
func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}
