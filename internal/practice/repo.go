package practice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/practicetrack/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrSessionNotFound = errors.New("practice session not found")

type SessionParams struct {
	From   *time.Time
	To     *time.Time
	Source Source
}

type ListParams struct {
	SessionParams
	Page int
	Size int
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, session Session) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.practice.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO practice_session
				(started_at, duration_seconds, source, source_id, note, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id;`,
		session.StartedAt, session.DurationSeconds,
		session.Source, nullableString(session.SourceID),
		session.Note, session.CreatedAt,
	).Scan(&session.ID)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("session.id", session.ID))

	return &session, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.practice.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, started_at, duration_seconds, source, COALESCE(source_id, ''), note, created_at
			FROM practice_session
			WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions, err := r.rows2sessions(rows)
	if err != nil {
		return nil, err
	}
	if len(sessions) != 1 {
		return nil, ErrSessionNotFound
	}
	return &sessions[0], nil
}

// ListAll returns all sessions matching the params, oldest first. The
// analytics engine consumes this ordering directly.
func (r *Repo) ListAll(ctx context.Context, params SessionParams) (_ []Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.practice.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("source", string(params.Source)))
	if params.From != nil {
		span.SetAttributes(attribute.String("from", params.From.String()))
	}
	if params.To != nil {
		span.SetAttributes(attribute.String("to", params.To.String()))
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT id, started_at, duration_seconds, source, COALESCE(source_id, ''), note, created_at
			FROM practice_session
			WHERE ($1::text = '' OR source = $1)
			AND ($2::timestamptz IS NULL OR started_at >= $2)
			AND ($3::timestamptz IS NULL OR started_at <= $3)
			ORDER BY started_at ASC;`,
		params.Source, params.From, params.To,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	return r.rows2sessions(rows)
}

// List returns one page of sessions, newest first, plus the total count.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []Session, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.practice.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("page", params.Page))
	span.SetAttributes(attribute.Int("size", params.Size))

	if params.Page < 1 {
		return nil, -1, errors.New("page must be greater than 0")
	}
	if params.Size < 1 {
		return nil, -1, errors.New("size must be greater than 0")
	}

	countAll, err := r.Count(ctx, params.SessionParams)
	if err != nil {
		return nil, -1, err
	}

	limit := params.Size
	offset := (params.Page - 1) * params.Size
	if countAll <= limit {
		limit = countAll
		offset = 0
	} else if countAll-offset < limit {
		offset = countAll - limit
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT id, started_at, duration_seconds, source, COALESCE(source_id, ''), note, created_at
			FROM practice_session
			WHERE ($1::text = '' OR source = $1)
			AND ($2::timestamptz IS NULL OR started_at >= $2)
			AND ($3::timestamptz IS NULL OR started_at <= $3)
			ORDER BY started_at DESC
			LIMIT $4 OFFSET $5;`,
		params.Source, params.From, params.To,
		limit, offset,
	)
	if err != nil {
		return nil, -1, err
	}
	defer rows.Close()

	sessions, err := r.rows2sessions(rows)
	if err != nil {
		return nil, -1, err
	}
	return sessions, countAll, nil
}

func (r *Repo) Update(ctx context.Context, session *Session) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.practice.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", session.ID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE practice_session
			SET started_at = $1, duration_seconds = $2, source = $3, note = $4
			WHERE id = $5;`,
		session.StartedAt, session.DurationSeconds, session.Source, session.Note, session.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.practice.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM practice_session WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *Repo) Count(ctx context.Context, params SessionParams) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.practice.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var count int
	err = r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM practice_session
			WHERE ($1::text = '' OR source = $1)
			AND ($2::timestamptz IS NULL OR started_at >= $2)
			AND ($3::timestamptz IS NULL OR started_at <= $3);`,
		params.Source, params.From, params.To,
	).Scan(&count)
	if err != nil {
		return -1, err
	}
	return count, nil
}

// ExistsWithSourceID reports whether a synced session with the given external
// ID is already stored. Used by the calendar sync for dedup.
func (r *Repo) ExistsWithSourceID(ctx context.Context, sourceID string) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.practice.existswithsourceid")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("source_id", sourceID))

	var exists bool
	err = r.db.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM practice_session WHERE source_id = $1);`,
		sourceID,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *Repo) rows2sessions(rows pgx.Rows) ([]Session, error) {
	sessions := make([]Session, 0)
	for rows.Next() {
		var s Session
		if err := rows.Scan(
			&s.ID, &s.StartedAt, &s.DurationSeconds,
			&s.Source, &s.SourceID, &s.Note, &s.CreatedAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return sessions, nil
}

// source_id is nullable so that the unique index only applies to synced rows
func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
