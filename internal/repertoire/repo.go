package repertoire

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

var ErrPieceNotFound = errors.New("repertoire piece not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, piece Piece) (_ *Piece, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.repertoire.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if piece.CreatedAt.IsZero() {
		piece.CreatedAt = time.Now()
	}

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO repertoire_piece (title, composer, status, note, created_at)
				VALUES ($1, $2, $3, $4, $5)
			RETURNING id;`,
		piece.Title, piece.Composer, piece.Status, piece.Note, piece.CreatedAt,
	).Scan(&piece.ID)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("piece.id", piece.ID))

	return &piece, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Piece, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.repertoire.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, title, composer, status, note, created_at
			FROM repertoire_piece
			WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pieces, err := r.rows2pieces(rows)
	if err != nil {
		return nil, err
	}
	if len(pieces) != 1 {
		return nil, ErrPieceNotFound
	}
	return &pieces[0], nil
}

// List returns all pieces, optionally narrowed down to one status,
// newest first.
func (r *Repo) List(ctx context.Context, status Status) (_ []Piece, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.repertoire.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("status", string(status)))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, title, composer, status, note, created_at
			FROM repertoire_piece
			WHERE ($1::text = '' OR status = $1)
			ORDER BY created_at DESC;`,
		status,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	return r.rows2pieces(rows)
}

func (r *Repo) Update(ctx context.Context, piece *Piece) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.repertoire.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", piece.ID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE repertoire_piece
			SET title = $1, composer = $2, status = $3, note = $4
			WHERE id = $5;`,
		piece.Title, piece.Composer, piece.Status, piece.Note, piece.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPieceNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.repertoire.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM repertoire_piece WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPieceNotFound
	}
	return nil
}

func (r *Repo) rows2pieces(rows pgx.Rows) ([]Piece, error) {
	pieces := make([]Piece, 0)
	for rows.Next() {
		var p Piece
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Composer, &p.Status, &p.Note, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		pieces = append(pieces, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return pieces, nil
}
