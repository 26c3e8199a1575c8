package subscribers

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielaviles128-glitch/avarjoyas-api/internal/telemetry/tracing"
	"github.com/danielaviles128-glitch/avarjoyas-api/pkg"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrSubscriberNotFound = errors.New("subscriber not found")

var _ Api = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Add stores a new subscriber email. A duplicate email is a no-op, the
// unique constraint on suscriptor.email swallows it, and inserted comes
// back false.
func (r *Repo) Add(ctx context.Context, email string) (*Subscriber, bool, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "subscribersRepo.add")
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`
			INSERT INTO suscriptor (email)
			VALUES ($1)
			ON CONFLICT (email) DO NOTHING
			RETURNING id, email, subscribed_at;`,
		email,
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, false, err
	}

	if !rows.Next() {
		// conflict, the email is already there
		return nil, false, nil
	}

	var subscriber Subscriber
	if err := rows.Scan(&subscriber.ID, &subscriber.Email, &subscriber.SubscribedAt); err != nil {
		return nil, false, fmt.Errorf("rows scan: %w", err)
	}

	return &subscriber, true, nil
}

func (r *Repo) List(ctx context.Context, search string, limit, offset int) ([]Subscriber, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "subscribersRepo.list")
	defer span.End()

	query := `
		SELECT
			id, email, subscribed_at
		FROM suscriptor`
	var args []interface{}
	if search != "" {
		query += `
		WHERE email ILIKE '%' || $1 || '%'`
		args = append(args, search)
	}
	query += `
		ORDER BY id`
	if limit > 0 {
		query += fmt.Sprintf(`
		LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
		args = append(args, limit, offset)
	}
	query += ";"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	var subscribers []Subscriber
	for rows.Next() {
		var subscriber Subscriber
		if err := rows.Scan(&subscriber.ID, &subscriber.Email, &subscriber.SubscribedAt); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		subscribers = append(subscribers, subscriber)
	}

	return subscribers, nil
}

func (r *Repo) Count(ctx context.Context) (int, error) {
	rows, err := r.db.Query(ctx, `SELECT COUNT(*) FROM suscriptor;`)
	if err != nil {
		return -1, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return -1, err
	}

	if !rows.Next() {
		return -1, errors.New("unexpected error [no rows next]")
	}

	var count int
	if err := rows.Scan(&count); err != nil {
		return -1, fmt.Errorf("rows scan: %w", err)
	}

	return count, nil
}

func (r *Repo) Delete(ctx context.Context, id int) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "subscribersRepo.delete")
	defer span.End()

	tag, err := r.db.Exec(ctx, `DELETE FROM suscriptor WHERE id = $1;`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrSubscriberNotFound
	}

	return nil
}
