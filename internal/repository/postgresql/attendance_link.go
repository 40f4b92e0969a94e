package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chub-app/chub-backend-go/internal/domain/attendance"
	"github.com/chub-app/chub-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type linkRepository struct {
	db *database.DB
}

func NewLinkRepository(db *database.DB) attendance.LinkRepository {
	return &linkRepository{db: db}
}

// Create implements attendance.LinkRepository. A unique constraint on token
// surfaces as ErrTokenConflict so the issuer can retry with a fresh token.
func (r *linkRepository) Create(ctx context.Context, link attendance.Link) (attendance.Link, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_links (
			token, service_type, service_id, service_name, service_date,
			is_active, expires_at, created_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		link.Token,
		link.ServiceType,
		link.ServiceID,
		link.ServiceName,
		link.ServiceDate,
		link.IsActive,
		link.ExpiresAt,
		link.CreatedBy,
	).Scan(&link.ID, &link.CreatedAt, &link.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return attendance.Link{}, attendance.ErrTokenConflict
		}
		return attendance.Link{}, fmt.Errorf("failed to create attendance link: %w", err)
	}

	return link, nil
}

// GetByToken implements attendance.LinkRepository.
func (r *linkRepository) GetByToken(ctx context.Context, token string) (attendance.Link, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, token, service_type, service_id, service_name, service_date,
			   is_active, expires_at, created_by, created_at, updated_at
		FROM attendance_links
		WHERE token = $1
	`

	var link attendance.Link
	err := q.QueryRow(ctx, query, token).Scan(
		&link.ID, &link.Token, &link.ServiceType, &link.ServiceID, &link.ServiceName,
		&link.ServiceDate, &link.IsActive, &link.ExpiresAt, &link.CreatedBy,
		&link.CreatedAt, &link.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Link{}, attendance.ErrLinkNotFound
		}
		return attendance.Link{}, fmt.Errorf("failed to get attendance link by token: %w", err)
	}

	return link, nil
}

// SetActive implements attendance.LinkRepository.
func (r *linkRepository) SetActive(ctx context.Context, id string, active bool) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_links
		SET is_active = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id
	`

	var updatedID string
	if err := q.QueryRow(ctx, query, active, id).Scan(&updatedID); err != nil {
		if err == pgx.ErrNoRows {
			return attendance.ErrLinkNotFound
		}
		return fmt.Errorf("failed to update attendance link: %w", err)
	}

	return nil
}

// DeactivateExpired implements attendance.LinkRepository.
func (r *linkRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_links
		SET is_active = FALSE, updated_at = NOW()
		WHERE is_active = TRUE
		  AND expires_at IS NOT NULL
		  AND expires_at < $1
	`

	commandTag, err := q.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate expired links: %w", err)
	}

	return commandTag.RowsAffected(), nil
}
