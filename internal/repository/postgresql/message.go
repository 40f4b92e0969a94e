package postgresql

import (
	"context"
	"fmt"

	"github.com/chub-app/chub-backend-go/internal/domain/message"
	"github.com/chub-app/chub-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type messageRepository struct {
	db *database.DB
}

func NewMessageRepository(db *database.DB) message.MessageRepository {
	return &messageRepository{db: db}
}

// Create implements message.MessageRepository.
func (r *messageRepository) Create(ctx context.Context, m message.Message) (message.Message, error) {
	q := GetQuerier(ctx, r.db)

	if m.ID == "" {
		m.ID = uuid.New().String()
	}

	query := `
		INSERT INTO messages (
			id, user_id, sender_id, type, priority, title, content, reply_to_id, is_read
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, FALSE
		) RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		m.ID,
		m.UserID,
		m.SenderID,
		m.Type,
		m.Priority,
		m.Title,
		m.Content,
		m.ReplyToID,
	).Scan(&m.CreatedAt)

	if err != nil {
		return message.Message{}, fmt.Errorf("failed to create message: %w", err)
	}
	m.IsRead = false

	return m, nil
}

// GetByID implements message.MessageRepository.
func (r *messageRepository) GetByID(ctx context.Context, id string) (message.Message, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT m.id, m.user_id, m.sender_id, m.type, m.priority, m.title, m.content,
			   m.reply_to_id, m.is_read, m.read_at, m.created_at,
			   u.first_name || ' ' || u.last_name AS sender_name
		FROM messages m
		LEFT JOIN users u ON u.id = m.sender_id
		WHERE m.id = $1
	`

	var m message.Message
	err := q.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.UserID, &m.SenderID, &m.Type, &m.Priority, &m.Title, &m.Content,
		&m.ReplyToID, &m.IsRead, &m.ReadAt, &m.CreatedAt,
		&m.SenderName,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return message.Message{}, message.ErrMessageNotFound
		}
		return message.Message{}, fmt.Errorf("failed to get message by ID: %w", err)
	}

	return m, nil
}

// ListByRecipient implements message.MessageRepository.
func (r *messageRepository) ListByRecipient(ctx context.Context, userID string, filter message.MessageFilter) ([]message.Message, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "m.user_id = $1"
	args := []interface{}{userID}
	argIdx := 2

	if filter.Unread != nil {
		baseWhere += fmt.Sprintf(" AND m.is_read = $%d", argIdx)
		args = append(args, !*filter.Unread)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM messages m WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT m.id, m.user_id, m.sender_id, m.type, m.priority, m.title, m.content,
			   m.reply_to_id, m.is_read, m.read_at, m.created_at,
			   u.first_name || ' ' || u.last_name AS sender_name
		FROM messages m
		LEFT JOIN users u ON u.id = m.sender_id
		WHERE %s
		ORDER BY m.created_at DESC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)

	pageSize := filter.PageSize
	if pageSize == 0 {
		pageSize = 20
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * pageSize
	args = append(args, pageSize, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []message.Message
	for rows.Next() {
		var m message.Message
		err := rows.Scan(
			&m.ID, &m.UserID, &m.SenderID, &m.Type, &m.Priority, &m.Title, &m.Content,
			&m.ReplyToID, &m.IsRead, &m.ReadAt, &m.CreatedAt,
			&m.SenderName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}

	return messages, total, nil
}

// UnreadCount implements message.MessageRepository.
func (r *messageRepository) UnreadCount(ctx context.Context, userID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT COUNT(*) FROM messages WHERE user_id = $1 AND is_read = FALSE`

	var count int64
	if err := q.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}

	return count, nil
}

// MarkAsRead implements message.MessageRepository. Marking an already-read
// message is a no-op that keeps the original read_at.
func (r *messageRepository) MarkAsRead(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE messages
		SET is_read = TRUE,
			read_at = COALESCE(read_at, NOW())
		WHERE id = $1
		RETURNING id
	`

	var updatedID string
	if err := q.QueryRow(ctx, query, id).Scan(&updatedID); err != nil {
		if err == pgx.ErrNoRows {
			return message.ErrMessageNotFound
		}
		return fmt.Errorf("failed to mark message as read: %w", err)
	}

	return nil
}
