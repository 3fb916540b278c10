package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"hazel-marketplace/internal/domain"
	"hazel-marketplace/internal/logger"
	"hazel-marketplace/internal/repository"
)

type chatRepository struct {
	db *sql.DB
}

func NewChatRepository(db *sql.DB) repository.ChatRepository {
	return &chatRepository{db: db}
}

const threadColumns = `id, renter_id, owner_id, listing_id, created_on, last_message_on`

func scanThread(s scanner) (*domain.ChatThread, error) {
	t := &domain.ChatThread{}
	var listingID sql.NullInt32
	if err := s.Scan(&t.ID, &t.RenterID, &t.OwnerID, &listingID, &t.CreatedOn, &t.LastMessageOn); err != nil {
		return nil, err
	}
	if listingID.Valid {
		id := listingID.Int32
		t.ListingID = &id
	}
	return t, nil
}

func nullableID(id *int32) sql.NullInt32 {
	if id == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: *id, Valid: true}
}

func (r *chatRepository) FindThread(ctx context.Context, renterID, ownerID int32, listingID *int32) (*domain.ChatThread, error) {
	query := `SELECT ` + threadColumns + ` FROM chat_threads
	          WHERE renter_id = $1 AND owner_id = $2 AND COALESCE(listing_id, 0) = COALESCE($3, 0)`
	t, err := scanThread(r.db.QueryRowContext(ctx, query, renterID, ownerID, nullableID(listingID)))
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

func (r *chatRepository) CreateThread(ctx context.Context, t *domain.ChatThread) error {
	query := `INSERT INTO chat_threads (renter_id, owner_id, listing_id, created_on, last_message_on)
	          VALUES ($1, $2, $3, $4, $4) RETURNING id`
	now := time.Now().UTC()
	t.CreatedOn = now
	t.LastMessageOn = now
	err := r.db.QueryRowContext(ctx, query, t.RenterID, t.OwnerID, nullableID(t.ListingID), now).Scan(&t.ID)
	return duplicate(err)
}

func (r *chatRepository) GetThread(ctx context.Context, id int32) (*domain.ChatThread, error) {
	t, err := scanThread(r.db.QueryRowContext(ctx, `SELECT `+threadColumns+` FROM chat_threads WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

func (r *chatRepository) ListThreadSummaries(ctx context.Context, userID int32) ([]domain.ThreadSummary, error) {
	query := `SELECT t.id, t.listing_id, p.id, TRIM(p.first_name || ' ' || p.last_name), p.email, p.profile_pic_url,
	                 COALESCE(last.content, ''), t.last_message_on,
	                 (SELECT count(*) FROM chat_messages m
	                   WHERE m.thread_id = t.id AND m.sender_id <> $1 AND m.read_on IS NULL)
	          FROM chat_threads t
	          JOIN users p ON p.id = CASE WHEN t.renter_id = $1 THEN t.owner_id ELSE t.renter_id END
	          LEFT JOIN LATERAL (
	              SELECT content FROM chat_messages
	              WHERE thread_id = t.id ORDER BY created_on DESC, id DESC LIMIT 1
	          ) last ON TRUE
	          WHERE t.renter_id = $1 OR t.owner_id = $1
	          ORDER BY t.last_message_on DESC, t.id DESC`
	logger.DatabaseCall("SELECT", "chat thread summaries", "userID", userID)
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ThreadSummary
	for rows.Next() {
		var s domain.ThreadSummary
		var listingID sql.NullInt32
		if err := rows.Scan(&s.ThreadID, &listingID, &s.Partner.ID, &s.Partner.Name, &s.Partner.Email, &s.Partner.ProfilePicURL,
			&s.LastMessageContent, &s.LastMessageOn, &s.UnreadCount); err != nil {
			return nil, err
		}
		if listingID.Valid {
			id := listingID.Int32
			s.ListingID = &id
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CreateMessage inserts msg and bumps the thread's activity time.
func (r *chatRepository) CreateMessage(ctx context.Context, msg *domain.ChatMessage) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	msg.CreatedOn = time.Now().UTC()
	query := `INSERT INTO chat_messages (thread_id, sender_id, content, created_on) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := tx.QueryRowContext(ctx, query, msg.ThreadID, msg.SenderID, msg.Content, msg.CreatedOn).Scan(&msg.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE chat_threads SET last_message_on = $1 WHERE id = $2`, msg.CreatedOn, msg.ThreadID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *chatRepository) ListMessages(ctx context.Context, threadID int32) ([]domain.ChatMessage, error) {
	query := `SELECT id, thread_id, sender_id, content, created_on, read_on FROM chat_messages
	          WHERE thread_id = $1 ORDER BY created_on, id`
	rows, err := r.db.QueryContext(ctx, query, threadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		var readOn sql.NullTime
		if err := rows.Scan(&m.ID, &m.ThreadID, &m.SenderID, &m.Content, &m.CreatedOn, &readOn); err != nil {
			return nil, err
		}
		if readOn.Valid {
			m.ReadOn = &readOn.Time
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *chatRepository) MarkRead(ctx context.Context, threadID, readerID int32) (int64, error) {
	query := `UPDATE chat_messages SET read_on = $1 WHERE thread_id = $2 AND sender_id <> $3 AND read_on IS NULL`
	res, err := r.db.ExecContext(ctx, query, time.Now().UTC(), threadID, readerID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
