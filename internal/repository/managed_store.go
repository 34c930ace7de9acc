package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"wishlist_webhook/internal/model"
	"wishlist_webhook/internal/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of *pgxpool.Pool the managed store needs.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

const userColumns = `id, phone, COALESCE(parent_name, ''), COALESCE(child_name, ''),
	COALESCE(wishlist, '[]'), COALESCE(created_at, ''), COALESCE(updated_at, '')`

// ManagedStore keeps messages and users in the hosted PostgreSQL tables
// "messages", "users" and "menu_items". Payloads and wishlists are stored as
// JSON text; rows that no longer decode are returned degraded, not as errors.
type ManagedStore struct {
	db  DB
	now utils.Clock

	decodeFailures atomic.Int64
}

// NewManagedStore wraps an open connection. A nil clock means time.Now.
func NewManagedStore(db DB, now utils.Clock) *ManagedStore {
	if now == nil {
		now = time.Now
	}
	return &ManagedStore{db: db, now: now}
}

func (s *ManagedStore) Name() string { return string(BackendManaged) }

func (s *ManagedStore) SaveMessage(ctx context.Context, payload model.WebhookPayload) (*model.Message, error) {
	ts := messageTimestamp(payload, s.now)
	msg := model.Message{Timestamp: ts, Payload: stripReserved(payload)}

	data, err := json.Marshal(msg.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode message payload: %w", err)
	}

	sql := `INSERT INTO messages (data, "timestamp") VALUES ($1, $2) RETURNING id`
	if err := s.db.QueryRow(ctx, sql, string(data), ts).Scan(&msg.ID); err != nil {
		return nil, unavailable("failed to insert message", err)
	}
	return &msg, nil
}

func (s *ManagedStore) ListMessages(ctx context.Context) ([]model.Message, error) {
	sql := `SELECT id, COALESCE(data, ''), COALESCE("timestamp", '') FROM messages
            ORDER BY "timestamp" DESC, id DESC`
	rows, err := s.db.Query(ctx, sql)
	if err != nil {
		return nil, unavailable("failed to query messages", err)
	}
	defer rows.Close()

	messages := []model.Message{}
	for rows.Next() {
		var (
			id       int64
			data, ts string
		)
		if err := rows.Scan(&id, &data, &ts); err != nil {
			return nil, unavailable("failed to scan message row", err)
		}
		messages = append(messages, s.decodeMessage(id, data, ts))
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("error iterating message rows", err)
	}
	return messages, nil
}

func (s *ManagedStore) GetMessage(ctx context.Context, id int64) (*model.Message, error) {
	var (
		rowID    int64
		data, ts string
	)
	sql := `SELECT id, COALESCE(data, ''), COALESCE("timestamp", '') FROM messages WHERE id = $1`
	err := s.db.QueryRow(ctx, sql, id).Scan(&rowID, &data, &ts)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, unavailable("failed to find message by ID", err)
	}
	msg := s.decodeMessage(rowID, data, ts)
	return &msg, nil
}

func (s *ManagedStore) GetUser(ctx context.Context, phone string) (*model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE phone = $1 LIMIT 1`
	user, err := s.scanUser(s.db.QueryRow(ctx, sql, phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, unavailable("failed to find user by phone", err)
	}
	return user, nil
}

// SaveUser upserts in one statement keyed by the unique phone column, so
// created_at survives updates without a separate existence check.
func (s *ManagedStore) SaveUser(ctx context.Context, in model.UserInput) (*model.User, error) {
	wishlist := in.Wishlist
	if wishlist == nil {
		wishlist = []string{}
	}
	encoded, err := json.Marshal(wishlist)
	if err != nil {
		return nil, fmt.Errorf("failed to encode wishlist: %w", err)
	}
	now := utils.Timestamp(s.now())

	sql := `INSERT INTO users (phone, parent_name, child_name, wishlist, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $5)
            ON CONFLICT (phone) DO UPDATE SET
                parent_name = EXCLUDED.parent_name,
                child_name = EXCLUDED.child_name,
                wishlist = EXCLUDED.wishlist,
                created_at = COALESCE(NULLIF(users.created_at, ''), EXCLUDED.created_at),
                updated_at = EXCLUDED.updated_at
            RETURNING ` + userColumns
	user, err := s.scanUser(s.db.QueryRow(ctx, sql, in.Phone, in.ParentName, in.ChildName, string(encoded), now))
	if err != nil {
		return nil, unavailable("failed to save user", err)
	}
	return user, nil
}

func (s *ManagedStore) ListUsers(ctx context.Context) (map[string]model.User, error) {
	sql := `SELECT ` + userColumns + ` FROM users ORDER BY id`
	rows, err := s.db.Query(ctx, sql)
	if err != nil {
		return nil, unavailable("failed to query users", err)
	}
	defer rows.Close()

	users := make(map[string]model.User)
	for rows.Next() {
		user, err := s.scanUser(rows)
		if err != nil {
			return nil, unavailable("failed to scan user row", err)
		}
		users[user.Phone] = *user
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("error iterating user rows", err)
	}
	return users, nil
}

func (s *ManagedStore) ListMenu(ctx context.Context) ([]model.MenuItem, error) {
	rows, err := s.db.Query(ctx, `SELECT id, title FROM menu_items ORDER BY display_order, id`)
	if err != nil {
		return nil, unavailable("failed to query menu items", err)
	}
	defer rows.Close()

	menu := []model.MenuItem{}
	for rows.Next() {
		var item model.MenuItem
		if err := rows.Scan(&item.ID, &item.Title); err != nil {
			return nil, unavailable("failed to scan menu item", err)
		}
		menu = append(menu, item)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("error iterating menu items", err)
	}
	return menu, nil
}

func (s *ManagedStore) Diagnostics() Diagnostics {
	return Diagnostics{Backend: s.Name(), DecodeFailures: s.decodeFailures.Load()}
}

// decodeMessage rebuilds a message from its row. When data is not a JSON
// object the raw row comes back instead.
func (s *ManagedStore) decodeMessage(id int64, data, ts string) model.Message {
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.UseNumber()
	var payload map[string]any
	if err := dec.Decode(&payload); err != nil || payload == nil {
		s.decodeFailures.Add(1)
		return model.Message{ID: id, Timestamp: ts, Payload: map[string]any{"data": data}}
	}

	// Older rows kept the timestamp inside the payload.
	if inner, ok := payload["timestamp"].(string); ok {
		if ts == "" {
			ts = inner
		}
		delete(payload, "timestamp")
	}
	delete(payload, "id")
	return model.Message{ID: id, Timestamp: ts, Payload: payload}
}

func (s *ManagedStore) scanUser(row pgx.Row) (*model.User, error) {
	var (
		u        model.User
		wishlist string
	)
	if err := row.Scan(&u.ID, &u.Phone, &u.ParentName, &u.ChildName, &wishlist, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(wishlist), &u.Wishlist); err != nil || u.Wishlist == nil {
		if err != nil {
			s.decodeFailures.Add(1)
		}
		u.Wishlist = []string{}
	}
	return &u, nil
}
