package repository

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"wishlist_webhook/internal/model"
	"wishlist_webhook/internal/utils"
)

const (
	docMessages = "messages"
	docUsers    = "users"
	docMenu     = "menu"
)

// FilePaths locates the JSON documents of the file store.
type FilePaths struct {
	Messages string
	Users    string
	Menu     string
}

// FileStore keeps messages, users and the menu in JSON documents. Every
// write loads the whole document, mutates it and rewrites the file.
//
// Message ids are one past the larger of the element count and the highest
// id, so they stay unique only while writers are serialized. mu serializes
// writers in this process; separate processes sharing the files still race
// and the last writer wins.
type FileStore struct {
	paths FilePaths
	now   utils.Clock

	mu sync.Mutex

	stateMu sync.Mutex
	states  map[string]DocumentState
}

// NewFileStore creates a file store. A nil clock means time.Now.
func NewFileStore(paths FilePaths, now utils.Clock) *FileStore {
	if now == nil {
		now = time.Now
	}
	return &FileStore{
		paths:  paths,
		now:    now,
		states: make(map[string]DocumentState),
	}
}

func (s *FileStore) Name() string { return string(BackendFile) }

// EnsureFiles creates empty message and user documents if they are absent.
func (s *FileStore) EnsureFiles() error {
	empty := map[string]string{s.paths.Messages: "[]", s.paths.Users: "{}"}
	for path, content := range empty {
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return unavailable("failed to stat "+path, err)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return unavailable("failed to create data directory", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return unavailable("failed to create "+path, err)
		}
	}
	return nil
}

func (s *FileStore) SaveMessage(_ context.Context, payload model.WebhookPayload) (*model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadMessages()
	if err != nil {
		return nil, err
	}

	msg := model.Message{
		ID:        max(int64(len(doc.raw)), doc.maxID) + 1,
		Timestamp: messageTimestamp(payload, s.now),
		Payload:   stripReserved(payload),
	}
	encoded, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}

	if err := writeDocument(s.paths.Messages, append(doc.raw, encoded)); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (s *FileStore) ListMessages(_ context.Context) ([]model.Message, error) {
	doc, err := s.loadMessages()
	if err != nil {
		return nil, err
	}
	messages := doc.messages
	slices.SortStableFunc(messages, func(a, b model.Message) int {
		switch {
		case utils.NewerFirst(a.Timestamp, b.Timestamp):
			return -1
		case utils.NewerFirst(b.Timestamp, a.Timestamp):
			return 1
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return messages, nil
}

// GetMessage only finds messages with a store-assigned id; legacy entries
// without one are listed but not addressable.
func (s *FileStore) GetMessage(_ context.Context, id int64) (*model.Message, error) {
	if id <= 0 {
		return nil, nil
	}
	doc, err := s.loadMessages()
	if err != nil {
		return nil, err
	}
	for i := range doc.messages {
		if doc.messages[i].ID == id {
			return &doc.messages[i], nil
		}
	}
	return nil, nil
}

func (s *FileStore) GetUser(_ context.Context, phone string) (*model.User, error) {
	users, err := s.loadUsers()
	if err != nil {
		return nil, err
	}
	user, ok := users[phone]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (s *FileStore) SaveUser(_ context.Context, in model.UserInput) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers()
	if err != nil {
		return nil, err
	}

	now := utils.Timestamp(s.now())
	user := model.User{
		Phone:      in.Phone,
		ParentName: in.ParentName,
		ChildName:  in.ChildName,
		Wishlist:   in.Wishlist,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if user.Wishlist == nil {
		user.Wishlist = []string{}
	}
	if existing, ok := users[in.Phone]; ok && existing.CreatedAt != "" {
		user.CreatedAt = existing.CreatedAt
	}
	users[in.Phone] = user

	if err := writeDocument(s.paths.Users, users); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *FileStore) ListUsers(_ context.Context) (map[string]model.User, error) {
	return s.loadUsers()
}

func (s *FileStore) ListMenu(_ context.Context) ([]model.MenuItem, error) {
	menu, err := loadDocument[[]model.MenuItem](s, docMenu, s.paths.Menu)
	if err != nil {
		return nil, err
	}
	if menu == nil {
		menu = []model.MenuItem{}
	}
	return menu, nil
}

func (s *FileStore) Diagnostics() Diagnostics {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	docs := make(map[string]DocumentState, len(s.states))
	var corrupt int64
	for name, state := range s.states {
		docs[name] = state
		if state.Status == DocumentCorrupt {
			corrupt++
		}
		corrupt += int64(state.Skipped)
	}
	return Diagnostics{Backend: s.Name(), Documents: docs, DecodeFailures: corrupt}
}

func (s *FileStore) loadUsers() (map[string]model.User, error) {
	users, err := loadDocument[map[string]model.User](s, docUsers, s.paths.Users)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = make(map[string]model.User)
	}
	for phone, u := range users {
		if u.Wishlist == nil {
			u.Wishlist = []string{}
			users[phone] = u
		}
	}
	return users, nil
}

// messageDocument is the messages file as loaded. raw keeps every element
// verbatim so a rewrite never drops entries that do not decode as messages.
type messageDocument struct {
	raw      []json.RawMessage
	messages []model.Message
	maxID    int64
}

func (s *FileStore) loadMessages() (*messageDocument, error) {
	raw, err := loadDocument[[]json.RawMessage](s, docMessages, s.paths.Messages)
	if err != nil {
		return nil, err
	}

	doc := &messageDocument{raw: raw, messages: make([]model.Message, 0, len(raw))}
	var (
		skipped  int
		firstErr error
	)
	for _, elem := range raw {
		var msg model.Message
		if err := json.Unmarshal(elem, &msg); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			skipped++
			continue
		}
		doc.messages = append(doc.messages, msg)
		doc.maxID = max(doc.maxID, msg.ID)
	}
	if skipped > 0 {
		s.recordSkipped(docMessages, skipped, firstErr)
	}
	return doc, nil
}

func (s *FileStore) recordSkipped(doc string, skipped int, err error) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	state := s.states[doc]
	state.Skipped = skipped
	state.Error = err.Error()
	s.states[doc] = state
}

func (s *FileStore) record(doc, path, status string, err error) {
	state := DocumentState{Path: path, Status: status}
	if err != nil {
		state.Error = err.Error()
	}
	s.stateMu.Lock()
	s.states[doc] = state
	s.stateMu.Unlock()
}

// loadDocument reads one JSON document. A missing or malformed file yields
// the zero value; only I/O failures are returned as errors.
func loadDocument[T any](s *FileStore, doc, path string) (T, error) {
	var zero T

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		s.record(doc, path, DocumentAbsent, nil)
		return zero, nil
	}
	if err != nil {
		return zero, unavailable("failed to read "+path, err)
	}

	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		s.record(doc, path, DocumentCorrupt, err)
		return zero, nil
	}
	s.record(doc, path, DocumentOK, nil)
	return out, nil
}

func writeDocument(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return unavailable("failed to create data directory", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return unavailable("failed to write "+path, err)
	}
	return nil
}
