// Package store keeps named designs (persisted state tokens) in a local
// SQLite database.
package store

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/maruel/natural"
	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

var (
	ErrNotFound = errors.New("design not found")
	ErrBadName  = errors.New("design name must contain letters or digits")
	ErrClosed   = errors.New("design store is closed")
)

const schema = `
CREATE TABLE IF NOT EXISTS designs (
	id      TEXT PRIMARY KEY,
	name    TEXT NOT NULL,
	slug    TEXT NOT NULL UNIQUE,
	token   TEXT NOT NULL,
	created INTEGER NOT NULL,
	updated INTEGER NOT NULL
);
`

const columns = `id, name, slug, token, created, updated`

// Design is a saved state token with human readable name. Slug is derived
// from the name and is unique, saving under the same slug replaces token.
type Design struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Slug    string    `json:"slug"`
	Token   string    `json:"token"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}

// Store is safe for concurrent use, access to connection is serialized.
type Store struct {
	mu   sync.Mutex
	conn *sqlite.Conn
	log  *zap.Logger
}

// Open opens (creating when necessary) database at path. Use ":memory:" for
// throw away store.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	flags := sqlite.OpenReadWrite | sqlite.OpenCreate
	if path == ":memory:" {
		flags |= sqlite.OpenMemory
	} else {
		flags |= sqlite.OpenWAL
	}
	conn, err := sqlite.OpenConn(path, flags)
	if err != nil {
		return nil, fmt.Errorf("unable to open design store '%s': %w", path, err)
	}
	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to prepare design store '%s': %w", path, err)
	}
	log.Named("store").Debug("Design store opened", zap.String("path", path))
	return &Store{conn: conn, log: log.Named("store")}, nil
}

// Close releases database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

// Save stores token under name. When design with the same slug already
// exists its token and name are replaced, identity and creation time stay.
func (s *Store) Save(name, token string) (*Design, error) {
	name = strings.TrimSpace(name)
	sl := slug.Make(name)
	if sl == "" {
		return nil, fmt.Errorf("%w: '%s'", ErrBadName, name)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("unable to generate design id: %w", err)
	}
	now := time.Now().UnixMilli()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil, ErrClosed
	}
	err = sqlitex.Execute(s.conn, `
		INSERT INTO designs (`+columns+`) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET name = excluded.name, token = excluded.token, updated = excluded.updated`,
		&sqlitex.ExecOptions{Args: []any{id.String(), name, sl, token, now, now}})
	if err != nil {
		return nil, fmt.Errorf("unable to save design '%s': %w", name, err)
	}
	d, err := s.queryOne(`SELECT `+columns+` FROM designs WHERE slug = ?`, sl)
	if err != nil {
		return nil, err
	}
	s.log.Debug("Design saved", zap.String("slug", d.Slug), zap.Stringer("id", d.ID))
	return d, nil
}

// Get finds design by id or by name (anything which makes the same slug).
func (s *Store) Get(ref string) (*Design, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.find(ref)
}

// find must be called with mu held.
func (s *Store) find(ref string) (*Design, error) {
	if s.conn == nil {
		return nil, ErrClosed
	}
	if id, err := uuid.Parse(ref); err == nil {
		if d, err := s.queryOne(`SELECT `+columns+` FROM designs WHERE id = ?`, id.String()); !errors.Is(err, ErrNotFound) {
			return d, err
		}
	}
	sl := slug.Make(ref)
	if sl == "" {
		return nil, fmt.Errorf("%w: '%s'", ErrNotFound, ref)
	}
	d, err := s.queryOne(`SELECT `+columns+` FROM designs WHERE slug = ?`, sl)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: '%s'", ErrNotFound, ref)
	}
	return d, err
}

// List returns all designs in natural name order.
func (s *Store) List() ([]*Design, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil, ErrClosed
	}
	var res []*Design
	err := sqlitex.Execute(s.conn, `SELECT `+columns+` FROM designs`,
		&sqlitex.ExecOptions{ResultFunc: func(stmt *sqlite.Stmt) error {
			d, err := scan(stmt)
			if err != nil {
				return err
			}
			res = append(res, d)
			return nil
		}})
	if err != nil {
		return nil, fmt.Errorf("unable to list designs: %w", err)
	}
	sort.SliceStable(res, func(i, j int) bool { return natural.Less(res[i].Name, res[j].Name) })
	return res, nil
}

// Delete removes design referenced by id or name.
func (s *Store) Delete(ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.find(ref)
	if err != nil {
		return err
	}
	if err := sqlitex.Execute(s.conn, `DELETE FROM designs WHERE id = ?`,
		&sqlitex.ExecOptions{Args: []any{d.ID.String()}}); err != nil {
		return fmt.Errorf("unable to delete design '%s': %w", d.Name, err)
	}
	s.log.Debug("Design deleted", zap.String("slug", d.Slug), zap.Stringer("id", d.ID))
	return nil
}

func (s *Store) queryOne(query string, args ...any) (*Design, error) {
	var res *Design
	err := sqlitex.Execute(s.conn, query, &sqlitex.ExecOptions{
		Args: args,
		ResultFunc: func(stmt *sqlite.Stmt) (err error) {
			res, err = scan(stmt)
			return err
		}})
	if err != nil {
		return nil, fmt.Errorf("unable to read design: %w", err)
	}
	if res == nil {
		return nil, ErrNotFound
	}
	return res, nil
}

func scan(stmt *sqlite.Stmt) (*Design, error) {
	id, err := uuid.Parse(stmt.ColumnText(0))
	if err != nil {
		return nil, fmt.Errorf("corrupted design id: %w", err)
	}
	return &Design{
		ID:      id,
		Name:    stmt.ColumnText(1),
		Slug:    stmt.ColumnText(2),
		Token:   stmt.ColumnText(3),
		Created: time.UnixMilli(stmt.ColumnInt64(4)),
		Updated: time.UnixMilli(stmt.ColumnInt64(5)),
	}, nil
}
