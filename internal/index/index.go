// Package index maintains a SQLite mirror of the planning tree so
// listing and search tools answer from one query instead of walking
// markdown files. The filesystem stays the source of truth: the index
// is rebuilt from it and updated by the tree watcher.
package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/groveplan/grove/internal/markdown"
	"github.com/groveplan/grove/internal/object"
	"github.com/groveplan/grove/internal/paths"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Entry is one indexed planning object.
type Entry struct {
	ID      string      `json:"id"`
	Kind    object.Kind `json:"kind"`
	Parent  string      `json:"parent,omitempty"`
	Status  string      `json:"status,omitempty"`
	Title   string      `json:"title"`
	Path    string      `json:"path"`
	Updated string      `json:"updated,omitempty"`
}

// Store is the SQLite-backed backlog index.
type Store struct {
	db    *sql.DB
	roots paths.Roots
}

// Open creates or opens the index database under the resolution root
// and runs migrations.
func Open(roots paths.Roots) (*Store, error) {
	dataDir := filepath.Join(roots.Resolution, ".grove")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("index: create data dir: %w", err)
	}

	db, err := openDB("sqlite", filepath.Join(dataDir, "index.db"))
	if err != nil {
		return nil, fmt.Errorf("index: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("index: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, roots: roots}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("index: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS objects (
			id      TEXT PRIMARY KEY,
			kind    TEXT NOT NULL,
			parent  TEXT NOT NULL DEFAULT '',
			status  TEXT NOT NULL DEFAULT '',
			title   TEXT NOT NULL DEFAULT '',
			path    TEXT NOT NULL,
			updated TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_objects_kind   ON objects(kind);
		CREATE INDEX IF NOT EXISTS idx_objects_parent ON objects(parent);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// Rebuild drops the index and repopulates it from the planning tree.
// Unparseable files are skipped and counted; one broken file must not
// sink the whole rebuild.
func (s *Store) Rebuild() (indexed, skipped int, err error) {
	var files []string
	err = filepath.WalkDir(s.roots.Resolution, func(p string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			if os.IsNotExist(walkErr) {
				return nil
			}
			return walkErr
		}
		if d.IsDir() {
			if d.Name() == ".grove" {
				return filepath.SkipDir
			}
			return nil
		}
		if _, _, idErr := paths.PathToID(p); idErr == nil {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("index: scanning planning tree: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, 0, fmt.Errorf("index: begin rebuild: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec("DELETE FROM objects"); err != nil {
		return 0, 0, fmt.Errorf("index: clearing objects: %w", err)
	}

	for _, p := range files {
		entry, entryErr := s.entryFor(p)
		if entryErr != nil {
			skipped++
			continue
		}
		if _, err = tx.Exec(upsertSQL,
			entry.ID, string(entry.Kind), entry.Parent, entry.Status,
			entry.Title, entry.Path, entry.Updated); err != nil {
			return 0, 0, fmt.Errorf("index: inserting %q: %w", entry.ID, err)
		}
		indexed++
	}

	if err = tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("index: commit rebuild: %w", err)
	}
	return indexed, skipped, nil
}

const upsertSQL = `
	INSERT INTO objects (id, kind, parent, status, title, path, updated)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		kind = excluded.kind,
		parent = excluded.parent,
		status = excluded.status,
		title = excluded.title,
		path = excluded.path,
		updated = excluded.updated
`

// entryFor builds an index entry from a planning file.
func (s *Store) entryFor(path string) (*Entry, error) {
	kind, id, err := paths.PathToID(path)
	if err != nil {
		return nil, err
	}
	obj, err := markdown.ParseObject(path)
	if err != nil {
		return nil, err
	}
	rel, err := filepath.Rel(s.roots.Resolution, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	return &Entry{
		ID:      id,
		Kind:    kind,
		Parent:  object.StripPrefix(obj.Parent),
		Status:  string(obj.Status),
		Title:   obj.Title,
		Path:    filepath.ToSlash(rel),
		Updated: obj.Updated,
	}, nil
}

// UpsertPath indexes (or re-indexes) a single planning file.
func (s *Store) UpsertPath(path string) error {
	entry, err := s.entryFor(path)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(upsertSQL,
		entry.ID, string(entry.Kind), entry.Parent, entry.Status,
		entry.Title, entry.Path, entry.Updated)
	if err != nil {
		return fmt.Errorf("index: upserting %q: %w", entry.ID, err)
	}
	return nil
}

// RemoveID drops an object from the index. No-op on missing IDs.
func (s *Store) RemoveID(id string) error {
	_, err := s.db.Exec("DELETE FROM objects WHERE id = ?", object.StripPrefix(id))
	if err != nil {
		return fmt.Errorf("index: removing %q: %w", id, err)
	}
	return nil
}

// Search returns entries whose ID or title contains the query,
// optionally filtered by kind, ordered by kind then ID.
func (s *Store) Search(query string, kind object.Kind, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	var (
		where []string
		args  []any
	)
	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		where = append(where, "(LOWER(id) LIKE ? OR LOWER(title) LIKE ?)")
		args = append(args, like, like)
	}
	if kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(kind))
	}

	q := "SELECT id, kind, parent, status, title, path, updated FROM objects"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY kind, id LIMIT ?"
	args = append(args, limit)

	return s.queryEntries(q, args...)
}

// Children returns the directly owned objects of a parent ID, ordered
// by kind then ID.
func (s *Store) Children(parentID string) ([]Entry, error) {
	return s.queryEntries(
		"SELECT id, kind, parent, status, title, path, updated FROM objects WHERE parent = ? ORDER BY kind, id",
		object.StripPrefix(parentID))
}

// Count returns the number of indexed objects.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM objects").Scan(&n); err != nil {
		return 0, fmt.Errorf("index: counting objects: %w", err)
	}
	return n, nil
}

func (s *Store) queryEntries(query string, args ...any) ([]Entry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("index: query: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var kind string
		if err := rows.Scan(&e.ID, &kind, &e.Parent, &e.Status, &e.Title, &e.Path, &e.Updated); err != nil {
			return nil, fmt.Errorf("index: scan: %w", err)
		}
		e.Kind = object.Kind(kind)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("index: rows: %w", err)
	}
	return out, nil
}
