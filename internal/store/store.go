// Package store persists projects and their version history in a sqlite
// database.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	gerrors "github.com/wexinc/gantt/internal/errors"
	"github.com/wexinc/gantt/internal/logging"
	"github.com/wexinc/gantt/internal/project"
)

// VersionKind tells automatic snapshots apart from named ones.
type VersionKind string

const (
	// KindAuto versions are recorded whenever a save changes the document.
	KindAuto VersionKind = "auto"
	// KindManual versions are created on request and carry a label.
	KindManual VersionKind = "manual"
)

// RestoreLabel is the label of the snapshot taken before a restore.
const RestoreLabel = "Before restore"

// Project is a stored document and its metadata.
type Project struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	Document  *project.Document
}

// Version is a point-in-time copy of a project's document.
type Version struct {
	ID        string
	ProjectID string
	Kind      VersionKind
	Label     string
	CreatedAt time.Time
	Document  *project.Document
}

// Options bounds the history kept per project. A cap of zero or less keeps
// every version of that kind.
type Options struct {
	MaxAutoVersions   int
	MaxManualVersions int
}

// SaveResult reports what a Save did.
type SaveResult struct {
	Project *Project
	Created bool
	Changed bool
}

// Store is a sqlite-backed project store. It is safe for concurrent use.
type Store struct {
	db   *sql.DB
	opts Options
	now  func() time.Time
}

// dsnOptions make writers take the lock when their transaction begins and
// wait up to five seconds for another connection to release it.
const dsnOptions = "?_pragma=busy_timeout(5000)&_txlock=immediate"

// Open opens (creating if needed) the database at path.
func Open(ctx context.Context, path string, opts Options) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, gerrors.StoreFailed("open", err)
		}
	}

	db, err := sql.Open("sqlite", path+dsnOptions)
	if err != nil {
		return nil, gerrors.StoreFailed("open", err)
	}
	// A single connection serialises writers and keeps :memory: databases alive.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, opts: opts, now: time.Now}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, gerrors.StoreFailed("migrate", err)
	}

	logging.Debug("project store opened", "path", path)
	return s, nil
}

// SetClock sets the clock used for timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL,
			data BLOB NOT NULL,
			hash TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS versions (
			id TEXT PRIMARY KEY,
			project_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			label TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL,
			data BLOB NOT NULL,
			FOREIGN KEY (project_id) REFERENCES projects(id)
		);

		CREATE INDEX IF NOT EXISTS idx_versions_project ON versions(project_id, kind, created_at);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func encode(doc *project.Document) ([]byte, string, error) {
	data, err := project.Encode(doc, project.FormatJSON)
	if err != nil {
		return nil, "", err
	}
	sum := sha256.Sum256(data)
	return data, hex.EncodeToString(sum[:]), nil
}

func decode(data []byte) (*project.Document, error) {
	return project.Decode(data, project.FormatJSON)
}

func toTime(nanos int64) time.Time {
	return time.Unix(0, nanos).UTC()
}

// Save stores doc under name, creating the project if it does not exist.
// Saving a document identical to the stored one changes nothing. Every save
// that changes the document also records an automatic version.
func (s *Store) Save(ctx context.Context, name string, doc *project.Document) (*SaveResult, error) {
	data, hash, err := encode(doc)
	if err != nil {
		return nil, gerrors.StoreFailed("save", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, gerrors.StoreFailed("save", err)
	}
	defer tx.Rollback()

	now := s.now().UnixNano()
	result := &SaveResult{}

	var (
		id        string
		createdAt int64
		oldHash   string
	)
	err = tx.QueryRowContext(ctx,
		`SELECT id, created_at, hash FROM projects WHERE name = ?`, name,
	).Scan(&id, &createdAt, &oldHash)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		id = uuid.New().String()
		createdAt = now
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO projects (id, name, created_at, updated_at, data, hash) VALUES (?, ?, ?, ?, ?, ?)`,
			id, name, now, now, data, hash,
		); err != nil {
			return nil, gerrors.StoreFailed("save", err)
		}
		result.Created = true
		result.Changed = true
	case err != nil:
		return nil, gerrors.StoreFailed("save", err)
	case oldHash == hash:
		logging.Debug("project unchanged, skipping save", "project", id)
		result.Project = &Project{ID: id, Name: name, Document: doc.Clone()}
		return s.finishUnchanged(ctx, tx, result)
	default:
		if _, err := tx.ExecContext(ctx,
			`UPDATE projects SET updated_at = ?, data = ?, hash = ? WHERE id = ?`,
			now, data, hash, id,
		); err != nil {
			return nil, gerrors.StoreFailed("save", err)
		}
		result.Changed = true
	}

	if _, err := s.addVersion(ctx, tx, id, KindAuto, "", data); err != nil {
		return nil, gerrors.StoreFailed("save", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, gerrors.StoreFailed("save", err)
	}

	logging.Info("project saved", "project", id, "name", name, "created", result.Created)
	result.Project = &Project{
		ID:        id,
		Name:      name,
		CreatedAt: toTime(createdAt),
		UpdatedAt: toTime(now),
		Document:  doc.Clone(),
	}
	return result, nil
}

// finishUnchanged fills in the stored timestamps for a save that was skipped.
func (s *Store) finishUnchanged(ctx context.Context, tx *sql.Tx, result *SaveResult) (*SaveResult, error) {
	var createdAt, updatedAt int64
	if err := tx.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM projects WHERE id = ?`, result.Project.ID,
	).Scan(&createdAt, &updatedAt); err != nil {
		return nil, gerrors.StoreFailed("save", err)
	}
	result.Project.CreatedAt = toTime(createdAt)
	result.Project.UpdatedAt = toTime(updatedAt)
	return result, nil
}

// addVersion inserts a version and prunes the oldest of its kind beyond the cap.
func (s *Store) addVersion(ctx context.Context, tx *sql.Tx, projectID string, kind VersionKind, label string, data []byte) (*Version, error) {
	v := &Version{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Kind:      kind,
		Label:     label,
		CreatedAt: s.now().UTC(),
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO versions (id, project_id, kind, label, created_at, data) VALUES (?, ?, ?, ?, ?, ?)`,
		v.ID, projectID, string(kind), label, v.CreatedAt.UnixNano(), data,
	); err != nil {
		return nil, err
	}

	limit := s.opts.MaxAutoVersions
	if kind == KindManual {
		limit = s.opts.MaxManualVersions
	}
	if limit <= 0 {
		return v, nil
	}

	res, err := tx.ExecContext(ctx, `
		DELETE FROM versions WHERE id IN (
			SELECT id FROM versions
			WHERE project_id = ? AND kind = ?
			ORDER BY created_at DESC, rowid DESC
			LIMIT -1 OFFSET ?
		)`, projectID, string(kind), limit)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		logging.Debug("pruned project versions", "project", projectID, "kind", kind, "count", n)
	}
	return v, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner, withData bool) (*Project, error) {
	var (
		p                    Project
		createdAt, updatedAt int64
		data                 []byte
	)
	if err := row.Scan(&p.ID, &p.Name, &createdAt, &updatedAt, &data); err != nil {
		return nil, err
	}
	p.CreatedAt = toTime(createdAt)
	p.UpdatedAt = toTime(updatedAt)
	if withData {
		doc, err := decode(data)
		if err != nil {
			return nil, err
		}
		p.Document = doc
	}
	return &p, nil
}

// Get returns the project whose ID or name is ref. An ID match wins.
func (s *Store) Get(ctx context.Context, ref string) (*Project, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, created_at, updated_at, data FROM projects
		WHERE id = ? OR name = ?
		ORDER BY id = ? DESC
		LIMIT 1`, ref, ref, ref)

	p, err := scanProject(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, gerrors.ProjectNotFound(ref)
	}
	if err != nil {
		return nil, gerrors.StoreFailed("get", err)
	}
	return p, nil
}

// List returns all projects without their documents, most recently updated
// first.
func (s *Store) List(ctx context.Context) ([]*Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, created_at, updated_at, data FROM projects
		ORDER BY updated_at DESC, name`)
	if err != nil {
		return nil, gerrors.StoreFailed("list", err)
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		p, err := scanProject(rows, false)
		if err != nil {
			return nil, gerrors.StoreFailed("list", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, gerrors.StoreFailed("list", err)
	}
	return projects, nil
}

// Rename changes a project's name.
func (s *Store) Rename(ctx context.Context, ref, name string) error {
	p, err := s.Get(ctx, ref)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx,
		`UPDATE projects SET name = ?, updated_at = ? WHERE id = ?`,
		name, s.now().UnixNano(), p.ID,
	); err != nil {
		return gerrors.StoreFailed("rename", err)
	}
	return nil
}

// Delete removes a project and all of its versions.
func (s *Store) Delete(ctx context.Context, ref string) error {
	p, err := s.Get(ctx, ref)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return gerrors.StoreFailed("delete", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM versions WHERE project_id = ?`, p.ID); err != nil {
		return gerrors.StoreFailed("delete", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, p.ID); err != nil {
		return gerrors.StoreFailed("delete", err)
	}
	if err := tx.Commit(); err != nil {
		return gerrors.StoreFailed("delete", err)
	}

	logging.Info("project deleted", "project", p.ID, "name", p.Name)
	return nil
}

// Snapshot records the project's current document as a manual version. An
// empty label is replaced by one naming the time of the snapshot.
func (s *Store) Snapshot(ctx context.Context, ref, label string) (*Version, error) {
	p, err := s.Get(ctx, ref)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, gerrors.StoreFailed("snapshot", err)
	}
	defer tx.Rollback()

	v, err := s.snapshot(ctx, tx, p, label)
	if err != nil {
		return nil, gerrors.StoreFailed("snapshot", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, gerrors.StoreFailed("snapshot", err)
	}
	return v, nil
}

func (s *Store) snapshot(ctx context.Context, tx *sql.Tx, p *Project, label string) (*Version, error) {
	if label == "" {
		label = fmt.Sprintf("Snapshot %s", s.now().UTC().Format("2006-01-02 15:04:05"))
	}
	data, _, err := encode(p.Document)
	if err != nil {
		return nil, err
	}
	v, err := s.addVersion(ctx, tx, p.ID, KindManual, label, data)
	if err != nil {
		return nil, err
	}
	v.Document = p.Document.Clone()
	logging.Info("project snapshot created", "project", p.ID, "version", v.ID, "label", label)
	return v, nil
}

// Versions returns a project's versions, newest first.
func (s *Store) Versions(ctx context.Context, ref string) ([]*Version, error) {
	p, err := s.Get(ctx, ref)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, kind, label, created_at, data FROM versions
		WHERE project_id = ?
		ORDER BY created_at DESC, rowid DESC`, p.ID)
	if err != nil {
		return nil, gerrors.StoreFailed("versions", err)
	}
	defer rows.Close()

	var versions []*Version
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, gerrors.StoreFailed("versions", err)
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, gerrors.StoreFailed("versions", err)
	}
	return versions, nil
}

func scanVersion(row rowScanner) (*Version, error) {
	var (
		v         Version
		kind      string
		createdAt int64
		data      []byte
	)
	if err := row.Scan(&v.ID, &v.ProjectID, &kind, &v.Label, &createdAt, &data); err != nil {
		return nil, err
	}
	v.Kind = VersionKind(kind)
	v.CreatedAt = toTime(createdAt)
	doc, err := decode(data)
	if err != nil {
		return nil, err
	}
	v.Document = doc
	return &v, nil
}

// Restore makes a version the project's current document. The document
// being replaced is first kept as a manual version labelled RestoreLabel.
func (s *Store) Restore(ctx context.Context, ref, versionID string) (*Project, error) {
	p, err := s.Get(ctx, ref)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, gerrors.StoreFailed("restore", err)
	}
	defer tx.Rollback()

	v, err := scanVersion(tx.QueryRowContext(ctx, `
		SELECT id, project_id, kind, label, created_at, data FROM versions
		WHERE id = ? AND project_id = ?`, versionID, p.ID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, gerrors.VersionNotFound(p.ID, versionID)
	}
	if err != nil {
		return nil, gerrors.StoreFailed("restore", err)
	}

	if _, err := s.snapshot(ctx, tx, p, RestoreLabel); err != nil {
		return nil, gerrors.StoreFailed("restore", err)
	}

	data, hash, err := encode(v.Document)
	if err != nil {
		return nil, gerrors.StoreFailed("restore", err)
	}
	now := s.now().UnixNano()
	if _, err := tx.ExecContext(ctx,
		`UPDATE projects SET updated_at = ?, data = ?, hash = ? WHERE id = ?`,
		now, data, hash, p.ID,
	); err != nil {
		return nil, gerrors.StoreFailed("restore", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, gerrors.StoreFailed("restore", err)
	}

	logging.Info("project restored", "project", p.ID, "version", versionID)
	p.UpdatedAt = toTime(now)
	p.Document = v.Document
	return p, nil
}

// DeleteVersion removes one version of a project.
func (s *Store) DeleteVersion(ctx context.Context, ref, versionID string) error {
	p, err := s.Get(ctx, ref)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM versions WHERE id = ? AND project_id = ?`, versionID, p.ID)
	if err != nil {
		return gerrors.StoreFailed("delete version", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return gerrors.VersionNotFound(p.ID, versionID)
	}
	return nil
}
