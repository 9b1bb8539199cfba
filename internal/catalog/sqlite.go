package catalog

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"shaderlint/internal/logging"
)

// Store is the SQLite-backed Catalog. Registry dumps are imported once
// and queried read-only afterwards; query failures degrade to empty
// results with a diagnostic rather than failing the analysis.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
	log    *logging.Logger
}

// Open initializes the catalog database at the given path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog database: %w", err)
	}

	store := &Store{db: db, dbPath: path, log: logging.Get(logging.CategoryCatalog)}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// initialize creates the required tables.
func (s *Store) initialize() error {
	blocksTable := `
	CREATE TABLE IF NOT EXISTS blocks (
		id TEXT PRIMARY KEY,
		has_entity INTEGER NOT NULL DEFAULT 0
	);
	`

	statesTable := `
	CREATE TABLE IF NOT EXISTS block_states (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		block_id TEXT NOT NULL,
		properties TEXT,
		luminance INTEGER NOT NULL DEFAULT 0,
		opaque_cube INTEGER NOT NULL DEFAULT 0,
		render_layer TEXT NOT NULL DEFAULT 'solid',
		is_default INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_states_block ON block_states(block_id);
	`

	propertiesTable := `
	CREATE TABLE IF NOT EXISTS block_properties (
		block_id TEXT NOT NULL,
		name TEXT NOT NULL,
		value TEXT NOT NULL,
		ord INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_properties_block ON block_properties(block_id, name);
	`

	tagsTable := `
	CREATE TABLE IF NOT EXISTS block_tags (
		tag TEXT NOT NULL,
		block_id TEXT NOT NULL,
		UNIQUE(tag, block_id)
	);
	CREATE INDEX IF NOT EXISTS idx_tags_tag ON block_tags(tag);
	`

	entitiesTable := `
	CREATE TABLE IF NOT EXISTS entities (
		id TEXT PRIMARY KEY
	);
	`

	metaTable := `
	CREATE TABLE IF NOT EXISTS catalog_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	for _, table := range []string{blocksTable, statesTable, propertiesTable, tagsTable, entitiesTable, metaTable} {
		if _, err := s.db.Exec(table); err != nil {
			return fmt.Errorf("creating catalog table: %w", err)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Import replaces the catalog contents with a registry dump. The import
// runs in one transaction, so a failure leaves the previous catalog
// intact.
func (s *Store) Import(d *Dump) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting import transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"blocks", "block_states", "block_properties", "block_tags", "entities", "catalog_meta"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	for _, b := range d.Blocks {
		if _, err := tx.Exec(
			"INSERT INTO blocks (id, has_entity) VALUES (?, ?)",
			b.ID, boolInt(b.HasEntity),
		); err != nil {
			return fmt.Errorf("importing block %s: %w", b.ID, err)
		}

		for _, st := range b.States {
			propsJSON, _ := json.Marshal(st.Properties)
			if _, err := tx.Exec(
				`INSERT INTO block_states (block_id, properties, luminance, opaque_cube, render_layer, is_default)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				b.ID, string(propsJSON), st.Luminance, boolInt(st.OpaqueCube), st.RenderLayer, boolInt(st.Default),
			); err != nil {
				return fmt.Errorf("importing states of %s: %w", b.ID, err)
			}
		}

		for _, p := range b.Properties {
			for ord, value := range p.Values {
				if _, err := tx.Exec(
					"INSERT INTO block_properties (block_id, name, value, ord) VALUES (?, ?, ?, ?)",
					b.ID, p.Name, value, ord,
				); err != nil {
					return fmt.Errorf("importing properties of %s: %w", b.ID, err)
				}
			}
		}
	}

	for tag, members := range d.Tags {
		for _, blockID := range members {
			if _, err := tx.Exec(
				"INSERT OR IGNORE INTO block_tags (tag, block_id) VALUES (?, ?)",
				tag, blockID,
			); err != nil {
				return fmt.Errorf("importing tag %s: %w", tag, err)
			}
		}
	}

	for _, id := range d.Entities {
		if _, err := tx.Exec("INSERT OR IGNORE INTO entities (id) VALUES (?)", id); err != nil {
			return fmt.Errorf("importing entity %s: %w", id, err)
		}
	}

	meta := map[string]string{
		"game_version": d.GameVersion,
		"imported_at":  time.Now().UTC().Format(time.RFC3339),
	}
	for key, value := range meta {
		if _, err := tx.Exec("INSERT INTO catalog_meta (key, value) VALUES (?, ?)", key, value); err != nil {
			return fmt.Errorf("writing catalog metadata: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing import: %w", err)
	}

	s.log.Info("Imported catalog: %d blocks, %d tags, %d entities (game %s)",
		len(d.Blocks), len(d.Tags), len(d.Entities), d.GameVersion)
	return nil
}

// GameVersion returns the imported dump's game version, empty when the
// catalog has never been imported.
func (s *Store) GameVersion() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var version string
	err := s.db.QueryRow("SELECT value FROM catalog_meta WHERE key = 'game_version'").Scan(&version)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.log.Error("Reading game version: %v", err)
		}
		return ""
	}
	return version
}

// Stats returns per-table row counts.
func (s *Store) Stats() map[string]int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make(map[string]int64)
	for _, table := range []string{"blocks", "block_states", "block_properties", "block_tags", "entities"} {
		var count int64
		if err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			continue
		}
		stats[table] = count
	}
	return stats
}

func (s *Store) BlockExists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var one int
	err := s.db.QueryRow("SELECT 1 FROM blocks WHERE id = ?", id).Scan(&one)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.log.Error("Querying block %s: %v", id, err)
		}
		return false
	}
	return true
}

func (s *Store) AllBlockIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id FROM blocks ORDER BY id")
	if err != nil {
		s.log.Error("Querying block IDs: %v", err)
		return nil
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func (s *Store) HasBlockEntity(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var hasEntity int
	err := s.db.QueryRow("SELECT has_entity FROM blocks WHERE id = ?", id).Scan(&hasEntity)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.log.Error("Querying block entity flag for %s: %v", id, err)
		}
		return false
	}
	return hasEntity != 0
}

func (s *Store) DefaultState(id string) (StateInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(
		`SELECT properties, luminance, opaque_cube, render_layer, is_default
		 FROM block_states WHERE block_id = ? AND is_default = 1 LIMIT 1`, id)
	info, err := scanState(row)
	if errors.Is(err, sql.ErrNoRows) {
		// Fall back to the first state for dumps that mark no default.
		row = s.db.QueryRow(
			`SELECT properties, luminance, opaque_cube, render_layer, is_default
			 FROM block_states WHERE block_id = ? ORDER BY id LIMIT 1`, id)
		info, err = scanState(row)
	}
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.log.Error("Querying default state of %s: %v", id, err)
		}
		return StateInfo{}, false
	}
	return info, true
}

func (s *Store) States(id string) []StateInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT properties, luminance, opaque_cube, render_layer, is_default
		 FROM block_states WHERE block_id = ? ORDER BY id`, id)
	if err != nil {
		s.log.Error("Querying states of %s: %v", id, err)
		return nil
	}
	defer rows.Close()

	var states []StateInfo
	for rows.Next() {
		info, err := scanState(rows)
		if err != nil {
			continue
		}
		states = append(states, info)
	}
	return states
}

func (s *Store) PossibleValues(id, property string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		"SELECT value FROM block_properties WHERE block_id = ? AND name = ? ORDER BY ord",
		id, property)
	if err != nil {
		s.log.Error("Querying property %s of %s: %v", property, id, err)
		return nil
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			continue
		}
		values = append(values, v)
	}
	return values
}

func (s *Store) TagMembers(namespace, name string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		"SELECT block_id FROM block_tags WHERE tag = ? ORDER BY block_id",
		namespace+":"+name)
	if err != nil {
		s.log.Error("Querying tag %s:%s: %v", namespace, name, err)
		return nil
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			continue
		}
		members = append(members, id)
	}
	return members
}

func (s *Store) AllEntityIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id FROM entities ORDER BY id")
	if err != nil {
		s.log.Error("Querying entity IDs: %v", err)
		return nil
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// scanTarget lets scanState work with both *sql.Row and *sql.Rows.
type scanTarget interface {
	Scan(dest ...interface{}) error
}

func scanState(row scanTarget) (StateInfo, error) {
	var propsJSON, layer string
	var luminance, opaque, isDefault int
	if err := row.Scan(&propsJSON, &luminance, &opaque, &layer, &isDefault); err != nil {
		return StateInfo{}, err
	}

	var props map[string]string
	if propsJSON != "" {
		json.Unmarshal([]byte(propsJSON), &props)
	}

	return StateInfo{
		Properties:     props,
		Luminance:      luminance,
		OpaqueFullCube: opaque != 0,
		RenderLayer:    layer,
		Default:        isDefault != 0,
	}, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
