// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package distance

import (
	"context"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"

	_ "modernc.org/sqlite"
)

// The pure-Go modernc.org/sqlite driver registers itself under this name.
const sqliteDriver = "sqlite"

const sqliteSchema = `
DROP TABLE IF EXISTS distance;
DROP TABLE IF EXISTS metadata;
CREATE TABLE distance (
	sample_i TEXT NOT NULL,
	sample_j TEXT NOT NULL,
	distance INTEGER NOT NULL
);
CREATE TABLE metadata (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// PairRow is one row of the "distance" table written by WriteSQLite.
type PairRow struct {
	SampleI  string `db:"sample_i"`
	SampleJ  string `db:"sample_j"`
	Distance int    `db:"distance"`
}

// WriteSQLite writes the lower triangle of m (one row per pair (i, j), j < i)
// to the "distance" table of a SQLite database at the local path, and
// metadata to the "metadata" table.  Existing tables are replaced.
func WriteSQLite(ctx context.Context, path string, m *Matrix, ids []string, metadata map[string]string) (err error) {
	if len(ids) != m.N() {
		return fmt.Errorf("WriteSQLite: %d sample IDs for %d x %d matrix", len(ids), m.N(), m.N())
	}
	var db *sqlx.DB
	if db, err = sqlx.ConnectContext(ctx, sqliteDriver, path); err != nil {
		return fmt.Errorf("WriteSQLite: %v", err)
	}
	defer func() {
		if e := db.Close(); e != nil && err == nil {
			err = e
		}
	}()
	if _, err = db.ExecContext(ctx, `
	PRAGMA journal_mode = OFF;
	PRAGMA synchronous = OFF;
	`); err != nil {
		return fmt.Errorf("WriteSQLite: unable to set pragmas: %v", err)
	}
	if _, err = db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("WriteSQLite: unable to create tables: %v", err)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	stmt, err := tx.PreparexContext(ctx, "INSERT INTO distance (sample_i, sample_j, distance) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	for i := 1; i < m.N(); i++ {
		row := m.Row(i)
		for j := 0; j < i; j++ {
			if _, err = stmt.ExecContext(ctx, ids[i], ids[j], row[j]); err != nil {
				return err
			}
		}
	}
	if err = stmt.Close(); err != nil {
		return err
	}
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err = tx.ExecContext(ctx, "INSERT INTO metadata (key, value) VALUES (?, ?)", k, metadata[k]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ReadSQLite reads back the rows written by WriteSQLite, in insertion order.
func ReadSQLite(ctx context.Context, path string) (rows []PairRow, metadata map[string]string, err error) {
	var db *sqlx.DB
	if db, err = sqlx.ConnectContext(ctx, sqliteDriver, path); err != nil {
		return
	}
	defer func() {
		if e := db.Close(); e != nil && err == nil {
			err = e
		}
	}()
	if err = db.SelectContext(ctx, &rows, "SELECT sample_i, sample_j, distance FROM distance ORDER BY rowid"); err != nil {
		return
	}
	var kvs []struct {
		Key   string `db:"key"`
		Value string `db:"value"`
	}
	if err = db.SelectContext(ctx, &kvs, "SELECT key, value FROM metadata"); err != nil {
		return
	}
	metadata = make(map[string]string, len(kvs))
	for _, kv := range kvs {
		metadata[kv.Key] = kv.Value
	}
	return
}
