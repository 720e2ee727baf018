package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/btoninho/adse-navigator/internal"
	"github.com/btoninho/adse-navigator/internal/util"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS procedures (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  position INTEGER NOT NULL,
  code TEXT NOT NULL,
  codeKey TEXT NOT NULL,
  designation TEXT NOT NULL,
  category TEXT NOT NULL,
  categorySlug TEXT NOT NULL,
  subcategory TEXT,
  adseCharge REAL NOT NULL,
  copayment REAL NOT NULL,
  copaymentNote TEXT,
  maxQuantity INTEGER,
  period TEXT,
  hospitalizationDays INTEGER,
  codeType TEXT,
  smallSurgery INTEGER,
  observations TEXT
);
CREATE INDEX IF NOT EXISTS idx_procedures_codeKey ON procedures(codeKey);
CREATE INDEX IF NOT EXISTS idx_procedures_category ON procedures(category);

CREATE TABLE IF NOT EXISTS rulesets (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  category TEXT NOT NULL UNIQUE,
  slug TEXT NOT NULL,
  rulesJson TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS check_runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  invoiceFile TEXT NOT NULL,
  provider TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// ReplaceProcedures swaps the whole stored table for a fresh parse in one
// transaction. Position preserves the workbook's row order.
func (d *DB) ReplaceProcedures(procedures []internal.Procedure) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM procedures`); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
INSERT INTO procedures (
  position, code, codeKey, designation, category, categorySlug, subcategory,
  adseCharge, copayment, copaymentNote, maxQuantity, period,
  hospitalizationDays, codeType, smallSurgery, observations
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, p := range procedures {
		var smallSurgery *int
		if p.SmallSurgery != nil {
			v := 0
			if *p.SmallSurgery {
				v = 1
			}
			smallSurgery = &v
		}
		if _, err := stmt.Exec(
			i, p.Code, util.StripLeadingZeros(p.Code), p.Designation, p.Category, p.CategorySlug, p.Subcategory,
			p.ADSECharge, p.Copayment, p.CopaymentNote, p.MaxQuantity, p.Period,
			p.HospitalizationDays, p.CodeType, smallSurgery, p.Observations,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListProcedures returns all stored procedures in workbook row order.
func (d *DB) ListProcedures() ([]internal.Procedure, error) {
	rows, err := d.conn.Query(`
SELECT code, designation, category, categorySlug, subcategory,
       adseCharge, copayment, copaymentNote, maxQuantity, period,
       hospitalizationDays, codeType, smallSurgery, observations
FROM procedures ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.Procedure
	for rows.Next() {
		var p internal.Procedure
		var smallSurgery sql.NullInt64
		if err := rows.Scan(
			&p.Code, &p.Designation, &p.Category, &p.CategorySlug, &p.Subcategory,
			&p.ADSECharge, &p.Copayment, &p.CopaymentNote, &p.MaxQuantity, &p.Period,
			&p.HospitalizationDays, &p.CodeType, &smallSurgery, &p.Observations,
		); err != nil {
			return nil, err
		}
		if smallSurgery.Valid {
			p.SmallSurgery = util.BoolPtr(smallSurgery.Int64 != 0)
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

func (d *DB) ReplaceRuleSets(ruleSets []internal.RuleSet) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM rulesets`); err != nil {
		return err
	}

	for _, rs := range ruleSets {
		rulesJSON, _ := json.Marshal(rs.Rules)
		if _, err := tx.Exec(
			`INSERT INTO rulesets (category, slug, rulesJson) VALUES (?, ?, ?)`,
			rs.Category, rs.Slug, string(rulesJSON),
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) ListRuleSets() ([]internal.RuleSet, error) {
	rows, err := d.conn.Query(`SELECT category, slug, rulesJson FROM rulesets ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.RuleSet
	for rows.Next() {
		var rs internal.RuleSet
		var rulesJSON string
		if err := rows.Scan(&rs.Category, &rs.Slug, &rulesJSON); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(rulesJSON), &rs.Rules)
		out = append(out, rs)
	}

	return out, rows.Err()
}

const metadataKey = "tableMetadata"

func (d *DB) SaveTableMetadata(meta internal.TableMetadata) error {
	blob, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return d.SetMetadata(metadataKey, string(blob))
}

// LoadTableMetadata returns nil when no table has been parsed yet.
func (d *DB) LoadTableMetadata() (*internal.TableMetadata, error) {
	value, err := d.GetMetadata(metadataKey)
	if err != nil || value == nil {
		return nil, err
	}
	var meta internal.TableMetadata
	if err := json.Unmarshal([]byte(*value), &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// InsertCheckRun records one invoice check for auditing.
func (d *DB) InsertCheckRun(traceID, invoiceFile string, provider internal.Provider, counts map[string]int) error {
	countsJSON, _ := json.Marshal(counts)
	_, err := d.conn.Exec(
		`INSERT INTO check_runs (traceId, invoiceFile, provider, countsJson) VALUES (?, ?, ?, ?)`,
		traceID, invoiceFile, string(provider), string(countsJSON),
	)
	return err
}
