package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/mesh-intelligence/swprops/pkg/types"
)

// Import validates rec and stores it, replacing any document with the same
// name, in both the database and documents.jsonl.
//
// The database is committed before documents.jsonl is rewritten, so a failed
// commit leaves the file untouched. If the rewrite fails after the commit,
// the document is restored in the database from the file's previous lines.
func (b *Backend) Import(rec *types.DocumentRecord) error {
	if rec == nil {
		return types.ErrInvalidDocument
	}
	if err := rec.Validate(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrDetached
	}

	path := filepath.Join(b.config.DataDir, documentsFileName)
	previous, err := readJSONL(path)
	if err != nil {
		return err
	}
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	if err := b.storeDocument(rec); err != nil {
		return err
	}
	if err := writeJSONL(path, replaceRecord(previous, rec.Name, line)); err != nil {
		if rerr := b.restoreDocument(rec.Name, previous); rerr != nil {
			b.logger.Error("restoring document after failed write", "document", rec.Name, "error", rerr)
		}
		return fmt.Errorf("persisting %s: %w", rec.Name, err)
	}
	b.logger.Debug("document imported", "document", rec.Name)
	return nil
}

// commitTx commits an import transaction. Tests replace it to force a
// failed commit.
var commitTx = (*sql.Tx).Commit

func (b *Backend) storeDocument(rec *types.DocumentRecord) error {
	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning import transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertDocument(tx, rec); err != nil {
		return fmt.Errorf("importing %s: %w", rec.Name, err)
	}
	if err := commitTx(tx); err != nil {
		return fmt.Errorf("committing import: %w", err)
	}
	return nil
}

// restoreDocument puts the database copy of name back to what records hold:
// the last valid record of that name, or no document at all. The caller must
// hold b.mu.
func (b *Backend) restoreDocument(name string, records []json.RawMessage) error {
	var prev *types.DocumentRecord
	for _, raw := range records {
		var rec types.DocumentRecord
		if json.Unmarshal(raw, &rec) != nil || rec.Name != name || rec.Validate() != nil {
			continue
		}
		prev = &rec
	}

	tx, err := b.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if prev != nil {
		err = insertDocument(tx, prev)
	} else {
		err = deleteDocument(tx, name)
	}
	if err != nil {
		return err
	}
	return tx.Commit()
}

// replaceRecord returns records with line in place of the first record named
// name, later duplicates dropped, or appended when there is none. Lines that
// do not decode are kept verbatim.
func replaceRecord(records []json.RawMessage, name string, line json.RawMessage) []json.RawMessage {
	replaced := false
	out := make([]json.RawMessage, 0, len(records)+1)
	for _, raw := range records {
		var head struct {
			Name string `json:"name"`
		}
		if json.Unmarshal(raw, &head) == nil && head.Name == name {
			if !replaced {
				out = append(out, line)
				replaced = true
			}
			continue
		}
		out = append(out, raw)
	}
	if !replaced {
		out = append(out, line)
	}
	return out
}

// OpenDocument returns the model handle of the named document.
// Returns ErrDocumentNotFound if the library has no such document.
func (b *Backend) OpenDocument(name string) (*Document, error) {
	db, release, err := b.readDB()
	if err != nil {
		return nil, err
	}
	defer release()

	d := &Document{}
	err = db.QueryRow(
		"SELECT document_id, name, kind, active_configuration FROM documents WHERE name = ?", name,
	).Scan(&d.id, &d.name, &d.kind, &d.activeConfiguration)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", types.ErrDocumentNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	return d, nil
}

// Documents returns every document in the library ordered by name.
func (b *Backend) Documents() ([]*Document, error) {
	db, release, err := b.readDB()
	if err != nil {
		return nil, err
	}
	defer release()

	rows, err := db.Query("SELECT document_id, name, kind, active_configuration FROM documents ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	docs := []*Document{}
	for rows.Next() {
		d := &Document{}
		if err := rows.Scan(&d.id, &d.name, &d.kind, &d.activeConfiguration); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// ConfigurationNames returns the configuration names of m in declaration
// order.
func (b *Backend) ConfigurationNames(m types.Model) ([]string, error) {
	d, err := asDocument(m)
	if err != nil {
		return nil, err
	}
	db, release, err := b.readDB()
	if err != nil {
		return nil, err
	}
	defer release()

	rows, err := db.Query("SELECT name FROM configurations WHERE document_id = ? ORDER BY ordinal", d.id)
	if err != nil {
		return nil, fmt.Errorf("listing configurations of %s: %w", d.name, err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// LoadRecord rebuilds the stored record of the named document. Property
// values are returned raw.
func (b *Backend) LoadRecord(name string) (*types.DocumentRecord, error) {
	doc, err := b.OpenDocument(name)
	if err != nil {
		return nil, err
	}

	db, release, err := b.readDB()
	if err != nil {
		return nil, err
	}
	defer release()

	rec := &types.DocumentRecord{
		Name:                doc.name,
		Kind:                doc.kind,
		ActiveConfiguration: doc.activeConfiguration,
	}
	if rec.Properties, err = queryPropertyRecords(db, doc.id, ""); err != nil {
		return nil, err
	}

	rows, err := db.Query("SELECT configuration_id, name FROM configurations WHERE document_id = ? ORDER BY ordinal", doc.id)
	if err != nil {
		return nil, fmt.Errorf("loading configurations of %s: %w", name, err)
	}
	type cfgRow struct{ id, name string }
	var cfgs []cfgRow
	for rows.Next() {
		var c cfgRow
		if err := rows.Scan(&c.id, &c.name); err != nil {
			rows.Close()
			return nil, err
		}
		cfgs = append(cfgs, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, c := range cfgs {
		cr := types.ConfigurationRecord{Name: c.name}
		if cr.Properties, err = queryPropertyRecords(db, doc.id, c.id); err != nil {
			return nil, err
		}
		if cr.Components, err = queryComponentTree(db, doc.id, c.id); err != nil {
			return nil, err
		}
		rec.Configurations = append(rec.Configurations, cr)
	}
	return rec, nil
}

func queryPropertyRecords(db *sql.DB, docID, cfgID string) ([]types.PropertyRecord, error) {
	rows, err := db.Query(
		"SELECT name, value, value_type FROM properties WHERE document_id = ? AND configuration_id = ? ORDER BY ordinal",
		docID, cfgID,
	)
	if err != nil {
		return nil, fmt.Errorf("loading properties: %w", err)
	}
	defer rows.Close()

	var props []types.PropertyRecord
	for rows.Next() {
		var p types.PropertyRecord
		var vt string
		if err := rows.Scan(&p.Name, &p.Value, &vt); err != nil {
			return nil, err
		}
		p.Type = types.ParseValueType(vt)
		props = append(props, p)
	}
	return props, rows.Err()
}

// queryComponentTree loads every component of one configuration and links
// them back into a tree.
func queryComponentTree(db *sql.DB, docID, cfgID string) ([]types.ComponentRecord, error) {
	rows, err := db.Query(
		`SELECT component_id, parent_id, name, referenced_document, referenced_configuration
         FROM components WHERE document_id = ? AND configuration_id = ? ORDER BY ordinal`,
		docID, cfgID,
	)
	if err != nil {
		return nil, fmt.Errorf("loading components: %w", err)
	}
	defer rows.Close()

	type row struct {
		id, parent string
		rec        types.ComponentRecord
	}
	children := make(map[string][]row)
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.id, &r.parent, &r.rec.Name, &r.rec.Document, &r.rec.Configuration); err != nil {
			return nil, err
		}
		children[r.parent] = append(children[r.parent], r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var build func(parent string, depth int) []types.ComponentRecord
	build = func(parent string, depth int) []types.ComponentRecord {
		rs := children[parent]
		if len(rs) == 0 || depth > len(children) {
			return nil
		}
		out := make([]types.ComponentRecord, len(rs))
		for i, r := range rs {
			out[i] = r.rec
			out[i].Children = build(r.id, depth+1)
		}
		return out
	}
	return build("", 0), nil
}
