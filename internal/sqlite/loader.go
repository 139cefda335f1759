package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/mesh-intelligence/swprops/pkg/types"
)

// loadDocuments reads documents.jsonl and inserts every valid record in one
// transaction. Lines that do not decode or validate are logged and skipped.
// A later record with the same name replaces an earlier one. Returns the
// number of documents loaded.
func loadDocuments(db *sql.DB, dataDir string, logger *slog.Logger) (int, error) {
	path := filepath.Join(dataDir, documentsFileName)
	records, err := readJSONL(path)
	if err != nil {
		return 0, err
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	loaded := make(map[string]bool)
	for i, raw := range records {
		var rec types.DocumentRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			logger.Warn("skipping undecodable document record", "file", path, "line", i+1, "error", err)
			continue
		}
		if err := rec.Validate(); err != nil {
			logger.Warn("skipping invalid document record", "file", path, "line", i+1, "error", err)
			continue
		}
		if err := insertDocument(tx, &rec); err != nil {
			return 0, fmt.Errorf("loading %s: %w", rec.Name, err)
		}
		loaded[rec.Name] = true
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing load transaction: %w", err)
	}
	return len(loaded), nil
}

// insertDocument replaces any document with the same name by rec.
func insertDocument(tx *sql.Tx, rec *types.DocumentRecord) error {
	if err := deleteDocument(tx, rec.Name); err != nil {
		return err
	}

	docID := generateUUID()
	_, err := tx.Exec(
		"INSERT INTO documents (document_id, name, kind, active_configuration, imported_at) VALUES (?, ?, ?, ?, ?)",
		docID, rec.Name, rec.Kind, rec.ActiveConfigurationName(), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting document: %w", err)
	}

	if err := insertProperties(tx, docID, "", rec.Properties); err != nil {
		return err
	}

	for i, c := range rec.Configurations {
		cfgID := generateUUID()
		_, err := tx.Exec(
			"INSERT INTO configurations (configuration_id, document_id, name, ordinal) VALUES (?, ?, ?, ?)",
			cfgID, docID, c.Name, i,
		)
		if err != nil {
			return fmt.Errorf("inserting configuration %q: %w", c.Name, err)
		}
		if err := insertProperties(tx, docID, cfgID, c.Properties); err != nil {
			return err
		}
		if err := insertComponents(tx, docID, cfgID, "", c.Components); err != nil {
			return err
		}
	}
	return nil
}

func insertProperties(tx *sql.Tx, docID, cfgID string, props []types.PropertyRecord) error {
	for i, p := range props {
		vt := p.Type
		if vt == "" {
			vt = types.ValueTypeText
		}
		_, err := tx.Exec(
			`INSERT INTO properties (property_id, document_id, configuration_id, name, value, value_type, ordinal)
             VALUES (?, ?, ?, ?, ?, ?, ?)`,
			generateUUID(), docID, cfgID, p.Name, p.Value, string(vt), i,
		)
		if err != nil {
			return fmt.Errorf("inserting property %q: %w", p.Name, err)
		}
	}
	return nil
}

func insertComponents(tx *sql.Tx, docID, cfgID, parentID string, comps []types.ComponentRecord) error {
	for i, c := range comps {
		id := generateUUID()
		_, err := tx.Exec(
			`INSERT INTO components (component_id, document_id, configuration_id, parent_id, name,
             referenced_document, referenced_configuration, ordinal) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, docID, cfgID, parentID, c.Name, c.Document, c.Configuration, i,
		)
		if err != nil {
			return fmt.Errorf("inserting component %q: %w", c.Name, err)
		}
		if err := insertComponents(tx, docID, cfgID, id, c.Children); err != nil {
			return err
		}
	}
	return nil
}

// deleteDocument removes a document and every row that belongs to it.
func deleteDocument(tx *sql.Tx, name string) error {
	var docID string
	err := tx.QueryRow("SELECT document_id FROM documents WHERE name = ?", name).Scan(&docID)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("looking up document %q: %w", name, err)
	}
	for _, table := range []string{"components", "properties", "configurations", "documents"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE document_id = ?", docID); err != nil {
			return fmt.Errorf("deleting %s of %q: %w", table, name, err)
		}
	}
	return nil
}
