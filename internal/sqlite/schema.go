package sqlite

// Schema DDL. configuration_id is '' for generic properties and for the
// components of a document without configurations; parent_id is '' for
// direct children of the root component.
const (
	createDocuments = `CREATE TABLE documents (
    document_id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    kind TEXT NOT NULL,
    active_configuration TEXT NOT NULL,
    imported_at TEXT NOT NULL
);`

	createConfigurations = `CREATE TABLE configurations (
    configuration_id TEXT PRIMARY KEY,
    document_id TEXT NOT NULL,
    name TEXT NOT NULL,
    ordinal INTEGER NOT NULL,
    UNIQUE (document_id, name),
    FOREIGN KEY (document_id) REFERENCES documents(document_id) ON DELETE CASCADE
);`

	createProperties = `CREATE TABLE properties (
    property_id TEXT PRIMARY KEY,
    document_id TEXT NOT NULL,
    configuration_id TEXT NOT NULL DEFAULT '',
    name TEXT NOT NULL,
    value TEXT NOT NULL,
    value_type TEXT NOT NULL,
    ordinal INTEGER NOT NULL,
    UNIQUE (document_id, configuration_id, name),
    FOREIGN KEY (document_id) REFERENCES documents(document_id) ON DELETE CASCADE
);`

	createComponents = `CREATE TABLE components (
    component_id TEXT PRIMARY KEY,
    document_id TEXT NOT NULL,
    configuration_id TEXT NOT NULL DEFAULT '',
    parent_id TEXT NOT NULL DEFAULT '',
    name TEXT NOT NULL,
    referenced_document TEXT NOT NULL DEFAULT '',
    referenced_configuration TEXT NOT NULL DEFAULT '',
    ordinal INTEGER NOT NULL,
    FOREIGN KEY (document_id) REFERENCES documents(document_id) ON DELETE CASCADE
);`
)

// Index DDL for the lookups the provider performs.
const (
	idxConfigurationsDocument = `CREATE INDEX idx_configurations_document ON configurations(document_id, ordinal);`
	idxPropertiesScope        = `CREATE INDEX idx_properties_scope ON properties(document_id, configuration_id);`
	idxComponentsParent       = `CREATE INDEX idx_components_parent ON components(document_id, configuration_id, parent_id, ordinal);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createDocuments,
	createConfigurations,
	createProperties,
	createComponents,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxConfigurationsDocument,
	idxPropertiesScope,
	idxComponentsParent,
}
