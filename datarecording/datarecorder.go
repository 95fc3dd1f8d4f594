// Package datarecording keeps a ledger of compiler runs in a SQL database.
package datarecording

import (
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/fatih/structs"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
)

// DataRecorder is a backend that can record and store data
type DataRecorder interface {
	// CreateTable creates a table whose columns are the fields of
	// sampleEntry. Existing tables are reused.
	CreateTable(tableName string, sampleEntry any) error

	// InsertData buffers an entry of the table's type.
	InsertData(tableName string, entry any)

	// ListTables returns the names of all tables created so far.
	ListTables() []string

	// Flush writes all buffered entries.
	Flush() error

	// Close flushes and releases the connection.
	Close() error
}

// NewSQLite opens (or creates) the SQLite database at path.
func NewSQLite(path string) (DataRecorder, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening ledger %s: %w", path, err)
	}

	return NewWithDB(db), nil
}

// NewWithDB creates a new DataRecorder with a given database.
func NewWithDB(db *sql.DB) DataRecorder {
	return &sqliteWriter{
		DB:        db,
		batchSize: 1000,
		tables:    make(map[string]*table),
	}
}

type table struct {
	structType reflect.Type
	entries    []any
}

// sqliteWriter is the writer that writes data into SQLite database
type sqliteWriter struct {
	*sql.DB

	tables     map[string]*table
	batchSize  int
	entryCount int
}

func isAllowedKind(kind reflect.Kind) bool {
	switch kind {
	case
		reflect.Bool,
		reflect.Int,
		reflect.Int8,
		reflect.Int16,
		reflect.Int32,
		reflect.Int64,
		reflect.Uint,
		reflect.Uint8,
		reflect.Uint16,
		reflect.Uint32,
		reflect.Uint64,
		reflect.Float32,
		reflect.Float64,
		reflect.String:
		return true
	default:
		return false
	}
}

func checkStructFields(entry any) error {
	t := reflect.TypeOf(entry)
	if t == nil || t.Kind() != reflect.Struct {
		return errors.New("entry must be a struct")
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !isAllowedKind(field.Type.Kind()) {
			return fmt.Errorf("field %s has unsupported type %s",
				field.Name, field.Type)
		}
	}

	return nil
}

// fieldValues lists the field values of a struct entry in declaration order.
func fieldValues(entry any) []any {
	v := reflect.ValueOf(entry)
	values := make([]any, 0, v.NumField())

	for i := 0; i < v.NumField(); i++ {
		values = append(values, v.Field(i).Interface())
	}

	return values
}

func (t *sqliteWriter) CreateTable(tableName string, sampleEntry any) error {
	if err := checkStructFields(sampleEntry); err != nil {
		return fmt.Errorf("table %s: %w", tableName, err)
	}

	n := structs.Names(sampleEntry)
	fields := strings.Join(n, ", \n\t")

	createTableSQL := `CREATE TABLE IF NOT EXISTS ` + tableName +
		` (` + "\n\t" + fields + "\n" + `);`
	if _, err := t.Exec(createTableSQL); err != nil {
		return fmt.Errorf("creating table %s: %w", tableName, err)
	}

	t.tables[tableName] = &table{
		structType: reflect.TypeOf(sampleEntry),
	}

	return nil
}

func (t *sqliteWriter) InsertData(tableName string, entry any) {
	table, exists := t.tables[tableName]
	if !exists {
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	if reflect.TypeOf(entry) != table.structType {
		panic(fmt.Sprintf("table %s stores %s, got %T",
			tableName, table.structType, entry))
	}

	table.entries = append(table.entries, entry)

	t.entryCount++
	if t.entryCount >= t.batchSize {
		if err := t.Flush(); err != nil {
			panic(err)
		}
	}
}

func (t *sqliteWriter) ListTables() []string {
	tables := make([]string, 0, len(t.tables))
	for table := range t.tables {
		tables = append(tables, table)
	}

	return tables
}

func (t *sqliteWriter) Flush() error {
	if t.entryCount == 0 {
		return nil
	}

	tx, err := t.Begin()
	if err != nil {
		return err
	}

	for tableName, table := range t.tables {
		if len(table.entries) == 0 {
			continue
		}

		stmt, err := tx.Prepare(insertStatement(tableName, table.entries[0]))
		if err != nil {
			tx.Rollback()
			return err
		}

		for _, entry := range table.entries {
			if _, err := stmt.Exec(fieldValues(entry)...); err != nil {
				stmt.Close()
				tx.Rollback()

				return fmt.Errorf("inserting into %s: %w", tableName, err)
			}
		}

		stmt.Close()

		table.entries = nil
	}

	t.entryCount = 0

	return tx.Commit()
}

func (t *sqliteWriter) Close() error {
	if err := t.Flush(); err != nil {
		t.DB.Close()
		return err
	}

	return t.DB.Close()
}

func insertStatement(table string, entry any) string {
	n := structs.Names(entry)
	for i := 0; i < len(n); i++ {
		n[i] = "?"
	}

	return "INSERT INTO " + table + " VALUES (" + strings.Join(n, ", ") + ")"
}
