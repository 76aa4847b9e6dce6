// Package datarecording exports what happens during a simulation into an
// SQLite database, for later inspection.
package datarecording

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"reflect"
	"strings"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// DataRecorder is a backend that can record and store data
type DataRecorder interface {
	// CreateTable creates a new table whose columns are the fields of the
	// sample entry.
	CreateTable(tableName string, sampleEntry any) error

	// InsertData buffers an entry for a table that already exists.
	InsertData(tableName string, entry any) error

	// ListTables returns the names of all the tables created.
	ListTables() []string

	// Flush writes all the buffered entries into the database.
	Flush() error

	// Close flushes and closes the database.
	Close() error
}

// New creates a DataRecorder writing to path + ".sqlite3". An empty path
// picks a unique name. The file must not exist yet.
func New(path string) (DataRecorder, error) {
	if path == "" {
		path = "piggybank_trace_" + xid.New().String()
	}

	filename := path + ".sqlite3"

	_, err := os.Stat(filename)
	if err == nil {
		return nil, fmt.Errorf("file %s already exists", filename)
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filename, err)
	}

	fmt.Fprintf(os.Stderr, "Database created for recording: %s\n", filename)

	return NewWithDB(db), nil
}

// NewWithDB creates a new DataRecorder with a given database.
func NewWithDB(db *sql.DB) DataRecorder {
	w := &sqliteWriter{
		DB:        db,
		batchSize: 10000,
		tables:    make(map[string]*table),
	}

	atexit.Register(func() {
		if err := w.Flush(); err != nil {
			log.Printf("flushing recorded data: %v", err)
		}
	})

	return w
}

type table struct {
	structType reflect.Type
	entries    []any
}

// sqliteWriter is the writer that writes data into SQLite database
type sqliteWriter struct {
	*sql.DB

	tables     map[string]*table
	tableNames []string
	batchSize  int
	entryCount int
	closed     bool
}

func (t *sqliteWriter) isAllowedType(kind reflect.Kind) bool {
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

func (t *sqliteWriter) checkStructFields(entry any) error {
	types := reflect.TypeOf(entry)
	if types.Kind() != reflect.Struct {
		return errors.New("entry must be a struct")
	}

	for i := 0; i < types.NumField(); i++ {
		field := types.Field(i)

		if !field.IsExported() || !t.isAllowedType(field.Type.Kind()) {
			return fmt.Errorf("field %s cannot be recorded", field.Name)
		}
	}

	return nil
}

func fieldNames(entry any) []string {
	types := reflect.TypeOf(entry)
	names := make([]string, types.NumField())

	for i := range names {
		names[i] = types.Field(i).Name
	}

	return names
}

func (t *sqliteWriter) CreateTable(tableName string, sampleEntry any) error {
	if _, exists := t.tables[tableName]; exists {
		return fmt.Errorf("table %s already exists", tableName)
	}

	err := t.checkStructFields(sampleEntry)
	if err != nil {
		return err
	}

	fields := strings.Join(fieldNames(sampleEntry), ", \n\t")

	createTableSQL := `CREATE TABLE ` + tableName +
		` (` + "\n\t" + fields + "\n" + `);`
	if _, err := t.Exec(createTableSQL); err != nil {
		return fmt.Errorf("creating table %s: %w", tableName, err)
	}

	t.tables[tableName] = &table{
		structType: reflect.TypeOf(sampleEntry),
	}
	t.tableNames = append(t.tableNames, tableName)

	return nil
}

func (t *sqliteWriter) InsertData(tableName string, entry any) error {
	table, exists := t.tables[tableName]
	if !exists {
		return fmt.Errorf("table %s does not exist", tableName)
	}

	if reflect.TypeOf(entry) != table.structType {
		return fmt.Errorf("entry of type %T does not match table %s",
			entry, tableName)
	}

	table.entries = append(table.entries, entry)

	t.entryCount++
	if t.entryCount >= t.batchSize {
		return t.Flush()
	}

	return nil
}

func (t *sqliteWriter) ListTables() []string {
	tables := make([]string, len(t.tableNames))
	copy(tables, t.tableNames)

	return tables
}

func (t *sqliteWriter) Flush() error {
	if t.entryCount == 0 || t.closed {
		return nil
	}

	tx, err := t.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}

	for _, tableName := range t.tableNames {
		table := t.tables[tableName]
		if len(table.entries) == 0 {
			continue
		}

		if err := t.insertEntries(tx, tableName, table); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	for _, table := range t.tables {
		table.entries = nil
	}

	t.entryCount = 0

	return nil
}

func (t *sqliteWriter) insertEntries(
	tx *sql.Tx,
	tableName string,
	table *table,
) error {
	stmt, err := tx.Prepare(insertStatement(tableName, table.entries[0]))
	if err != nil {
		return fmt.Errorf("preparing insert into %s: %w", tableName, err)
	}
	defer stmt.Close()

	for _, entry := range table.entries {
		v := []any{}

		values := reflect.ValueOf(entry)
		for i := 0; i < values.NumField(); i++ {
			v = append(v, values.Field(i).Interface())
		}

		_, err := stmt.Exec(v...)
		if err != nil {
			return fmt.Errorf("inserting into %s: %w", tableName, err)
		}
	}

	return nil
}

func insertStatement(tableName string, entry any) string {
	n := fieldNames(entry)
	for i := 0; i < len(n); i++ {
		n[i] = "?"
	}

	entryToFill := "(" + strings.Join(n, ", ") + ")"

	return "INSERT INTO " + tableName + " VALUES " + entryToFill
}

func (t *sqliteWriter) Close() error {
	if t.closed {
		return nil
	}

	if err := t.Flush(); err != nil {
		return err
	}

	t.closed = true

	return t.DB.Close()
}
