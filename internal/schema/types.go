package schema

// Schema is the full set of user tables extracted from one database.
type Schema struct {
	Tables []Table
}

// Lookup returns the table with the given name, or nil if it is not part of
// the schema.
func (s *Schema) Lookup(name string) *Table {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}

// TableNames returns the names of all tables in schema order.
func (s *Schema) TableNames() []string {
	names := make([]string, len(s.Tables))
	for i, t := range s.Tables {
		names[i] = t.Name
	}
	return names
}

// Table represents a database table.
type Table struct {
	Name        string
	Columns     []Column
	ForeignKeys []ForeignKey
	Indexes     []Index
}

// PrimaryKey returns the primary key column names in declaration order.
func (t *Table) PrimaryKey() []string {
	var pk []string
	for _, c := range t.Columns {
		if c.PrimaryKey {
			pk = append(pk, c.Name)
		}
	}
	return pk
}

// Column represents a table column.
type Column struct {
	Name         string
	Type         string
	Nullable     bool
	PrimaryKey   bool
	Unique       bool
	DefaultValue *string
}

// ForeignKey represents one foreign-key row: a reference from a column of the
// owning table to a column of the target table.
type ForeignKey struct {
	SourceColumn string
	TargetTable  string
	TargetColumn string
	OnDelete     string
	OnUpdate     string
}

// Index represents a database index.
type Index struct {
	Name    string
	Columns []string
	Unique  bool
}
