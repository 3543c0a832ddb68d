package domain

import "fmt"

// SourceKind is the backend a record source profile points to
type SourceKind string

const (
	SourceKindPocketBase SourceKind = "pocketbase"
	SourceKindDuckDB     SourceKind = "duckdb"
	SourceKindFile       SourceKind = "file"
)

type SourceProfile struct {
	Name  string
	Kind  SourceKind
	URL   string
	Token string
	Path  string
}

func (c SourceProfile) String() string {
	return fmt.Sprintf("%s:%s", c.Kind, c.Name)
}
