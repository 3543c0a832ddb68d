package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/de-tools/pulse-atlas/pkg/models/domain"
	"github.com/de-tools/pulse-atlas/pkg/models/store"
	"github.com/rs/zerolog"
)

// Source reads collections from <dir>/<collection>.json. A file holds either a
// JSON array of records or a list response object with an "items" array.
type Source struct {
	dir string
}

func NewSource(dir string) (*Source, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("open fixture directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	return &Source{dir: dir}, nil
}

func (s *Source) Path(collection domain.Collection) string {
	return filepath.Join(s.dir, string(collection)+".json")
}

func (s *Source) Fetch(ctx context.Context, collection domain.Collection) ([]store.Document, error) {
	path := s.Path(collection)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	docs, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("collection", string(collection)).
		Str("path", path).
		Int("records", len(docs)).
		Msg("collection read from file")
	return docs, nil
}

func decode(data []byte) ([]store.Document, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []store.Document{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	docs := make([]store.Document, 0)
	if data[0] == '[' {
		if err := dec.Decode(&docs); err != nil {
			return nil, err
		}
		return docs, nil
	}

	var list struct {
		Items []store.Document `json:"items"`
	}
	if err := dec.Decode(&list); err != nil {
		return nil, err
	}
	if list.Items != nil {
		docs = list.Items
	}
	return docs, nil
}

// Write stores documents as a JSON array, replacing the collection file
func (s *Source) Write(collection domain.Collection, docs []store.Document) error {
	if docs == nil {
		docs = []store.Document{}
	}
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}
	return os.WriteFile(s.Path(collection), data, 0o644)
}
