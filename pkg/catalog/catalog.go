// Package catalog maintains schema snapshots for connected datasources. A
// snapshot is extracted once per datasource identity and served from cache
// until the datasource is reconnected.
package catalog

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/querylens/querylens/pkg/apperrors"
	"github.com/querylens/querylens/pkg/datasource"
	"github.com/querylens/querylens/pkg/logging"
)

// ColumnInfo describes one column of a table.
type ColumnInfo struct {
	Type       string  `json:"type"`
	Nullable   bool    `json:"nullable"`
	Default    *string `json:"default"`
	PrimaryKey bool    `json:"primary_key"`
}

// ForeignKeyEdge is one outbound foreign key of a table.
type ForeignKeyEdge struct {
	Column           string `json:"column"`
	ReferencedTable  string `json:"referenced_table"`
	ReferencedColumn string `json:"referenced_column"`
}

// TableInfo describes one table. ColumnOrder preserves declaration order;
// Columns is keyed by column name.
type TableInfo struct {
	ColumnOrder []string              `json:"column_order"`
	Columns     map[string]ColumnInfo `json:"columns"`
	ForeignKeys []ForeignKeyEdge      `json:"foreign_keys"`
}

// Relationship is a foreign-key edge flattened to the schema level.
type Relationship struct {
	FromTable  string `json:"from_table"`
	FromColumn string `json:"from_column"`
	ToTable    string `json:"to_table"`
	ToColumn   string `json:"to_column"`
}

// Snapshot is the full extracted schema of one datasource.
type Snapshot struct {
	TableOrder    []string             `json:"table_order"`
	Tables        map[string]TableInfo `json:"tables"`
	Relationships []Relationship       `json:"relationships"`
	Description   string               `json:"natural_language_description"`
}

// Service extracts and caches snapshots. The cache key is the datasource's
// normalized identity, so two handles pointing at the same store share one
// snapshot.
type Service struct {
	logger *zap.Logger

	mu     sync.RWMutex
	cache  map[string]*Snapshot
	builds map[string]*sync.Mutex
}

// NewService creates a Service. If logger is nil, a no-op logger is used.
func NewService(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		logger: logger,
		cache:  make(map[string]*Snapshot),
		builds: make(map[string]*sync.Mutex),
	}
}

// Snapshot returns the schema of the datasource behind handle, extracting it
// on first use. Concurrent callers for the same identity share one
// extraction; callers for different identities do not block each other.
func (s *Service) Snapshot(ctx context.Context, handle *datasource.Handle) (*Snapshot, error) {
	s.mu.RLock()
	snap, ok := s.cache[handle.Identity]
	s.mu.RUnlock()
	if ok {
		return snap, nil
	}

	build := s.buildLock(handle.Identity)
	build.Lock()
	defer build.Unlock()

	// Another caller may have finished the build while we waited.
	s.mu.RLock()
	snap, ok = s.cache[handle.Identity]
	s.mu.RUnlock()
	if ok {
		return snap, nil
	}

	snap, err := extract(ctx, handle.Extractor)
	if err != nil {
		s.logger.Error("schema extraction failed",
			zap.String("datasource", logging.SanitizeLocator(handle.Identity)),
			zap.Error(err))
		return nil, &apperrors.SchemaExtractionError{Cause: err}
	}

	s.mu.Lock()
	s.cache[handle.Identity] = snap
	s.mu.Unlock()

	s.logger.Info("schema snapshot cached",
		zap.String("datasource", logging.SanitizeLocator(handle.Identity)),
		zap.Int("tables", len(snap.TableOrder)))
	return snap, nil
}

// Invalidate drops the cached snapshot for identity. Other identities keep
// their entries.
func (s *Service) Invalidate(identity string) {
	s.mu.Lock()
	delete(s.cache, identity)
	s.mu.Unlock()
}

// TableExists reports whether table is part of the datasource's schema. It
// never returns an error; an unreachable datasource reads as "not found".
func (s *Service) TableExists(ctx context.Context, handle *datasource.Handle, table string) bool {
	snap, err := s.Snapshot(ctx, handle)
	if err != nil {
		return false
	}
	_, ok := snap.Tables[table]
	return ok
}

// SampleRows returns up to limit rows of table as column-keyed maps. It is a
// best-effort helper for context building; failures yield an empty slice.
func (s *Service) SampleRows(ctx context.Context, handle *datasource.Handle, table string, limit int) []map[string]any {
	if !s.TableExists(ctx, handle, table) {
		return []map[string]any{}
	}

	result, err := handle.Executor.Query(ctx, `SELECT * FROM `+quoteIdent(table), limit)
	if err != nil {
		s.logger.Warn("sample rows unavailable",
			zap.String("table", table),
			zap.String("error", logging.SanitizeError(err)))
		return []map[string]any{}
	}

	samples := make([]map[string]any, 0, len(result.Rows))
	for _, row := range result.Rows {
		m := make(map[string]any, len(result.Columns))
		for i, col := range result.Columns {
			m[col] = row[i]
		}
		samples = append(samples, m)
	}
	return samples
}

func (s *Service) buildLock(identity string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.builds[identity]; ok {
		return m
	}
	m := &sync.Mutex{}
	s.builds[identity] = m
	return m
}

func extract(ctx context.Context, extractor datasource.SchemaExtractor) (*Snapshot, error) {
	tables, err := extractor.GetTables(ctx)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		TableOrder:    tables,
		Tables:        make(map[string]TableInfo, len(tables)),
		Relationships: make([]Relationship, 0),
	}

	for _, table := range tables {
		columns, err := extractor.GetColumns(ctx, table)
		if err != nil {
			return nil, err
		}
		fks, err := extractor.GetForeignKeys(ctx, table)
		if err != nil {
			return nil, err
		}

		info := TableInfo{
			ColumnOrder: make([]string, 0, len(columns)),
			Columns:     make(map[string]ColumnInfo, len(columns)),
			ForeignKeys: make([]ForeignKeyEdge, 0, len(fks)),
		}
		for _, col := range columns {
			info.ColumnOrder = append(info.ColumnOrder, col.Name)
			info.Columns[col.Name] = ColumnInfo{
				Type:       col.DataType,
				Nullable:   col.IsNullable,
				Default:    col.Default,
				PrimaryKey: col.IsPrimary,
			}
		}
		for _, fk := range fks {
			info.ForeignKeys = append(info.ForeignKeys, ForeignKeyEdge{
				Column:           fk.Column,
				ReferencedTable:  fk.ReferencedTable,
				ReferencedColumn: fk.ReferencedColumn,
			})
			snap.Relationships = append(snap.Relationships, Relationship{
				FromTable:  table,
				FromColumn: fk.Column,
				ToTable:    fk.ReferencedTable,
				ToColumn:   fk.ReferencedColumn,
			})
		}
		snap.Tables[table] = info
	}

	snap.Description = describe(snap)
	return snap, nil
}

func quoteIdent(name string) string {
	quoted := `"`
	for _, r := range name {
		if r == '"' {
			quoted += `""`
			continue
		}
		quoted += string(r)
	}
	return quoted + `"`
}
