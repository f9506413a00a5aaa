package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/joacominatel/omnidb/internal/config"
	"github.com/joacominatel/omnidb/internal/database"
)

// Opener connects a pool for a URL. database.Open is the default.
type Opener func(ctx context.Context, url string, logger *slog.Logger) (database.Pool, error)

// RecordPage is one page of a table's rows.
type RecordPage struct {
	Database database.Database
	Table    database.Table
	Page     int
	Filter   string
	Headers  []string
	Rows     [][]string
}

// HasNext reports whether a following page may hold rows.
func (p *RecordPage) HasNext() bool {
	return len(p.Rows) == database.RecordsLimitPerPage
}

// TableMetadata holds the four metadata row sets of a table.
type TableMetadata struct {
	Columns     []database.TableRow
	Constraints []database.TableRow
	ForeignKeys []database.TableRow
	Indexes     []database.TableRow
}

// Rows returns the row set of the given kind.
func (m *TableMetadata) Rows(kind database.RowKind) []database.TableRow {
	switch kind {
	case database.RowColumn:
		return m.Columns
	case database.RowConstraint:
		return m.Constraints
	case database.RowForeignKey:
		return m.ForeignKeys
	case database.RowIndex:
		return m.Indexes
	default:
		return nil
	}
}

// Service coordinates application-level operations between the UI and a pool.
type Service struct {
	open   Opener
	logger *slog.Logger

	mu     sync.RWMutex
	pool   database.Pool
	url    string
	engine string
}

// NewService creates a service that opens pools through the engine registry.
func NewService(logger *slog.Logger) *Service {
	return NewServiceWithOpener(database.Open, logger)
}

// NewServiceWithOpener creates a service with a custom opener.
func NewServiceWithOpener(open Opener, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{open: open, logger: logger}
}

// Connect opens a pool for url, closing any previous one.
func (s *Service) Connect(ctx context.Context, url string) error {
	pool, err := s.open(ctx, url, s.logger)
	if err != nil {
		return err
	}
	engine, _ := database.EngineFor(url)

	s.mu.Lock()
	old := s.pool
	s.pool, s.url, s.engine = pool, url, engine
	s.mu.Unlock()

	if old != nil {
		if err := old.Close(); err != nil {
			s.logger.Warn("close previous pool", slog.Any("error", err))
		}
	}
	s.logger.Info("connected", slog.String("engine", engine))
	return nil
}

// ConnectProfile resolves a saved profile's password and connects to it.
func (s *Service) ConnectProfile(ctx context.Context, conn config.Connection) error {
	resolved, err := config.ResolvePassword(conn)
	if err != nil {
		return &ConfigError{Cause: err}
	}
	return s.Connect(ctx, resolved.DSN())
}

// Disconnect closes the pool.
func (s *Service) Disconnect() error {
	s.mu.Lock()
	pool := s.pool
	s.pool, s.url, s.engine = nil, "", ""
	s.mu.Unlock()

	if pool == nil {
		return nil
	}
	return pool.Close()
}

// Connected reports whether a pool is open.
func (s *Service) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pool != nil
}

// Engine returns the name of the connected engine.
func (s *Service) Engine() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

func (s *Service) current() (database.Pool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pool == nil {
		return nil, ErrNotConnected
	}
	return s.pool, nil
}

// LoadDatabases fetches every database with its table tree.
func (s *Service) LoadDatabases(ctx context.Context) ([]database.Database, error) {
	pool, err := s.current()
	if err != nil {
		return nil, err
	}
	dbs, err := pool.GetDatabases(ctx)
	if err != nil {
		return nil, fmt.Errorf("load databases: %w", err)
	}
	return dbs, nil
}

// LoadRecords fetches one page of a table, optionally filtered.
func (s *Service) LoadRecords(ctx context.Context, db database.Database, table database.Table, page int, filter string) (*RecordPage, error) {
	pool, err := s.current()
	if err != nil {
		return nil, err
	}
	if page < 0 {
		page = 0
	}
	headers, rows, err := pool.GetRecords(ctx, db, table, page, filter)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	return &RecordPage{
		Database: db,
		Table:    table,
		Page:     page,
		Filter:   filter,
		Headers:  headers,
		Rows:     rows,
	}, nil
}

// LoadMetadata fetches one kind of metadata rows for a table.
func (s *Service) LoadMetadata(ctx context.Context, kind database.RowKind, db database.Database, table database.Table) ([]database.TableRow, error) {
	pool, err := s.current()
	if err != nil {
		return nil, err
	}
	var rows []database.TableRow
	switch kind {
	case database.RowColumn:
		rows, err = pool.GetColumns(ctx, db, table)
	case database.RowConstraint:
		rows, err = pool.GetConstraints(ctx, db, table)
	case database.RowForeignKey:
		rows, err = pool.GetForeignKeys(ctx, db, table)
	case database.RowIndex:
		rows, err = pool.GetIndexes(ctx, db, table)
	default:
		return nil, fmt.Errorf("unknown metadata kind %d", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", kind, err)
	}
	return rows, nil
}

// LoadTableMetadata fetches all four metadata row sets concurrently.
func (s *Service) LoadTableMetadata(ctx context.Context, db database.Database, table database.Table) (*TableMetadata, error) {
	meta := &TableMetadata{}
	targets := []struct {
		kind database.RowKind
		dst  *[]database.TableRow
	}{
		{database.RowColumn, &meta.Columns},
		{database.RowConstraint, &meta.Constraints},
		{database.RowForeignKey, &meta.ForeignKeys},
		{database.RowIndex, &meta.Indexes},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, t := range targets {
		g.Go(func() error {
			rows, err := s.LoadMetadata(gctx, t.kind, db, table)
			if err != nil {
				return err
			}
			*t.dst = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return meta, nil
}

// Execute runs a user statement.
func (s *Service) Execute(ctx context.Context, query string) (*database.ExecuteResult, error) {
	pool, err := s.current()
	if err != nil {
		return nil, err
	}
	s.logger.Debug("execute", slog.String("sql", query))
	return pool.Execute(ctx, query)
}
