// Package neograph is the adapter to the Neo4j property graph. It executes
// one parametrized statement per call and returns rows as ordered field to
// value mappings.
package neograph

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// Config holds the connection settings for the graph database.
type Config struct {
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
	Password string
}

// Store owns a long-lived driver. It is created once at startup, injected
// into the components that need it and released with Close.
type Store struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// New connects to the graph database and verifies connectivity before
// returning the store.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Store, error) {
	uri := strings.TrimSpace(cfg.URI)
	if uri == "" {
		return nil, errors.New("neo4j uri is required")
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("verify neo4j connectivity: %w", err)
	}

	logger.Debug("connected to neo4j", zap.String("uri", uri))

	return &Store{driver: driver, logger: logger}, nil
}

// Run executes a single read query and returns the result rows in order.
func (s *Store) Run(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	return s.run(ctx, query, params, neo4j.AccessModeRead)
}

// RunWrite executes a single mutation statement.
func (s *Store) RunWrite(ctx context.Context, query string, params map[string]any) error {
	_, err := s.run(ctx, query, params, neo4j.AccessModeWrite)
	return err
}

func (s *Store) run(ctx context.Context, query string, params map[string]any, mode neo4j.AccessMode) ([]map[string]any, error) {
	if s == nil || s.driver == nil {
		return nil, errors.New("graph store is not initialized")
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: mode})
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("run graph query: %w", err)
	}

	var rows []map[string]any
	for result.Next(ctx) {
		record := result.Record()
		row := make(map[string]any, len(record.Keys))
		for i, key := range record.Keys {
			row[key] = record.Values[i]
		}
		rows = append(rows, row)
	}

	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("consume graph result: %w", err)
	}

	return rows, nil
}

// Close releases the underlying driver resources.
func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.driver == nil {
		return nil
	}
	return s.driver.Close(ctx)
}
