// Package api provides factory implementations for dependency injection
package api

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ssargent/survex3d/pkg/storage"
)

// DefaultArchiveOpener opens a pebble-backed archive
type DefaultArchiveOpener struct{}

// NewArchiveOpener creates a new archive opener
func NewArchiveOpener() ArchiveOpener {
	return &DefaultArchiveOpener{}
}

// OpenArchive opens the archive in dataDir/surveys
func (o *DefaultArchiveOpener) OpenArchive(dataDir string) (ClosableArchive, error) {
	if err := os.MkdirAll(dataDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	archive, err := storage.Open(filepath.Join(dataDir, "surveys"))
	if err != nil {
		return nil, err
	}
	return archive, nil
}

// DefaultServerFactory is the default implementation of ServerFactory
type DefaultServerFactory struct{}

// NewServerFactory creates a new server factory
func NewServerFactory() ServerFactory {
	return &DefaultServerFactory{}
}

// CreateServerStarter creates a server starter
func (f *DefaultServerFactory) CreateServerStarter() ServerStarter {
	return &DefaultServerStarter{}
}

// DefaultServerStarter is the default implementation of ServerStarter
type DefaultServerStarter struct{}

// StartServer starts the API server
func (s *DefaultServerStarter) StartServer(ctx context.Context, server *Server) error {
	return StartServer(ctx, server)
}
