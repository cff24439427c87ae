// Package api provides interfaces for dependency injection
package api

import "context"

// ArchiveOpener opens the survey archive backing the server
type ArchiveOpener interface {
	// OpenArchive opens or creates the archive under dataDir
	OpenArchive(dataDir string) (ClosableArchive, error)
}

// ClosableArchive is a SurveyArchive that owns resources
type ClosableArchive interface {
	SurveyArchive
	Close() error
}

// ServerStarter defines the interface for starting the API server
type ServerStarter interface {
	// StartServer serves the API until ctx is cancelled
	StartServer(ctx context.Context, server *Server) error
}

// ServerFactory creates server instances
type ServerFactory interface {
	// CreateServerStarter creates a server starter
	CreateServerStarter() ServerStarter
}
