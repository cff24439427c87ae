package api

import (
	"github.com/segmentio/ksuid"
	"github.com/ssargent/survex3d/pkg/img3d"
	"github.com/ssargent/survex3d/pkg/storage"
	"github.com/ssargent/survex3d/pkg/survey"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Bind        string
	Port        int
	APIKey      string
	MaxFileSize int64 // Upload limit in bytes
}

// SurveySummary describes one archived survey
type SurveySummary struct {
	ID     ksuid.KSUID   `json:"id"`
	Header img3d.Header  `json:"header"`
	Totals survey.Totals `json:"totals"`
}

// SurveyArchive defines the archive operations the API needs
type SurveyArchive interface {
	Put(raw []byte) (ksuid.KSUID, error)
	Get(id ksuid.KSUID) ([]byte, error)
	Delete(id ksuid.KSUID) error
	List() ([]storage.Entry, error)
	Count() (int, error)
}
