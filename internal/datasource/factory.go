package datasource

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/set-predictor/internal/config"
	"github.com/yourusername/set-predictor/internal/models"
)

// SourceType represents the type of data source
type SourceType string

const (
	// SackmannSourceType downloads the published tour archives
	SackmannSourceType SourceType = sackmannSourceName
	// CSVFileSourceType reads archives from a local directory
	CSVFileSourceType SourceType = csvFileSourceName
)

// Factory creates MatchSource implementations based on configuration
type Factory struct {
	logger *logrus.Logger
}

// NewFactory creates a new data source factory
func NewFactory(logger *logrus.Logger) *Factory {
	return &Factory{logger: logger}
}

// HTTPClientConfigFrom builds client settings from the data source section
func HTTPClientConfigFrom(cfg config.DataSourceConfig) HTTPClientConfig {
	httpCfg := DefaultHTTPClientConfig()
	if cfg.TimeoutSeconds > 0 {
		httpCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	if cfg.RateLimitPerSecond > 0 {
		httpCfg.RateLimit = cfg.RateLimitPerSecond
	}
	httpCfg.MaxRetries = cfg.MaxRetries
	return httpCfg
}

// NewMatchSource creates the configured MatchSource. httpClient may be nil for
// sources that do not use the network; one is built from cfg when needed.
func (f *Factory) NewMatchSource(cfg config.DataSourceConfig, httpClient *RateLimitedHTTPClient) (MatchSource, error) {
	tours, err := parseTours(cfg.Tours)
	if err != nil {
		return nil, err
	}
	if len(cfg.Years) == 0 {
		return nil, fmt.Errorf("no match years configured")
	}

	switch SourceType(cfg.Type) {
	case SackmannSourceType:
		if httpClient == nil {
			httpClient = NewRateLimitedHTTPClient(HTTPClientConfigFrom(cfg), f.logger)
		}
		return NewSackmannSource(httpClient, SackmannOptions{
			ATPBaseURL: cfg.ATPBaseURL,
			WTABaseURL: cfg.WTABaseURL,
			Tours:      tours,
			Years:      cfg.Years,
			Token:      cfg.Token,
		}, f.logger), nil

	case CSVFileSourceType:
		if cfg.Directory == "" {
			return nil, fmt.Errorf("csv_file source requires a directory")
		}
		return NewCSVFileSource(cfg.Directory, tours, cfg.Years, f.logger), nil

	default:
		return nil, fmt.Errorf("unknown data source type: %s", cfg.Type)
	}
}

// ListAvailableSources returns a list of available source types
func (f *Factory) ListAvailableSources() []SourceType {
	return []SourceType{SackmannSourceType, CSVFileSourceType}
}

func parseTours(raw []string) ([]models.Gender, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("no tours configured")
	}
	seen := make(map[models.Gender]bool, len(raw))
	tours := make([]models.Gender, 0, len(raw))
	for _, r := range raw {
		g, err := models.ParseGender(r)
		if err != nil {
			return nil, err
		}
		if !seen[g] {
			seen[g] = true
			tours = append(tours, g)
		}
	}
	return tours, nil
}
