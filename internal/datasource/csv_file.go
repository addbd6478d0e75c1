package datasource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/set-predictor/internal/models"
)

const csvFileSourceName = "csv_file"

// CSVFileSource reads match logs from a local directory using the same
// file names as the published archive
type CSVFileSource struct {
	dir    string
	tours  []models.Gender
	years  []int
	parser *MatchCSVParser
	logger *logrus.Entry
}

// NewCSVFileSource creates a source over dir
func NewCSVFileSource(dir string, tours []models.Gender, years []int, logger *logrus.Logger) *CSVFileSource {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &CSVFileSource{
		dir:    dir,
		tours:  tours,
		years:  years,
		parser: NewMatchCSVParser(logger),
		logger: logger.WithField("source", csvFileSourceName),
	}
}

// Name returns the data source name
func (s *CSVFileSource) Name() string {
	return csvFileSourceName
}

// FetchMatchRecords reads every configured tour and year from disk
func (s *CSVFileSource) FetchMatchRecords(ctx context.Context) ([]models.MatchRecord, error) {
	var all []models.MatchRecord

	for _, gender := range s.tours {
		for _, year := range s.years {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			records, err := s.readFile(filepath.Join(s.dir, MatchFileName(gender, year)), gender)
			if err != nil {
				return nil, err
			}
			all = append(all, records...)
		}
	}

	return all, nil
}

func (s *CSVFileSource) readFile(path string, gender models.Gender) ([]models.MatchRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewDataSourceError(csvFileSourceName, ErrCodeNotFound, "match file not found: "+path, ErrNotFound)
		}
		return nil, NewDataSourceError(csvFileSourceName, ErrCodeUnknown, "failed to open "+path, err)
	}
	defer f.Close()

	records, stats, err := s.parser.Parse(f, gender)
	if err != nil {
		return nil, NewDataSourceError(csvFileSourceName, ErrCodeInvalidData, fmt.Sprintf("failed to parse %s", path), err)
	}

	s.logger.WithFields(logrus.Fields{
		"path":       path,
		"records":    stats.Records,
		"malformed":  stats.Malformed,
		"unmodelled": stats.Unmodelled,
	}).Debug("Match file read")

	return records, nil
}
