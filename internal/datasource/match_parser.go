package datasource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/set-predictor/internal/models"
)

// Columns read from the tour match logs
const (
	colSurface        = "surface"
	colWinnerName     = "winner_name"
	colLoserName      = "loser_name"
	colWinnerServePts = "w_svpt"
	colWinnerFirstWon = "w_1stWon"
	colLoserServePts  = "l_svpt"
	colLoserFirstWon  = "l_1stWon"
)

var requiredColumns = []string{
	colSurface, colWinnerName, colLoserName,
	colWinnerServePts, colWinnerFirstWon, colLoserServePts, colLoserFirstWon,
}

// ParseStats counts what happened to each row during parsing
type ParseStats struct {
	Rows       int
	Records    int
	Malformed  int
	Unmodelled int
}

// errUnmodelledSurface marks rows played on surfaces the model ignores
var errUnmodelledSurface = errors.New("unmodelled surface")

// MatchCSVParser decodes match log CSV files into match records
type MatchCSVParser struct {
	logger *logrus.Entry
}

// NewMatchCSVParser creates a new CSV parser
func NewMatchCSVParser(logger *logrus.Logger) *MatchCSVParser {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &MatchCSVParser{logger: logger.WithField("component", "csv_parser")}
}

// Parse reads a match log and tags every record with the given tour.
// Rows on surfaces other than Hard, Clay and Grass are dropped. Blank stat
// cells read as zero so the match still counts toward the player's sample
// size; cells that are present but not numeric drop the row.
func (p *MatchCSVParser) Parse(r io.Reader, gender models.Gender) ([]models.MatchRecord, ParseStats, error) {
	var stats ParseStats

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, stats, fmt.Errorf("%w: empty match file", ErrInvalidData)
		}
		return nil, stats, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, stats, err
	}

	var records []models.MatchRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("%w: line %d: %v", ErrInvalidData, stats.Rows+2, err)
		}
		stats.Rows++

		record, err := buildRecord(row, index, gender)
		if errors.Is(err, errUnmodelledSurface) {
			stats.Unmodelled++
			continue
		}
		if err != nil {
			stats.Malformed++
			p.logger.WithError(err).WithField("line", stats.Rows+1).Debug("Skipping malformed match row")
			continue
		}
		records = append(records, record)
	}

	stats.Records = len(records)
	return records, stats, nil
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", ErrInvalidData, strings.Join(missing, ", "))
	}
	return index, nil
}

func buildRecord(row []string, index map[string]int, gender models.Gender) (models.MatchRecord, error) {
	surface, err := models.ParseSurface(cell(row, index, colSurface))
	if err != nil {
		return models.MatchRecord{}, errUnmodelledSurface
	}

	record := models.MatchRecord{
		Surface:    surface,
		Gender:     gender,
		WinnerName: cell(row, index, colWinnerName),
		LoserName:  cell(row, index, colLoserName),
	}

	counts := []struct {
		col string
		dst *int
	}{
		{colWinnerServePts, &record.WinnerServePts},
		{colWinnerFirstWon, &record.WinnerFirstWon},
		{colLoserServePts, &record.LoserServePts},
		{colLoserFirstWon, &record.LoserFirstWon},
	}
	for _, c := range counts {
		n, err := parseCount(cell(row, index, c.col))
		if err != nil {
			return models.MatchRecord{}, fmt.Errorf("column %s: %w", c.col, err)
		}
		*c.dst = n
	}

	return record, nil
}

func cell(row []string, index map[string]int, col string) string {
	i := index[col]
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseCount accepts integers and the float form ("64.0") some exports use
func parseCount(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative count %d", n)
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || f != float64(int(f)) {
		return 0, fmt.Errorf("invalid count %q", s)
	}
	return int(f), nil
}
