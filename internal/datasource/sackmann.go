package datasource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/set-predictor/internal/models"
)

const sackmannSourceName = "sackmann"

// SackmannSource downloads the yearly tour match logs over HTTP
type SackmannSource struct {
	httpClient *RateLimitedHTTPClient
	parser     *MatchCSVParser
	baseURLs   map[models.Gender]string
	tours      []models.Gender
	years      []int
	token      string
	logger     *logrus.Entry
}

// SackmannOptions configures a SackmannSource
type SackmannOptions struct {
	ATPBaseURL string
	WTABaseURL string
	Tours      []models.Gender
	Years      []int
	Token      string
}

// NewSackmannSource creates a source reading {base}/{atp|wta}_matches_{year}.csv
func NewSackmannSource(httpClient *RateLimitedHTTPClient, opts SackmannOptions, logger *logrus.Logger) *SackmannSource {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &SackmannSource{
		httpClient: httpClient,
		parser:     NewMatchCSVParser(logger),
		baseURLs: map[models.Gender]string{
			models.GenderMale:   strings.TrimRight(opts.ATPBaseURL, "/"),
			models.GenderFemale: strings.TrimRight(opts.WTABaseURL, "/"),
		},
		tours:  opts.Tours,
		years:  opts.Years,
		token:  opts.Token,
		logger: logger.WithField("source", sackmannSourceName),
	}
}

// Name returns the data source name
func (s *SackmannSource) Name() string {
	return sackmannSourceName
}

// FileURL returns the download URL for one tour and year
func (s *SackmannSource) FileURL(gender models.Gender, year int) string {
	return fmt.Sprintf("%s/%s", s.baseURLs[gender], MatchFileName(gender, year))
}

// FetchMatchRecords downloads every configured tour and year. Any failed file
// fails the whole fetch so a partial table never replaces a complete one.
func (s *SackmannSource) FetchMatchRecords(ctx context.Context) ([]models.MatchRecord, error) {
	var all []models.MatchRecord

	for _, gender := range s.tours {
		for _, year := range s.years {
			records, err := s.fetchFile(ctx, gender, year)
			if err != nil {
				return nil, err
			}
			all = append(all, records...)
		}
	}

	return all, nil
}

func (s *SackmannSource) fetchFile(ctx context.Context, gender models.Gender, year int) ([]models.MatchRecord, error) {
	url := s.FileURL(gender, year)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewDataSourceError(sackmannSourceName, ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Accept", "text/csv")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewDataSourceError(sackmannSourceName, ErrCodeNetworkError, "failed to download "+url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, NewDataSourceError(sackmannSourceName, ErrCodeAuthenticationFailed, "access denied for "+url, ErrAuthenticationFailed)
	case resp.StatusCode == http.StatusNotFound:
		return nil, NewDataSourceError(sackmannSourceName, ErrCodeNotFound, "match file not found: "+url, ErrNotFound)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, NewDataSourceError(sackmannSourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", ErrRateLimitExceeded)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, NewDataSourceError(sackmannSourceName, ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), ErrServerError)
	}

	records, stats, err := s.parser.Parse(resp.Body, gender)
	if err != nil {
		return nil, NewDataSourceError(sackmannSourceName, ErrCodeInvalidData, "failed to parse "+url, err)
	}

	s.logger.WithFields(logrus.Fields{
		"tour":       gender.Tour(),
		"year":       year,
		"rows":       stats.Rows,
		"records":    stats.Records,
		"malformed":  stats.Malformed,
		"unmodelled": stats.Unmodelled,
	}).Debug("Match file downloaded")

	return records, nil
}

// MatchFileName returns the published file name for a tour and year
func MatchFileName(gender models.Gender, year int) string {
	return fmt.Sprintf("%s_matches_%d.csv", strings.ToLower(gender.Tour()), year)
}
