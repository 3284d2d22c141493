// Package weather fetches typical meteorological year data for a site.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/aclements/bipv/solar"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the PVGIS API root.
	DefaultBaseURL = "https://re.jrc.ec.europa.eu/api/v5_2"
	// DefaultTimeout bounds a whole TMY fetch, including retries.
	DefaultTimeout = 60 * time.Second

	tmyTimeLayout = "20060102:1504"
)

var ErrNoRows = errors.New("response has no hourly rows")

// A Provider returns one representative year of hourly weather for a
// location.
type Provider interface {
	TMY(ctx context.Context, latitude, longitude float64) (*solar.HourlySeries, error)
}

// PVGIS is a client for the EU JRC PVGIS typical meteorological year
// service.
type PVGIS struct {
	baseURL    string
	timeout    time.Duration
	maxRetries uint64
	httpClient *http.Client
	logger     *zap.Logger

	// retryInterval is the first backoff delay.
	retryInterval time.Duration
}

// NewPVGIS creates a PVGIS client. A zero timeout means DefaultTimeout.
func NewPVGIS(baseURL string, timeout time.Duration, maxRetries int, logger *zap.Logger) *PVGIS {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PVGIS{
		baseURL:       baseURL,
		timeout:       timeout,
		maxRetries:    uint64(maxRetries),
		httpClient:    &http.Client{Timeout: timeout},
		logger:        logger.Named("pvgis"),
		retryInterval: 500 * time.Millisecond,
	}
}

// tmyResponse is the subset of the PVGIS TMY JSON output we use.
type tmyResponse struct {
	Outputs struct {
		TMYHourly []tmyRow `json:"tmy_hourly"`
	} `json:"outputs"`
}

type tmyRow struct {
	Time string  `json:"time(UTC)"`
	T2m  float64 `json:"T2m"`  // °C
	GHI  float64 `json:"G(h)"` // W/m²
	DNI  float64 `json:"Gb(n)"`
	DHI  float64 `json:"Gd(h)"`
	SP   float64 `json:"SP"` // Pa
}

// StatusError is returned when PVGIS answers with a non-200 status.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("PVGIS returned status %d: %s", e.Status, e.Body)
}

// TMY fetches the typical meteorological year at a location. Server
// errors and transport failures are retried with exponential backoff;
// client errors are not.
func (c *PVGIS) TMY(ctx context.Context, latitude, longitude float64) (*solar.HourlySeries, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint, err := c.tmyURL(latitude, longitude)
	if err != nil {
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}

	c.logger.Info("Fetching TMY from PVGIS",
		zap.Float64("latitude", latitude),
		zap.Float64("longitude", longitude))

	var body []byte
	op := func() error {
		var err error
		body, err = c.get(ctx, endpoint)
		return err
	}
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryInterval
	notify := func(err error, d time.Duration) {
		c.logger.Warn("PVGIS request failed, retrying",
			zap.Error(err),
			zap.Duration("backoff", d))
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(backoff.WithMaxRetries(bo, c.maxRetries), ctx), notify); err != nil {
		c.logger.Error("PVGIS request failed", zap.Error(err))
		return nil, err
	}

	s, err := parseTMY(body)
	if err != nil {
		return nil, err
	}
	c.logger.Info("Got TMY from PVGIS", zap.Int("rows", s.Len()))
	return s, nil
}

func (c *PVGIS) tmyURL(latitude, longitude float64) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	u = u.JoinPath("tmy")
	q := u.Query()
	q.Set("lat", strconv.FormatFloat(latitude, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(longitude, 'f', -1, 64))
	q.Set("outputformat", "json")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// get performs one request. Errors that retrying can't fix are wrapped
// as permanent.
func (c *PVGIS) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call PVGIS: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		err := &StatusError{Status: resp.StatusCode, Body: string(body)}
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, err
		}
		return nil, backoff.Permanent(err)
	}
	return body, nil
}

func parseTMY(body []byte) (*solar.HourlySeries, error) {
	var resp tmyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	rows := resp.Outputs.TMYHourly
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	s := &solar.HourlySeries{
		Times:    make([]time.Time, len(rows)),
		DNI:      make([]float64, len(rows)),
		GHI:      make([]float64, len(rows)),
		DHI:      make([]float64, len(rows)),
		TempAir:  make([]float64, len(rows)),
		Pressure: make([]float64, len(rows)),
	}
	for i, r := range rows {
		t, err := time.Parse(tmyTimeLayout, r.Time)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad time %q: %w", i, r.Time, err)
		}
		s.Times[i] = t
		s.DNI[i], s.GHI[i], s.DHI[i] = r.DNI, r.GHI, r.DHI
		s.TempAir[i], s.Pressure[i] = r.T2m, r.SP
	}
	return s, nil
}
