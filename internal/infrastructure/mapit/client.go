// Package mapit talks to a MapIt instance (mapit.openup.org.za), the
// remote boundary service used when the local dataset does not cover a
// point.
package mapit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/municipal-boundary-service/internal/config"
	"github.com/municipal-boundary-service/internal/domain"
	"github.com/municipal-boundary-service/internal/domain/repository"
	apperrors "github.com/municipal-boundary-service/internal/pkg/errors"
)

// MapIt area type names as returned for the ZA hierarchy.
const (
	typeNameProvince     = "Province"
	typeNameDistrict     = "District"
	typeNameMunicipality = "Municipality"
)

type area struct {
	Name     string            `json:"name"`
	TypeName string            `json:"type_name"`
	Type     string            `json:"type"`
	Codes    map[string]string `json:"codes"`
}

type client struct {
	httpClient   *http.Client
	baseURL      string
	retryBackoff time.Duration
	logger       *zap.Logger
}

// NewMapItClient creates the fallback client. The HTTP timeout bounds each
// attempt so a slow remote cannot stall resolution.
func NewMapItClient(cfg *config.MapItConfig, logger *zap.Logger) repository.FallbackRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
		},
		baseURL:      cfg.BaseURL,
		retryBackoff: cfg.RetryBackoff,
		logger:       logger,
	}
}

// Lookup queries the point endpoint and normalizes the keyed-area response
// into a Hierarchy. An empty response body is a legitimate terminal
// outcome (point outside any known unit), returned as an empty Hierarchy
// with a nil error. Transient failures get a single retry with backoff
// before surfacing as REMOTE_TIMEOUT or REMOTE_UNAVAILABLE.
func (c *client) Lookup(ctx context.Context, p domain.Point) (*domain.Hierarchy, error) {
	// MapIt takes lon,lat order for SRID 4326.
	reqURL := fmt.Sprintf("%s/point/4326/%f,%f?type=PR,DC,MN", c.baseURL, p.Lon, p.Lat)

	areas, err := c.fetch(ctx, reqURL)
	if err != nil && isTransient(err) {
		c.logger.Warn("MapIt lookup failed, retrying once",
			zap.Float64("lat", p.Lat),
			zap.Float64("lon", p.Lon),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return nil, apperrors.ErrRemoteTimeout
		case <-time.After(c.retryBackoff):
		}
		areas, err = c.fetch(ctx, reqURL)
	}
	if err != nil {
		return nil, classify(err)
	}

	return normalize(areas), nil
}

// transientError marks failures worth one retry.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func isTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

func (c *client) fetch(ctx context.Context, reqURL string) (map[string]area, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &transientError{err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusNotFound:
		// MapIt answers 404 for points outside every known generation:
		// a legitimate "nothing here", not a failure.
		return map[string]area{}, nil
	case resp.StatusCode >= http.StatusInternalServerError:
		body, _ := io.ReadAll(resp.Body)
		return nil, &transientError{err: fmt.Errorf("mapit status %d: %s", resp.StatusCode, string(body))}
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("mapit status %d: %s", resp.StatusCode, string(body))
	}

	var areas map[string]area
	if err := json.NewDecoder(resp.Body).Decode(&areas); err != nil {
		return nil, fmt.Errorf("failed to decode mapit response: %w", err)
	}
	return areas, nil
}

// classify maps transport failures onto the public error contract.
func classify(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) && ue.Timeout() {
		return apperrors.ErrRemoteTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.ErrRemoteTimeout
	}
	return apperrors.ErrRemoteUnavailable.WithDetails(map[string]interface{}{
		"cause": err.Error(),
	})
}

// normalize maps MapIt areas onto the hierarchy triple. Metros come back
// as a municipality without a district; by convention the metro is its own
// district, so the invariant "municipality implies district and province"
// holds for remote answers too.
func normalize(areas map[string]area) *domain.Hierarchy {
	var h domain.Hierarchy
	for _, a := range areas {
		name := a.Name
		switch a.TypeName {
		case typeNameProvince:
			h.Province = &name
		case typeNameDistrict:
			h.District = &name
		case typeNameMunicipality:
			h.Municipality = &name
			if code, ok := a.Codes["MDB"]; ok && code != "" {
				h.MunicipalityCode = &code
			}
		}
	}
	if h.Municipality != nil && h.District == nil {
		h.District = h.Municipality
	}
	return &h
}
