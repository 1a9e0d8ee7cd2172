package tranehome

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/clambin/go-common/http/metrics"
	"github.com/clambin/go-common/http/roundtripper"
	"github.com/prometheus/client_golang/prometheus"
)

const baseURL = "https://www.tranehome.com/mobile"

// API talks to the Trane Home mobile API. It is a thin transport: one GET for
// the full house status, one POST for feature action endpoints. It imposes no
// retries and no timeouts of its own beyond the HTTP client's.
type API struct {
	HTTPClient *http.Client
	baseURL    string
	houseID    int
	mobileID   string
	apiKey     string
}

// NewAPI returns an API for one house. mobileID and apiKey come from the
// Trane Home mobile account setup. m may be nil to skip instrumentation.
func NewAPI(houseID int, mobileID, apiKey string, m metrics.RequestMetrics) *API {
	rt := http.DefaultTransport
	if m != nil {
		rt = roundtripper.New(
			roundtripper.WithRequestMetrics(m),
			roundtripper.WithRoundTripper(rt),
		)
	}
	return &API{
		HTTPClient: &http.Client{Transport: rt},
		baseURL:    baseURL,
		houseID:    houseID,
		mobileID:   mobileID,
		apiKey:     apiKey,
	}
}

// NewAPIMetrics returns request metrics for the Trane Home API, suitable for
// passing to NewAPI. Register them with a prometheus registry to expose them.
func NewAPIMetrics(namespace, subsystem string, labels prometheus.Labels) metrics.RequestMetrics {
	return metrics.NewRequestMetrics(metrics.Options{
		Namespace:   namespace,
		Subsystem:   subsystem,
		ConstLabels: labels,
		LabelValues: func(request *http.Request, statusCode int) (string, string, string) {
			// action hrefs embed house/device ids; collapse them to
			// keep cardinality down
			const housesPath = "/houses"
			path := request.URL.Path
			if i := strings.Index(path, housesPath); i >= 0 {
				path = housesPath
			}
			return request.Method, path, strconv.Itoa(statusCode)
		},
	})
}

// GetHouseStatus fetches the full status document for the house.
func (a *API) GetHouseStatus(ctx context.Context) (House, error) {
	var house House
	body, err := a.call(ctx, http.MethodGet, a.baseURL+"/houses/"+strconv.Itoa(a.houseID)+"/status", nil)
	if err != nil {
		return House{}, err
	}
	if err = json.Unmarshal(body, &house); err != nil {
		return House{}, &MalformedDocumentError{Reason: "status envelope", Err: err}
	}
	return house, nil
}

// Post sends payload to an action href taken from a status snapshot.
func (a *API) Post(ctx context.Context, href string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = a.call(ctx, http.MethodPost, href, body)
	return err
}

func (a *API) call(ctx context.Context, method, url string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-MobileId", a.mobileID)
	req.Header.Set("X-ApiKey", a.apiKey)

	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return io.ReadAll(resp.Body)
	case http.StatusNoContent:
		return nil, nil
	default:
		return nil, &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
}

// HTTPError is a non-2xx response from the remote system.
type HTTPError struct {
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("trane home api: %s", e.Status)
}
