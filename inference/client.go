// Package inference adapts a remote model server into the Detector and
// Locator capabilities the pipeline needs. The models themselves (an object
// detector and a pose estimator) are black boxes behind a JSON/HTTP API; this
// package only translates shapes and coordinate spaces.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const (
	detectorModelName = "detector"
	poseModelName     = "pose"

	defaultTimeout = 10 * time.Second
)

// Config holds what is needed to reach the model server.
type Config struct {
	BaseURL string
	// Timeout bounds every model call; there are no retries.
	Timeout time.Duration
}

// Client is a model-server client. One Client serves all requests; the remote
// models are required to be safe for concurrent inference.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  golog.Logger

	detectorInfo modelInfo
	poseInfo     modelInfo
}

type modelInfo struct {
	Name        string `json:"name"`
	InputWidth  int    `json:"input_width"`
	InputHeight int    `json:"input_height"`
}

// NewClient verifies both models are reachable and caches their input
// geometry.
func NewClient(ctx context.Context, cfg Config, logger golog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("model server base URL required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		baseURL: cfg.BaseURL,
		httpc:   &http.Client{Timeout: timeout},
		logger:  logger,
	}

	var group errgroup.Group
	group.Go(func() error {
		info, err := c.fetchModelInfo(ctx, detectorModelName)
		if err != nil {
			return err
		}
		c.detectorInfo = info
		return nil
	})
	group.Go(func() error {
		info, err := c.fetchModelInfo(ctx, poseModelName)
		if err != nil {
			return err
		}
		c.poseInfo = info
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, errors.Wrap(err, "model server unavailable")
	}
	logger.Infow("model server ready",
		"base_url", cfg.BaseURL,
		"detector_input", fmt.Sprintf("%dx%d", c.detectorInfo.InputWidth, c.detectorInfo.InputHeight),
		"pose_input", fmt.Sprintf("%dx%d", c.poseInfo.InputWidth, c.poseInfo.InputHeight),
	)
	return c, nil
}

func (c *Client) fetchModelInfo(ctx context.Context, name string) (modelInfo, error) {
	var info modelInfo
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/models/"+name, nil)
	if err != nil {
		return info, err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return info, errors.Wrapf(err, "could not get %s model info", name)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return info, errors.Errorf("model info %s: unexpected status %d", name, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return info, errors.Wrapf(err, "could not decode %s model info", name)
	}
	return info, nil
}

// post sends a JSON payload to a model endpoint and decodes the JSON reply
// into out.
func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("%s: unexpected status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
