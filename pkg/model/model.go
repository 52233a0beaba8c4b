// Package model provides the optional external distraction classifier.
// The classifier is a remote service wrapping the trained model; when it
// is unreachable or misconfigured the caller degrades to heuristics only.
package model

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/workspaceai/focusguard/internal/httpc"
)

// ErrUnavailable indicates no classifier is configured or reachable.
// Callers treat any classifier error identically to "no model available".
var ErrUnavailable = errors.New("model: classifier unavailable")

// Label is the classifier's binary output.
type Label string

const (
	LabelTask        Label = "task"
	LabelDistraction Label = "distraction"
)

// Features is the input to the external classifier: the primary domain
// token and the extracted title text.
type Features struct {
	Website string `json:"website"`
	Title   string `json:"title"`
}

// Classifier is the external model capability.
type Classifier interface {
	Classify(ctx context.Context, f Features) (Label, error)
}

// HTTPClassifier calls a remote prediction service.
type HTTPClassifier struct {
	url    string
	client *http.Client
}

// NewHTTP creates a classifier against the given prediction endpoint.
func NewHTTP(url string) *HTTPClassifier {
	return &HTTPClassifier{url: url, client: httpc.Client}
}

type predictResponse struct {
	Label string `json:"label"`
}

// Classify posts the features and maps the response to a Label. Any
// transport or protocol failure returns ErrUnavailable.
func (c *HTTPClassifier) Classify(ctx context.Context, f Features) (Label, error) {
	if c.url == "" {
		return "", ErrUnavailable
	}

	body, err := json.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var pred predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&pred); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	switch pred.Label {
	case "distraction", "Distraction", "1":
		return LabelDistraction, nil
	case "task", "Task", "0":
		return LabelTask, nil
	default:
		return "", fmt.Errorf("%w: unexpected label %q", ErrUnavailable, pred.Label)
	}
}
