package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"itinerary-route-service/internal/platform/retry"
	"net/http"
	"strings"
	"time"
)

// HTTPEmbedder turns free-form interest text into a vector by calling
// an external embedding endpoint. The vector space must match the one
// the POI catalog was embedded with; that is a deployment concern, not
// something this client can verify.
type HTTPEmbedder struct {
	session  *http.Client
	endpoint string
	apiKey   string
}

func NewHTTPEmbedder(endpoint, apiKey string) (*HTTPEmbedder, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, errors.New("embedder endpoint is empty")
	}
	return &HTTPEmbedder{
		session:  &http.Client{Timeout: 8 * time.Second},
		endpoint: endpoint,
		apiKey:   apiKey,
	}, nil
}

type embedRequest struct {
	Input string `json:"input"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

func (h *HTTPEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("embed: text is empty")
	}

	body, err := json.Marshal(embedRequest{Input: text})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	resp, err := retry.Do(ctx, 2, 150*time.Millisecond, func(ctx context.Context) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, retry.Permanent(fmt.Errorf("create embed request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")
		if h.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+h.apiKey)
		}

		resp, err := h.session.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 400 {
			b, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			err := fmt.Errorf("embed status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
			if resp.StatusCode == 429 || resp.StatusCode >= 500 {
				return nil, err
			}
			return nil, retry.Permanent(err)
		}
		return resp, nil
	})
	if err != nil {
		return nil, fmt.Errorf("embed request failed: %w", err)
	}
	defer resp.Body.Close()

	var er embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return nil, fmt.Errorf("decode embed response: %w", err)
	}
	if len(er.Embedding) == 0 {
		return nil, errors.New("embed response has no vector")
	}
	return er.Embedding, nil
}
