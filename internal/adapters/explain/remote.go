package explain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"itinerary-route-service/internal/domain"
	"itinerary-route-service/internal/ports"
	"log"
	"net/http"
	"strings"
	"time"
)

// RemoteExplainer asks an external text-generation endpoint for a
// richer narrative and degrades to the template on any failure. The
// Explain contract (never fails) is preserved by construction.
type RemoteExplainer struct {
	session  *http.Client
	endpoint string
	apiKey   string
	fallback *TemplateExplainer
}

func NewRemoteExplainer(endpoint, apiKey string) *RemoteExplainer {
	return &RemoteExplainer{
		session:  &http.Client{Timeout: 8 * time.Second},
		endpoint: endpoint,
		apiKey:   apiKey,
		fallback: NewTemplateExplainer(),
	}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Output string `json:"output"`
}

func (r *RemoteExplainer) Explain(ctx context.Context, stops []domain.PlannedStop, social domain.SocialMode) ports.Explanation {
	out, err := r.generate(ctx, buildPrompt(stops, social))
	if err != nil {
		log.Printf("remote explainer failed, using template: %v", err)
		ex := r.fallback.Explain(ctx, stops, social)
		ex.Degraded = true
		return ex
	}

	payload, err := parseOutput(out)
	if err != nil {
		log.Printf("remote explainer output unusable, using template: %v", err)
		ex := r.fallback.Explain(ctx, stops, social)
		ex.Degraded = true
		return ex
	}

	return ports.Explanation{
		Summary: payload.Summary,
		PerStop: payload.PerStop,
		Notes:   payload.Notes,
	}
}

func (r *RemoteExplainer) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}

	resp, err := r.session.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("generate status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}
	return gr.Output, nil
}

func buildPrompt(stops []domain.PlannedStop, social domain.SocialMode) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a short walking itinerary narrative for a %s outing. ", social)
	b.WriteString(`Respond with JSON {"summary": string, "per_stop": [string], "notes": string}. Stops:`)
	for _, s := range stops {
		fmt.Fprintf(&b, "\n%d. %s (%s) %s-%s",
			s.Order, s.Name, s.Category, s.ArriveAt.Format("15:04"), s.LeaveAt.Format("15:04"))
		if s.IsBreak {
			b.WriteString(" [break]")
		}
	}
	return b.String()
}
