package explain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// explanationPayload is the JSON shape remote explainers are asked to
// produce.
type explanationPayload struct {
	Summary string   `json:"summary"`
	PerStop []string `json:"per_stop"`
	Notes   string   `json:"notes"`
}

var errNoPayload = errors.New("no explanation payload found")

// outputParser extracts an explanationPayload from raw model output.
type outputParser func(raw string) (explanationPayload, error)

// parserChain holds the strategies in trust order: a document that is
// itself JSON, then JSON inside a fenced code block. Remote output that
// matches none of them falls back to the template.
var parserChain = []outputParser{
	parsePlainJSON,
	parseFencedJSON,
}

func parseOutput(raw string) (explanationPayload, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return explanationPayload{}, errNoPayload
	}

	var firstErr error
	for _, parse := range parserChain {
		p, err := parse(raw)
		if err == nil {
			return p, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return explanationPayload{}, fmt.Errorf("all parsers rejected output: %w", firstErr)
}

func parsePlainJSON(raw string) (explanationPayload, error) {
	var p explanationPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return explanationPayload{}, fmt.Errorf("plain json: %w", err)
	}
	return validatePayload(p)
}

// parseFencedJSON handles output wrapped in a markdown code fence,
// optionally tagged ```json.
func parseFencedJSON(raw string) (explanationPayload, error) {
	start := strings.Index(raw, "```")
	if start < 0 {
		return explanationPayload{}, errors.New("fenced json: no opening fence")
	}
	body := raw[start+3:]
	if nl := strings.IndexByte(body, '\n'); nl >= 0 && strings.EqualFold(strings.TrimSpace(body[:nl]), "json") {
		body = body[nl+1:]
	}
	end := strings.Index(body, "```")
	if end < 0 {
		return explanationPayload{}, errors.New("fenced json: no closing fence")
	}

	var p explanationPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(body[:end])), &p); err != nil {
		return explanationPayload{}, fmt.Errorf("fenced json: %w", err)
	}
	return validatePayload(p)
}

func validatePayload(p explanationPayload) (explanationPayload, error) {
	if strings.TrimSpace(p.Summary) == "" {
		return explanationPayload{}, errors.New("payload has empty summary")
	}
	return p, nil
}
