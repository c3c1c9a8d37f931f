package explain

import (
	"context"
	"strings"
	"testing"
	"time"

	"itinerary-route-service/internal/domain"
)

func TestParseOutputPlainJSON(t *testing.T) {
	p, err := parseOutput(`{"summary":"A calm morning route.","per_stop":["1. Museum"],"notes":"Done by noon."}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if p.Summary != "A calm morning route." {
		t.Fatalf("summary = %q", p.Summary)
	}
	if len(p.PerStop) != 1 {
		t.Fatalf("per_stop length = %d, want 1", len(p.PerStop))
	}
}

func TestParseOutputFencedJSON(t *testing.T) {
	raw := "Here you go:\n```json\n{\"summary\":\"Short loop.\",\"per_stop\":[],\"notes\":\"\"}\n```\nEnjoy!"
	p, err := parseOutput(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if p.Summary != "Short loop." {
		t.Fatalf("summary = %q", p.Summary)
	}
}

func TestParseOutputFencedWithoutLanguageTag(t *testing.T) {
	raw := "```\n{\"summary\":\"Plain fence.\"}\n```"
	p, err := parseOutput(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if p.Summary != "Plain fence." {
		t.Fatalf("summary = %q", p.Summary)
	}
}

func TestParseOutputRejectsProse(t *testing.T) {
	if _, err := parseOutput("Sure! Here is a lovely itinerary for you."); err == nil {
		t.Fatal("expected prose to be rejected")
	}
}

func TestParseOutputRejectsEmptySummary(t *testing.T) {
	if _, err := parseOutput(`{"summary":"  ","per_stop":[]}`); err == nil {
		t.Fatal("expected empty summary to be rejected")
	}
}

func TestTemplateExplainerAlwaysProducesSummary(t *testing.T) {
	ex := NewTemplateExplainer()
	start := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)

	stops := []domain.PlannedStop{
		{Order: 1, Name: "City Museum", Category: "museum", ArriveAt: start, LeaveAt: start.Add(40 * time.Minute)},
		{Order: 2, Name: "Corner Cafe", Category: "cafe", IsBreak: true, ArriveAt: start.Add(50 * time.Minute), LeaveAt: start.Add(65 * time.Minute)},
	}

	got := ex.Explain(context.Background(), stops, domain.SocialCouple)
	if got.Summary == "" {
		t.Fatal("summary is empty")
	}
	if !strings.Contains(got.Summary, "1 stop(s)") {
		t.Fatalf("summary should count only non-break stops: %q", got.Summary)
	}
	if len(got.PerStop) != 2 {
		t.Fatalf("per_stop length = %d, want 2", len(got.PerStop))
	}
	if !strings.Contains(got.PerStop[1], "break") {
		t.Fatalf("break stop line should mention the break: %q", got.PerStop[1])
	}
	if got.Degraded {
		t.Fatal("template output should not be marked degraded")
	}
}

func TestTemplateExplainerEmptyItinerary(t *testing.T) {
	got := NewTemplateExplainer().Explain(context.Background(), nil, domain.SocialSolo)
	if got.Summary == "" {
		t.Fatal("summary is empty")
	}
	if got.Notes != "" {
		t.Fatalf("notes should be empty with no stops, got %q", got.Notes)
	}
}
