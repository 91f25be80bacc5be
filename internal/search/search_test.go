package search

import (
	"testing"
	"time"

	"casevault/internal/storage"
)

func table(cases ...*storage.Case) map[string]*storage.Case {
	m := make(map[string]*storage.Case, len(cases))
	for _, c := range cases {
		m[c.CaseID] = c
	}
	return m
}

func mkCase(id, summary, content string, symptoms, errors, tags []string) *storage.Case {
	return &storage.Case{
		CaseID:          id,
		Summary:         summary,
		Symptoms:        symptoms,
		ErrorPatterns:   errors,
		Tags:            tags,
		ContentRedacted: content,
		CreatedAt:       time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRunNoMatchesIsEmpty(t *testing.T) {
	cases := table(mkCase("A", "heartbeat missing", "body text", nil, nil, nil))
	if got := Run(cases, "kubernetes", 10); len(got) != 0 {
		t.Errorf("expected no results, got %v", got)
	}
}

func TestSummaryOutranksContent(t *testing.T) {
	cases := table(
		mkCase("A", "heartbeat missing on fleet", "unrelated body", nil, nil, nil),
		mkCase("B", "unrelated summary", "heartbeat mentioned deep in the body", nil, nil, nil),
	)

	got := Run(cases, "heartbeat", 10)
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].CaseID != "A" || got[1].CaseID != "B" {
		t.Errorf("order = %s, %s; want A, B", got[0].CaseID, got[1].CaseID)
	}
	if got[0].Score <= got[1].Score {
		t.Errorf("summary score %d must exceed content score %d", got[0].Score, got[1].Score)
	}
	if got[0].Score != weightSummary || got[1].Score != weightContent {
		t.Errorf("scores = %d, %d; want %d, %d", got[0].Score, got[1].Score, weightSummary, weightContent)
	}
}

func TestFieldClassCountsOnce(t *testing.T) {
	c := mkCase("A", "x", "y",
		[]string{"heartbeat gone", "heartbeat still gone", "heartbeat very gone"},
		nil, nil)

	got := Run(table(c), "heartbeat", 10)
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
	if got[0].Score != weightSymptom {
		t.Errorf("score = %d, want %d (symptom weight once)", got[0].Score, weightSymptom)
	}
	if len(got[0].MatchedFields) != 1 || got[0].MatchedFields[0] != "symptoms" {
		t.Errorf("MatchedFields = %v, want [symptoms]", got[0].MatchedFields)
	}
}

func TestAllFieldsAccumulate(t *testing.T) {
	c := mkCase("A",
		"heartbeat missing",
		"heartbeat body",
		[]string{"heartbeat symptom"},
		[]string{"Error: heartbeat timeout"},
		[]string{"Heartbeat"})

	got := Run(table(c), "heartbeat", 10)
	want := weightSummary + weightError + weightSymptom + weightTag + weightContent
	if got[0].Score != want {
		t.Errorf("score = %d, want %d", got[0].Score, want)
	}
	if len(got[0].MatchedFields) != 5 {
		t.Errorf("MatchedFields = %v, want all five classes", got[0].MatchedFields)
	}
}

func TestCaseInsensitive(t *testing.T) {
	c := mkCase("A", "HEARTBEAT Missing", "", nil, nil, nil)
	if got := Run(table(c), "heartbeat", 10); len(got) != 1 {
		t.Errorf("case-insensitive match failed, got %v", got)
	}
}

func TestLimitTruncates(t *testing.T) {
	cases := table(
		mkCase("A", "heartbeat a", "", nil, nil, nil),
		mkCase("B", "heartbeat b", "", nil, nil, nil),
		mkCase("C", "heartbeat c", "", nil, nil, nil),
	)
	if got := Run(cases, "heartbeat", 1); len(got) != 1 {
		t.Errorf("limit=1 returned %d results", len(got))
	}
}

func TestDefaultLimit(t *testing.T) {
	cases := make(map[string]*storage.Case)
	for _, id := range []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"} {
		cases[id] = mkCase(id, "heartbeat "+id, "", nil, nil, nil)
	}
	if got := Run(cases, "heartbeat", 0); len(got) != DefaultLimit {
		t.Errorf("default limit returned %d results, want %d", len(got), DefaultLimit)
	}
}

func TestTiesBreakByCaseID(t *testing.T) {
	cases := table(
		mkCase("B", "heartbeat b gone", "", nil, nil, nil),
		mkCase("A", "heartbeat a gone", "", nil, nil, nil),
	)
	got := Run(cases, "heartbeat", 10)
	if got[0].CaseID != "A" || got[1].CaseID != "B" {
		t.Errorf("tie order = %s, %s; want A, B", got[0].CaseID, got[1].CaseID)
	}
}

func TestResultNeverCarriesBody(t *testing.T) {
	c := mkCase("A", "heartbeat missing", "sensitive redacted body", nil, nil, nil)
	got := Run(table(c), "heartbeat", 10)
	if got[0].Summary != "heartbeat missing" {
		t.Errorf("Summary = %q", got[0].Summary)
	}
	// Result has no content field by construction; assert the summary is
	// the only text carried.
	if got[0].Summary == c.ContentRedacted {
		t.Error("result leaked body text")
	}
}
