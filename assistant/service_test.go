package assistant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cogitex/rfbooking/models"
	"github.com/cogitex/rfbooking/schedule"
)

type mockChatter struct {
	chatFunc func(ctx context.Context, system, user string) (string, error)
}

func (m *mockChatter) Chat(ctx context.Context, system, user string) (string, error) {
	if m.chatFunc != nil {
		return m.chatFunc(ctx, system, user)
	}
	return "", nil
}

type mockStore struct {
	logs  []*models.AIQueryLog
	usage int
}

func (m *mockStore) InsertQueryLog(ctx context.Context, l *models.AIQueryLog) error {
	m.logs = append(m.logs, l)
	return nil
}

func (m *mockStore) AddDailyUsage(ctx context.Context, day time.Time, q, in, out int) error {
	m.usage += q
	return nil
}

type mockSource struct {
	reservations map[string][]schedule.Reservation
}

func (m *mockSource) ActiveReservations(ctx context.Context, equipmentID string, from, to time.Time) ([]schedule.Reservation, error) {
	return m.reservations[equipmentID], nil
}

func testCatalog() []models.Equipment {
	return []models.Equipment{
		eq("eq-1", "Microwave Amplifier", "amplifier, 2.4 GHz, 800 W"),
		eq("eq-2", "Audio Analyzer", "audio analyzer, 20 kHz bandwidth"),
		eq("eq-3", "Bench Supply", "30 V 5 A bench power supply"),
	}
}

func newTestService(llm Chatter, src schedule.ReservationSource, store QueryStore) *Service {
	cache := NewCatalogCache(time.Hour, func(ctx context.Context) ([]models.Equipment, error) {
		return testCatalog(), nil
	})
	return NewService(cache, llm, schedule.NewDetector(src), store, Config{Model: "llama3.1:8b", Timeout: time.Second})
}

func TestAnalyzeRankedPath(t *testing.T) {
	llm := &mockChatter{chatFunc: func(ctx context.Context, system, user string) (string, error) {
		return `Here you go: [{"equipment_id": "eq-1", "name": "Microwave Amplifier", "reasoning": "matches 2.4 GHz", "confidence": 90}]`, nil
	}}
	store := &mockStore{}
	svc := newTestService(llm, &mockSource{}, store)

	res, err := svc.Analyze(context.Background(), "u1", "need equipment rated 2.4GHz, 800W", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !res.RankingAvailable {
		t.Fatal("ranking should be available")
	}
	if len(res.Recommendations) != 1 || res.Recommendations[0].EquipmentID != "eq-1" {
		t.Fatalf("recommendations = %+v", res.Recommendations)
	}
	if res.Recommendations[0].Confidence != 90 {
		t.Fatalf("confidence = %d", res.Recommendations[0].Confidence)
	}
	if len(res.Specs) != 2 {
		t.Fatalf("specs = %+v", res.Specs)
	}
	if len(store.logs) != 1 || !store.logs[0].Success {
		t.Fatalf("query log = %+v", store.logs)
	}
}

func TestAnalyzeDegradesWhenLLMFails(t *testing.T) {
	llm := &mockChatter{chatFunc: func(ctx context.Context, system, user string) (string, error) {
		return "", errors.New("connection refused")
	}}
	store := &mockStore{}
	svc := newTestService(llm, &mockSource{}, store)

	res, err := svc.Analyze(context.Background(), "u1", "something for RF work at 2.4 GHz", nil)
	if err != nil {
		t.Fatalf("LLM failure must not fail the request: %v", err)
	}
	if res.RankingAvailable {
		t.Fatal("expected degraded result")
	}
	if res.DegradedReason == "" {
		t.Fatal("degraded result must carry a reason")
	}
	if len(res.Recommendations) == 0 {
		t.Fatal("degraded result must still carry candidates")
	}
	if len(store.logs) != 1 || store.logs[0].Success {
		t.Fatalf("failed call must be logged as failure: %+v", store.logs)
	}
}

func TestAnalyzeTimesOutSlowLLM(t *testing.T) {
	llm := &mockChatter{chatFunc: func(ctx context.Context, system, user string) (string, error) {
		select {
		case <-time.After(5 * time.Second):
			return "too late", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}}
	svc := newTestService(llm, &mockSource{}, &mockStore{})
	svc.Cfg.Timeout = 20 * time.Millisecond

	res, err := svc.Analyze(context.Background(), "u1", "anything", nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.RankingAvailable {
		t.Fatal("slow LLM must degrade, not hang")
	}
}

func TestAnalyzeFallsBackToNameMentions(t *testing.T) {
	llm := &mockChatter{chatFunc: func(ctx context.Context, system, user string) (string, error) {
		return "I would suggest the Bench Supply for this.", nil
	}}
	svc := newTestService(llm, &mockSource{}, &mockStore{})

	res, err := svc.Analyze(context.Background(), "u1", "power supply please", nil)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, r := range res.Recommendations {
		if r.EquipmentID == "eq-3" && r.Confidence == 50 {
			found = true
		}
	}
	if !found {
		t.Fatalf("name-mention fallback missing: %+v", res.Recommendations)
	}
}

func TestAnalyzeAvailabilityAndAlternative(t *testing.T) {
	start := schedule.Date(time.Now()).AddDate(0, 0, 7)
	busy := schedule.Span{StartDate: start, EndDate: start, StartTime: 0, EndTime: schedule.EndOfDay}

	src := &mockSource{reservations: map[string][]schedule.Reservation{
		"eq-1": {{ID: "r1", Span: busy}},
	}}
	llm := &mockChatter{chatFunc: func(ctx context.Context, system, user string) (string, error) {
		return `[{"equipment_id": "eq-1", "name": "Microwave Amplifier", "confidence": 95}]`, nil
	}}
	svc := newTestService(llm, src, &mockStore{})

	st, _ := schedule.ParseTimeOfDay("09:00")
	et, _ := schedule.ParseTimeOfDay("17:00")
	req := schedule.Span{StartDate: start, EndDate: start, StartTime: st, EndTime: et}

	res, err := svc.Analyze(context.Background(), "u1", "2.4 GHz amplifier", &req)
	if err != nil {
		t.Fatal(err)
	}
	rec := res.Recommendations[0]
	if rec.Available == nil || *rec.Available {
		t.Fatalf("expected unavailable, got %+v", rec)
	}
	if rec.Alternative == nil {
		t.Fatal("expected an alternative window")
	}
	if !rec.Alternative.Start.Equal(start.AddDate(0, 0, 1)) {
		t.Fatalf("alternative = %+v, want next day", rec.Alternative)
	}
}

func TestAnalyzeNoAlternativeWithinHorizon(t *testing.T) {
	start := schedule.Date(time.Now()).AddDate(0, 0, 30)
	blocked := schedule.Span{
		StartDate: start.AddDate(0, 0, -60), EndDate: start.AddDate(0, 0, 60),
		StartTime: 0, EndTime: schedule.EndOfDay,
	}
	src := &mockSource{reservations: map[string][]schedule.Reservation{
		"eq-1": {{ID: "r1", Span: blocked}},
	}}
	llm := &mockChatter{chatFunc: func(ctx context.Context, system, user string) (string, error) {
		return `[{"equipment_id": "eq-1", "name": "Microwave Amplifier", "confidence": 95}]`, nil
	}}
	svc := newTestService(llm, src, &mockStore{})

	st, _ := schedule.ParseTimeOfDay("09:00")
	et, _ := schedule.ParseTimeOfDay("17:00")
	req := schedule.Span{StartDate: start, EndDate: start, StartTime: st, EndTime: et}

	res, err := svc.Analyze(context.Background(), "u1", "2.4 GHz amplifier", &req)
	if err != nil {
		t.Fatal(err)
	}
	rec := res.Recommendations[0]
	if rec.Alternative != nil || !rec.NoAlternative {
		t.Fatalf("expected explicit no-alternative marker, got %+v", rec)
	}
}

func TestParseRecommendationsRejectsUnknownIDs(t *testing.T) {
	text := `[{"equipment_id": "bogus", "confidence": 99}, {"equipment_id": "eq-2", "name": "Audio Analyzer", "confidence": 70}]`
	got := parseRecommendations(text, testCatalog(), 5)
	if len(got) != 1 || got[0].EquipmentID != "eq-2" {
		t.Fatalf("got %+v", got)
	}
}

func TestParseRecommendationsCap(t *testing.T) {
	catalog := testCatalog()
	text := `[
		{"equipment_id": "eq-1"}, {"equipment_id": "eq-2"}, {"equipment_id": "eq-3"},
		{"equipment_id": "eq-1"}, {"equipment_id": "eq-2"}, {"equipment_id": "eq-3"}
	]`
	if got := parseRecommendations(text, catalog, 5); len(got) != 5 {
		t.Fatalf("cap not applied: %d", len(got))
	}
}
