package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cogitex/rfbooking/models"
	"github.com/cogitex/rfbooking/schedule"
)

// QueryStore persists assistant audit records.
type QueryStore interface {
	InsertQueryLog(ctx context.Context, l *models.AIQueryLog) error
	AddDailyUsage(ctx context.Context, day time.Time, queries, inputTokens, outputTokens int) error
}

type Config struct {
	Model       string
	Timeout     time.Duration // budget for one LLM call
	HorizonDays int           // alternative-date search horizon (± days)
	TopN        int           // candidates that get an availability check
	MaxRecs     int           // recommendations returned to the caller
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	if c.HorizonDays <= 0 {
		c.HorizonDays = 14
	}
	if c.TopN <= 0 {
		c.TopN = 3
	}
	if c.MaxRecs <= 0 {
		c.MaxRecs = 5
	}
	return c
}

// slotSearchDays bounds the free-slot listing window.
const slotSearchDays = 14

type Service struct {
	Cache    *CatalogCache
	LLM      Chatter
	Detector *schedule.Detector
	Store    QueryStore
	Cfg      Config
}

func NewService(cache *CatalogCache, llm Chatter, det *schedule.Detector, store QueryStore, cfg Config) *Service {
	return &Service{Cache: cache, LLM: llm, Detector: det, Store: store, Cfg: cfg.withDefaults()}
}

type Recommendation struct {
	EquipmentID string `json:"equipmentId"`
	Name        string `json:"name"`
	Reasoning   string `json:"reasoning,omitempty"`
	Confidence  int    `json:"confidence"`

	// Availability context, filled for the top candidates when the request
	// carried a date range.
	Available     *bool                `json:"available,omitempty"`
	Alternative   *schedule.DateRange  `json:"alternative,omitempty"`
	NoAlternative bool                 `json:"noAlternative,omitempty"`
	FreeSlots     []schedule.DateRange `json:"freeSlots,omitempty"`
}

// Result is a tagged outcome: RankingAvailable=false means the LLM step
// failed or timed out and Recommendations carry the unranked candidate set.
type Result struct {
	Recommendations  []Recommendation `json:"recommendations"`
	Reasoning        string           `json:"reasoning,omitempty"`
	Specs            []Spec           `json:"specs,omitempty"`
	RankingAvailable bool             `json:"rankingAvailable"`
	DegradedReason   string           `json:"degradedReason,omitempty"`
	InputTokens      int              `json:"inputTokens"`
	OutputTokens     int              `json:"outputTokens"`
}

// Analyze runs the full pipeline: extract specs, filter the catalog, rank
// via the LLM, then check availability for the top candidates. LLM failure
// degrades to the unranked candidate list; only catalog/persistence errors
// fail the request.
func (s *Service) Analyze(ctx context.Context, userID, prompt string, requested *schedule.Span) (*Result, error) {
	catalog, err := s.Cache.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if len(catalog) == 0 {
		return &Result{Recommendations: []Recommendation{}, RankingAvailable: false, DegradedReason: "no active equipment"}, nil
	}

	specs := ExtractSpecs(prompt)
	candidates := FilterBySpecs(catalog, specs)
	if len(candidates) == 0 {
		// Never hand the ranking stage an empty set while equipment exists.
		candidates = catalog
	}

	res := &Result{Specs: specs}

	system := buildSystemPrompt()
	user := buildUserPrompt(prompt, candidates)
	res.InputTokens = estimateTokens(system) + estimateTokens(user)

	llmCtx, cancel := context.WithTimeout(ctx, s.Cfg.Timeout)
	text, llmErr := s.LLM.Chat(llmCtx, system, user)
	cancel()

	if llmErr != nil {
		res.RankingAvailable = false
		res.DegradedReason = "ranking unavailable: " + llmErr.Error()
		res.Recommendations = unranked(candidates, s.Cfg.MaxRecs)
	} else {
		res.RankingAvailable = true
		res.Reasoning = text
		res.OutputTokens = estimateTokens(text)
		res.Recommendations = parseRecommendations(text, candidates, s.Cfg.MaxRecs)
		if len(res.Recommendations) == 0 {
			res.Recommendations = unranked(candidates, s.Cfg.MaxRecs)
		}
	}

	if err := s.annotateAvailability(ctx, res.Recommendations, requested); err != nil {
		return nil, err
	}

	s.record(ctx, userID, prompt, res, llmErr)
	return res, nil
}

// annotateAvailability fills availability, alternatives and free slots for
// the top candidates.
func (s *Service) annotateAvailability(ctx context.Context, recs []Recommendation, requested *schedule.Span) error {
	today := schedule.Date(time.Now())
	for i := range recs {
		if i >= s.Cfg.TopN {
			break
		}
		rec := &recs[i]

		slotFrom, slotTo := today, today.AddDate(0, 0, slotSearchDays)
		if requested != nil {
			conflict, err := s.Detector.HasConflict(ctx, rec.EquipmentID, *requested, "")
			if err != nil {
				return fmt.Errorf("availability check: %w", err)
			}
			avail := !conflict
			rec.Available = &avail
			slotFrom, slotTo = requested.StartDate, requested.EndDate.AddDate(0, 0, slotSearchDays)

			if conflict {
				probe := func(ctx context.Context, cand schedule.Span) (bool, error) {
					if cand.StartDate.Before(today) {
						return false, nil
					}
					c, err := s.Detector.HasConflict(ctx, rec.EquipmentID, cand, "")
					return !c, err
				}
				alt, err := schedule.FindAlternative(ctx, probe, *requested, s.Cfg.HorizonDays)
				if err != nil {
					return fmt.Errorf("alternative search: %w", err)
				}
				if alt != nil {
					rec.Alternative = alt
				} else {
					rec.NoAlternative = true
				}
			}
		}

		reservations, err := s.Detector.Src.ActiveReservations(ctx, rec.EquipmentID, slotFrom, slotTo)
		if err != nil {
			return fmt.Errorf("free slots: %w", err)
		}
		rec.FreeSlots = schedule.FreeSlots(reservations, slotFrom, slotTo, 5)
	}
	return nil
}

// Chat is the admin-facing direct chat, sharing the audit trail.
func (s *Service) Chat(ctx context.Context, userID, message, systemPrompt string) (string, int, int, error) {
	if systemPrompt == "" {
		systemPrompt = "You are a helpful AI assistant for an equipment booking system."
	}
	llmCtx, cancel := context.WithTimeout(ctx, s.Cfg.Timeout)
	defer cancel()
	text, err := s.LLM.Chat(llmCtx, systemPrompt, message)

	in, out := estimateTokens(systemPrompt)+estimateTokens(message), estimateTokens(text)
	l := &models.AIQueryLog{
		ID: uuid.NewString(), UserID: userID, Prompt: message, Response: text,
		InputTokens: in, OutputTokens: out, Model: s.Cfg.Model, Success: err == nil,
	}
	if err != nil {
		l.ErrorMessage = err.Error()
	}
	s.persist(ctx, l, in, out)
	return text, in, out, err
}

func (s *Service) record(ctx context.Context, userID, prompt string, res *Result, llmErr error) {
	resp, _ := json.Marshal(res.Recommendations)
	l := &models.AIQueryLog{
		ID: uuid.NewString(), UserID: userID, Prompt: prompt, Response: string(resp),
		InputTokens: res.InputTokens, OutputTokens: res.OutputTokens,
		Model: s.Cfg.Model, Success: llmErr == nil,
	}
	if llmErr != nil {
		l.ErrorMessage = llmErr.Error()
	}
	s.persist(ctx, l, res.InputTokens, res.OutputTokens)
}

func (s *Service) persist(ctx context.Context, l *models.AIQueryLog, in, out int) {
	if s.Store == nil {
		return
	}
	if err := s.Store.InsertQueryLog(ctx, l); err != nil {
		log.Printf("ai: insert query log: %v", err)
	}
	if err := s.Store.AddDailyUsage(ctx, schedule.Date(time.Now()), 1, in, out); err != nil {
		log.Printf("ai: add daily usage: %v", err)
	}
}

func unranked(candidates []models.Equipment, max int) []Recommendation {
	out := make([]Recommendation, 0, max)
	for _, eq := range candidates {
		if len(out) >= max {
			break
		}
		out = append(out, Recommendation{EquipmentID: eq.ID, Name: eq.Name})
	}
	return out
}

func buildSystemPrompt() string {
	var b strings.Builder
	b.WriteString("You are an AI assistant helping users find and book laboratory equipment.\n")
	b.WriteString("Recommend equipment matching the user's technical requirements.\n\n")
	b.WriteString("Parameters you may see: ")
	for i, r := range DefaultRules {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(r.Param + " (" + r.Unit + ")")
	}
	b.WriteString(".\n\n")
	b.WriteString("Respond with a JSON array only, no additional text:\n")
	b.WriteString(`[{"equipment_id": "<id>", "name": "<name>", "reasoning": "<why>", "confidence": <0-100>}]` + "\n")
	return b.String()
}

func buildUserPrompt(prompt string, candidates []models.Equipment) string {
	var b strings.Builder
	b.WriteString("User request: " + prompt + "\n\nAvailable equipment:\n")
	for _, eq := range candidates {
		b.WriteString("- ID: " + eq.ID + ", Name: " + eq.Name)
		if eq.Description != "" {
			b.WriteString(", Description: " + truncate(eq.Description, 500))
		}
		if eq.Location != "" {
			b.WriteString(", Location: " + eq.Location)
		}
		b.WriteString("\n")
	}
	b.WriteString("\nRecommend the most suitable equipment as a JSON array.")
	return b.String()
}

var jsonArrayRe = regexp.MustCompile(`(?s)\[.*\]`)

// parseRecommendations pulls a JSON array out of the model's reply and keeps
// entries with known equipment IDs. When no usable JSON comes back it falls
// back to name mentions in the raw text.
func parseRecommendations(text string, candidates []models.Equipment, max int) []Recommendation {
	byID := make(map[string]models.Equipment, len(candidates))
	for _, eq := range candidates {
		byID[eq.ID] = eq
	}

	if m := jsonArrayRe.FindString(text); m != "" {
		var raw []struct {
			EquipmentID string `json:"equipment_id"`
			Name        string `json:"name"`
			Reasoning   string `json:"reasoning"`
			Confidence  int    `json:"confidence"`
		}
		if err := json.Unmarshal([]byte(m), &raw); err == nil {
			var out []Recommendation
			for _, r := range raw {
				eq, ok := byID[r.EquipmentID]
				if !ok {
					continue
				}
				out = append(out, Recommendation{
					EquipmentID: eq.ID, Name: eq.Name,
					Reasoning: r.Reasoning, Confidence: r.Confidence,
				})
				if len(out) >= max {
					break
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}

	lower := strings.ToLower(text)
	var out []Recommendation
	for _, eq := range candidates {
		if strings.Contains(lower, strings.ToLower(eq.Name)) {
			out = append(out, Recommendation{
				EquipmentID: eq.ID, Name: eq.Name,
				Reasoning: "Mentioned in AI response", Confidence: 50,
			})
			if len(out) >= max {
				break
			}
		}
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func estimateTokens(s string) int { return len(strings.Fields(s)) * 2 }
