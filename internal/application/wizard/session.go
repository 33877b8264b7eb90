package wizard

import (
	"sync"
	"time"

	"github.com/dentalops/pricing-engine/internal/domain/entities"
	"github.com/dentalops/pricing-engine/internal/domain/pricing"
)

// DefaultRoundingIncrementMajor is the price granularity a draft starts
// with: snap to the nearest 50 major units.
const DefaultRoundingIncrementMajor = 50.0

// ServiceDraft is the wizard-local working copy of the service under
// construction. It lives only inside its session and is never
// persisted; cancellation simply discards it.
type ServiceDraft struct {
	Name                    string         `json:"name"`
	DurationMinutes         int            `json:"duration_minutes"`
	MarginPct               float64        `json:"margin_pct"`
	RoundingIncrementMajor  float64        `json:"rounding_increment"`
	ExtraVariableMajorUnits float64        `json:"extra_variable"`
	Recipe                  map[string]int `json:"recipe"`
}

// SupplyOption is one selectable catalog entry snapshotted into the
// session when it opens or when a supply is created inline.
type SupplyOption struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	CostPerPortionCents int64  `json:"cost_per_portion_cents"`
}

// Session is one in-progress wizard run. The mutex serializes all
// access; the draft is exclusively owned by this session so there is
// nothing to coordinate beyond its own handlers and the catalog event
// feed.
type Session struct {
	ID       string
	ClinicID string

	mu             sync.Mutex
	step           Step
	gates          Gates
	draft          ServiceDraft
	perMinuteCents int64
	effectiveMins  int
	supplies       []SupplyOption
	catalogCosts   map[string]int64
	submitting     bool
	created        *entities.CreatedService
	lastActivity   time.Time
}

// View is an immutable snapshot handed to callers: current step, draft,
// gate flags, the selectable supplies, and a live price preview.
type View struct {
	ID             string                   `json:"id"`
	ClinicID       string                   `json:"clinic_id"`
	Step           Step                     `json:"step"`
	Gates          Gates                    `json:"gates"`
	Draft          ServiceDraft             `json:"draft"`
	Supplies       []SupplyOption           `json:"supplies"`
	PerMinuteCents int64                    `json:"per_minute_cents"`
	EffectiveMins  int                      `json:"effective_minutes_per_month"`
	Preview        pricing.Quote            `json:"preview"`
	Created        *entities.CreatedService `json:"created,omitempty"`
}

func newSession(id, clinicID string, gates Gates, perMinuteCents int64, effectiveMins int, supplies []SupplyOption) *Session {
	costs := make(map[string]int64, len(supplies))
	for _, s := range supplies {
		costs[s.ID] = s.CostPerPortionCents
	}
	return &Session{
		ID:             id,
		ClinicID:       clinicID,
		step:           EntryStep(gates),
		gates:          gates,
		perMinuteCents: perMinuteCents,
		effectiveMins:  effectiveMins,
		supplies:       supplies,
		catalogCosts:   costs,
		draft: ServiceDraft{
			RoundingIncrementMajor: DefaultRoundingIncrementMajor,
			Recipe:                 map[string]int{},
		},
		lastActivity: time.Now(),
	}
}

// view builds a snapshot. Callers must hold s.mu.
func (s *Session) view() View {
	supplies := make([]SupplyOption, len(s.supplies))
	copy(supplies, s.supplies)

	recipe := make(map[string]int, len(s.draft.Recipe))
	for id, qty := range s.draft.Recipe {
		recipe[id] = qty
	}
	draft := s.draft
	draft.Recipe = recipe

	return View{
		ID:             s.ID,
		ClinicID:       s.ClinicID,
		Step:           s.step,
		Gates:          s.gates,
		Draft:          draft,
		Supplies:       supplies,
		PerMinuteCents: s.perMinuteCents,
		EffectiveMins:  s.effectiveMins,
		Preview:        s.preview(),
		Created:        s.created,
	}
}

// preview recomputes the price breakdown from the current draft and the
// session's catalog snapshot. Callers must hold s.mu.
func (s *Session) preview() pricing.Quote {
	return pricing.Compute(pricing.QuoteInput{
		DurationMinutes:         s.draft.DurationMinutes,
		PerMinuteCents:          s.perMinuteCents,
		Recipe:                  s.draft.Recipe,
		Catalog:                 s.catalogCosts,
		ExtraVariableMajorUnits: s.draft.ExtraVariableMajorUnits,
		MarginPct:               s.draft.MarginPct,
		RoundingIncrementMajor:  s.draft.RoundingIncrementMajor,
	})
}

// dropSupply removes a deleted catalog entry from the snapshot and the
// draft recipe. Callers must hold s.mu.
func (s *Session) dropSupply(supplyID string) {
	delete(s.catalogCosts, supplyID)
	delete(s.draft.Recipe, supplyID)
	for i, option := range s.supplies {
		if option.ID == supplyID {
			s.supplies = append(s.supplies[:i], s.supplies[i+1:]...)
			break
		}
	}
}

// addSupply appends an inline-created catalog entry to the snapshot, or
// refreshes it if already present. Callers must hold s.mu.
func (s *Session) addSupply(option SupplyOption) {
	s.catalogCosts[option.ID] = option.CostPerPortionCents
	for i, existing := range s.supplies {
		if existing.ID == option.ID {
			s.supplies[i] = option
			return
		}
	}
	s.supplies = append(s.supplies, option)
}

func (s *Session) touch() {
	s.lastActivity = time.Now()
}

func (s *Session) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity.Before(cutoff)
}
