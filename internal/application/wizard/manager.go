package wizard

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dentalops/pricing-engine/internal/application/services"
	"github.com/dentalops/pricing-engine/internal/domain/entities"
	"github.com/dentalops/pricing-engine/internal/domain/providers"
	"github.com/dentalops/pricing-engine/internal/domain/repositories"
	"github.com/dentalops/pricing-engine/internal/infrastructure/observability"
	apperrors "github.com/dentalops/pricing-engine/pkg/errors"
)

// BasicInfoInput is the basic-info form payload. Margin and rounding
// increment are optional refinements over the draft defaults.
type BasicInfoInput struct {
	Name                   string   `json:"name"`
	DurationMinutes        int      `json:"duration_minutes"`
	MarginPct              *float64 `json:"margin_pct,omitempty"`
	RoundingIncrementMajor *float64 `json:"rounding_increment,omitempty"`
}

// RecipeInput is the recipe form payload: quantities per supply id and
// the free-form extra variable amount.
type RecipeInput struct {
	Recipe                  map[string]int `json:"recipe"`
	ExtraVariableMajorUnits float64        `json:"extra_variable"`
}

// ProceedTarget selects an exit from the fixed-costs remedial step.
type ProceedTarget string

const (
	ProceedToBasic  ProceedTarget = "basic"
	ProceedToAssets ProceedTarget = "assets"
)

// Manager owns the registry of open wizard sessions. Drafts are wizard
// local and kept in memory only; closing a session discards its draft
// with no compensating action, since nothing was persisted before
// submission.
type Manager struct {
	gates        *services.SetupGateService
	timeSettings *services.TimeSettingsService
	supplies     *services.SupplyCatalogService
	assetCapture *services.AssetCaptureService
	catalog      *services.ServiceCatalogService
	eventBus     providers.EventBus
	metrics      *observability.Metrics

	mu       sync.RWMutex
	sessions map[string]*Session

	sessionTTL time.Duration
	cancel     context.CancelFunc
}

// NewManager creates a wizard session manager.
func NewManager(
	gates *services.SetupGateService,
	timeSettings *services.TimeSettingsService,
	supplies *services.SupplyCatalogService,
	assetCapture *services.AssetCaptureService,
	catalog *services.ServiceCatalogService,
	eventBus providers.EventBus,
	sessionTTL time.Duration,
) *Manager {
	if sessionTTL <= 0 {
		sessionTTL = 30 * time.Minute
	}
	return &Manager{
		gates:        gates,
		timeSettings: timeSettings,
		supplies:     supplies,
		assetCapture: assetCapture,
		catalog:      catalog,
		eventBus:     eventBus,
		sessions:     make(map[string]*Session),
		sessionTTL:   sessionTTL,
	}
}

// SetMetrics configures application metrics for wizard activity.
// Without it the manager runs unmetered.
func (m *Manager) SetMetrics(metrics *observability.Metrics) {
	m.metrics = metrics
}

func (m *Manager) recordSessionOpened(ctx context.Context) {
	if m.metrics != nil {
		m.metrics.WizardSessions.Add(ctx, 1)
	}
}

func (m *Manager) recordPriceComputation(ctx context.Context) {
	if m.metrics != nil {
		m.metrics.PriceComputations.Add(ctx, 1)
	}
}

func (m *Manager) recordServiceCreated(ctx context.Context) {
	if m.metrics != nil {
		m.metrics.ServicesCreated.Add(ctx, 1)
	}
}

// Start launches the idle-session reaper and, when an event bus is
// configured, subscribes to catalog changes so a supply deleted
// anywhere is dropped from every open draft.
func (m *Manager) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	go m.reapIdleSessions(ctx)

	if m.eventBus != nil {
		events, err := m.eventBus.Subscribe(ctx, providers.EventChannelSupplies)
		if err != nil {
			cancel()
			return err
		}
		go m.processCatalogEvents(ctx, events)
	}
	return nil
}

// Stop shuts the reaper and event subscription down.
func (m *Manager) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
}

// Open starts a new session for a clinic. The entry step comes from a
// fresh gate evaluation, and the supply snapshot is the deduplicated
// catalog as of now.
func (m *Manager) Open(ctx context.Context, clinicID string) (View, error) {
	gates, timeCost, err := m.deriveGates(ctx, clinicID)
	if err != nil {
		return View{}, err
	}

	options, err := m.supplyOptions(ctx, clinicID)
	if err != nil {
		return View{}, err
	}

	session := newSession(uuid.New().String(), clinicID, gates, timeCost.PerMinuteCents, timeCost.EffectiveMinutesPerMonth, options)

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()

	m.recordSessionOpened(ctx)

	session.mu.Lock()
	defer session.mu.Unlock()
	log.Info().Str("session_id", session.ID).Str("clinic_id", clinicID).
		Str("entry_step", string(session.step)).Msg("wizard session opened")
	return session.view(), nil
}

// Get returns the current session snapshot.
func (m *Manager) Get(ctx context.Context, id string) (View, error) {
	session, err := m.session(id)
	if err != nil {
		return View{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	session.touch()
	return session.view(), nil
}

// SaveTime saves a time configuration from inside the wizard, then
// re-derives the gates and advances per the transition table.
func (m *Manager) SaveTime(ctx context.Context, id string, input entities.TimeConfigurationInput) (View, error) {
	session, err := m.session(id)
	if err != nil {
		return View{}, err
	}
	if step := currentStep(session); step != StepTimeSetup {
		return View{}, apperrors.NewConflictError("session is not at the time setup step")
	}

	if _, err := m.timeSettings.Save(ctx, session.ClinicID, input); err != nil {
		return View{}, err
	}

	gates, timeCost, err := m.deriveGates(ctx, session.ClinicID)
	if err != nil {
		return View{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	session.gates = gates
	session.perMinuteCents = timeCost.PerMinuteCents
	session.effectiveMins = timeCost.EffectiveMinutesPerMonth
	session.step = Next(StepTimeSetup, EventTimeSaved, gates)
	session.touch()
	return session.view(), nil
}

// SaveBasic validates and stores the basic-info form, then advances
// with a defensive gate re-check.
func (m *Manager) SaveBasic(ctx context.Context, id string, input BasicInfoInput) (View, error) {
	session, err := m.session(id)
	if err != nil {
		return View{}, err
	}
	if step := currentStep(session); step != StepBasicInfo {
		return View{}, apperrors.NewConflictError("session is not at the basic info step")
	}

	name := strings.TrimSpace(input.Name)
	fields := map[string]string{}
	if len(name) < 2 {
		fields["name"] = "name must be at least 2 characters"
	}
	if input.DurationMinutes <= 0 {
		fields["duration_minutes"] = "duration must be a positive number of minutes"
	}
	if input.MarginPct != nil && *input.MarginPct < 0 {
		fields["margin_pct"] = "margin cannot be negative"
	}
	if len(fields) > 0 {
		return View{}, apperrors.NewFieldValidationError("invalid basic info", fields)
	}

	gates, timeCost, err := m.deriveGates(ctx, session.ClinicID)
	if err != nil {
		return View{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	session.draft.Name = name
	session.draft.DurationMinutes = input.DurationMinutes
	if input.MarginPct != nil {
		session.draft.MarginPct = *input.MarginPct
	}
	if input.RoundingIncrementMajor != nil && *input.RoundingIncrementMajor > 0 {
		session.draft.RoundingIncrementMajor = *input.RoundingIncrementMajor
	}
	session.gates = gates
	session.perMinuteCents = timeCost.PerMinuteCents
	session.effectiveMins = timeCost.EffectiveMinutesPerMonth
	session.step = Next(StepBasicInfo, EventBasicContinue, gates)
	session.touch()
	m.recordPriceComputation(ctx)
	return session.view(), nil
}

// SaveRecipe stores the recipe quantities and advances to price review.
// Quantities of zero or less drop the line.
func (m *Manager) SaveRecipe(ctx context.Context, id string, input RecipeInput) (View, error) {
	session, err := m.session(id)
	if err != nil {
		return View{}, err
	}
	if step := currentStep(session); step != StepRecipeSelection && step != StepPriceReview {
		return View{}, apperrors.NewConflictError("session is not at the recipe step")
	}
	if input.ExtraVariableMajorUnits < 0 {
		return View{}, apperrors.NewValidationError("extra variable amount cannot be negative")
	}

	recipe := make(map[string]int, len(input.Recipe))
	for supplyID, qty := range input.Recipe {
		if qty <= 0 || supplyID == "" {
			continue
		}
		recipe[supplyID] = qty
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	session.draft.Recipe = recipe
	session.draft.ExtraVariableMajorUnits = input.ExtraVariableMajorUnits
	if session.step == StepRecipeSelection {
		session.step = Next(StepRecipeSelection, EventRecipeConfirmed, session.gates)
	}
	session.touch()
	m.recordPriceComputation(ctx)
	return session.view(), nil
}

// CreateSupplyInline registers (or reuses) a supply mid-wizard and
// selects it with quantity 1 if not already in the draft.
func (m *Manager) CreateSupplyInline(ctx context.Context, id string, input entities.SupplyInput) (View, error) {
	session, err := m.session(id)
	if err != nil {
		return View{}, err
	}
	if step := currentStep(session); step != StepRecipeSelection && step != StepPriceReview {
		return View{}, apperrors.NewConflictError("session is not at the recipe step")
	}

	supply, _, err := m.supplies.CreateOrReuse(ctx, session.ClinicID, input)
	if err != nil {
		return View{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	session.addSupply(SupplyOption{
		ID:                  supply.ID,
		Name:                supply.Name,
		CostPerPortionCents: supply.CostPerPortionCents,
	})
	if _, selected := session.draft.Recipe[supply.ID]; !selected {
		session.draft.Recipe[supply.ID] = 1
	}
	session.touch()
	m.recordPriceComputation(ctx)
	return session.view(), nil
}

// Proceed takes one of the two explicit exits from the fixed-costs
// remedial step. The step never blocks: proceeding with a zero or
// partial fixed-cost basis is allowed, the price is just flagged
// low-confidence via the gate flags.
func (m *Manager) Proceed(ctx context.Context, id string, target ProceedTarget) (View, error) {
	session, err := m.session(id)
	if err != nil {
		return View{}, err
	}
	if step := currentStep(session); step != StepFixedCostsRequired {
		return View{}, apperrors.NewConflictError("session is not at the fixed costs step")
	}

	var event Event
	switch target {
	case ProceedToBasic:
		event = EventProceedToBasic
	case ProceedToAssets:
		event = EventProceedToAssets
	default:
		return View{}, apperrors.NewValidationError("proceed target must be \"basic\" or \"assets\"")
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	session.step = Next(StepFixedCostsRequired, event, session.gates)
	session.touch()
	return session.view(), nil
}

// SaveAssets captures up to three quick assets (possibly zero, which is
// a skip), then re-derives gates and returns to basic info.
func (m *Manager) SaveAssets(ctx context.Context, id string, inputs []entities.AssetInput) (View, error) {
	session, err := m.session(id)
	if err != nil {
		return View{}, err
	}
	if step := currentStep(session); step != StepAssetsOptional {
		return View{}, apperrors.NewConflictError("session is not at the assets step")
	}

	if len(inputs) > 0 {
		if _, err := m.assetCapture.Capture(ctx, session.ClinicID, inputs); err != nil {
			return View{}, err
		}
	}

	gates, timeCost, err := m.deriveGates(ctx, session.ClinicID)
	if err != nil {
		return View{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	session.gates = gates
	session.perMinuteCents = timeCost.PerMinuteCents
	session.effectiveMins = timeCost.EffectiveMinutesPerMonth
	session.step = Next(StepAssetsOptional, EventAssetsSaved, gates)
	session.touch()
	return session.view(), nil
}

// Back steps backward from the recipe or price-review step.
func (m *Manager) Back(ctx context.Context, id string) (View, error) {
	session, err := m.session(id)
	if err != nil {
		return View{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	session.step = Next(session.step, EventBack, session.gates)
	session.touch()
	return session.view(), nil
}

// Submit re-derives the gates one final time, then asks the service
// catalog to create the service. The hard time gate is enforced here,
// not just at entry, because configuration can change concurrently. On
// failure the session stays in price review and the error is
// retryable.
func (m *Manager) Submit(ctx context.Context, id string) (View, error) {
	session, err := m.session(id)
	if err != nil {
		return View{}, err
	}

	session.mu.Lock()
	if session.step != StepPriceReview {
		session.mu.Unlock()
		return View{}, apperrors.NewConflictError("session is not at the price review step")
	}
	if session.submitting {
		session.mu.Unlock()
		return View{}, apperrors.NewConflictError("a submission is already in flight")
	}
	session.submitting = true
	clinicID := session.ClinicID
	// Build the catalog input before releasing the lock: the draft's
	// recipe map stays owned by the session and the event loop may
	// mutate it while the gate re-derivation below is in flight.
	input := entities.ServiceInput{
		Name:             session.draft.Name,
		EstimatedMinutes: session.draft.DurationMinutes,
	}
	for supplyID, qty := range session.draft.Recipe {
		input.Recipe = append(input.Recipe, entities.RecipeLine{SupplyID: supplyID, Quantity: qty})
	}
	session.mu.Unlock()

	finish := func() {
		session.mu.Lock()
		session.submitting = false
		session.mu.Unlock()
	}

	gates, timeCost, err := m.deriveGates(ctx, clinicID)
	if err != nil {
		finish()
		return View{}, err
	}
	if gates.NeedsTimeHard {
		session.mu.Lock()
		session.gates = gates
		session.perMinuteCents = timeCost.PerMinuteCents
		session.effectiveMins = timeCost.EffectiveMinutesPerMonth
		session.submitting = false
		session.mu.Unlock()
		return View{}, apperrors.NewConflictError("time configuration is required before a service can be created")
	}

	created, err := m.catalog.Create(ctx, clinicID, input)
	if err != nil {
		finish()
		return View{}, err
	}
	m.recordServiceCreated(ctx)

	session.mu.Lock()
	defer session.mu.Unlock()
	session.submitting = false
	session.gates = gates
	session.perMinuteCents = timeCost.PerMinuteCents
	session.effectiveMins = timeCost.EffectiveMinutesPerMonth
	session.created = created
	session.step = Next(StepPriceReview, EventSubmitSucceeded, gates)
	session.touch()

	log.Info().Str("session_id", session.ID).Str("service_id", created.ID).
		Msg("wizard session completed")
	return session.view(), nil
}

// Cancel closes a session and discards its draft.
func (m *Manager) Cancel(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return apperrors.NewNotFoundError("wizard session not found")
	}
	delete(m.sessions, id)
	return nil
}

// OpenSessionCount reports how many sessions are currently registered.
func (m *Manager) OpenSessionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) session(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("wizard session not found")
	}
	return session, nil
}

func currentStep(s *Session) Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// deriveGates queries the oracle and the time-cost deriver fresh. Gate
// flags are never carried between decision points.
func (m *Manager) deriveGates(ctx context.Context, clinicID string) (Gates, timeCostResult, error) {
	status, err := m.gates.Status(ctx, clinicID)
	if err != nil {
		return Gates{}, timeCostResult{}, err
	}
	timeCost, err := m.gates.CostPerMinute(ctx, clinicID)
	if err != nil {
		return Gates{}, timeCostResult{}, err
	}
	gates := Gates{
		NeedsTimeHard:   timeCost.NeedsTimeHard,
		NeedsFixedCosts: timeCost.NeedsFixedCosts,
		HasFixedCosts:   status.HasFixedCosts,
		HasAssets:       status.HasAssets,
	}
	return gates, timeCostResult{
		PerMinuteCents:           timeCost.PerMinuteCents,
		EffectiveMinutesPerMonth: timeCost.EffectiveMinutesPerMonth,
	}, nil
}

type timeCostResult struct {
	PerMinuteCents           int64
	EffectiveMinutesPerMonth int
}

func (m *Manager) supplyOptions(ctx context.Context, clinicID string) ([]SupplyOption, error) {
	supplies, err := m.supplies.List(ctx, clinicID, repositories.SupplyFilter{})
	if err != nil {
		return nil, err
	}
	options := make([]SupplyOption, 0, len(supplies))
	for _, supply := range supplies {
		options = append(options, SupplyOption{
			ID:                  supply.ID,
			Name:                supply.Name,
			CostPerPortionCents: supply.CostPerPortionCents,
		})
	}
	return options, nil
}

func (m *Manager) reapIdleSessions(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-m.sessionTTL)
			m.mu.Lock()
			for id, session := range m.sessions {
				if session.idleSince(cutoff) {
					delete(m.sessions, id)
					log.Info().Str("session_id", id).Msg("expired idle wizard session")
				}
			}
			m.mu.Unlock()
		}
	}
}

// processCatalogEvents applies supply deletions to every open draft so
// a removed consumable cannot linger in an in-progress recipe.
func (m *Manager) processCatalogEvents(ctx context.Context, events <-chan *entities.CatalogEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if event == nil || event.Type != entities.CatalogEventSupplyDeleted {
				continue
			}
			m.dropSupplyFromDrafts(event.ClinicID, event.SupplyID)
		}
	}
}

func (m *Manager) dropSupplyFromDrafts(clinicID, supplyID string) {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		if session.ClinicID == clinicID {
			sessions = append(sessions, session)
		}
	}
	m.mu.RUnlock()

	for _, session := range sessions {
		session.mu.Lock()
		session.dropSupply(supplyID)
		session.mu.Unlock()
	}
}
