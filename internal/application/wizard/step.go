// Package wizard implements the guided service-creation flow as an
// explicit finite state machine. Transitions are pure functions over
// (step, event, gates); all I/O happens in the session manager at
// transition edges, never inside the transition logic itself.
package wizard

// Step identifies where a wizard session currently is.
type Step string

const (
	StepTimeSetup          Step = "time_setup"
	StepBasicInfo          Step = "basic_info"
	StepRecipeSelection    Step = "recipe_selection"
	StepPriceReview        Step = "price_review"
	StepFixedCostsRequired Step = "fixed_costs_required"
	StepAssetsOptional     Step = "assets_optional"
	StepCompleted          Step = "completed"
)

// Event is something that happened at a step boundary.
type Event string

const (
	// EventTimeSaved fires after a valid time configuration was stored
	// from inside the wizard.
	EventTimeSaved Event = "time_saved"

	// EventBasicContinue fires when the basic-info form passes
	// validation and the user continues.
	EventBasicContinue Event = "basic_continue"

	// EventRecipeConfirmed fires when the recipe step is confirmed; an
	// empty recipe is allowed.
	EventRecipeConfirmed Event = "recipe_confirmed"

	// EventSubmitSucceeded fires when the service was created.
	EventSubmitSucceeded Event = "submit_succeeded"

	// EventProceedToBasic and EventProceedToAssets are the two explicit
	// exits from the fixed-costs remedial step.
	EventProceedToBasic  Event = "proceed_to_basic"
	EventProceedToAssets Event = "proceed_to_assets"

	// EventAssetsSaved fires after the optional asset capture, whether
	// anything was saved or the step was skipped.
	EventAssetsSaved Event = "assets_saved"

	// EventBack steps backward through the forward flow.
	EventBack Event = "back"
)

// Gates is a snapshot of the clinic's readiness flags. It is re-derived
// from the stores at every decision point rather than carried between
// them; configuration can change concurrently in another session.
type Gates struct {
	NeedsTimeHard   bool `json:"needs_time_hard"`
	NeedsFixedCosts bool `json:"needs_fixed_costs"`
	HasFixedCosts   bool `json:"has_fixed_costs"`
	HasAssets       bool `json:"has_assets"`
}

// EntryStep picks where a new session starts. Time setup is the hard
// gate; the fixed-costs detour only triggers when the clinic has
// recorded neither costs nor assets.
func EntryStep(g Gates) Step {
	if g.NeedsTimeHard {
		return StepTimeSetup
	}
	if g.NeedsFixedCosts && !g.HasFixedCosts && !g.HasAssets {
		return StepFixedCostsRequired
	}
	return StepBasicInfo
}

// Next returns the step that follows the given event. An event that is
// not defined for the current step leaves it unchanged; the manager
// rejects out-of-step operations before they get here.
func Next(step Step, event Event, g Gates) Step {
	switch step {
	case StepTimeSetup:
		if event == EventTimeSaved {
			if g.NeedsTimeHard {
				return StepTimeSetup
			}
			if g.NeedsFixedCosts && !g.HasFixedCosts && !g.HasAssets {
				return StepFixedCostsRequired
			}
			return StepBasicInfo
		}

	case StepBasicInfo:
		if event == EventBasicContinue {
			// Defensive re-check: prerequisites can be invalidated from
			// another session between entry and continue.
			if g.NeedsTimeHard {
				return StepTimeSetup
			}
			if g.NeedsFixedCosts && !g.HasFixedCosts && !g.HasAssets {
				return StepFixedCostsRequired
			}
			return StepRecipeSelection
		}

	case StepRecipeSelection:
		switch event {
		case EventRecipeConfirmed:
			return StepPriceReview
		case EventBack:
			return StepBasicInfo
		}

	case StepPriceReview:
		switch event {
		case EventSubmitSucceeded:
			return StepCompleted
		case EventBack:
			return StepRecipeSelection
		}

	case StepFixedCostsRequired:
		switch event {
		case EventProceedToBasic:
			return StepBasicInfo
		case EventProceedToAssets:
			return StepAssetsOptional
		}

	case StepAssetsOptional:
		if event == EventAssetsSaved {
			return StepBasicInfo
		}
	}

	return step
}
