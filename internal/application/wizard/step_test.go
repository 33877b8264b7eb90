package wizard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dentalops/pricing-engine/internal/application/wizard"
)

func TestEntryStep(t *testing.T) {
	cases := []struct {
		name  string
		gates wizard.Gates
		want  wizard.Step
	}{
		{
			"hard time gate wins over everything",
			wizard.Gates{NeedsTimeHard: true, NeedsFixedCosts: true},
			wizard.StepTimeSetup,
		},
		{
			"no costs and no assets detours to fixed costs",
			wizard.Gates{NeedsFixedCosts: true},
			wizard.StepFixedCostsRequired,
		},
		{
			"recorded fixed costs skip the detour even with a zero total",
			wizard.Gates{NeedsFixedCosts: true, HasFixedCosts: true},
			wizard.StepBasicInfo,
		},
		{
			"assets alone skip the detour",
			wizard.Gates{NeedsFixedCosts: true, HasAssets: true},
			wizard.StepBasicInfo,
		},
		{
			"fully configured clinic starts at basic info",
			wizard.Gates{HasFixedCosts: true, HasAssets: true},
			wizard.StepBasicInfo,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, wizard.EntryStep(tc.gates))
		})
	}
}

func TestNext_TimeSetup(t *testing.T) {
	t.Run("invalid configuration keeps the session at time setup", func(t *testing.T) {
		got := wizard.Next(wizard.StepTimeSetup, wizard.EventTimeSaved, wizard.Gates{NeedsTimeHard: true})
		assert.Equal(t, wizard.StepTimeSetup, got)
	})

	t.Run("valid configuration without fixed costs routes to the detour", func(t *testing.T) {
		got := wizard.Next(wizard.StepTimeSetup, wizard.EventTimeSaved, wizard.Gates{NeedsFixedCosts: true})
		assert.Equal(t, wizard.StepFixedCostsRequired, got)
	})

	t.Run("valid configuration with fixed costs goes straight to basic info", func(t *testing.T) {
		got := wizard.Next(wizard.StepTimeSetup, wizard.EventTimeSaved, wizard.Gates{HasFixedCosts: true})
		assert.Equal(t, wizard.StepBasicInfo, got)
	})
}

func TestNext_BasicInfoDefensiveRecheck(t *testing.T) {
	t.Run("continue advances to recipe selection", func(t *testing.T) {
		got := wizard.Next(wizard.StepBasicInfo, wizard.EventBasicContinue, wizard.Gates{HasFixedCosts: true})
		assert.Equal(t, wizard.StepRecipeSelection, got)
	})

	t.Run("time gate tripped concurrently bounces back to time setup", func(t *testing.T) {
		got := wizard.Next(wizard.StepBasicInfo, wizard.EventBasicContinue, wizard.Gates{NeedsTimeHard: true})
		assert.Equal(t, wizard.StepTimeSetup, got)
	})

	t.Run("fixed-cost prerequisite lost concurrently detours", func(t *testing.T) {
		got := wizard.Next(wizard.StepBasicInfo, wizard.EventBasicContinue, wizard.Gates{NeedsFixedCosts: true})
		assert.Equal(t, wizard.StepFixedCostsRequired, got)
	})
}

func TestNext_ForwardFlow(t *testing.T) {
	gates := wizard.Gates{HasFixedCosts: true}

	assert.Equal(t, wizard.StepPriceReview,
		wizard.Next(wizard.StepRecipeSelection, wizard.EventRecipeConfirmed, gates))
	assert.Equal(t, wizard.StepCompleted,
		wizard.Next(wizard.StepPriceReview, wizard.EventSubmitSucceeded, gates))
}

func TestNext_FixedCostsExits(t *testing.T) {
	gates := wizard.Gates{NeedsFixedCosts: true}

	assert.Equal(t, wizard.StepBasicInfo,
		wizard.Next(wizard.StepFixedCostsRequired, wizard.EventProceedToBasic, gates))
	assert.Equal(t, wizard.StepAssetsOptional,
		wizard.Next(wizard.StepFixedCostsRequired, wizard.EventProceedToAssets, gates))
	assert.Equal(t, wizard.StepBasicInfo,
		wizard.Next(wizard.StepAssetsOptional, wizard.EventAssetsSaved, gates))
}

func TestNext_Back(t *testing.T) {
	gates := wizard.Gates{}

	assert.Equal(t, wizard.StepBasicInfo,
		wizard.Next(wizard.StepRecipeSelection, wizard.EventBack, gates))
	assert.Equal(t, wizard.StepRecipeSelection,
		wizard.Next(wizard.StepPriceReview, wizard.EventBack, gates))
}

func TestNext_UndefinedEventIsNoOp(t *testing.T) {
	cases := []struct {
		step  wizard.Step
		event wizard.Event
	}{
		{wizard.StepTimeSetup, wizard.EventRecipeConfirmed},
		{wizard.StepBasicInfo, wizard.EventSubmitSucceeded},
		{wizard.StepCompleted, wizard.EventBasicContinue},
		{wizard.StepCompleted, wizard.EventBack},
		{wizard.StepTimeSetup, wizard.EventBack},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.step, wizard.Next(tc.step, tc.event, wizard.Gates{}))
	}
}
