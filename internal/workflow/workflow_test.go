package workflow

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletedSteps(t *testing.T) {
	assert.Empty(t, CompletedSteps(Snapshot{}).Slice())

	got := CompletedSteps(Snapshot{Links: 5, Selected: 3, SelectedShortened: 2, MainSections: 3, IncludedEvents: 1})
	assert.Equal(t, []Step{StepLinks, StepSelect, StepGenerate, StepEvents}, got.Slice())

	got = CompletedSteps(Snapshot{Links: 5, Selected: 3, SelectedShortened: 3, Exports: 1, Images: 2})
	assert.True(t, got.Has(StepShorten))
	assert.True(t, got.Has(StepExport))
	assert.True(t, got.Has(StepImage))
}

func TestAllowedNext_Gates(t *testing.T) {
	tests := []struct {
		name    string
		current Step
		snap    Snapshot
		want    []Step
	}{
		{"links with two links", StepLinks, Snapshot{Links: 2}, []Step{}},
		{"links with exactly three skips select", StepLinks, Snapshot{Links: 3}, []Step{StepSelect, StepGenerate}},
		{"links with five", StepLinks, Snapshot{Links: 5}, []Step{StepSelect}},
		{"select with two of five", StepSelect, Snapshot{Links: 5, Selected: 2}, []Step{StepLinks}},
		{"select with three of five", StepSelect, Snapshot{Links: 5, Selected: 3}, []Step{StepLinks, StepGenerate}},
		{"select use-all", StepSelect, Snapshot{Links: 2, Selected: 0}, []Step{StepLinks, StepGenerate}},
		{"generate without sections", StepGenerate, Snapshot{Links: 3, Selected: 3}, []Step{StepLinks, StepSelect}},
		{"generate with sections", StepGenerate, Snapshot{MainSections: 1}, []Step{StepLinks, StepSelect, StepEvents}},
		{"events without included", StepEvents, Snapshot{}, []Step{StepLinks, StepSelect, StepGenerate}},
		{"events with included", StepEvents, Snapshot{IncludedEvents: 1}, []Step{StepLinks, StepSelect, StepGenerate, StepShorten}},
		{"shorten is unconditional", StepShorten, Snapshot{}, []Step{StepLinks, StepSelect, StepGenerate, StepEvents, StepExport}},
		{"export is unconditional", StepExport, Snapshot{}, []Step{StepLinks, StepSelect, StepGenerate, StepEvents, StepShorten, StepImage}},
		{"image is last", StepImage, Snapshot{}, []Step{StepLinks, StepSelect, StepGenerate, StepEvents, StepShorten, StepExport}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AllowedNext(tt.current, tt.snap).Slice())
		})
	}
}

func TestAdvanceTarget(t *testing.T) {
	_, ok := AdvanceTarget(StepLinks, Snapshot{Links: 2})
	assert.False(t, ok)

	next, ok := AdvanceTarget(StepLinks, Snapshot{Links: 3})
	require.True(t, ok)
	assert.Equal(t, StepGenerate, next)

	next, ok = AdvanceTarget(StepLinks, Snapshot{Links: 4})
	require.True(t, ok)
	assert.Equal(t, StepSelect, next)

	next, ok = AdvanceTarget(StepExport, Snapshot{})
	require.True(t, ok)
	assert.Equal(t, StepImage, next)

	_, ok = AdvanceTarget(StepImage, Snapshot{Images: 1})
	assert.False(t, ok)
}

func TestParseStep(t *testing.T) {
	s, err := ParseStep("events")
	require.NoError(t, err)
	assert.Equal(t, StepEvents, s)
	assert.Equal(t, "Events", s.Label())

	_, err = ParseStep("publish")
	assert.Error(t, err)
}

func TestStepSet_MarshalJSON(t *testing.T) {
	b, err := NewStepSet(StepExport, StepLinks).MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `["links","export"]`, string(b))
}

func TestValidateSelection(t *testing.T) {
	all := []int64{1, 2, 3, 4, 5}

	got, err := ValidateSelection(all, []int64{5, 2, 2, 1})
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 2, 1}, got)

	_, err = ValidateSelection(all, []int64{1, 2})
	assert.Error(t, err)

	_, err = ValidateSelection(all, []int64{1, 2, 9})
	assert.Error(t, err)

	got, err = ValidateSelection([]int64{7, 8}, nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 8}, got)
}

func TestProperty_BackNavigationAlwaysAllowed(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("every earlier step is reachable", prop.ForAll(
		func(stepIdx int, links, selected, sections, events int) bool {
			current := Steps[stepIdx]
			snap := Snapshot{Links: links, Selected: selected, MainSections: sections, IncludedEvents: events}
			allowed := AllowedNext(current, snap)
			for _, s := range Steps[:stepIdx] {
				if !allowed.Has(s) {
					return false
				}
			}
			return !allowed.Has(current)
		},
		gen.IntRange(0, len(Steps)-1),
		gen.IntRange(0, 8),
		gen.IntRange(0, 8),
		gen.IntRange(0, 4),
		gen.IntRange(0, 3),
	))

	properties.Property("forward moves never skip more than the select step", prop.ForAll(
		func(stepIdx int, links, selected, sections, events int) bool {
			current := Steps[stepIdx]
			snap := Snapshot{Links: links, Selected: selected, MainSections: sections, IncludedEvents: events}
			for _, s := range AllowedNext(current, snap).Slice() {
				jump := s.Index() - stepIdx
				if jump > 2 || (jump == 2 && !(current == StepLinks && links == FinalLinkCount)) {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, len(Steps)-1),
		gen.IntRange(0, 8),
		gen.IntRange(0, 8),
		gen.IntRange(0, 4),
		gen.IntRange(0, 3),
	))

	properties.TestingRun(t)
}

func TestProperty_SelectionIsExactlyThreeOrAll(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("valid selections have three distinct owned ids, small issues select all", prop.ForAll(
		func(total int, picks []int) bool {
			all := make([]int64, total)
			for i := range all {
				all[i] = int64(i + 1)
			}
			ids := make([]int64, len(picks))
			for i, p := range picks {
				ids[i] = int64(p)
			}

			got, err := ValidateSelection(all, ids)
			if total <= FinalLinkCount {
				return err == nil && len(got) == total
			}
			if err != nil {
				return true
			}
			if len(got) != FinalLinkCount {
				return false
			}
			seen := map[int64]bool{}
			for _, id := range got {
				if seen[id] || id < 1 || id > int64(total) {
					return false
				}
				seen[id] = true
			}
			return true
		},
		gen.IntRange(0, 8),
		gen.SliceOf(gen.IntRange(1, 10)),
	))

	properties.TestingRun(t)
}
