package steps

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepRegistry(t *testing.T) {
	expectedSteps := []string{
		ValidateURL, FetchProfile, ExtractProfile, ExtractPosts, Adapt, Render, Export,
	}

	assert.Equal(t, expectedSteps, Names())
	for i, stepName := range expectedSteps {
		def, ok := StepRegistry[stepName]
		require.True(t, ok, "Step %s should be in registry", stepName)
		assert.Equal(t, stepName, def.Name)
		assert.Equal(t, i+1, def.Order)
		assert.NotEmpty(t, def.Category)
	}
}

func TestStepRegistryCategories(t *testing.T) {
	categories := map[string][]string{
		CategoryInput:      {ValidateURL},
		CategoryFetch:      {FetchProfile},
		CategoryExtraction: {ExtractProfile, ExtractPosts},
		CategoryDocument:   {Adapt, Render, Export},
	}

	for category, stepNames := range categories {
		for _, stepName := range stepNames {
			def, ok := StepRegistry[stepName]
			require.True(t, ok)
			assert.Equal(t, category, def.Category, "Step %s should be in category %s", stepName, category)
		}
	}
}

func TestDependencyError(t *testing.T) {
	err := &DependencyError{
		Step:                "test_step",
		MissingDependencies: []string{"dep1", "dep2"},
	}

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing dependencies")
	assert.Contains(t, err.Error(), "test_step")
}

func TestValidateDependencies_UnknownStep(t *testing.T) {
	err := NewTracker().ValidateDependencies("unknown_step")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown step")
}

func TestTracker_StartRequiresDependencies(t *testing.T) {
	tr := NewTracker()

	err := tr.Start(Adapt)
	var depErr *DependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Equal(t, []string{ExtractProfile}, depErr.MissingDependencies)
	assert.Equal(t, StatusPending, tr.Status(Adapt))

	require.NoError(t, tr.Start(ValidateURL))
	assert.Equal(t, StatusInProgress, tr.Status(ValidateURL))
	tr.Complete(ValidateURL)
	assert.Equal(t, StatusCompleted, tr.Status(ValidateURL))
	require.NoError(t, tr.Start(FetchProfile))
}

func TestTracker_AvailableAndBlocked(t *testing.T) {
	tr := NewTracker()
	assert.Equal(t, []string{ValidateURL}, tr.Available())
	assert.Len(t, tr.Blocked(), len(StepRegistry)-1)

	for _, s := range []string{ValidateURL, FetchProfile} {
		require.NoError(t, tr.Start(s))
		tr.Complete(s)
	}
	assert.Equal(t, []string{ExtractProfile, ExtractPosts}, tr.Available())
	assert.Equal(t, []string{Adapt, Render, Export}, tr.Blocked())
}

func TestTracker_FailAndSkip(t *testing.T) {
	tr := NewTracker()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return clock }

	require.NoError(t, tr.Start(ValidateURL))
	clock = clock.Add(250 * time.Millisecond)
	tr.Fail(ValidateURL, errors.New("bad url"))
	tr.Skip(Export)

	records := tr.Records()
	require.Len(t, records, len(StepRegistry))
	assert.Equal(t, StatusFailed, records[0].Status)
	assert.Equal(t, "bad url", records[0].Error)
	assert.Equal(t, 250*time.Millisecond, records[0].Duration)
	assert.Equal(t, StatusSkipped, records[len(records)-1].Status)
	assert.Empty(t, tr.Status("nope"))
}
