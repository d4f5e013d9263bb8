package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWeightsAreValid(t *testing.T) {
	w := DefaultWeights()
	require.NoError(t, w.Validate())
	assert.InDelta(t, 1.0, w.Sum(), WeightSumTolerance)
	assert.Equal(t, 0.40, w.Skills)
	assert.Equal(t, 0.25, w.Experience)
	assert.Equal(t, 0.15, w.Education)
	assert.Equal(t, 0.10, w.Portfolio)
	assert.Equal(t, 0.10, w.Availability)
}

func TestWeightsValidate(t *testing.T) {
	tests := []struct {
		name    string
		weights ScoringWeights
		wantErr bool
	}{
		{"defaults", DefaultWeights(), false},
		{"custom valid", ScoringWeights{Skills: 0.5, Experience: 0.5}, false},
		{"within tolerance high", ScoringWeights{Skills: 0.5, Experience: 0.5005}, false},
		{"within tolerance low", ScoringWeights{Skills: 0.5, Experience: 0.4995}, false},
		{"sum too high", ScoringWeights{Skills: 0.6, Experience: 0.6}, true},
		{"sum too low", ScoringWeights{Skills: 0.3, Experience: 0.3}, true},
		{"just outside tolerance", ScoringWeights{Skills: 0.5, Experience: 0.502}, true},
		{"negative fraction", ScoringWeights{Skills: -0.1, Experience: 1.1}, true},
		{"fraction above one", ScoringWeights{Skills: 1.5, Experience: -0.5}, true},
		{"all zero", ScoringWeights{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.weights.Validate()
			if tt.wantErr {
				require.Error(t, err)
				var vf *ValidationFailure
				require.ErrorAs(t, err, &vf)
				assert.Equal(t, KindValidation, vf.ScoringKind())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestJobDescriptionValidate(t *testing.T) {
	tests := []struct {
		name    string
		jd      string
		wantErr bool
	}{
		{"minimum length", "0123456789", false},
		{"typical", "Senior Go engineer with Kubernetes experience", false},
		{"maximum length", string(make([]byte, MaxJobDescriptionLen)), false},
		{"too short", "too short", true},
		{"empty", "", true},
		{"too long", string(make([]byte, MaxJobDescriptionLen+1)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := JobDescription(tt.jd).Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
