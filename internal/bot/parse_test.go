package bot

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseMeasurementsFullLine(t *testing.T) {
	input, err := parseMeasurements("70.5 175 80 95 90")
	require.NoError(t, err)
	require.Equal(t, 70.5, input.Weight)
	require.Equal(t, 175.0, *input.Height)
	require.Equal(t, 80.0, *input.Waist)
	require.Equal(t, 95.0, *input.Hips)
	require.Equal(t, 90.0, *input.Chest)
}

func TestParseMeasurementsWeightOnly(t *testing.T) {
	input, err := parseMeasurements("  70,5 ")
	require.NoError(t, err)
	require.Equal(t, 70.5, input.Weight)
	require.Nil(t, input.Height)
	require.Nil(t, input.Waist)
	require.Nil(t, input.Hips)
	require.Nil(t, input.Chest)
}

func TestParseMeasurementsPartial(t *testing.T) {
	input, err := parseMeasurements("70.5 175 80")
	require.NoError(t, err)
	require.Equal(t, 175.0, *input.Height)
	require.Equal(t, 80.0, *input.Waist)
	require.Nil(t, input.Hips)
	require.Nil(t, input.Chest)
}

func TestParseMeasurementsRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"only spaces", "   "},
		{"too many values", "70 175 80 95 90 100"},
		{"not a number", "семьдесят"},
		{"mixed garbage", "70.5 abc"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseMeasurements(tc.text)
			require.Error(t, err)
		})
	}
}
