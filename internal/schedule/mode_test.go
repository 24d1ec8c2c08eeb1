package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	cases := []struct {
		in   string
		want Mode
	}{
		{"drip", ModeDrip},
		{"goteo", ModeDrip},
		{"GOTEO", ModeDrip},
		{"spray", ModeSpray},
		{"aspersion", ModeSpray},
		{"Aspersión", ModeSpray},
		{"  manual  ", ModeManual},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseMode(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseMode_Invalid(t *testing.T) {
	_, err := ParseMode("flood")
	assert.ErrorContains(t, err, "unknown watering mode")

	_, err = ParseMode("")
	assert.ErrorContains(t, err, "required")
}

func TestNormalizeMode(t *testing.T) {
	assert.Equal(t, "aspersion", NormalizeMode(" Aspersión "))
	assert.Equal(t, "goteo", NormalizeMode("GOTEO"))
	assert.Equal(t, "", NormalizeMode("   "))
}

func TestParseKind(t *testing.T) {
	for _, valid := range []string{"irrigation", "lighting"} {
		k, err := ParseKind(valid)
		require.NoError(t, err)
		assert.Equal(t, Kind(valid), k)
	}

	_, err := ParseKind("heating")
	assert.ErrorContains(t, err, "unknown schedule kind")
}
