package mailbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	plus2 := time.FixedZone("", 2*3600)
	minus5 := time.FixedZone("", -5*3600)

	fixtures := []struct {
		input          string
		expected       time.Time
		expectedOffset int
	}{
		{"2021-06-25 23:49:12", time.Date(2021, 6, 25, 23, 49, 12, 0, plus2), 7200},
		{" 2021-06-25 23:49:12 ", time.Date(2021, 6, 25, 23, 49, 12, 0, plus2), 7200},
		{"2021-06-25T23:49:12", time.Date(2021, 6, 25, 23, 49, 12, 0, plus2), 7200},
		{"2021-06-25 23:49:12+0200", time.Date(2021, 6, 25, 23, 49, 12, 0, plus2), 7200},
		{"2021-06-25 23:49:12 -0500", time.Date(2021, 6, 25, 23, 49, 12, 0, minus5), -18000},
		{"2021-06-25 23:49:12-05:00", time.Date(2021, 6, 25, 23, 49, 12, 0, minus5), -18000},
		{"2021-06-25T23:49:12Z", time.Date(2021, 6, 25, 23, 49, 12, 0, time.UTC), 0},
		{"2021-06-25T23:49:12+00:00", time.Date(2021, 6, 25, 23, 49, 12, 0, time.UTC), 0},
	}

	for _, fixture := range fixtures {
		t.Run(fixture.input, func(t *testing.T) {
			result, err := ParseDate(fixture.input, nil)
			require.NoError(t, err)
			assert.Truef(t, fixture.expected.Equal(result), "expected %s but got %s", fixture.expected, result)
			_, offset := result.Zone()
			assert.Equal(t, fixture.expectedOffset, offset)
		})
	}
}

func TestParseDateInLocation(t *testing.T) {
	result, err := ParseDate("2021-06-25 23:49:12", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, 6, 25, 23, 49, 12, 0, time.UTC), result)

	// an explicit offset wins over the location
	result, err = ParseDate("2021-06-25 23:49:12+0200", time.UTC)
	require.NoError(t, err)
	_, offset := result.Zone()
	assert.Equal(t, 7200, offset)
}

func TestParseInvalidDate(t *testing.T) {
	fixtures := []string{
		"",
		"yesterday",
		"25/06/2021 23:49:12",
		"2021-06-25",
	}
	for _, fixture := range fixtures {
		t.Run(fixture, func(t *testing.T) {
			_, err := ParseDate(fixture, nil)
			assert.Error(t, err)
		})
	}
}

func TestParseOffset(t *testing.T) {
	fixtures := []struct {
		input    string
		expected int
	}{
		{"", 0},
		{"UTC", 0},
		{"Z", 0},
		{"+0200", 7200},
		{"-05:30", -19800},
		{"+01", 3600},
	}
	for _, fixture := range fixtures {
		t.Run(fixture.input, func(t *testing.T) {
			loc, err := ParseOffset(fixture.input)
			require.NoError(t, err)
			_, offset := time.Date(2021, 1, 1, 0, 0, 0, 0, loc).Zone()
			assert.Equal(t, fixture.expected, offset)
		})
	}

	_, err := ParseOffset("two hours")
	assert.Error(t, err)
}
