package rakuten

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEventDate(t *testing.T) {
	got, err := ParseEventDate("Mon Jan 02 2023 10:00:00 GMT+0000 (Coordinated Universal Time)")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2023, 1, 2, 10, 0, 0, 0, time.UTC)))

	name, offset := got.Zone()
	assert.Equal(t, "GMT", name)
	assert.Equal(t, 0, offset)
}

func TestParseEventDateOffsets(t *testing.T) {
	got, err := ParseEventDate("Tue Mar 14 2023 08:15:30 PDT-0700")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2023, 3, 14, 15, 15, 30, 0, time.UTC)))

	name, offset := got.Zone()
	assert.Equal(t, "PDT", name)
	assert.Equal(t, -7*3600, offset)
}

func TestParseEventDateRejects(t *testing.T) {
	cases := []string{
		"",
		"2023-01-02T10:00:00Z",
		"Mon Jan 02 2023 10:00:00",
		"Mon Jan 02 2023 10:00:00 GMT",
		"Mon Jan 02 2023 10:00:00 G1T+0000",
		"Mon Jan 32 2023 10:00:00 GMT+0000",
	}
	for _, raw := range cases {
		_, err := ParseEventDate(raw)
		assert.Error(t, err, raw)
	}
}

func TestParseCreatedOn(t *testing.T) {
	got, err := ParseCreatedOn(" 2023-01-02T10:00:00.123Z ")
	require.NoError(t, err)
	assert.Equal(t, 123*int(time.Millisecond), got.Nanosecond())

	_, err = ParseCreatedOn("01/02/2023")
	assert.Error(t, err)
}

func TestQueryLayouts(t *testing.T) {
	ts := time.Date(2023, 7, 4, 9, 5, 1, 0, time.UTC)
	assert.Equal(t, "2023-07-04 09:05:01", ts.Format(QueryTimeLayout))
	assert.Equal(t, "20230704", ts.Format(ReportDateLayout))
}
