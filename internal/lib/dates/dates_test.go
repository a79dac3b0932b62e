package dates

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoc(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestParse(t *testing.T) {
	bogota := mustLoc(t, "America/Bogota")

	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{name: "date", value: "2024-03-01", want: time.Date(2024, 3, 1, 0, 0, 0, 0, bogota)},
		{name: "date time", value: "2024-01-01 10:30:00", want: time.Date(2024, 1, 1, 10, 30, 0, 0, bogota)},
		{name: "surrounding spaces", value: " 2024-03-01 ", want: time.Date(2024, 3, 1, 0, 0, 0, 0, bogota)},
		{name: "garbage", value: "not-a-date", wantErr: true},
		{name: "empty", value: "", wantErr: true},
		{name: "day first", value: "01-03-2024", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.value, bogota)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrMalformed))
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestDaysBetween(t *testing.T) {
	madrid := mustLoc(t, "Europe/Madrid")

	assert.Equal(t, 30, DaysBetween(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, -1, DaysBetween(time.Date(2024, 3, 2, 23, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC)))
	// через переход на летнее время в Европе (31 марта 2024) сутки короче 24 часов
	assert.Equal(t, 1, DaysBetween(time.Date(2024, 3, 31, 0, 0, 0, 0, madrid), time.Date(2024, 4, 1, 0, 0, 0, 0, madrid)))
}

func TestDay(t *testing.T) {
	bogota := mustLoc(t, "America/Bogota")
	// 03:00 UTC — ещё предыдущий день в Боготе (UTC-5)
	got := Day(time.Date(2024, 3, 28, 3, 0, 0, 0, time.UTC), bogota)
	assert.Equal(t, "2024-03-27", FormatDate(got))
}

func TestFormat(t *testing.T) {
	d := time.Date(2024, 3, 31, 9, 5, 7, 0, time.UTC)
	assert.Equal(t, "2024-03-31", FormatDate(d))
	assert.Equal(t, "2024-03-31 09:05:07", FormatDateTime(d))
	assert.Equal(t, "31 de marzo del 2024", FormatLong(d))
	assert.Equal(t, "05 de diciembre del 2025", FormatLong(time.Date(2025, 12, 5, 0, 0, 0, 0, time.UTC)))
}
