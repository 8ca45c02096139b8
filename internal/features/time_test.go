package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"retailfx/pkg/contracts/domain"
)

func TestDeriveTimeFeatures(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want domain.TimeFeatures
	}{
		{
			name: "wednesday morning in december",
			at:   time.Date(2010, time.December, 1, 8, 26, 0, 0, time.UTC),
			want: domain.TimeFeatures{
				Year: 2010, Month: 12, Day: 1, DayOfWeek: 2, DayName: "Wednesday",
				Hour: 8, Quarter: 4, WeekOfYear: 48, Season: domain.SeasonWinter,
				IsWeekend: false, IsBusinessHour: false, IsHolidaySeason: true,
			},
		},
		{
			name: "sunday business hour",
			at:   time.Date(2011, time.May, 15, 17, 59, 0, 0, time.UTC),
			want: domain.TimeFeatures{
				Year: 2011, Month: 5, Day: 15, DayOfWeek: 6, DayName: "Sunday",
				Hour: 17, Quarter: 2, WeekOfYear: 19, Season: domain.SeasonSpring,
				IsWeekend: true, IsBusinessHour: true, IsHolidaySeason: false,
			},
		},
		{
			name: "iso week belongs to previous year",
			at:   time.Date(2011, time.January, 2, 9, 0, 0, 0, time.UTC),
			want: domain.TimeFeatures{
				Year: 2011, Month: 1, Day: 2, DayOfWeek: 6, DayName: "Sunday",
				Hour: 9, Quarter: 1, WeekOfYear: 52, Season: domain.SeasonWinter,
				IsWeekend: true, IsBusinessHour: true, IsHolidaySeason: false,
			},
		},
		{
			name: "monday evening in september",
			at:   time.Date(2011, time.September, 5, 18, 0, 0, 0, time.UTC),
			want: domain.TimeFeatures{
				Year: 2011, Month: 9, Day: 5, DayOfWeek: 0, DayName: "Monday",
				Hour: 18, Quarter: 3, WeekOfYear: 36, Season: domain.SeasonFall,
				IsWeekend: false, IsBusinessHour: false, IsHolidaySeason: false,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveTimeFeatures(tt.at))
		})
	}
}

func TestSeasonOf(t *testing.T) {
	want := map[time.Month]domain.Season{
		time.January: domain.SeasonWinter, time.February: domain.SeasonWinter,
		time.March: domain.SeasonSpring, time.April: domain.SeasonSpring, time.May: domain.SeasonSpring,
		time.June: domain.SeasonSummer, time.July: domain.SeasonSummer, time.August: domain.SeasonSummer,
		time.September: domain.SeasonFall, time.October: domain.SeasonFall, time.November: domain.SeasonFall,
		time.December: domain.SeasonWinter,
	}
	for m, s := range want {
		assert.Equal(t, s, SeasonOf(m), m.String())
	}
}

func TestDeriveTimeFeatures_UsesWallClock(t *testing.T) {
	at := time.Date(2011, 12, 9, 23, 50, 0, 0, time.FixedZone("", 5*3600))
	got := DeriveTimeFeatures(at)

	assert.Equal(t, 23, got.Hour)
	assert.Equal(t, 9, got.Day)
	assert.Equal(t, "Friday", got.DayName)
	assert.False(t, got.IsBusinessHour)
}
