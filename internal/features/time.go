package features

import (
	"time"

	"retailfx/pkg/contracts/domain"
)

// DeriveTimeFeatures computes the calendar attributes of t.
func DeriveTimeFeatures(t time.Time) domain.TimeFeatures {
	month := int(t.Month())
	hour := t.Hour()
	dow := (int(t.Weekday()) + 6) % 7
	_, week := t.ISOWeek()

	return domain.TimeFeatures{
		Year:            t.Year(),
		Month:           month,
		Day:             t.Day(),
		DayOfWeek:       dow,
		DayName:         t.Weekday().String(),
		Hour:            hour,
		Quarter:         (month-1)/3 + 1,
		WeekOfYear:      week,
		Season:          SeasonOf(t.Month()),
		IsWeekend:       dow >= 5,
		IsBusinessHour:  hour >= 9 && hour <= 17,
		IsHolidaySeason: month == 11 || month == 12,
	}
}

// SeasonOf maps a month onto its meteorological season.
func SeasonOf(m time.Month) domain.Season {
	switch m {
	case time.December, time.January, time.February:
		return domain.SeasonWinter
	case time.March, time.April, time.May:
		return domain.SeasonSpring
	case time.June, time.July, time.August:
		return domain.SeasonSummer
	default:
		return domain.SeasonFall
	}
}

// ApplyTimeFeatures fills Time on every row.
func ApplyTimeFeatures(rows []domain.TransactionRow) {
	for i := range rows {
		rows[i].Time = DeriveTimeFeatures(rows[i].InvoiceDate)
	}
}
