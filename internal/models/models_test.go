package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayString_BucketsByCalendarDayNotElapsedTime(t *testing.T) {
	lateNight := time.Date(2026, 9, 1, 23, 59, 0, 0, time.Local)
	earlyNext := time.Date(2026, 9, 2, 0, 1, 0, 0, time.Local)

	assert.NotEqual(t, DayString(lateNight), DayString(earlyNext))

	morning := time.Date(2026, 9, 1, 6, 0, 0, 0, time.Local)
	assert.Equal(t, DayString(morning), DayString(lateNight))
}

func TestDayString_Format(t *testing.T) {
	d := time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local)
	assert.Equal(t, "Tue Sep 01 2026", DayString(d))
}
