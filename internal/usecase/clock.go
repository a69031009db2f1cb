package usecase

import (
	"time"

	"medibook/internal/domain/entity"
)

// Clock yields "now" in the application time zone.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

func NewClock(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &Clock{Now: time.Now, Location: loc}
}

func (c *Clock) Time() time.Time {
	return c.Now().In(c.Location)
}

// Today is the current calendar date in the application time zone.
func (c *Clock) Today() entity.Date {
	return entity.DateOf(c.Time())
}
