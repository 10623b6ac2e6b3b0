package holiday

import (
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

// Calendar answers whether a service date falls on an observed public
// holiday. It is consulted only for the administrative-surcharge rule.
type Calendar struct {
	cal *cal.Calendar
}

// NewUS builds the United States federal holiday calendar.
func NewUS() *Calendar {
	c := &cal.Calendar{Name: "us-federal", Cacheable: true}
	c.AddHoliday(us.Holidays...)
	return &Calendar{cal: c}
}

// IsHoliday reports whether the date is a holiday on either its actual or
// its observed day.
func (c *Calendar) IsHoliday(date time.Time) bool {
	actual, observed, _ := c.cal.IsHoliday(date)
	return actual || observed
}
