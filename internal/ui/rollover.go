package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/robfig/cron/v3"

	"haru/internal/dateutil"
)

// scheduleMidnightRollover starts a cron job that fires at midnight in the
// given timezone and pushes a day-change message into the running program.
// The returned func stops the scheduler.
func scheduleMidnightRollover(p *tea.Program, loc *time.Location) func() {
	c := cron.New(cron.WithLocation(loc))
	c.AddFunc("@midnight", func() {
		p.Send(DayRolloverMsg(dateutil.Today(loc)))
	})
	c.Start()
	return func() { c.Stop() }
}
