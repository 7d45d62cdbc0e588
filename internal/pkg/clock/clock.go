package clock

import "time"

// Clock supplies the current time and tickers. The live duration display
// and the session purge job depend on it so tests can drive time by hand.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// Ticker is a scoped timer resource. Stop must be called when the owner
// goes away.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type systemClock struct {
	loc *time.Location
}

// New returns the wall clock reporting times in loc (UTC when nil).
func New(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &systemClock{loc: loc}
}

func (c *systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *systemClock) NewTicker(d time.Duration) Ticker {
	return &systemTicker{t: time.NewTicker(d)}
}

type systemTicker struct {
	t *time.Ticker
}

func (t *systemTicker) C() <-chan time.Time {
	return t.t.C
}

func (t *systemTicker) Stop() {
	t.t.Stop()
}
