// Package timeutil は設定タイムゾーンでの「今日」「昨日」を扱います。
package timeutil

import "time"

// Clock は現在時刻と暦日の計算を提供します。テストでは FixedClock に差し替えます。
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

type systemClock struct {
	loc *time.Location
}

// NewSystemClock は実時刻を返す Clock を作成します。loc が nil なら UTC を使います。
func NewSystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &systemClock{loc: loc}
}

func (c *systemClock) Now() time.Time            { return time.Now().In(c.loc) }
func (c *systemClock) Location() *time.Location { return c.loc }

// FixedClock は任意の時刻を返す Clock です。Set / AddDays で時刻を進められます。
type FixedClock struct {
	now time.Time
	loc *time.Location
}

func NewFixedClock(now time.Time, loc *time.Location) *FixedClock {
	if loc == nil {
		loc = time.UTC
	}
	return &FixedClock{now: now.In(loc), loc: loc}
}

func (c *FixedClock) Now() time.Time            { return c.now }
func (c *FixedClock) Location() *time.Location { return c.loc }

func (c *FixedClock) Set(t time.Time) { c.now = t.In(c.loc) }

func (c *FixedClock) AddDays(days int) { c.now = c.now.AddDate(0, 0, days) }

// CalendarDate は t の loc における暦日を、UTC の0時として返します。
// DBの date 型に保存・比較する値はすべてこの形に揃えます。
func CalendarDate(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// Today は clock の現在時刻における暦日です。
func Today(c Clock) time.Time {
	return CalendarDate(c.Now(), c.Location())
}

// PreviousDay は暦日 d の前日です。
func PreviousDay(d time.Time) time.Time {
	return d.AddDate(0, 0, -1)
}

// IsYesterday は暦日 d が today の前日かどうかを返します。
func IsYesterday(d, today time.Time) bool {
	return PreviousDay(today).Equal(d)
}
