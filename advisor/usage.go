package advisor

import (
	"errors"
	"time"

	"amomaster/models"
)

// ErrDailyLimitReached is returned by Consume when a limited user has used
// every call of the day.
var ErrDailyLimitReached = errors.New("daily limit reached")

const (
	DefaultDailyLimit = 3
	DefaultTrialDays  = 30

	usageDateLayout = "2006-01-02"
	unlimited       = -1
)

// UsageStatus is the quota view of one user. RemainingCount is -1 for
// unlimited users.
type UsageStatus struct {
	UsageCount     int  `json:"usage_count"`
	RemainingCount int  `json:"remaining_count"`
	DailyLimit     int  `json:"daily_limit"`
	CanUse         bool `json:"can_use"`
	InTrial        bool `json:"in_trial"`
	IsPremium      bool `json:"is_premium"`
	TrialDaysLeft  int  `json:"trial_days_left"`
}

// UsagePolicy applies the daily AI quota. Premium users and users in their
// trial period are unlimited; a user without trial start date is in trial.
type UsagePolicy struct {
	DailyLimit int
	TrialDays  int
	Location   *time.Location
	Now        func() time.Time
}

func NewUsagePolicy(dailyLimit, trialDays int, loc *time.Location) UsagePolicy {
	if loc == nil {
		loc = time.Local
	}
	return UsagePolicy{DailyLimit: dailyLimit, TrialDays: trialDays, Location: loc, Now: time.Now}
}

func (p UsagePolicy) now() time.Time {
	loc := p.Location
	if loc == nil {
		loc = time.Local
	}
	if p.Now == nil {
		return time.Now().In(loc)
	}
	return p.Now().In(loc)
}

// Today is the current usage date, YYYY-MM-DD.
func (p UsagePolicy) Today() string {
	return p.now().Format(usageDateLayout)
}

// trialElapsed returns whole days since the trial started, and false when no
// valid start date is recorded.
func (p UsagePolicy) trialElapsed(start string) (int, bool) {
	if start == "" {
		return 0, false
	}
	now := p.now()
	d, err := time.ParseInLocation(usageDateLayout, start, now.Location())
	if err != nil {
		return 0, false
	}
	return int(now.Sub(d).Hours() / 24), true
}

func (p UsagePolicy) inTrial(start string) bool {
	days, ok := p.trialElapsed(start)
	if !ok {
		return true
	}
	return days < p.TrialDays
}

// Status reports the quota of user without changing it.
func (p UsagePolicy) Status(user models.User) UsageStatus {
	count := user.AIUsageCount
	if user.AIUsageDate != p.Today() {
		count = 0
	}

	inTrial := p.inTrial(user.TrialStartDate)
	s := UsageStatus{
		UsageCount: count,
		DailyLimit: p.DailyLimit,
		InTrial:    inTrial,
		IsPremium:  user.IsPremium,
	}

	if inTrial || user.IsPremium {
		s.RemainingCount = unlimited
		s.CanUse = true
	} else {
		s.RemainingCount = max(0, p.DailyLimit-count)
		s.CanUse = s.RemainingCount > 0
	}

	if days, ok := p.trialElapsed(user.TrialStartDate); ok && inTrial {
		s.TrialDaysLeft = max(0, p.TrialDays-days)
	}
	return s
}

// Consume records one AI call on user. It starts the trial on first use and
// resets the counter on a new day. On ErrDailyLimitReached user is left
// untouched.
func (p UsagePolicy) Consume(user *models.User) (UsageStatus, error) {
	today := p.Today()

	trialStart := user.TrialStartDate
	if trialStart == "" {
		trialStart = today
	}

	count := user.AIUsageCount + 1
	if user.AIUsageDate != today {
		count = 1
	}

	isUnlimited := p.inTrial(trialStart) || user.IsPremium
	if !isUnlimited && count > p.DailyLimit {
		return p.Status(*user), ErrDailyLimitReached
	}

	user.AIUsageCount = count
	user.AIUsageDate = today
	user.TrialStartDate = trialStart
	return p.Status(*user), nil
}
