package core

import (
	"fmt"
	"time"

	"github.com/GregMSThompson/pennyweek/internal/models"
)

const instanceDateLayout = "20060102"

// Expansion is the result of running a schedule forward to a cutoff.
type Expansion struct {
	Drafts   []models.Transaction
	Schedule models.RecurringTransaction
}

// Done reports whether the schedule has nothing left to generate up to cutoff.
func (e Expansion) Done(cutoff time.Time) bool {
	s := e.Schedule
	if s.NextOccurrence.After(cutoff) {
		return true
	}
	return s.EndDate != nil && s.NextOccurrence.After(*s.EndDate)
}

// Expand generates the instances due in [schedule.NextOccurrence, cutoff],
// honouring EndDate, and returns the schedule with its cursor advanced past the
// last generated instance. limit caps the number of drafts (0 means no cap); a
// capped expansion leaves the cursor on the first instance not yet generated.
func Expand(schedule models.RecurringTransaction, cutoff time.Time, limit int) (Expansion, error) {
	out := Expansion{Schedule: schedule}
	anchor := AnchorDay(schedule)
	cursor := schedule.NextOccurrence

	for !cursor.After(cutoff) && (schedule.EndDate == nil || !cursor.After(*schedule.EndDate)) {
		if limit > 0 && len(out.Drafts) == limit {
			break
		}
		out.Drafts = append(out.Drafts, draftFor(schedule, cursor))

		next, err := Advance(cursor, schedule.Frequency, anchor)
		if err != nil {
			return Expansion{Schedule: schedule}, err
		}
		cursor = next
	}

	out.Schedule.NextOccurrence = cursor
	return out, nil
}

// Advance moves cursor one period forward. Monthly and yearly steps land on
// anchorDay clamped to the length of the target month, so a schedule anchored
// on the 31st runs Jan 31, Feb 28, Mar 31, Apr 30.
func Advance(cursor time.Time, freq models.Frequency, anchorDay int) (time.Time, error) {
	switch freq {
	case models.FrequencyDaily:
		return cursor.AddDate(0, 0, 1), nil
	case models.FrequencyWeekly:
		return cursor.AddDate(0, 0, 7), nil
	case models.FrequencyMonthly:
		return addMonthsClamped(cursor, 1, anchorDay), nil
	case models.FrequencyYearly:
		return addMonthsClamped(cursor, 12, anchorDay), nil
	default:
		return cursor, fmt.Errorf("unknown frequency %q", freq)
	}
}

// AnchorDay is the day-of-month monthly and yearly schedules recur on.
func AnchorDay(s models.RecurringTransaction) int {
	if !s.StartDate.IsZero() {
		return s.StartDate.Day()
	}
	return s.NextOccurrence.Day()
}

// InstanceID is deterministic so re-running an expansion overwrites rather
// than duplicates instances.
func InstanceID(scheduleID string, date time.Time) string {
	return fmt.Sprintf("%s_%s", scheduleID, date.UTC().Format(instanceDateLayout))
}

func draftFor(s models.RecurringTransaction, date time.Time) models.Transaction {
	return models.Transaction{
		ID:          InstanceID(s.ID, date),
		UserID:      s.UserID,
		Amount:      s.Amount,
		Currency:    s.Currency,
		Category:    s.Category,
		Type:        s.Type,
		Date:        date,
		Note:        s.Note,
		RecurringID: s.ID,
		IsRecurring: true,
	}
}

func addMonthsClamped(t time.Time, months, anchorDay int) time.Time {
	// Day 1 never overflows, so AddDate cannot roll into the following month.
	first := time.Date(t.Year(), t.Month(), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	target := first.AddDate(0, months, 0)
	day := anchorDay
	if last := daysIn(target.Year(), target.Month(), t.Location()); day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return target.AddDate(0, 0, day-1)
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// StartOfDay truncates t to midnight UTC; schedule dates are stored this way.
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
