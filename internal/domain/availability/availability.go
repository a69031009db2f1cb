// Package availability turns a doctor's weekly rules into candidate and bookable slots.
// Everything here is pure; callers supply the rules, the bookings and "today".
package availability

import (
	"sort"
	"time"

	"medibook/internal/domain/entity"
)

// SlotGranularity is the spacing between slot starts.
const SlotGranularity = 30 * time.Minute

// CandidateSlots enumerates slot starts in [start, end) of every active rule for the
// weekday of date. Dates before today yield nothing.
func CandidateSlots(rules []entity.AvailabilityRule, date, today entity.Date) []entity.TimeOfDay {
	if date.Before(today) {
		return []entity.TimeOfDay{}
	}

	weekday := int(date.Weekday())
	seen := make(map[entity.TimeOfDay]struct{})
	slots := []entity.TimeOfDay{}
	for i := range rules {
		rule := &rules[i]
		if !rule.IsActive || rule.DayOfWeek != weekday {
			continue
		}
		for t := rule.StartTime; t < rule.EndTime; t = t.Add(SlotGranularity) {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			slots = append(slots, t)
		}
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })
	return slots
}

// IsOccupied reports whether [start, start+length) intersects a scheduled or confirmed
// appointment on date.
func IsOccupied(appointments []entity.Appointment, date entity.Date, start entity.TimeOfDay, length time.Duration) bool {
	return Conflict(appointments, date, start, length) != nil
}

// Conflict returns the first active appointment on date whose span intersects
// [start, start+length).
func Conflict(appointments []entity.Appointment, date entity.Date, start entity.TimeOfDay, length time.Duration) *entity.Appointment {
	end := start.Add(length)
	for i := range appointments {
		a := &appointments[i]
		if !a.IsActive() || a.AppointmentDate != date {
			continue
		}
		if a.AppointmentTime < end && start < a.AppointmentTime.Add(a.Duration()) {
			return a
		}
	}
	return nil
}

// OccupiedSlots returns the candidates blocked by active appointments, in order.
func OccupiedSlots(candidates []entity.TimeOfDay, appointments []entity.Appointment, date entity.Date) []entity.TimeOfDay {
	occupied := []entity.TimeOfDay{}
	for _, t := range candidates {
		if IsOccupied(appointments, date, t, SlotGranularity) {
			occupied = append(occupied, t)
		}
	}
	return occupied
}

// BookableSlots is candidates minus the occupied ones. Order is preserved.
func BookableSlots(candidates []entity.TimeOfDay, appointments []entity.Appointment, date entity.Date) []entity.TimeOfDay {
	bookable := make([]entity.TimeOfDay, 0, len(candidates))
	for _, t := range candidates {
		if IsOccupied(appointments, date, t, SlotGranularity) {
			continue
		}
		bookable = append(bookable, t)
	}
	return bookable
}

// Contains reports whether t is one of slots.
func Contains(slots []entity.TimeOfDay, t entity.TimeOfDay) bool {
	for _, s := range slots {
		if s == t {
			return true
		}
	}
	return false
}

// DayNames returns the distinct weekday names of the active rules, Sunday first.
func DayNames(rules []entity.AvailabilityRule) []string {
	var days [7]bool
	for i := range rules {
		if rules[i].IsActive && rules[i].DayOfWeek >= 0 && rules[i].DayOfWeek <= 6 {
			days[rules[i].DayOfWeek] = true
		}
	}
	names := []string{}
	for d, ok := range days {
		if ok {
			names = append(names, time.Weekday(d).String())
		}
	}
	return names
}

// FindOverlap returns the first active rule in existing that overlaps candidate,
// skipping the rule with the same ID.
func FindOverlap(existing []entity.AvailabilityRule, candidate *entity.AvailabilityRule) *entity.AvailabilityRule {
	for i := range existing {
		r := &existing[i]
		if r.ID == candidate.ID || !r.IsActive {
			continue
		}
		if r.Overlaps(candidate) {
			return r
		}
	}
	return nil
}
