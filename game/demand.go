package game

import (
	"math/rand"
	"sort"
)

// DemandSchedule maps a 1-based week number to the retailer's customer demand.
// It is immutable after construction, so one schedule may be shared by every
// instance in a room (all four instances must see identical demand).
//
// Festive weeks double the *previous* week's resolved demand. The rule is
// recursive: if weeks 10 and 11 are both festive and week 9 resolves to 80,
// week 10 resolves to 160 and week 11 to 320. Week 1 is never festive.
type DemandSchedule struct {
	base    []int
	festive map[int]bool
}

// NewDemandSchedule draws the festive weeks from rng per the rules. rng is
// typically PartitionedRNG.ForSubsystem(SubsystemDemand).
func NewDemandSchedule(rules Rules, rng *rand.Rand) *DemandSchedule {
	festive := make(map[int]bool, rules.FestiveCount)
	window := rules.FestiveMax - rules.FestiveMin + 1
	for len(festive) < rules.FestiveCount {
		festive[rules.FestiveMin+rng.Intn(window)] = true
	}
	return &DemandSchedule{base: append([]int(nil), rules.BaseDemand...), festive: festive}
}

// NewDemandScheduleWithFestive builds a schedule with explicit festive weeks.
// Used by scenario tests and replays; weeks <= 1 are ignored.
func NewDemandScheduleWithFestive(rules Rules, festiveWeeks []int) *DemandSchedule {
	festive := make(map[int]bool, len(festiveWeeks))
	for _, w := range festiveWeeks {
		if w > 1 {
			festive[w] = true
		}
	}
	return &DemandSchedule{base: append([]int(nil), rules.BaseDemand...), festive: festive}
}

// Demand returns the customer demand for a 1-based week. Weeks past the base
// schedule reuse the last scheduled value; weeks <= 0 have zero demand.
func (d *DemandSchedule) Demand(week int) int {
	if week <= 0 {
		return 0
	}
	if week > 1 && d.festive[week] {
		return d.Demand(week-1) * 2
	}
	if week > len(d.base) {
		return d.base[len(d.base)-1]
	}
	return d.base[week-1]
}

// IsFestive reports whether the given week was drawn as festive.
func (d *DemandSchedule) IsFestive(week int) bool {
	return d.festive[week]
}

// FestiveWeeks returns the festive week numbers in ascending order.
func (d *DemandSchedule) FestiveWeeks() []int {
	weeks := make([]int, 0, len(d.festive))
	for w := range d.festive {
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)
	return weeks
}
