// Package model defines shared data structures.
package model

import "time"

// Statistic is a counter driven by published average rates. A zero rate is
// treated as missing.
type Statistic struct {
	ID      string
	Daily   float64
	Monthly float64
	Yearly  float64
	Current int64
}

// Rates are the published averages for a statistic.
type Rates struct {
	Daily   float64
	Monthly float64
	Yearly  float64
}

// Rates returns the statistic's averages.
func (s Statistic) Rates() Rates {
	return Rates{Daily: s.Daily, Monthly: s.Monthly, Yearly: s.Yearly}
}

// Source is a citation for a detail record. Link may be empty.
type Source struct {
	Name string
	Link string
}

// Detail holds the historical and sourcing information for a statistic.
type Detail struct {
	Title       string
	Description string
	Sources     []Source
	Years       []int
	Values      []*float64
	World       *WorldComparison
}

// WorldComparison holds comparable series for other jurisdictions.
type WorldComparison struct {
	Years  []int
	Series []WorldSeries
}

// WorldSeries is one jurisdiction's series with its source links.
type WorldSeries struct {
	Jurisdiction string
	Values       []*float64
	Source       string
	Links        []string
}

// Snapshot records the averages published for a statistic at fetch time.
type Snapshot struct {
	FetchedAt time.Time
	Source    string
	StatID    string
	Rates     Rates
}
