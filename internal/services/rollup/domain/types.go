// Package domain defines the daily rollup and reconciliation types
package domain

import "time"

// RawMeasure is the slice of a raw metric row the daily rollup needs.
// The repo reads it straight off raw_ad_metrics; this service never
// mutates raw data
type RawMeasure struct {
	Date        time.Time
	AdID        string
	Impressions int64
	Reach       int64
	Clicks      int64
	Leads       int64
	Spend       float64
}

// DailyAggregate is the derived per-(client, date) rollup. It has no
// identity of its own: every field is reproducible from raw rows
type DailyAggregate struct {
	ClientID         string
	Date             time.Time
	TotalImpressions int64
	TotalReach       int64
	TotalClicks      int64
	TotalLeads       int64
	TotalSpend       float64
	AdCount          int

	// AvgCtr is clicks/impressions*100, nil when impressions are zero.
	// AvgCpl is spend/leads, nil when leads are zero
	AvgCtr *float64
	AvgCpl *float64
}

// AggregateStats reports what one aggregation pass did
type AggregateStats struct {
	RecordsAggregated int
	RawRecords        int
}

// Mismatch issue tags. Leads are checked before spend
const (
	IssueLeads = "leads_mismatch"
	IssueSpend = "spend_mismatch"
)

// SpendTolerance is the default absolute tolerance for spend comparison,
// one currency minor unit
const SpendTolerance = 0.01

// ErrTextIntegrityMismatch is the terminal error surfaced when the
// bounded repair protocol could not reconcile the tables
const ErrTextIntegrityMismatch = "integrity_mismatch_after_retry"

// DayTotals carries the two financially material sums for one date
type DayTotals struct {
	Date  time.Time
	Leads int64
	Spend float64
}

// Mismatch records both sides of a failed per-date comparison.
// A date present on one side only is compared against zeros
type Mismatch struct {
	Date     time.Time
	Issue    string
	RawLeads int64
	AggLeads int64
	RawSpend float64
	AggSpend float64
}

// VerifyResult is the read-only outcome of one verification pass
type VerifyResult struct {
	IsValid      bool
	Mismatches   []Mismatch
	DatesChecked int
}

// SyncResult is the outcome of the aggregate-verify-repair protocol
type SyncResult struct {
	Success           bool
	Attempts          int
	RecordsAggregated int
	RawRecords        int
	DatesVerified     int
	Error             string
	Mismatches        []Mismatch
}

// SyncRun is the bookkeeping row written after every sync attempt chain
type SyncRun struct {
	ID                string
	ClientID          string
	RangeStart        time.Time
	RangeEnd          time.Time
	Success           bool
	Attempts          int
	RecordsAggregated int
	RawRecords        int
	DatesVerified     int
	Mismatches        int
	ErrorText         string
	ElapsedMS         int
}
