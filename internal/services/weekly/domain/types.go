// Package domain defines the weekly summary types
package domain

import "time"

// RawAdMeasure is the per-ad slice of a raw metric row the weekly rollup
// needs, including the lookup attributes that ride along with each ad
type RawAdMeasure struct {
	Date         time.Time
	AdID         string
	AdName       string
	CampaignID   string
	CampaignName string
	Impressions  int64
	Reach        int64
	Clicks       int64
	Leads        int64
	Spend        float64
	VideoViews   int64
}

// Summary is one per-(client, ISO week, ad) rollup. WeekYear follows the
// ISO-8601 week-numbering year, which can differ from the calendar year
// of WeekStart around January 1st
type Summary struct {
	ClientID     string
	WeekYear     int
	WeekNumber   int
	AdID         string
	AdName       string
	CampaignID   string
	CampaignName string
	WeekStart    time.Time
	WeekEnd      time.Time

	TotalImpressions int64
	TotalReach       int64
	TotalClicks      int64
	TotalLeads       int64
	TotalSpend       float64
	TotalVideoViews  int64

	// AvgCtr/AvgCpl follow the same null-guard rules as the daily rollup
	AvgCtr *float64
	AvgCpl *float64

	// EfficiencyGrade is S..F from cost per lead, nil when leads or
	// spend are zero
	EfficiencyGrade *string
}

// BuildStats reports what one build pass did
type BuildStats struct {
	AdsSummarized int
	RawRecords    int
	WeekYear      int
	WeekNumber    int
}
