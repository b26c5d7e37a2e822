package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectMetric(t *testing.T) {
	tests := []struct {
		question string
		want     Metric
	}{
		{"what is my cost per click", MetricCPC},
		{"best CPC", MetricCPC},
		{"cost per thousand impressions", MetricCPM},
		{"click-through rate please", MetricCTR},
		{"top campaign by ctr", MetricCTR},
		{"how many impressions", MetricImpressions},
		{"most clicks", MetricClicks},
		{"total conversions", MetricResults},
		{"how much did we spend", MetricSpend},
		{"what did it cost", MetricSpend},
		{"hello", MetricNone},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectMetric(tt.question))
		})
	}
}

func TestDetectOrder(t *testing.T) {
	tests := []struct {
		name     string
		question string
		metric   Metric
		want     Order
	}{
		{name: "best CPC é o menor", question: "best", metric: MetricCPC, want: Ascending},
		{name: "worst spend é o menor", question: "worst", metric: MetricSpend, want: Ascending},
		{name: "worst CPC é o maior", question: "worst", metric: MetricCPC, want: Descending},
		{name: "best CTR é o maior", question: "best ctr", metric: MetricCTR, want: Descending},
		{name: "lowest explícito", question: "lowest spend", metric: MetricSpend, want: Ascending},
		{name: "highest explícito vence custo", question: "highest cpm", metric: MetricCPM, want: Descending},
		{name: "top explícito", question: "top campaigns", metric: MetricClicks, want: Descending},
		{name: "sem sinal em volume", question: "campaigns by impressions", metric: MetricImpressions, want: Descending},
		{name: "sem sinal em custo", question: "campaigns by cpc", metric: MetricCPC, want: Ascending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectOrder(tt.question, tt.metric))
		})
	}
}

func TestFindTopN(t *testing.T) {
	tests := []struct {
		question string
		want     int
	}{
		{"top 3 campaigns", 3},
		{"top 25 ads", 10},
		{"top 0 ads", 1},
		{"best campaign", 1},
		{"lowest 2 by cpc", 2},
		{"show me 5 campaigns", 1},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			assert.Equal(t, tt.want, FindTopN(tt.question))
		})
	}
}

func TestMetricLabel(t *testing.T) {
	assert.Equal(t, "CTR", MetricCTR.Label())
	assert.Equal(t, "efficiency score", MetricEfficiency.Label())
	assert.True(t, MetricCPM.IsCost())
	assert.False(t, MetricCTR.IsCost())
	assert.Equal(t, "ascending", Ascending.String())
}
