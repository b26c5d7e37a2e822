package assistant

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// formatMoney renderiza valores monetários com duas casas e separador de milhar
func formatMoney(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	if v < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -v)
	}
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// formatCount arredonda e aplica separador de milhar
func formatCount(v int64) string {
	return humanize.Comma(v)
}

func formatPercent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return fmt.Sprintf("%.2f%%", v)
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// formatMetric escolhe o formato adequado à métrica
func formatMetric(m Metric, e Entity) string {
	switch m {
	case MetricSpend, MetricCPC, MetricCPM:
		return formatMoney(e.Value(m))
	case MetricImpressions:
		return formatCount(e.Impressions)
	case MetricClicks:
		return formatCount(e.Clicks)
	case MetricResults:
		return formatCount(e.Results)
	case MetricCTR:
		return formatPercent(e.CTR)
	case MetricEfficiency:
		return formatScore(e.Efficiency)
	}
	return formatScore(e.Value(m))
}

func share(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return part / total * 100
}
