package assistant

import (
	"regexp"
	"strconv"
)

type Metric string

const (
	MetricNone        Metric = ""
	MetricSpend       Metric = "spend"
	MetricImpressions Metric = "impressions"
	MetricClicks      Metric = "clicks"
	MetricResults     Metric = "results"
	MetricCTR         Metric = "ctr"
	MetricCPC         Metric = "cpc"
	MetricCPM         Metric = "cpm"

	// MetricEfficiency só é usada pelo ranking de anúncios, nunca pelo detector
	MetricEfficiency Metric = "efficiency"
)

type Order int

const (
	Descending Order = iota
	Ascending
)

func (o Order) String() string {
	if o == Ascending {
		return "ascending"
	}
	return "descending"
}

// IsCost indica métricas em que valores menores são melhores
func (m Metric) IsCost() bool {
	return m == MetricCPC || m == MetricCPM
}

// Label é o rótulo exibido nas respostas
func (m Metric) Label() string {
	switch m {
	case MetricSpend:
		return "spend"
	case MetricImpressions:
		return "impressions"
	case MetricClicks:
		return "clicks"
	case MetricResults:
		return "results"
	case MetricCTR:
		return "CTR"
	case MetricCPC:
		return "CPC"
	case MetricCPM:
		return "CPM"
	case MetricEfficiency:
		return "efficiency score"
	}
	return string(m)
}

type metricKeyword struct {
	phrase string
	metric Metric
}

// A ordem importa: frases mais específicas antes das genéricas ("cost per click" antes de "cost")
var metricKeywords = []metricKeyword{
	{"cost per click", MetricCPC},
	{"cost per clicks", MetricCPC},
	{"cpc", MetricCPC},
	{"cost per mille", MetricCPM},
	{"cost per thousand", MetricCPM},
	{"cost per 1000", MetricCPM},
	{"cpm", MetricCPM},
	{"click through rate", MetricCTR},
	{"clickthrough rate", MetricCTR},
	{"click rate", MetricCTR},
	{"ctr", MetricCTR},
	{"impressions", MetricImpressions},
	{"impression", MetricImpressions},
	{"clicks", MetricClicks},
	{"click", MetricClicks},
	{"results", MetricResults},
	{"result", MetricResults},
	{"conversions", MetricResults},
	{"conversion", MetricResults},
	{"leads", MetricResults},
	{"spend", MetricSpend},
	{"spent", MetricSpend},
	{"spending", MetricSpend},
	{"budget", MetricSpend},
	{"cost", MetricSpend},
	{"costs", MetricSpend},
}

// DetectMetric devolve a primeira métrica canônica encontrada na pergunta
func DetectMetric(question string) Metric {
	normalized := Normalize(question)
	for _, kw := range metricKeywords {
		if hasPhrase(normalized, kw.phrase) {
			return kw.metric
		}
	}
	return MetricNone
}

// DetectOrder decide a polaridade da ordenação.
// Palavras explícitas vencem; "best" em métricas de custo significa o menor valor.
func DetectOrder(question string, metric Metric) Order {
	normalized := Normalize(question)

	switch {
	case hasAnyPhrase(normalized, "lowest", "least", "min", "minimum", "bottom", "fewest", "smallest"):
		return Ascending
	case hasAnyPhrase(normalized, "highest", "most", "max", "maximum", "top", "biggest", "largest"):
		return Descending
	}

	best := Descending
	if metric.IsCost() {
		best = Ascending
	}

	switch {
	case hasAnyPhrase(normalized, "best", "better"):
		return best
	case hasAnyPhrase(normalized, "worst", "worse"):
		return flip(best)
	}

	if metric.IsCost() {
		return Ascending
	}
	return Descending
}

func flip(o Order) Order {
	if o == Ascending {
		return Descending
	}
	return Ascending
}

var topNPattern = regexp.MustCompile(`(top|best|highest|lowest|worst|least|most)\s+(\d{1,2})`)

const maxTopN = 10

// FindTopN extrai o N de "top 5", limitado a [1,10]; ausente vale 1
func FindTopN(question string) int {
	match := topNPattern.FindStringSubmatch(Normalize(question))
	if match == nil {
		return 1
	}

	n, err := strconv.Atoi(match[2])
	if err != nil || n < 1 {
		return 1
	}
	if n > maxTopN {
		return maxTopN
	}
	return n
}
