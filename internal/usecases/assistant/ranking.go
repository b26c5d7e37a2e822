package assistant

import (
	"sort"
)

// RankOptions controla o pipeline filtrar -> ordenar -> truncar
type RankOptions struct {
	Metric Metric
	Order  Order
	Limit  int
	// IncludeIdle mantém entidades sem atividade (usado em contagens)
	IncludeIdle bool
}

// Rank ordena de forma estável: empates preservam a ordem original do dataset
func Rank(entities []Entity, opts RankOptions) []Entity {
	candidates := make([]Entity, 0, len(entities))
	for _, e := range entities {
		if !opts.IncludeIdle && !e.HasSignal() {
			continue
		}
		if opts.Metric == MetricEfficiency && (e.Impressions < minEfficiencyImpressions || e.Clicks <= 0) {
			continue
		}
		candidates = append(candidates, e)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i].Value(opts.Metric), candidates[j].Value(opts.Metric)
		if opts.Order == Ascending {
			return a < b
		}
		return a > b
	})

	if opts.Limit > 0 && len(candidates) > opts.Limit {
		candidates = candidates[:opts.Limit]
	}

	return candidates
}

// spendRank devolve a posição (1-based) da entidade no ranking de spend do seu tipo
func spendRank(target Entity, pool []Entity) (int, int) {
	ranked := Rank(pool, RankOptions{Metric: MetricSpend, Order: Descending, IncludeIdle: true})
	for i, e := range ranked {
		if e.Key() == target.Key() {
			return i + 1, len(ranked)
		}
	}
	return 0, len(ranked)
}
