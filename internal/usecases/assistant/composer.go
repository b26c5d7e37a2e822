package assistant

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/vfg2006/traffic-assistant-api/internal/domain"
)

const NoDataAnswer = "I don't have any campaign data yet. Import a dataset and ask me again."

const notEnoughDataAnswer = "There is not enough data to make recommendations yet. Try again once your campaigns have spend, impressions and clicks."

// ExampleQuestions alimenta o texto de ajuda e o endpoint de exemplos
var ExampleQuestions = []string{
	"Give me a summary",
	"Top 3 campaigns by spend",
	"Which campaign has the best CPC?",
	"What are my best performing ads?",
	"Tell me about the second one",
	"Compare those two",
	"How many campaigns do I have?",
	"What is CTR?",
	"Spend by platform",
	"Any recommendations?",
}

// query reúne tudo o que os handlers de intenção precisam, calculado uma única vez
type query struct {
	question   string
	normalized string
	metric     Metric
	limit      int
	resolution Resolution
	snapshot   *Snapshot
}

// intent é um par (predicado, handler); a ordem da lista define a precedência
type intent struct {
	name   string
	match  func(q query) bool
	answer func(q query) string
}

var intents = []intent{
	{"count", isCountQuery, answerCount},
	{"efficiency", isEfficiencyQuery, answerEfficiency},
	{"ad_ranking", isAdRankingQuery, answerAdRanking},
	{"definition", isDefinitionQuery, answerDefinition},
	{"summary", isSummaryQuery, answerSummary},
	{"platform_breakdown", isPlatformQuery, answerPlatformBreakdown},
	{"total_metric", isTotalMetricQuery, answerTotalMetric},
	{"rate_metric", isRateMetricQuery, answerRateMetric},
	{"comparison", isComparisonQuery, answerComparison},
	{"entity_profile", isEntityQuery, answerEntityProfile},
	{"campaign_ranking", isCampaignRankingQuery, answerCampaignRanking},
	{"recommendations", isRecommendationQuery, answerRecommendations},
	{"help", func(query) bool { return true }, answerHelp},
}

// IntentNames devolve os nomes na ordem de avaliação
func IntentNames() []string {
	names := make([]string, 0, len(intents))
	for _, it := range intents {
		names = append(names, it.name)
	}
	return names
}

// Compose responde pelo caminho de regras. O último handler sempre casa, então há sempre resposta.
func Compose(snapshot *Snapshot, question string, history []domain.ConversationMessage) (string, string) {
	q := query{
		question:   question,
		normalized: Normalize(question),
		metric:     DetectMetric(question),
		limit:      FindTopN(question),
		resolution: NewResolver(snapshot).Resolve(question, history),
		snapshot:   snapshot,
	}

	for _, it := range intents {
		if it.match(q) {
			return it.answer(q), it.name
		}
	}

	return answerHelp(q), "help"
}

var rankingWords = []string{
	"top", "best", "worst", "highest", "lowest", "most", "least", "bottom", "rank", "ranking",
	"ranked", "max", "min", "maximum", "minimum", "biggest", "largest", "smallest", "fewest",
	"which", "leader", "leading",
}

var performerWords = []string{
	"performer", "performers", "performing", "performance", "perform", "winner", "best", "worst",
}

func hasRankingLanguage(q query) bool {
	return hasAnyPhrase(q.normalized, rankingWords...)
}

func mentionsAds(q query) bool {
	return hasAnyPhrase(q.normalized, "ad", "ads", "creative", "creatives")
}

func mentionsCampaigns(q query) bool {
	return hasAnyPhrase(q.normalized, "campaign", "campaigns")
}

// 1. contagens

var countPattern = regexp.MustCompile(`\b(how many|number of|count of|count|total number of)\s+(active\s+)?(campaigns?|ads?)\b`)

func isCountQuery(q query) bool {
	return countPattern.MatchString(q.normalized)
}

func answerCount(q query) string {
	campaigns := q.snapshot.CampaignEntities()
	ads := q.snapshot.AdEntities()
	activeCampaigns := len(Rank(campaigns, RankOptions{Metric: MetricSpend}))
	activeAds := len(Rank(ads, RankOptions{Metric: MetricSpend}))

	switch {
	case mentionsAds(q) && !mentionsCampaigns(q):
		return fmt.Sprintf("You have %s ads in the current dataset (%s with activity).",
			formatCount(int64(len(ads))), formatCount(int64(activeAds)))
	case mentionsCampaigns(q) && !mentionsAds(q):
		return fmt.Sprintf("You have %s campaigns in the current dataset (%s with activity).",
			formatCount(int64(len(campaigns))), formatCount(int64(activeCampaigns)))
	}

	return fmt.Sprintf("You have %s campaigns and %s ads in the current dataset.",
		formatCount(int64(len(campaigns))), formatCount(int64(len(ads))))
}

// 2. efficiency score: definição ou ranking

func isEfficiencyQuery(q query) bool {
	return hasAnyPhrase(q.normalized, "efficiency", "efficient", "efficiency score")
}

func answerEfficiency(q query) string {
	if hasRankingLanguage(q) || hasAnyPhrase(q.normalized, "performance", "winner", "performer", "performers") {
		return rankAds(q, MetricEfficiency)
	}
	return definitions["efficiency"]
}

// 3. ranking de anúncios

func isAdRankingQuery(q query) bool {
	return mentionsAds(q) && (hasRankingLanguage(q) || hasAnyPhrase(q.normalized, performerWords...))
}

func answerAdRanking(q query) string {
	metric := q.metric
	if metric == MetricNone {
		metric = MetricCTR
		if hasAnyPhrase(q.normalized, performerWords...) {
			metric = MetricEfficiency
		}
	}
	return rankAds(q, metric)
}

func rankAds(q query, metric Metric) string {
	pool := q.snapshot.AdEntities()
	scope := ""

	// "best ads in <campanha>" restringe o ranking aos anúncios da campanha resolvida
	for _, e := range q.resolution.Entities {
		if e.Kind != KindCampaign {
			continue
		}
		scoped := make([]Entity, 0)
		for _, ad := range pool {
			if Normalize(ad.CampaignName) == Normalize(e.Name) {
				scoped = append(scoped, ad)
			}
		}
		pool = scoped
		scope = fmt.Sprintf(" in campaign \"%s\"", e.Name)
		break
	}

	order := DetectOrder(q.question, metric)
	ranked := Rank(pool, RankOptions{Metric: metric, Order: order, Limit: q.limit})

	if len(ranked) == 0 {
		if metric == MetricEfficiency {
			return fmt.Sprintf("No ads%s have enough activity to rank by efficiency score yet (at least %d impressions and 1 click are needed).",
				scope, minEfficiencyImpressions)
		}
		return fmt.Sprintf("No ads%s have activity to rank by %s yet.", scope, metric.Label())
	}

	return renderRanking(ranked, metric, order, "ad", "ads", scope, q.limit)
}

// 4. definições

var definitions = map[string]string{
	"ctr":         "CTR (click-through rate) is the share of impressions that turned into clicks: clicks / impressions x 100. Higher is better.",
	"cpc":         "CPC (cost per click) is what you pay on average for each click: spend / clicks. Lower is better.",
	"cpm":         "CPM (cost per mille) is the cost of one thousand impressions: spend / impressions x 1000. Lower is better.",
	"spend":       "Spend is the total amount invested in the campaign or ad during the period.",
	"impressions": "Impressions count how many times your ads were displayed.",
	"clicks":      "Clicks count how many times people clicked on your ads.",
	"results":     "Results are the optimization events your campaigns were set up to achieve, such as leads or purchases.",
	"efficiency":  "The efficiency score divides an ad's CTR by its CPC (with a floor of $0.01). It only applies to ads with at least 100 impressions and at least one click. Higher means more engagement per dollar.",
}

var definitionAliases = map[string]string{
	"ctr":                "ctr",
	"click through rate": "ctr",
	"clickthrough rate":  "ctr",
	"cpc":                "cpc",
	"cost per click":     "cpc",
	"cpm":                "cpm",
	"cost per mille":     "cpm",
	"cost per thousand":  "cpm",
	"spend":              "spend",
	"impressions":        "impressions",
	"impression":         "impressions",
	"clicks":             "clicks",
	"click":              "clicks",
	"results":            "results",
	"result":             "results",
	"conversions":        "results",
	"efficiency":         "efficiency",
	"efficiency score":   "efficiency",
}

var definitionCues = []string{"what is", "what s", "whats", "what does", "define", "definition", "meaning", "mean", "explain"}

var definitionFiller = map[string]bool{
	"what": true, "is": true, "s": true, "whats": true, "does": true, "do": true, "define": true,
	"definition": true, "of": true, "meaning": true, "mean": true, "means": true, "explain": true,
	"the": true, "a": true, "an": true, "stand": true, "for": true, "me": true, "please": true,
	"by": true,
}

func definitionKey(q query) (string, bool) {
	if !hasAnyPhrase(q.normalized, definitionCues...) {
		return "", false
	}

	rest := make([]string, 0)
	for _, f := range strings.Fields(q.normalized) {
		if !definitionFiller[f] {
			rest = append(rest, f)
		}
	}

	key, ok := definitionAliases[strings.Join(rest, " ")]
	return key, ok
}

func isDefinitionQuery(q query) bool {
	_, ok := definitionKey(q)
	return ok
}

func answerDefinition(q query) string {
	key, _ := definitionKey(q)
	return definitions[key]
}

// 5. resumo

func isSummaryQuery(q query) bool {
	return hasAnyPhrase(q.normalized,
		"summary", "summarize", "summarise", "overview", "recap", "overall",
		"how are we doing", "how am i doing", "how is the account", "account performance")
}

func answerSummary(q query) string {
	t := q.snapshot.Totals
	return fmt.Sprintf("Account summary: %s campaigns and %s ads with %s spent, %s impressions, %s clicks and %s results. CTR %s, average CPC %s, average CPM %s.",
		formatCount(int64(t.Campaigns)),
		formatCount(int64(t.Ads)),
		formatMoney(t.Spend),
		formatCount(t.Impressions),
		formatCount(t.Clicks),
		formatCount(t.Results),
		formatPercent(t.CTR),
		formatMoney(t.AvgCPC),
		formatMoney(t.AvgCPM),
	)
}

// 6. quebra por plataforma

const maxPlatforms = 4

func isPlatformQuery(q query) bool {
	return hasAnyPhrase(q.normalized, "platform", "platforms", "channel", "channels")
}

type platformTotals struct {
	name        string
	spend       float64
	impressions int64
	clicks      int64
	results     int64
}

func answerPlatformBreakdown(q query) string {
	campaigns := q.snapshot.CampaignEntities()
	if len(campaigns) == 0 {
		return "No platform information is available in the current dataset."
	}

	groups := make([]*platformTotals, 0)
	index := make(map[string]*platformTotals)
	var total float64
	for _, c := range campaigns {
		name := c.Platform
		if strings.TrimSpace(name) == "" {
			name = "Unknown"
		}
		g, ok := index[name]
		if !ok {
			g = &platformTotals{name: name}
			index[name] = g
			groups = append(groups, g)
		}
		g.spend += c.Spend
		g.impressions += c.Impressions
		g.clicks += c.Clicks
		g.results += c.Results
		total += c.Spend
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].spend > groups[j].spend
	})
	if len(groups) > maxPlatforms {
		groups = groups[:maxPlatforms]
	}

	lines := []string{"Spend by platform:"}
	for _, g := range groups {
		lines = append(lines, fmt.Sprintf("- %s: %s (%s of spend), %s impressions, %s clicks, %s results, CTR %s",
			g.name,
			formatMoney(g.spend),
			formatPercent(share(g.spend, total)),
			formatCount(g.impressions),
			formatCount(g.clicks),
			formatCount(g.results),
			formatPercent(ctr(g.clicks, g.impressions)),
		))
	}
	return strings.Join(lines, "\n")
}

// 7. totais da conta

func isVolumeMetric(m Metric) bool {
	return m == MetricSpend || m == MetricImpressions || m == MetricClicks || m == MetricResults
}

func isAccountWide(q query) bool {
	return !q.resolution.Found() && !hasRankingLanguage(q)
}

func isTotalMetricQuery(q query) bool {
	return isVolumeMetric(q.metric) && isAccountWide(q)
}

func answerTotalMetric(q query) string {
	t := q.snapshot.Totals
	switch q.metric {
	case MetricSpend:
		return fmt.Sprintf("Total spend is %s across %s campaigns.", formatMoney(t.Spend), formatCount(int64(t.Campaigns)))
	case MetricImpressions:
		return fmt.Sprintf("Total impressions: %s.", formatCount(t.Impressions))
	case MetricClicks:
		return fmt.Sprintf("Total clicks: %s.", formatCount(t.Clicks))
	}
	return fmt.Sprintf("Total results: %s.", formatCount(t.Results))
}

// 8. CTR, CPC e CPM da conta

func isRateMetricQuery(q query) bool {
	return (q.metric == MetricCTR || q.metric.IsCost()) && isAccountWide(q)
}

func answerRateMetric(q query) string {
	t := q.snapshot.Totals
	switch q.metric {
	case MetricCTR:
		return fmt.Sprintf("Account CTR is %s (%s clicks from %s impressions).",
			formatPercent(t.CTR), formatCount(t.Clicks), formatCount(t.Impressions))
	case MetricCPC:
		return fmt.Sprintf("Average CPC is %s (%s spent over %s clicks).",
			formatMoney(t.AvgCPC), formatMoney(t.Spend), formatCount(t.Clicks))
	}
	return fmt.Sprintf("Average CPM is %s (%s spent over %s impressions).",
		formatMoney(t.AvgCPM), formatMoney(t.Spend), formatCount(t.Impressions))
}

// 9. comparação

func isComparisonQuery(q query) bool {
	return len(q.resolution.Entities) >= 2 &&
		hasAnyPhrase(q.normalized, "compare", "comparison", "vs", "versus")
}

func comparisonScore(e Entity) float64 {
	return e.CTR / math.Max(e.CPC, minCPCFloor)
}

func answerComparison(q query) string {
	a, b := q.resolution.Entities[0], q.resolution.Entities[1]

	lines := []string{
		"Comparison:",
		describe(a),
		describe(b),
	}

	scoreA, scoreB := comparisonScore(a), comparisonScore(b)
	switch {
	case scoreA > scoreB:
		lines = append(lines, fmt.Sprintf("Winner: \"%s\", with a CTR/CPC ratio of %s against %s.", a.Name, formatScore(scoreA), formatScore(scoreB)))
	case scoreB > scoreA:
		lines = append(lines, fmt.Sprintf("Winner: \"%s\", with a CTR/CPC ratio of %s against %s.", b.Name, formatScore(scoreB), formatScore(scoreA)))
	default:
		lines = append(lines, fmt.Sprintf("It's a tie: both have a CTR/CPC ratio of %s.", formatScore(scoreA)))
	}

	return strings.Join(lines, "\n")
}

func describe(e Entity) string {
	return fmt.Sprintf("%s: spend %s, %s impressions, %s clicks, %s results, CTR %s, CPC %s, CPM %s",
		title(e),
		formatMoney(e.Spend),
		formatCount(e.Impressions),
		formatCount(e.Clicks),
		formatCount(e.Results),
		formatPercent(e.CTR),
		formatMoney(e.CPC),
		formatMoney(e.CPM),
	)
}

func title(e Entity) string {
	if e.Kind == KindAd && e.CampaignName != "" {
		return fmt.Sprintf("\"%s\" (ad in campaign \"%s\")", e.Name, e.CampaignName)
	}
	return fmt.Sprintf("\"%s\" (%s)", e.Name, e.Kind)
}

// 10. perfil de uma entidade

func isEntityQuery(q query) bool {
	return q.resolution.Found()
}

func answerEntityProfile(q query) string {
	e := q.resolution.Entities[0]
	pool := q.snapshot.entitiesOf(e.Kind)

	var kindSpend float64
	for _, p := range pool {
		kindSpend += p.Spend
	}
	rank, total := spendRank(e, pool)

	return fmt.Sprintf("%s: spend %s (%s of total %s spend, rank #%d of %d), %s impressions, %s clicks, %s results, CTR %s, CPC %s, CPM %s.",
		title(e),
		formatMoney(e.Spend),
		formatPercent(share(e.Spend, kindSpend)),
		e.Kind,
		rank,
		total,
		formatCount(e.Impressions),
		formatCount(e.Clicks),
		formatCount(e.Results),
		formatPercent(e.CTR),
		formatMoney(e.CPC),
		formatMoney(e.CPM),
	)
}

// 11. ranking de campanhas

func isCampaignRankingQuery(q query) bool {
	return hasRankingLanguage(q) || q.metric != MetricNone
}

func answerCampaignRanking(q query) string {
	metric := q.metric
	if metric == MetricNone {
		metric = MetricSpend
	}

	singular, plural := "campaign", "campaigns"
	pool := q.snapshot.CampaignEntities()
	if len(pool) == 0 {
		singular, plural = "ad", "ads"
		pool = q.snapshot.AdEntities()
	}

	order := DetectOrder(q.question, metric)
	ranked := Rank(pool, RankOptions{Metric: metric, Order: order, Limit: q.limit})
	if len(ranked) == 0 {
		return fmt.Sprintf("No %s have activity to rank by %s yet.", plural, metric.Label())
	}

	return renderRanking(ranked, metric, order, singular, plural, "", q.limit)
}

// renderRanking usa o formato de entidade única para N=1 e linhas "N. <nome> - ..." para listas
func renderRanking(ranked []Entity, metric Metric, order Order, singular, plural, scope string, limit int) string {
	direction := "highest"
	if order == Ascending {
		direction = "lowest"
	}

	if limit == 1 {
		e := ranked[0]
		return fmt.Sprintf("The %s%s with the %s %s is \"%s\": %s.",
			singular, scope, direction, metric.Label(), e.Name, details(e, metric))
	}

	lines := []string{fmt.Sprintf("Top %d %s%s by %s (%s first):", len(ranked), plural, scope, metric.Label(), direction)}
	for i, e := range ranked {
		lines = append(lines, fmt.Sprintf("%d. %s - %s", i+1, e.Name, details(e, metric)))
	}
	return strings.Join(lines, "\n")
}

// details coloca a métrica do ranking primeiro, seguida do contexto básico
func details(e Entity, metric Metric) string {
	parts := []string{fmt.Sprintf("%s %s", metric.Label(), formatMetric(metric, e))}
	for _, m := range []Metric{MetricSpend, MetricClicks, MetricCTR, MetricCPC} {
		if m == metric {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s", m.Label(), formatMetric(m, e)))
	}
	return strings.Join(parts, ", ")
}

// 12. recomendações

func isRecommendationQuery(q query) bool {
	return hasAnyPhrase(q.normalized,
		"recommend", "recommendation", "recommendations", "suggest", "suggestion", "suggestions",
		"improve", "optimize", "optimise", "advice", "what should", "should i", "next steps", "tips")
}

func answerRecommendations(q query) string {
	pool := q.snapshot.CampaignEntities()
	if len(pool) == 0 {
		pool = q.snapshot.AdEntities()
	}
	active := Rank(pool, RankOptions{Metric: MetricSpend, Order: Descending})

	tips := make([]string, 0, 3)

	// maior spend com CTR abaixo da média da conta
	accountCTR := q.snapshot.Totals.CTR
	for _, e := range active {
		if e.Impressions > 0 && e.CTR < accountCTR {
			tips = append(tips, fmt.Sprintf("- Review \"%s\": it spends %s but its CTR of %s is below the account average of %s.",
				e.Name, formatMoney(e.Spend), formatPercent(e.CTR), formatPercent(accountCTR)))
			break
		}
	}

	// melhor relação CTR/CPC
	var best *Entity
	for i := range active {
		e := active[i]
		if e.Clicks == 0 {
			continue
		}
		if best == nil || comparisonScore(e) > comparisonScore(*best) {
			best = &active[i]
		}
	}
	if best != nil {
		tips = append(tips, fmt.Sprintf("- Consider moving budget toward \"%s\": it has the best CTR to CPC ratio (CTR %s at CPC %s).",
			best.Name, formatPercent(best.CTR), formatMoney(best.CPC)))
	}

	// menor alcance
	if len(active) >= 2 {
		lowest := Rank(active, RankOptions{Metric: MetricImpressions, Order: Ascending, Limit: 1})
		if len(lowest) == 1 {
			tips = append(tips, fmt.Sprintf("- \"%s\" has the lowest reach with %s impressions; check its budget and targeting.",
				lowest[0].Name, formatCount(lowest[0].Impressions)))
		}
	}

	if len(tips) == 0 {
		return notEnoughDataAnswer
	}

	return strings.Join(append([]string{"Recommendations:"}, tips...), "\n")
}

// 13. ajuda

func answerHelp(query) string {
	lines := []string{"I can answer questions about your campaigns and ads. Try one of these:"}
	for _, example := range ExampleQuestions {
		lines = append(lines, "- "+example)
	}
	return strings.Join(lines, "\n")
}
