package assistant

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/vfg2006/traffic-assistant-api/internal/domain"
)

type ResolutionSource string

const (
	SourceNone    ResolutionSource = "none"
	SourceQuoted  ResolutionSource = "quoted"
	SourceFuzzy   ResolutionSource = "fuzzy"
	SourcePair    ResolutionSource = "pair"
	SourceOrdinal ResolutionSource = "ordinal"
	SourcePronoun ResolutionSource = "pronoun"
)

// Resolution é o resultado do resolvedor: lista ordenada, possivelmente vazia
type Resolution struct {
	Entities []Entity
	Source   ResolutionSource
}

func (r Resolution) Found() bool {
	return len(r.Entities) > 0
}

const (
	fuzzyThreshold  = 0.35
	fuzzyMaxMatches = 3
)

var (
	quotedPattern     = regexp.MustCompile(`["“”]([^"“”]+)["“”]`)
	rankedLinePattern = regexp.MustCompile(`^\s*(\d{1,2})\.\s+(.+)$`)

	namedOrdinalPattern  = regexp.MustCompile(`\b(first|second|third|fourth|fifth|sixth|seventh|eighth|ninth|tenth)\b`)
	suffixOrdinalPattern = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)\b`)
	numberOrdinalPattern = regexp.MustCompile(`\b(?:number|no)\.?\s+(\d{1,2})\b`)
	hashOrdinalPattern   = regexp.MustCompile(`#\s*(\d{1,2})\b`)
)

var namedOrdinals = map[string]int{
	"first": 1, "second": 2, "third": 3, "fourth": 4, "fifth": 5,
	"sixth": 6, "seventh": 7, "eighth": 8, "ninth": 9, "tenth": 10,
}

var pairPhrases = []string{"those two", "these two", "the two", "both"}

var pronounPhrases = []string{
	"that one", "this one", "that campaign", "this campaign", "that ad", "this ad",
	"the same one", "about it", "about that", "it",
}

// Vocabulário da pergunta que não identifica entidades e fica fora da sobreposição de tokens
var genericTokens = map[string]bool{
	"the": true, "and": true, "for": true, "by": true, "of": true, "in": true, "on": true, "to": true,
	"what": true, "which": true, "how": true, "is": true, "are": true, "was": true, "were": true,
	"about": true, "me": true, "my": true, "our": true, "we": true, "tell": true, "show": true,
	"give": true, "with": true, "has": true, "have": true, "did": true, "do": true, "does": true,
	"much": true, "many": true, "all": true, "total": true, "one": true, "that": true, "this": true,
	"it": true, "its": true, "compare": true, "vs": true, "versus": true, "campaign": true,
	"campaigns": true, "ad": true, "ads": true, "top": true, "best": true, "worst": true,
	"highest": true, "lowest": true, "most": true, "least": true, "performance": true,
	"performing": true, "performer": true, "spend": true, "spent": true, "clicks": true,
	"impressions": true, "results": true, "ctr": true, "cpc": true, "cpm": true, "cost": true,
	"first": true, "second": true, "third": true, "fourth": true, "fifth": true, "sixth": true,
	"seventh": true, "eighth": true, "ninth": true, "tenth": true, "number": true, "no": true,
	"two": true, "both": true, "those": true, "these": true, "more": true, "doing": true,
	"get": true, "got": true, "us": true, "you": true, "can": true, "please": true, "list": true,
	"account": true, "average": true, "avg": true, "per": true, "same": true, "against": true,
}

// Resolver identifica a quais campanhas ou anúncios a pergunta se refere
type Resolver struct {
	snapshot *Snapshot
	byName   map[string]Entity
}

func NewResolver(snapshot *Snapshot) *Resolver {
	byName := make(map[string]Entity)
	for _, e := range snapshot.Entities() {
		key := Normalize(e.Name)
		if key == "" {
			continue
		}
		// Campanhas vêm primeiro; o primeiro nome registrado vence
		if _, exists := byName[key]; !exists {
			byName[key] = e
		}
	}

	return &Resolver{
		snapshot: snapshot,
		byName:   byName,
	}
}

// Resolve aplica a precedência: aspas, sobreposição de tokens, "those two", ordinais e pronomes.
// Nunca falha; ausência de correspondência é um resultado normal.
func (r *Resolver) Resolve(question string, history []domain.ConversationMessage) Resolution {
	if found := r.quoted(question); len(found) > 0 {
		return Resolution{Entities: found, Source: SourceQuoted}
	}

	if found := r.fuzzy(question); len(found) > 0 {
		return Resolution{Entities: found, Source: SourceFuzzy}
	}

	normalized := Normalize(question)
	memory := r.rankedMemory(history)

	if hasAnyPhrase(normalized, pairPhrases...) {
		if resolved := memory.resolved(); len(resolved) >= 2 {
			return Resolution{Entities: resolved[:2], Source: SourcePair}
		}
	}

	if positions := ordinalPositions(question); len(positions) > 0 {
		if found := memory.at(positions); len(found) > 0 {
			return Resolution{Entities: found, Source: SourceOrdinal}
		}
	}

	if hasAnyPhrase(normalized, pronounPhrases...) {
		if resolved := memory.resolved(); len(resolved) > 0 {
			return Resolution{Entities: resolved[:1], Source: SourcePronoun}
		}
		if e, ok := r.lastMentioned(history); ok {
			return Resolution{Entities: []Entity{e}, Source: SourcePronoun}
		}
	}

	return Resolution{Source: SourceNone}
}

// Lookup faz a correspondência exata por nome normalizado
func (r *Resolver) Lookup(name string) (Entity, bool) {
	e, ok := r.byName[Normalize(name)]
	return e, ok
}

func (r *Resolver) quoted(question string) []Entity {
	seen := make(map[string]bool)
	found := make([]Entity, 0)
	for _, match := range quotedPattern.FindAllStringSubmatch(question, -1) {
		e, ok := r.Lookup(match[1])
		if !ok || seen[e.Key()] {
			continue
		}
		seen[e.Key()] = true
		found = append(found, e)
	}
	return found
}

type fuzzyMatch struct {
	entity Entity
	ratio  float64
}

// fuzzy ignora o "top 10" da pergunta para que a contagem não case com nomes numerados
func (r *Resolver) fuzzy(question string) []Entity {
	withoutCount := topNPattern.ReplaceAllString(Normalize(question), " ")

	questionTokens := make(map[string]bool)
	for _, t := range Tokenize(withoutCount) {
		if !genericTokens[t] {
			questionTokens[t] = true
		}
	}
	if len(questionTokens) == 0 {
		return nil
	}

	matches := make([]fuzzyMatch, 0)
	for _, e := range r.snapshot.Entities() {
		ratio := overlapRatio(questionTokens, Tokenize(e.Name))
		if ratio >= fuzzyThreshold {
			matches = append(matches, fuzzyMatch{entity: e, ratio: ratio})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].ratio > matches[j].ratio
	})

	seen := make(map[string]bool)
	found := make([]Entity, 0, fuzzyMaxMatches)
	for _, m := range matches {
		if seen[m.entity.Key()] {
			continue
		}
		seen[m.entity.Key()] = true
		found = append(found, m.entity)
		if len(found) == fuzzyMaxMatches {
			break
		}
	}
	return found
}

// overlapRatio = |pergunta ∩ nome| / |nome|
func overlapRatio(questionTokens map[string]bool, nameTokens []string) float64 {
	unique := make(map[string]bool, len(nameTokens))
	for _, t := range nameTokens {
		unique[t] = true
	}
	if len(unique) == 0 {
		return 0
	}

	hits := 0
	for t := range unique {
		if questionTokens[t] {
			hits++
		}
	}
	return float64(hits) / float64(len(unique))
}

// rankedMemory posiciona cada nome da lista pela numeração exibida; nomes não resolvidos ficam nil
type rankedMemory []*Entity

func (m rankedMemory) resolved() []Entity {
	out := make([]Entity, 0, len(m))
	for _, e := range m {
		if e != nil {
			out = append(out, *e)
		}
	}
	return out
}

// at devolve as entidades das posições (1-based); posições fora do intervalo são ignoradas
func (m rankedMemory) at(positions []int) []Entity {
	out := make([]Entity, 0, len(positions))
	for _, p := range positions {
		if p < 1 || p > len(m) || m[p-1] == nil {
			continue
		}
		out = append(out, *m[p-1])
	}
	return out
}

func (r *Resolver) rankedMemory(history []domain.ConversationMessage) rankedMemory {
	items := RankedListItems(history)
	if len(items) == 0 {
		return nil
	}

	size := 0
	for _, it := range items {
		if it.Position > size {
			size = it.Position
		}
	}

	memory := make(rankedMemory, size)
	for _, it := range items {
		if memory[it.Position-1] != nil {
			continue
		}
		if e, ok := r.lookupListLine(it.Text); ok {
			entity := e
			memory[it.Position-1] = &entity
		}
	}
	return memory
}

// lookupListLine tenta o maior prefixo separado por " - " que corresponda a um nome do dataset,
// já que o próprio nome pode conter " - "
func (r *Resolver) lookupListLine(text string) (Entity, bool) {
	parts := strings.Split(text, " - ")
	for n := len(parts); n >= 1; n-- {
		candidate := strings.TrimSpace(strings.Join(parts[:n], " - "))
		candidate = strings.Trim(candidate, `"“”*`)
		if e, ok := r.Lookup(candidate); ok {
			return e, true
		}
	}
	return Entity{}, false
}

// lastMentioned percorre o histórico do mais recente para o mais antigo procurando nomes
// entre aspas ou em listas numeradas; retorna no primeiro encontrado
func (r *Resolver) lastMentioned(history []domain.ConversationMessage) (Entity, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		content := history[i].Content

		for _, match := range quotedPattern.FindAllStringSubmatch(content, -1) {
			if e, ok := r.Lookup(match[1]); ok {
				return e, true
			}
		}

		// Nomes com aspas internas não passam pelo padrão acima
		if e, ok := r.quotedInText(content); ok {
			return e, true
		}

		for _, it := range parseRankedLines(content) {
			if e, ok := r.lookupListLine(it.Text); ok {
				return e, true
			}
		}
	}
	return Entity{}, false
}

// quotedInText devolve a entidade cujo nome aparece primeiro no texto entre aspas retas
func (r *Resolver) quotedInText(content string) (Entity, bool) {
	best, bestAt := Entity{}, -1
	for _, e := range r.snapshot.Entities() {
		if !strings.Contains(e.Name, `"`) {
			continue
		}
		at := strings.Index(content, `"`+e.Name+`"`)
		if at >= 0 && (bestAt < 0 || at < bestAt) {
			best, bestAt = e, at
		}
	}
	return best, bestAt >= 0
}

// RankedListItem é uma linha "N. <nome> - ..." encontrada numa resposta anterior
type RankedListItem struct {
	Position int
	Text     string
}

// RankedListItems varre as mensagens do assistente da mais recente para a mais antiga e devolve
// as linhas numeradas da primeira mensagem que contiver alguma. Função pura sobre o histórico.
func RankedListItems(history []domain.ConversationMessage) []RankedListItem {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role != domain.RoleAssistant {
			continue
		}
		if items := parseRankedLines(history[i].Content); len(items) > 0 {
			return items
		}
	}
	return nil
}

func parseRankedLines(content string) []RankedListItem {
	items := make([]RankedListItem, 0)
	for _, line := range strings.Split(content, "\n") {
		match := rankedLinePattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		position, err := strconv.Atoi(match[1])
		if err != nil || position < 1 {
			continue
		}
		if !strings.Contains(match[2], " - ") {
			continue
		}
		items = append(items, RankedListItem{Position: position, Text: strings.TrimSpace(match[2])})
	}
	return items
}

// ordinalPositions devolve as posições (1-based) citadas, na ordem em que aparecem
func ordinalPositions(question string) []int {
	lower := strings.ToLower(question)

	type hit struct {
		at       int
		position int
	}
	hits := make([]hit, 0)

	for _, idx := range namedOrdinalPattern.FindAllStringSubmatchIndex(lower, -1) {
		hits = append(hits, hit{at: idx[0], position: namedOrdinals[lower[idx[2]:idx[3]]]})
	}

	for _, pattern := range []*regexp.Regexp{suffixOrdinalPattern, numberOrdinalPattern, hashOrdinalPattern} {
		for _, idx := range pattern.FindAllStringSubmatchIndex(lower, -1) {
			n, err := strconv.Atoi(lower[idx[2]:idx[3]])
			if err != nil {
				continue
			}
			hits = append(hits, hit{at: idx[0], position: n})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].at < hits[j].at
	})

	seen := make(map[int]bool)
	positions := make([]int, 0, len(hits))
	for _, h := range hits {
		if seen[h.position] {
			continue
		}
		seen[h.position] = true
		positions = append(positions, h.position)
	}
	return positions
}
