package assistant

import (
	"strings"
)

// Normalize converte para minúsculas, troca tudo fora de [a-z0-9\s] por espaço e colapsa os espaços
func Normalize(s string) string {
	lower := strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokenize divide o texto normalizado e descarta tokens de um caractere
func Tokenize(s string) []string {
	fields := strings.Fields(Normalize(s))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) > 1 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// hasPhrase verifica se a frase aparece em limites de palavra no texto já normalizado
func hasPhrase(normalized, phrase string) bool {
	return strings.Contains(" "+normalized+" ", " "+phrase+" ")
}

func hasAnyPhrase(normalized string, phrases ...string) bool {
	for _, p := range phrases {
		if hasPhrase(normalized, p) {
			return true
		}
	}
	return false
}
