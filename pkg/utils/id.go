package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

const queryIDSize = 12

func GenerateID(size int) (string, error) {
	return gonanoid.Generate(characters, size)
}

// NewQueryID identifica uma pergunta nos logs; em caso de falha do gerador devolve "unknown"
func NewQueryID() string {
	id, err := GenerateID(queryIDSize)
	if err != nil {
		return "unknown"
	}
	return id
}
