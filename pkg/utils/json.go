package utils

import (
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var JSON = jsoniter.ConfigCompatibleWithStandardLibrary

func DecodeJSON(r io.Reader, v any) error {
	return JSON.NewDecoder(r).Decode(v)
}

func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return JSON.NewEncoder(w).Encode(v)
}
