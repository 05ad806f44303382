// Package httpjson junta los helpers JSON que antes estaban duplicados en
// cada handler (writeJSON). Con más de tres módulos ya convenía extraerlo.
package httpjson

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
)

const maxJSONBody = 1 << 20

// ErrEmptyBody: el request no trajo body.
var ErrEmptyBody = errors.New("empty body")

// Write serializa v como JSON con el status indicado.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Decode lee el body (máx 1MB) en dst. Un body vacío es error.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return err
	}
	return nil
}

// DecodeOptional igual que Decode, pero un body vacío no es error.
func DecodeOptional(r *http.Request, dst any) error {
	if err := Decode(r, dst); err != nil && !errors.Is(err, ErrEmptyBody) {
		return err
	}
	return nil
}

// QueryInt lee un entero de la query; fuera de [min,max] o inválido => def.
func QueryInt(r *http.Request, key string, def, min, max int) int {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < min || n > max {
		return def
	}
	return n
}
