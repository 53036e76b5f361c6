package tenant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dropDatabas3/rentreminder/internal/observability/logger"
)

var errNotArray = errors.New("top-level JSON value is not an array")

// Load lee la lista de inquilinos. Nunca falla: ante un LoadError lo
// registra y retorna una lista vacía, para que la corrida termine con un
// resumen de "0 inquilinos" en vez de abortar.
func Load(ctx context.Context, src Source) []Record {
	log := logger.From(ctx).With(logger.Component("tenant_loader"), logger.String("source", src.String()))

	recs, err := Read(src)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) && errors.Is(le.Err, errNotArray) {
			log.Warn("tenant list is not a JSON array, treating as empty", logger.Err(err))
		} else {
			log.Error("cannot load tenant list, treating as empty", logger.Err(err))
		}
		return []Record{}
	}

	log.Info("tenant list loaded", logger.Count(len(recs)))
	return recs
}

// Read es Load sin la política de recuperación: retorna *LoadError.
func Read(src Source) ([]Record, error) {
	var data []byte
	switch {
	case strings.TrimSpace(src.Inline) != "":
		data = []byte(src.Inline)
	case strings.TrimSpace(src.File) != "":
		b, err := os.ReadFile(src.File)
		if err != nil {
			return nil, &LoadError{Source: src.String(), Err: err}
		}
		data = b
	default:
		return nil, &LoadError{Source: "<none>", Err: errors.New("no tenant source configured")}
	}

	recs, err := decode(data)
	if err != nil {
		return nil, &LoadError{Source: src.String(), Err: err}
	}
	return recs, nil
}

// decode parsea un array JSON de objetos. Un elemento que no es objeto
// queda como registro vacío y falla la validación más adelante.
func decode(data []byte) ([]Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("parse JSON: trailing data after top-level value")
	}

	items, ok := v.([]any)
	if !ok {
		return nil, errNotArray
	}

	out := make([]Record, 0, len(items))
	for _, it := range items {
		obj, _ := it.(map[string]any)
		if obj == nil {
			obj = map[string]any{}
		}
		out = append(out, Record(obj))
	}
	return out, nil
}
