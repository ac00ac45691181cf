package postgres

import (
	"fmt"
	"strings"
)

// whereBuilder arma condiciones con placeholders $n numerados en orden; los valores
// viajan siempre como argumentos, nunca interpolados.
type whereBuilder struct {
	conds []string
	args  []any
}

// add agrega una condición; cada "?" se reemplaza por el siguiente $n.
func (b *whereBuilder) add(cond string, args ...any) {
	for _, a := range args {
		b.args = append(b.args, a)
		cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", len(b.args)), 1)
	}
	b.conds = append(b.conds, cond)
}

func (b *whereBuilder) where() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

// page devuelve LIMIT/OFFSET. limit <= 0 no limita.
func (b *whereBuilder) page(limit, offset int) string {
	var sb strings.Builder
	if limit > 0 {
		b.args = append(b.args, limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(b.args))
	}
	if offset > 0 {
		b.args = append(b.args, offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(b.args))
	}
	return sb.String()
}
