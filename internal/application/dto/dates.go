package dto

import "time"

// DateLayout formato de fechas (sin hora) en requests y respuestas.
const DateLayout = "2006-01-02"

// ParseDate interpreta s como YYYY-MM-DD. Cadena vacía devuelve nil.
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatDate formatea t como YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
