package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `json:"limit" query:"limit" validate:"min=0,max=500"`
	Offset int `json:"offset" query:"offset" validate:"min=0"`
}

// Response sobre común de todas las respuestas HTTP.
type Response struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    any            `json:"data,omitempty"`
	Total   *int           `json:"total,omitempty"`
	Error   string         `json:"error,omitempty"`
	Missing map[string]any `json:"missing,omitempty"`
}
