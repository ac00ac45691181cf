package entity

// Provider proveedor de mercancía; obligatorio en las ENTRADAS.
type Provider struct {
	ID    int64
	Name  string
	Phone string
	Email string
}
