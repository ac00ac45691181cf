package entity

// Customer cliente al que se le registran ventas.
type Customer struct {
	ID       int64
	Name     string
	Document string
	Phone    string
	Email    string
}
