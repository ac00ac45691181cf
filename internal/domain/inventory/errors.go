package inventory

import "errors"

// ErrShortfall la salida supera el stock disponible. La capa de aplicación lo convierte
// en domain.InsufficientStockError con producto y cantidades.
var ErrShortfall = errors.New("salida supera el stock disponible")
