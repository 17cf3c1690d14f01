package orders

import "time"

const (
	OrderPrefix   = "ORD-"
	InvoicePrefix = "FAC-"

	numberLayout = "20060102150405"
)

// Number dérive un numéro lisible de l'horodatage à la seconde près.
// Deux commandes dans la même seconde donnent le même numéro : la contrainte
// d'unicité rejette la seconde (apperr.ErrConflict), sans nouvel essai.
func Number(prefix string, t time.Time) string {
	return prefix + t.Format(numberLayout)
}
