package catalog

import (
	"donpollo_back_end/internal/models"

	"github.com/shopspring/decimal"
)

// SampleProducts est le catalogue de démarrage inséré quand la table est vide
func SampleProducts() []models.Product {
	return []models.Product{
		{Name: "Pechuga de Pollo", Description: "Pechuga fresca sin hueso", Price: decimal.NewFromInt(15000), Stock: 50, Image: "pechuga.jpg"},
		{Name: "Alas de Pollo", Description: "Alas frescas (paquete de 1kg)", Price: decimal.NewFromInt(12000), Stock: 30, Image: "alas.jpg"},
		{Name: "Piernas de Pollo", Description: "Piernas frescas (paquete de 1kg)", Price: decimal.NewFromInt(13000), Stock: 40, Image: "piernas.jpg"},
		{Name: "Pollo Entero", Description: "Pollo entero fresco", Price: decimal.NewFromInt(25000), Stock: 20, Image: "pollo_entero.jpg"},
		{Name: "Muslos de Pollo", Description: "Muslos frescos (paquete de 1kg)", Price: decimal.NewFromInt(14000), Stock: 35, Image: "muslos.jpg"},
		{Name: "Filete de Pechuga", Description: "Filete de pechuga marinado", Price: decimal.NewFromInt(18000), Stock: 25, Image: "filete.jpg"},
	}
}
