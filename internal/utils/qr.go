package utils

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// PickupQR encode les numéros de commande et de facture pour le retrait en boutique
func PickupQR(orderNumber, invoiceNumber string) ([]byte, error) {
	return qrcode.Encode(PickupPayload(orderNumber, invoiceNumber), qrcode.Medium, 256)
}

func PickupPayload(orderNumber, invoiceNumber string) string {
	return fmt.Sprintf("pedido:%s;factura:%s", orderNumber, invoiceNumber)
}
