package utils

import (
	"encoding/base64"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
)

// GenerateSepaQR génère un QR SEPA (EPC) en base64 prêt à mettre dans <img src="...">
func GenerateSepaQR(iban, bic, name, ref string, amount decimal.Decimal) (string, error) {
	if iban == "" {
		return "", fmt.Errorf("IBAN manquant")
	}

	// format EPC basique
	sepa := fmt.Sprintf("BCD\n001\n1\nSCT\n%s\n%s\n%s\nEUR%s\n%s", bic, name, iban, amount.StringFixed(2), ref)

	png, err := qrcode.Encode(sepa, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
