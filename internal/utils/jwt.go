package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const InvoiceTokenTTL = 7 * 24 * time.Hour

var ErrInvalidInvoiceToken = errors.New("jeton de facture invalide")

// InvoiceClaims autorise l'accès anonyme à la facture d'une seule commande
type InvoiceClaims struct {
	OrderID int64 `json:"order_id"`
	jwt.RegisteredClaims
}

func GenerateInvoiceToken(secret []byte, orderID int64, now time.Time) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("JWT_SECRET manquant")
	}

	claims := InvoiceClaims{
		OrderID: orderID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("invoice:%d", orderID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(InvoiceTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseInvoiceToken vérifie la signature et l'expiration, puis retourne l'ID de commande
func ParseInvoiceToken(secret []byte, tokenString string) (int64, error) {
	claims := &InvoiceClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return 0, ErrInvalidInvoiceToken
	}
	return claims.OrderID, nil
}
