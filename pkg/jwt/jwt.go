package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims include i claim standard JWT più i campi propri dell'applicazione.
// TenantCode identifica il frantoio (tenant) su cui operano tutte le richieste;
// Role permette al middleware di decidere senza interrogare la DB.
type Claims struct {
	jwt.RegisteredClaims
	UserID     string `json:"user_id"`
	TenantCode string `json:"tenant_code"`
	Role       string `json:"role"` // "admin" | "operatore" | "consultazione"
}

// Generate genera un token JWT firmato che include userID, tenantCode e role.
// L'emissione dei token appartiene al servizio di autenticazione esterno; questa
// funzione resta qui per i test e per gli strumenti di amministrazione.
func Generate(secret, userID, tenantCode, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vuoto")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:     userID,
		TenantCode: tenantCode,
		Role:       role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida il token e restituisce userID, tenantCode e role.
// Ritorna errore se il token è invalido, scaduto o con firma errata.
func Parse(secret, tokenString string) (userID, tenantCode, role string, err error) {
	if secret == "" {
		return "", "", "", fmt.Errorf("jwt: secret vuoto")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("metodo di firma inatteso: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", "", "", err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", "", "", fmt.Errorf("claims invalidi")
	}
	return claims.UserID, claims.TenantCode, claims.Role, nil
}
