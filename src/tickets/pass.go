package tickets

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Ryan-Shaik/TechWave/src/models"
	"github.com/Ryan-Shaik/TechWave/src/types"
	"github.com/golang-jwt/jwt/v4"
	"github.com/yeqown/go-qrcode"
)

const Issuer = "techwave-2025"

var ErrNotPaid = errors.New("purchase has not been paid")

// Claims identify one admission pass.
type Claims struct {
	PurchaseID string `json:"pid"`
	Tier       string `json:"tier"`
	Quantity   int    `json:"qty"`
	Name       string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

type PassIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewPassIssuer(secret string, ttl time.Duration) *PassIssuer {
	return &PassIssuer{secret: []byte(secret), ttl: ttl}
}

func (i *PassIssuer) Sign(p *models.Purchase) (string, error) {
	if p.PaymentStatus != types.PAYMENT_SUCCEEDED {
		return "", ErrNotPaid
	}
	now := time.Now()
	claims := Claims{
		PurchaseID: p.ID,
		Tier:       p.TicketTierID,
		Quantity:   p.Quantity,
		Name:       p.CustomerName,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

func (i *PassIssuer) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid || claims.Issuer != Issuer {
		return nil, errors.New("invalid pass")
	}
	return claims, nil
}

// WriteQRCode renders the signed pass for p as a JPEG QR code.
func (i *PassIssuer) WriteQRCode(w io.Writer, p *models.Purchase) error {
	token, err := i.Sign(p)
	if err != nil {
		return err
	}
	qrc, err := qrcode.New(token)
	if err != nil {
		return err
	}
	return qrc.SaveTo(w)
}
