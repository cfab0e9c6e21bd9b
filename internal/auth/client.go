package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Config struct {
	ServiceName   string
	ServiceSecret string
	TokenTTL      time.Duration
}

// Client issues and validates HS256 service tokens for inter-service
// calls to the write endpoints.
type Client struct {
	config Config
}

type ServiceClaims struct {
	ServiceName string   `json:"service_name"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

func NewClient(config Config) *Client {
	if config.TokenTTL == 0 {
		config.TokenTTL = 15 * time.Minute
	}
	return &Client{config: config}
}

func (c *Client) GenerateServiceToken() (string, error) {
	now := time.Now()
	claims := ServiceClaims{
		ServiceName: c.config.ServiceName,
		Permissions: []string{"reindex"},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.config.ServiceName,
			Subject:   c.config.ServiceName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.config.TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(c.config.ServiceSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

func (c *Client) ValidateServiceToken(tokenString string) (*ServiceClaims, error) {
	claims := &ServiceClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(c.config.ServiceSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
