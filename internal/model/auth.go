package model

import "github.com/golang-jwt/jwt/v5"

// PlayerClaims are JWT claims for duel-scoped player tokens
type PlayerClaims struct {
	DuelCode string `json:"duelCode"`
	PlayerID string `json:"playerId"`
	jwt.RegisteredClaims
}
