// Package auth handles the agent's on-chain identity: an Ethereum key used to
// sign messages toward the Teneo network and to mint short-lived session
// tokens for the local HTTP surface.
package auth

import (
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/golang-jwt/jwt/v5"
)

// Identity holds the agent's signing key and the wallet address derived
// from it.
type Identity struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
}

// NewIdentity parses a hex private key (with or without 0x prefix).
func NewIdentity(privateKeyHex string) (*Identity, error) {
	privateKeyHex = strings.TrimPrefix(privateKeyHex, "0x")

	privateKey, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return &Identity{
		privateKey: privateKey,
		address:    crypto.PubkeyToAddress(privateKey.PublicKey),
	}, nil
}

// Address returns the agent's wallet address in checksummed hex form.
func (id *Identity) Address() string {
	return id.address.Hex()
}

// SignMessage signs a message with the agent's key using the Ethereum
// personal-message scheme.
func (id *Identity) SignMessage(message string) (string, error) {
	hash := accounts.TextHash([]byte(message))
	signature, err := crypto.Sign(hash, id.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign message: %w", err)
	}

	// recovery id adjustment expected by Ethereum tooling
	signature[64] += 27

	return hexutil.Encode(signature), nil
}

// VerifySignature checks a personal-message signature against an address.
func (id *Identity) VerifySignature(message, signature, address string) (bool, error) {
	sig, err := hex.DecodeString(strings.TrimPrefix(signature, "0x"))
	if err != nil {
		return false, fmt.Errorf("failed to decode signature: %w", err)
	}

	hash := accounts.TextHash([]byte(message))
	if len(sig) == 65 && sig[64] >= 27 {
		sig[64] -= 27
	}

	pubkey, err := crypto.SigToPub(hash, sig)
	if err != nil {
		return false, fmt.Errorf("failed to recover public key: %w", err)
	}

	return crypto.PubkeyToAddress(*pubkey) == common.HexToAddress(address), nil
}

// SessionToken mints a JWT bound to the agent's wallet, valid for ttl.
// The signing secret is derived from the private key, so tokens survive a
// restart but not a key rotation.
func (id *Identity) SessionToken(ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"address": id.Address(),
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
		"iss":     "tokensentry",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(id.signingSecret())
}

// ValidateSessionToken verifies a JWT minted by SessionToken.
func (id *Identity) ValidateSessionToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return id.signingSecret(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

func (id *Identity) signingSecret() []byte {
	return crypto.Keccak256(crypto.FromECDSA(id.privateKey))
}

// Nonce returns 32 random bytes hex-encoded, for challenge flows.
func Nonce() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
