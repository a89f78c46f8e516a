package blockchain

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"unicode"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
)

// gasUnits maps a denomination to its power of ten in wei.
var gasUnits = map[string]int32{
	"wei":   0,
	"gwei":  9,
	"ether": 18,
}

// gasUnitOrder lists the denominations longest first so that "gwei" is not
// read as "wei".
var gasUnitOrder = []string{"ether", "gwei", "wei"}

// GetAddressFromPrivateKeyECDSA derives the Ethereum address from the given
// ECDSA private key. It returns nil if the key is nil or its public part cannot
// be asserted to *ecdsa.PublicKey.
func GetAddressFromPrivateKeyECDSA(privateKeyECDSA *ecdsa.PrivateKey) *common.Address {
	if privateKeyECDSA == nil {
		return nil
	}
	publicKey := privateKeyECDSA.Public()
	publicKeyECDSA, ok := publicKey.(*ecdsa.PublicKey)
	if !ok {
		return nil
	}
	addr := crypto.PubkeyToAddress(*publicKeyECDSA)
	return &addr
}

// ParsePrivateKeyECDSA parses a hex-encoded ECDSA private key, with or without
// a "0x" prefix, and returns the corresponding Ethereum address together with
// the private key object.
func ParsePrivateKeyECDSA(privateKey string) (common.Address, *ecdsa.PrivateKey, error) {
	privateKey = strings.TrimPrefix(strings.TrimSpace(privateKey), "0x")
	if len(privateKey) != 64 {
		return common.Address{}, nil, fmt.Errorf("private key must be 32 bytes (64 hex characters), got %d", len(privateKey))
	}

	privateKeyECDSA, err := crypto.HexToECDSA(privateKey)
	if err != nil {
		return common.Address{}, nil, err
	}

	address := GetAddressFromPrivateKeyECDSA(privateKeyECDSA)
	if address == nil {
		return common.Address{}, nil, errors.New("failed to get public key")
	}
	return *address, privateKeyECDSA, nil
}

// ParseGasPrice converts a gas price into wei. Accepted forms are a plain
// amount of wei ("25000000000", "25e9") or a decimal amount followed by a
// unit: "25 gwei", "0.1gwei", "2.5e-8 ether".
func ParseGasPrice(s string) (*big.Int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil, errors.New("gas price is empty")
	}

	amountPart, unit, hasUnit := s, "wei", false
	for _, u := range gasUnitOrder {
		if strings.HasSuffix(s, u) {
			amountPart, unit, hasUnit = strings.TrimSpace(strings.TrimSuffix(s, u)), u, true
			break
		}
	}

	amount, err := decimal.NewFromString(amountPart)
	if err != nil {
		if i := strings.IndexFunc(amountPart, unicode.IsLetter); i >= 0 && !hasUnit {
			return nil, fmt.Errorf("unknown gas price unit %q", strings.TrimSpace(amountPart[i:]))
		}
		return nil, fmt.Errorf("invalid gas price %q: %w", s, err)
	}
	if amount.IsNegative() {
		return nil, fmt.Errorf("gas price %q is negative", s)
	}

	wei := amount.Shift(gasUnits[unit])
	if !wei.Equal(wei.Truncate(0)) {
		return nil, fmt.Errorf("gas price %q is not a whole number of wei", s)
	}
	return wei.BigInt(), nil
}
