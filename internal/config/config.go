// Package config loads off-chain service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// Config holds configuration of the DeBank CLI commands.
type Config struct {
	LogLevel string

	// Neo RPC node, http(s) for reading and deploying, ws(s) for watching.
	RPCEndpoint string
	RPCTimeout  time.Duration

	// Contract hashes in LE string form or Neo addresses. Empty if unknown.
	VNDTHash   string
	DeBankHash string

	// Gateway
	ListenAddress string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	PageSize      int

	// Deployment
	WalletPath     string
	WalletAddress  string
	WalletPassword string
	ContractsDir   string
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		LogLevel: getEnv("DEBANK_LOG_LEVEL", "info"),

		RPCEndpoint: getEnv("DEBANK_RPC_ENDPOINT", "http://localhost:30333"),
		RPCTimeout:  getEnvDuration("DEBANK_RPC_TIMEOUT", 10*time.Second),

		VNDTHash:   getEnv("DEBANK_VNDT_HASH", ""),
		DeBankHash: getEnv("DEBANK_CONTRACT_HASH", ""),

		ListenAddress: getEnv("DEBANK_LISTEN_ADDRESS", ":8080"),
		ReadTimeout:   getEnvDuration("DEBANK_READ_TIMEOUT", 5*time.Second),
		WriteTimeout:  getEnvDuration("DEBANK_WRITE_TIMEOUT", 15*time.Second),
		PageSize:      getEnvInt("DEBANK_PAGE_SIZE", 20),

		WalletPath:     getEnv("DEBANK_WALLET", ""),
		WalletAddress:  getEnv("DEBANK_WALLET_ADDRESS", ""),
		WalletPassword: getEnv("DEBANK_WALLET_PASSWORD", ""),
		ContractsDir:   getEnv("DEBANK_CONTRACTS_DIR", "contracts"),
	}
}

// ParseHash parses contract hash given either as LE hex string or as Neo
// address.
func ParseHash(s string) (util.Uint160, error) {
	if s == "" {
		return util.Uint160{}, fmt.Errorf("empty contract hash")
	}

	h, err := util.Uint160DecodeStringLE(s)
	if err == nil {
		return h, nil
	}

	h, err = address.StringToUint160(s)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("invalid contract hash %q", s)
	}

	return h, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// TokenHash returns the VNDT hash given explicitly, otherwise it asks the
// ledger for the token it was deployed with.
func TokenHash(s string, fromLedger func() (util.Uint160, error)) (util.Uint160, error) {
	if s != "" {
		return ParseHash(s)
	}

	h, err := fromLedger()
	if err != nil {
		return util.Uint160{}, fmt.Errorf("read VNDT address from ledger: %w", err)
	}

	return h, nil
}
