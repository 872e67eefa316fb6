package safetyrules

import (
	"runtime"
)

// DefaultVerifiedCertificatesCacheSize is the number of verified certificates remembered.
const DefaultVerifiedCertificatesCacheSize = 1000

type Config struct {
	// VerifiedCertificatesCacheSize bounds the cache of certificates which passed verification.
	VerifiedCertificatesCacheSize int
	// VerificationWorkers is the number of signatures of one certificate verified in parallel.
	VerificationWorkers int
}

func DefaultConfig() Config {
	return Config{
		VerifiedCertificatesCacheSize: DefaultVerifiedCertificatesCacheSize,
		VerificationWorkers:           runtime.NumCPU(),
	}
}
