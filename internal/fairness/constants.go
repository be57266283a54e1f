package fairness

// SeedBytes is the entropy used for generated server and client seeds
const SeedBytes = 32

// maxUint32 is the divisor mapping the first 4 digest bytes into [0,1]
const maxUint32 = 0xFFFFFFFF

// Error context messages
const (
	ErrContextGenerateSeed = "failed to generate seed"
	ErrContextUnknownHash  = "unknown server seed hash"
)

// Log messages
const (
	LogMsgSeedRotated = "Server seed rotated"
)
