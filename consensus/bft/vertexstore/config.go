package vertexstore

// DefaultMaxSerializedSizeBytes bounds the encoded vertex store state to 50 MiB.
const DefaultMaxSerializedSizeBytes = 50 * 1024 * 1024

// Config holds the tunables of the vertex store.
type Config struct {
	// MaxSerializedSizeBytes is the largest encoded state the store accepts. Vertices which
	// would push the state above the limit are refused. Inserting certificates can exceed
	// the limit slightly, as they are small compared to vertices.
	MaxSerializedSizeBytes int
}

func DefaultConfig() Config {
	return Config{
		MaxSerializedSizeBytes: DefaultMaxSerializedSizeBytes,
	}
}
