package game

// Config holds arena options.
type Config struct {
	// Seed for random number generation. Used for reproducible challenges.
	// A seed of 0 means a random seed will be generated.
	Seed uint64

	// HistoryLimit bounds the per-challenge round history. 0 keeps everything.
	HistoryLimit int
}
