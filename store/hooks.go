package store

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The store calls them on hot paths.
type Hooks interface {
	// A single entry was deleted by the store on read.
	// reason ∈ {"corrupt", "value_decode"}
	SelfHealSingle(storageKey, reason string)

	// A bulk entry was rejected and the read fell back to singles.
	// reason ∈ {"corrupt", "decode_error", "incomplete", "stale"}
	BulkRejected(namespace string, requested int, reason string)

	// Provider returned ok=false on Set (backpressure/eviction).
	ProviderSetRejected(storageKey string, isBulk bool)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) SelfHealSingle(string, string)    {}
func (NopHooks) BulkRejected(string, int, string) {}
func (NopHooks) ProviderSetRejected(string, bool) {}
