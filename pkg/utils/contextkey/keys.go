package contextkey

// key is a private type to avoid context key collisions across packages.
type key string

const (
	// TraceID identifies one poll cycle across its log lines.
	TraceID key = "trace_id"
)
