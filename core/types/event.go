package types

// Event represents a structured state change emitted by a native module for
// off-core observers (indexers, receipts UIs, audit trails).
type Event struct {
	Type       string
	Attributes map[string]string
}
