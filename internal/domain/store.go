package domain

// Cache is a KeyValue whose entries may be dropped wholesale.
type Cache interface {
	KeyValue
	DeletePrefix(prefix string) error
	Clear() error
}

// Store is the local persistence root.
// State holds durable user data; Cache holds refetchable catalog data.
type Store interface {
	State() KeyValue
	Cache() Cache
	Close() error
}
