package repository

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithIDGenerator replaces the id generator used for new banners.
// Generated ids must be unique for the lifetime of the store; the
// default generator produces UUIDs.
func WithIDGenerator(gen func() string) Option {
	return func(s *MemStore) {
		if gen != nil {
			s.idgen = gen
		}
	}
}
