package driven

// ConfigStore holds flat dot-separated settings keys such as
// "retrieval.k" or "index.s3.bucket". Implementations persist them and
// let the environment override stored values.
type ConfigStore interface {
	// Get returns the raw value and whether the key is set.
	Get(key string) (any, bool)

	// Typed getters return the zero value for missing or mistyped keys.
	GetString(key string) string
	GetInt(key string) int
	GetFloat(key string) float64
	GetBool(key string) bool
	GetStringSlice(key string) []string

	// Set stores a value and persists it.
	Set(key string, value any) error

	Save() error
	Load() error

	// Path returns the backing file.
	Path() string
}
