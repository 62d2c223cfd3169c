package config

// Built-in backend names.
const (
	BackendLocal = "local"
	BackendEast  = "east"
	BackendWest  = "west"
)

// Default configuration values.
const (
	DefaultLocalURL = "http://localhost:5000"
	DefaultEastURL  = "http://16.171.142.225"
	DefaultWestURL  = "http://16.171.150.121"
)

// DefaultBackends returns the built-in backend origins.
func DefaultBackends() map[string]string {
	return map[string]string{
		BackendLocal: DefaultLocalURL,
		BackendEast:  DefaultEastURL,
		BackendWest:  DefaultWestURL,
	}
}

// ApplyDefaults fills in missing built-in backends.
func ApplyDefaults(c *EndpointConfig) {
	if c == nil {
		return
	}
	if c.Backends == nil {
		c.Backends = make(map[string]string)
	}
	for name, url := range DefaultBackends() {
		if c.Backends[name] == "" {
			c.Backends[name] = url
		}
	}
}
