package arkab

// Option configures a Client at creation time.
type Option func(*clientConfig)

type clientConfig struct {
	configPath  string
	auditLog    string
	archivePath string
}

// WithConfigFile sets the path to a config YAML file.
func WithConfigFile(path string) Option {
	return func(c *clientConfig) { c.configPath = path }
}

// WithAuditLog enables the hash-chained audit log at the given path,
// overriding any path from the config file.
func WithAuditLog(path string) Option {
	return func(c *clientConfig) { c.auditLog = path }
}

// WithArchive enables the SQLite decision archive at the given path,
// overriding any path from the config file.
func WithArchive(path string) Option {
	return func(c *clientConfig) { c.archivePath = path }
}
