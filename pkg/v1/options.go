package v1

import "log/slog"

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	root         string
	backend      string
	gitBinary    string
	repositories []string
	logger       *slog.Logger
}

// WithRoot sets the workspace root. Without it the repository enclosing the
// working directory is used.
func WithRoot(root string) Option {
	return func(c *clientConfig) {
		c.root = root
	}
}

// WithBackend selects how history is read: "cli" runs git, "gogit" reads the
// object database directly.
func WithBackend(backend string) Option {
	return func(c *clientConfig) {
		c.backend = backend
	}
}

// WithGitBinary sets the git executable used by the "cli" backend.
func WithGitBinary(path string) Option {
	return func(c *clientConfig) {
		c.gitBinary = path
	}
}

// WithRepositories adds repositories that receive broadcast messages.
func WithRepositories(roots ...string) Option {
	return func(c *clientConfig) {
		c.repositories = append(c.repositories, roots...)
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}
