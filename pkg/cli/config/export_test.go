package config

// SetCorpusPath sets the corpus file path for tests
func (c *Challenge) SetCorpusPath(path string) {
	c.corpusPath = path
}

// NewRepository builds a Repository config with the given backend for tests
func NewRepository(backend string) *Repository {
	return &Repository{backend: backend}
}

// NewLogger builds a Logger config for tests
func NewLogger(level, format, output string) *Logger {
	return &Logger{level: level, format: format, output: output}
}
