package convert

// Option applies a configuration option to the Converter.
type Option func(*Converter)

// WithRowLimit bounds the number of CSV rows rendered into a table.
func WithRowLimit(limit int) Option {
	return func(c *Converter) {
		if limit > 0 {
			c.rowLimit = limit
		}
	}
}

// WithFenceLanguage sets the language tag used for fenced JSON blocks.
func WithFenceLanguage(lang string) Option {
	return func(c *Converter) {
		if lang != "" {
			c.fenceLang = lang
		}
	}
}
