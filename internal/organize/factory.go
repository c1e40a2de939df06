package organize

import "imgtriage/internal/config"

// SaverFactory builds the Saver the UI and the CLI commands work against
type SaverFactory func(cfg *config.Config) Saver

func engineSaver(cfg *config.Config) Saver {
	return NewWithConfig(cfg)
}

var saverFactory SaverFactory = engineSaver

// NewSaver returns a Saver configured from cfg
func NewSaver(cfg *config.Config) Saver {
	return saverFactory(cfg)
}

// SetSaverFactory replaces the factory behind NewSaver until restore is
// called. A nil factory restores the engine.
func SetSaverFactory(factory SaverFactory) (restore func()) {
	prev := saverFactory
	if factory == nil {
		factory = engineSaver
	}
	saverFactory = factory
	return func() { saverFactory = prev }
}
