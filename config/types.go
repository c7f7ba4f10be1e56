package config

// CleanConfig controls the post-processing --clean applies after a logify
// or merge run.
type CleanConfig struct {
	CutCancellationsThreshold float64  `yaml:"cutCancellationsThreshold" validate:"gt=0"`
	RouteCutExceptions        []string `yaml:"routeCutExceptions"`
}

// OutputConfig controls how a finished logbook is serialised.
type OutputConfig struct {
	Format string `yaml:"format" validate:"omitempty,oneof=csv gtfs"`
}

// FetchConfig configures the optional live-feed fetch helper.
type FetchConfig struct {
	FeedURL   string `yaml:"feedURL" validate:"omitempty,url"`
	TimeoutMS int    `yaml:"timeoutMS" validate:"gte=0"`
}

// AppConfig is the root configuration structure for the gtfs-tripify CLI.
type AppConfig struct {
	Clean  CleanConfig  `yaml:"clean"`
	Output OutputConfig `yaml:"output"`
	Fetch  FetchConfig  `yaml:"fetch"`
}
