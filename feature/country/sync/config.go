package sync

// Config holds settings for the country synchronization job.
type Config struct {
	// SourceURL is the REST Countries endpoint returning every country.
	SourceURL string `mapstructure:"source_url" default:"https://restcountries.com/v3.1/all?fields=name,region,subregion,demonyms,population,independent,flags,currencies"`
	// TimeoutSeconds bounds a single snapshot fetch.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// IntervalMinutes schedules periodic runs in the server. Zero disables the scheduler.
	IntervalMinutes int `mapstructure:"interval_minutes" default:"0"`
	// ArchiveEnabled stores every fetched snapshot in object storage.
	ArchiveEnabled bool `mapstructure:"archive_enabled" default:"false"`
	// ArchivePrefix is the object key prefix of archived snapshots.
	ArchivePrefix string `mapstructure:"archive_prefix" default:"snapshots/countries"`
}
