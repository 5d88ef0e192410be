// Package config provides configuration structures for the voter search service.
// It defines the static partition table, the distinguished column names, storage
// backends and the user-facing messages.
package config

import (
	"strconv"
	"strings"
)

const (
	// DefaultNameColumn holds the voter's given name in the electoral roll files.
	DefaultNameColumn = "FM_NAME_V2"
	// DefaultRelativeNameColumn holds the name of the voter's relative.
	DefaultRelativeNameColumn = "RLN_FM_NM_V2"

	defaultPort               = "8080"
	defaultMaxBodyBytes       = 1 << 20
	defaultPreloadConcurrency = 4
)

// PartitionEntry maps one display label to the source backing it.
// Labels start with the numeric constituency code, e.g. "101 - மெட்டுப்பாளையம் (Mettupalayam)".
type PartitionEntry struct {
	Label  string `yaml:"label" json:"label"`
	Source string `yaml:"source" json:"source"` // Local path (relative to storage.base_dir), s3://bucket/key or minio://bucket/key
}

// ServerSettings configures the HTTP interaction surface.
type ServerSettings struct {
	Port         string `yaml:"port" json:"port"`
	MaxBodyBytes int64  `yaml:"max_body_bytes" json:"max_body_bytes"`
	Mode         string `yaml:"mode" json:"mode"` // gin mode: "debug", "release" or "test"
}

// S3Settings configures access to s3:// partition sources.
type S3Settings struct {
	Region       string `yaml:"region" json:"region"`
	Endpoint     string `yaml:"endpoint" json:"endpoint"`
	UsePathStyle bool   `yaml:"use_path_style" json:"use_path_style"`
}

// MinIOSettings configures access to minio:// partition sources.
type MinIOSettings struct {
	Endpoint  string `yaml:"endpoint" json:"endpoint"`
	AccessKey string `yaml:"access_key" json:"-"`
	SecretKey string `yaml:"secret_key" json:"-"`
	Region    string `yaml:"region" json:"region"`
	UseSSL    bool   `yaml:"use_ssl" json:"use_ssl"`
}

// StorageSettings configures where partition sources live and how they are materialized.
type StorageSettings struct {
	BaseDir            string        `yaml:"base_dir" json:"base_dir"`
	LazyLoad           bool          `yaml:"lazy_load" json:"lazy_load"`                     // When false, every partition is loaded at startup
	PreloadConcurrency int           `yaml:"preload_concurrency" json:"preload_concurrency"` // Parallel loads during startup preload
	S3                 S3Settings    `yaml:"s3" json:"s3"`
	MinIO              MinIOSettings `yaml:"minio" json:"minio"`
}

// ColumnSettings names the two distinguished columns searches run against.
type ColumnSettings struct {
	Name         string `yaml:"name" json:"name"`
	RelativeName string `yaml:"relative_name" json:"relative_name"`
}

// Messages holds every user-facing text. {label} and {count} are substituted where noted.
type Messages struct {
	ChoosePrompt         string `yaml:"choose_prompt" json:"choose_prompt"`
	Placeholder          string `yaml:"placeholder" json:"placeholder"`
	PartitionUnavailable string `yaml:"partition_unavailable" json:"partition_unavailable"`
	PartitionRows        string `yaml:"partition_rows" json:"partition_rows"` // {label}, {count}
	EmptyQuery           string `yaml:"empty_query" json:"empty_query"`
	NoMatches            string `yaml:"no_matches" json:"no_matches"`
	MatchesFound         string `yaml:"matches_found" json:"matches_found"` // {count}
}

// Settings is the complete configuration of the service.
type Settings struct {
	Server     ServerSettings   `yaml:"server" json:"server"`
	Storage    StorageSettings  `yaml:"storage" json:"storage"`
	Columns    ColumnSettings   `yaml:"columns" json:"columns"`
	Messages   Messages         `yaml:"messages" json:"messages"`
	Partitions []PartitionEntry `yaml:"partitions" json:"partitions"` // Ordered; order breaks ties between equal codes
}

// DefaultMessages returns the Tamil messages shown to voters.
func DefaultMessages() Messages {
	return Messages{
		ChoosePrompt:         "தொகுதியைத் தேர்ந்தெடுக்கவும்:",
		Placeholder:          "-- Choose --",
		PartitionUnavailable: "இந்த தொகுதி கோப்பை ஏற்ற முடியவில்லை.",
		PartitionRows:        "{label} — {count} வரிசைகள் கிடைத்தன.",
		EmptyQuery:           "குறைந்தது ஒரு பெயரை உள்ளிடுங்கள்.",
		NoMatches:            "பொருந்தும் பதிவுகள் இல்லை.",
		MatchesFound:         "{count} பதிவுகள் கிடைத்தன.",
	}
}

// DefaultPartitions returns the Coimbatore district constituencies.
func DefaultPartitions() []PartitionEntry {
	return []PartitionEntry{
		{Label: "101 - மெட்டுப்பாளையம் (Mettupalayam)", Source: "AC_101_Mettupalayam.parquet"},
		{Label: "103 - தோண்டாமுத்தூர் (Thondamuthur)", Source: "AC_103_Thondamuthur.parquet"},
		{Label: "104 - சிங்கனல்லூர் (Singanallur)", Source: "AC_104_Singanallur.parquet"},
		{Label: "105 - கோயம்புத்தூர் மேற்கு (West)", Source: "AC_105_Coimbatore(West).parquet"},
		{Label: "106 - கோயம்புத்தூர் கிழக்கு (East)", Source: "AC_106_Coimbatore(East).parquet"},
		{Label: "107 - பேரூர் (Perur)", Source: "AC_107_Perur.parquet"},
		{Label: "110 - வால்பாறை (Valparai)", Source: "AC_110_Valparai.parquet"},
		{Label: "114 - பொங்கலூர் (Pongalur)", Source: "AC_114_Pongalur.parquet"},
		{Label: "115 - பல்லடம் (Palladam)", Source: "AC_115_Palladam.parquet"},
	}
}

// DefaultSettings returns settings for the Coimbatore deployment with data in the working directory.
func DefaultSettings() *Settings {
	settings := &Settings{
		Storage: StorageSettings{
			BaseDir: ".",
		},
		Messages:   DefaultMessages(),
		Partitions: DefaultPartitions(),
	}
	settings.ApplyDefaults()
	return settings
}

// ApplyDefaults applies default values to unset settings
func (settings *Settings) ApplyDefaults() {
	if settings.Server.Port == "" {
		settings.Server.Port = defaultPort
	}
	if settings.Server.MaxBodyBytes <= 0 {
		settings.Server.MaxBodyBytes = defaultMaxBodyBytes
	}
	if settings.Server.Mode == "" {
		settings.Server.Mode = "release"
	}
	if settings.Storage.BaseDir == "" {
		settings.Storage.BaseDir = "."
	}
	if settings.Storage.PreloadConcurrency <= 0 {
		settings.Storage.PreloadConcurrency = defaultPreloadConcurrency
	}
	if settings.Columns.Name == "" {
		settings.Columns.Name = DefaultNameColumn
	}
	if settings.Columns.RelativeName == "" {
		settings.Columns.RelativeName = DefaultRelativeNameColumn
	}

	defaults := DefaultMessages()
	fillIfEmpty(&settings.Messages.ChoosePrompt, defaults.ChoosePrompt)
	fillIfEmpty(&settings.Messages.Placeholder, defaults.Placeholder)
	fillIfEmpty(&settings.Messages.PartitionUnavailable, defaults.PartitionUnavailable)
	fillIfEmpty(&settings.Messages.PartitionRows, defaults.PartitionRows)
	fillIfEmpty(&settings.Messages.EmptyQuery, defaults.EmptyQuery)
	fillIfEmpty(&settings.Messages.NoMatches, defaults.NoMatches)
	fillIfEmpty(&settings.Messages.MatchesFound, defaults.MatchesFound)

	if settings.Partitions == nil {
		settings.Partitions = []PartitionEntry{}
	}
}

func fillIfEmpty(field *string, value string) {
	if strings.TrimSpace(*field) == "" {
		*field = value
	}
}

// Validate checks the settings for problems and returns one message per problem.
// Partition label codes are checked by the registry, which owns their parsing.
func (settings *Settings) Validate() []string {
	var problems []string

	if strings.TrimSpace(settings.Columns.Name) == "" {
		problems = append(problems, "columns.name cannot be empty")
	}
	if strings.TrimSpace(settings.Columns.RelativeName) == "" {
		problems = append(problems, "columns.relative_name cannot be empty")
	}
	if settings.Columns.Name != "" && settings.Columns.Name == settings.Columns.RelativeName {
		problems = append(problems, "columns.name and columns.relative_name must differ")
	}

	switch settings.Server.Mode {
	case "debug", "release", "test":
	default:
		problems = append(problems, "Invalid server.mode '"+settings.Server.Mode+"' (must be 'debug', 'release' or 'test')")
	}

	if len(settings.Partitions) == 0 {
		problems = append(problems, "at least one partition must be configured")
	}
	for i, entry := range settings.Partitions {
		if strings.TrimSpace(entry.Label) == "" {
			problems = append(problems, "partitions["+strconv.Itoa(i)+"].label cannot be empty")
		}
		if strings.TrimSpace(entry.Source) == "" {
			problems = append(problems, "partitions["+strconv.Itoa(i)+"].source cannot be empty")
		}
	}

	if settings.Storage.MinIO.Endpoint == "" && settings.UsesScheme("minio://") {
		problems = append(problems, "storage.minio.endpoint is required for minio:// sources")
	}

	return problems
}

// UsesScheme reports whether any partition source starts with prefix, e.g. "s3://".
func (settings *Settings) UsesScheme(prefix string) bool {
	for _, entry := range settings.Partitions {
		if strings.HasPrefix(entry.Source, prefix) {
			return true
		}
	}
	return false
}
