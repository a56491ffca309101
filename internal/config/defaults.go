package config

import (
	"path/filepath"
	"time"
)

// Defaults returns the default configuration rooted at the given XDG dirs.
func Defaults(dirs *XDGDirs) *Config {
	return &Config{
		Browsing: BrowsingConfig{
			HomeURL:          "https://start.duckduckgo.com",
			DefaultSpaceName: "Personal",
		},
		History: HistoryConfig{
			MaxEntries: 1000,
		},
		Search: SearchConfig{
			EngineName:         "DuckDuckGo",
			EngineURL:          "https://duckduckgo.com/?q=%s",
			SuggestURL:         "https://duckduckgo.com/ac/?q=%s",
			SuggestionDebounce: 300 * time.Millisecond,
			HistoryWindow:      20,
		},
		Summarizer: SummarizerConfig{
			Host:     "http://localhost:11434",
			Model:    "llama3.2",
			MaxChars: 8000,
		},
		Favicons: FaviconConfig{
			CacheDir: filepath.Join(dirs.DataHome, "favicons"),
		},
		Database: DatabaseConfig{
			Path: filepath.Join(dirs.DataHome, "strata.sqlite"),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
