package config

const (
	defaultDataDir             = "~/.local/share/marquee"
	defaultLogDir              = "~/.local/share/marquee/logs"
	defaultPlexLibrarySection  = "Movies"
	defaultPlexRequestTimeout  = 10
	defaultChatRequestTimeout  = 10
	defaultGatewayBind         = "127.0.0.1:8723"
	defaultSearchMaxResults    = 10
	defaultRelevanceFloor      = 0.30
	defaultConfidenceThreshold = 0.60
	defaultClosenessMargin     = 0.15
	defaultMaxOffers           = 5
	defaultSessionTimeout      = 60
	defaultRateLimitMax        = 5
	defaultRateLimitWindow     = 60
	defaultNtfyRequestTimeout  = 10
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Plex: Plex{
			LibrarySection: defaultPlexLibrarySection,
			RequestTimeout: defaultPlexRequestTimeout,
		},
		Chat: Chat{
			RequestTimeout: defaultChatRequestTimeout,
		},
		Gateway: Gateway{
			Bind: defaultGatewayBind,
		},
		Search: Search{
			MaxResults: defaultSearchMaxResults,
		},
		Match: Match{
			RelevanceFloor:      defaultRelevanceFloor,
			ConfidenceThreshold: defaultConfidenceThreshold,
			ClosenessMargin:     defaultClosenessMargin,
			MaxOffers:           defaultMaxOffers,
		},
		Sessions: Sessions{
			TimeoutSeconds: defaultSessionTimeout,
		},
		RateLimit: RateLimit{
			Enabled:       true,
			MaxRequests:   defaultRateLimitMax,
			WindowSeconds: defaultRateLimitWindow,
		},
		Notifications: Notifications{
			RequestTimeout:   defaultNtfyRequestTimeout,
			ForwardUnmatched: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
