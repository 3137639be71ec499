package config

// Update channels.
const (
	ChannelStable     = "stable"
	ChannelPrerelease = "prerelease"
)

const (
	defaultDataDir             = "~/.local/share/mxvoice"
	defaultLogDir              = "~/.local/share/mxvoice/logs"
	defaultMusicDir            = "~/mxvoice"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultDispatchRetryMillis = 1000
	defaultNotifyTimeout       = 10
	defaultUpdateFeedURL       = "https://api.github.com/repos/minter/mxvoice/releases"
	defaultUpdateChannel       = ChannelStable
	defaultUpdateInterval      = 3600
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:  defaultDataDir,
			LogDir:   defaultLogDir,
			MusicDir: defaultMusicDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Bridge: Bridge{
			DispatchRetryMillis: defaultDispatchRetryMillis,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
		Updates: Updates{
			FeedURL:       defaultUpdateFeedURL,
			Channel:       defaultUpdateChannel,
			CheckInterval: defaultUpdateInterval,
		},
		Devices: Devices{
			MonitorEnabled: true,
		},
	}
}
