package config

const (
	defaultSource         = "ys-bbsn"
	defaultBaseURL        = "https://volcview.wr.usgs.gov/ashcam-api"
	defaultFetchCount     = 2
	defaultRequestTimeout = 15

	defaultStateFile = "~/.local/share/webcam-monitor/out.json"
	defaultDataDir   = "~/.local/share/webcam-monitor"
	defaultLogDir    = "~/.local/share/webcam-monitor/logs"

	defaultPollInterval = 300

	defaultNotifyRequestTimeout = 10

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Webcam: Webcam{
			Source:         defaultSource,
			BaseURL:        defaultBaseURL,
			FetchCount:     defaultFetchCount,
			RequestTimeout: defaultRequestTimeout,
		},
		Paths: Paths{
			StateFile: defaultStateFile,
			DataDir:   defaultDataDir,
			LogDir:    defaultLogDir,
		},
		Monitor: Monitor{
			PollInterval: defaultPollInterval,
		},
		History: History{
			Enabled: true,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			NewImages:      true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
