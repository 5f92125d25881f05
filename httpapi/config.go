package httpapi

// Config defines HTTP API settings.
type Config struct {
	Addr                string
	AllowedOrigins      []string
	MaxMessageBytes     int64
	WriteTimeoutSeconds int
	HistoryLimit        int
}
