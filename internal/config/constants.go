package config

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	defaultPort       = 2333
	defaultEnv        = "development"
	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "clausewise"
	defaultDBCharset  = "utf8mb4"
	defaultDBLoc      = "Local"
	defaultRedisHost  = "localhost"
	defaultRedisPort  = 6379
	defaultRedisDB    = 0

	defaultStorageRegion   = "us-east-1"
	defaultTargetLanguage  = "en"
	defaultMaxOutputTokens = 8192
	defaultSpeechEndpoint  = "https://api.elevenlabs.io"
	defaultSpeechVoiceID   = "21m00Tcm4TlvDq8ikWAM"
	defaultSpeechSTTModel  = "scribe_v1"
)
