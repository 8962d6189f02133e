package config

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int                   `yaml:"port"`
	DSN            string                `yaml:"dsn"` // MySQL DSN
	RedisURL       string                `yaml:"redis_url"`
	Database       DatabaseRuntimeConfig `yaml:"database"`
	Redis          RedisRuntimeConfig    `yaml:"redis"`
	Env            string                `yaml:"env"` // "development" | "production"
	AllowedOrigins []string              `yaml:"allowed_origins"`
	JWTSecret      string                `yaml:"jwt_secret"`
	Timezone       string                `yaml:"timezone"`
	Storage        StorageConfig         `yaml:"storage"`
	Analysis       AnalysisConfig        `yaml:"analysis"`
	Speech         SpeechConfig          `yaml:"speech"`
}

type DatabaseRuntimeConfig struct {
	DSN       string            `yaml:"dsn"`
	URL       string            `yaml:"url"`
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	User      string            `yaml:"user"`
	Username  string            `yaml:"username"`
	Password  string            `yaml:"password"`
	Name      string            `yaml:"name"`
	DBName    string            `yaml:"db_name"`
	Charset   string            `yaml:"charset"`
	ParseTime bool              `yaml:"parse_time"`
	Loc       string            `yaml:"loc"`
	Params    map[string]string `yaml:"params"`
}

type RedisRuntimeConfig struct {
	URL      string            `yaml:"url"`
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	Username string            `yaml:"username"`
	Password string            `yaml:"password"`
	DB       int               `yaml:"db"`
	TLS      bool              `yaml:"tls"`
	Scheme   string            `yaml:"scheme"`
	Params   map[string]string `yaml:"params"`
}

// StorageConfig configures the S3-compatible blob store holding uploaded
// and normalized documents.
type StorageConfig struct {
	Bucket       string `yaml:"bucket"`
	Region       string `yaml:"region"`
	Endpoint     string `yaml:"endpoint"`
	AccessKey    string `yaml:"access_key"`
	SecretKey    string `yaml:"secret_key"`
	UsePathStyle bool   `yaml:"use_path_style"`
}

// AnalysisConfig configures the generative-model backend used for
// document analysis.
type AnalysisConfig struct {
	Providers []ProviderConfig `yaml:"providers"`
	// CredentialsFile is a JSON file holding {"principal": ..., "api_key": ...}
	// for the primary provider. Re-read on every session rebuild so the
	// file can be rotated without a restart.
	CredentialsFile string `yaml:"credentials_file"`
	// ExpectedPrincipal must match the principal in the credentials file
	// exactly, or the session is refused.
	ExpectedPrincipal string `yaml:"expected_principal"`
	// TransientSignature is a substring that, together with "403", marks a
	// provider error as stale-credential rather than fatal.
	TransientSignature string `yaml:"transient_signature"`
	TargetLanguage     string `yaml:"target_language"`
	MaxOutputTokens    int    `yaml:"max_output_tokens"`
}

// ProviderConfig describes one model provider that can back analysis.
type ProviderConfig struct {
	Name    string `yaml:"name"` // "anthropic" | "openai"
	Model   string `yaml:"model"`
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Enabled bool   `yaml:"enabled"`
}

// SpeechConfig configures the speech-to-text / text-to-speech bridge.
type SpeechConfig struct {
	APIKey   string `yaml:"api_key"`
	Endpoint string `yaml:"endpoint"`
	VoiceID  string `yaml:"voice_id"`
	STTModel string `yaml:"stt_model"`
}

// IsEnabled reports whether the speech bridge is usable.
func (s SpeechConfig) IsEnabled() bool { return s.APIKey != "" }

// IsDev reports whether the application runs in development mode.
func (c *AppConfig) IsDev() bool { return c.Env != "production" }

// IsProd reports whether the application runs in production mode.
func (c *AppConfig) IsProd() bool { return c.Env == "production" }

// EnabledProviders returns the providers that are switched on.
func (c AnalysisConfig) EnabledProviders() []ProviderConfig {
	out := make([]ProviderConfig, 0, len(c.Providers))
	for _, p := range c.Providers {
		if p.Enabled {
			out = append(out, p)
		}
	}
	return out
}
