package config

const (
	defaultAPIListen       = ":8081"
	defaultClientAPITarget = "http://localhost:8081"

	defaultAssistantModel = "gemini-2.5-flash"

	defaultLookbackDays = 365
	defaultCacheTTL     = "10s"

	defaultKafkaTopic = "kiosk.chatlogs"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		Assistant: AssistantConfig{
			Model: defaultAssistantModel,
		},
		Deck: DeckConfig{
			LookbackDays: defaultLookbackDays,
			CacheTTL:     defaultCacheTTL,
		},
		EventStream: EventStreamConfig{
			KafkaTopic: defaultKafkaTopic,
		},
		Client: ClientConfig{
			APITarget: defaultClientAPITarget,
		},
	}
}
