package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/authkeeper/internal/flagx"
	"github.com/dmitrijs2005/authkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields tell a missing key apart from an empty value.
type JsonConfig struct {
	ServerBaseURL  *string         `json:"server_base_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
}

// parseJson overlays Config with values from the file named by -c/-config.
// Without that flag it does nothing; read or decode errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerBaseURL != nil {
		cfg.ServerBaseURL = *jc.ServerBaseURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}
