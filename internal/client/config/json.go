package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/visitkeeper/internal/flagx"
	"github.com/dmitrijs2005/visitkeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the CLI configuration file. Absent
// fields leave the current value untouched.
type JsonConfig struct {
	ServerEndpointAddr  *string         `json:"server_endpoint_addr"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	CallTimeout         *timex.Duration `json:"call_timeout"`
	StatePath           *string         `json:"state_path"`
}

// parseJson overlays the file named by -c/-config. Read and decode errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFile(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != nil {
		cfg.ServerEndpointAddr = *jc.ServerEndpointAddr
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.CallTimeout != nil {
		cfg.CallTimeout = jc.CallTimeout.Duration
	}
	if jc.StatePath != nil {
		cfg.StatePath = *jc.StatePath
	}
}
