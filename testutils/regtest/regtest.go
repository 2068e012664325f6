// Package regtest wraps a local Bitcoin regtest network for end to end
// bridge tests: a bitcoind node container, an optional block explorer
// container and a background miner producing blocks at a fixed interval.
package regtest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds every parameter of the local network. Nothing is patched
// in place inside the containers: the node is started with the
// configuration below and a differently configured network is a new
// Config, not an edit of a running one.
type Config struct {
	// RPC endpoint of the bitcoind node
	RPCHost string `json:"rpc_host"`
	RPCUser string `json:"rpc_user"`
	RPCPass string `json:"rpc_pass"`

	// docker container names owned by the supervisor
	NodeContainer     string `json:"node_container"`
	ExplorerContainer string `json:"explorer_container"`

	// docker images to run
	NodeImage     string `json:"node_image"`
	ExplorerImage string `json:"explorer_image"`

	// regtest address receiving coinbase rewards from the background miner
	MinerAddress string `json:"miner_address"`

	// seconds between background miner blocks
	MineIntervalSeconds int `json:"mine_interval_seconds"`
}

// MineInterval returns the background miner period.
func (c *Config) MineInterval() time.Duration {
	return time.Duration(c.MineIntervalSeconds) * time.Second
}

// DefaultConfig returns the parameters the setup script provisions a
// fresh local network with.
func DefaultConfig() Config {
	return Config{
		RPCHost:             "localhost:18443",
		RPCUser:             "regtest",
		RPCPass:             "regtest",
		NodeContainer:       "bitgroth-bitcoind",
		ExplorerContainer:   "bitgroth-explorer",
		NodeImage:           "ruimarinho/bitcoin-core:24",
		ExplorerImage:       "janoside/btc-rpc-explorer",
		MinerAddress:        "",
		MineIntervalSeconds: 5,
	}
}

const configFileName = "regtest.json"

// LoadConfig reads the network configuration the setup script wrote under
// dataPath. A missing or unreadable configuration is an operator mistake,
// reported as such.
func LoadConfig(dataPath string) (Config, error) {
	path := filepath.Join(dataPath, configFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("no regtest network configuration at %s: "+
			"run the regtest setup first (%v)", path, err)
	}
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("malformed regtest configuration at %s: %v",
			path, err)
	}
	return c, nil
}

// WriteConfig persists the network configuration under dataPath for later
// LoadConfig calls.
func WriteConfig(c Config, dataPath string) error {
	if err := os.MkdirAll(dataPath, 0755); err != nil {
		return fmt.Errorf("error creating data path: %v", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding regtest configuration: %v", err)
	}
	path := filepath.Join(dataPath, configFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing regtest configuration: %v", err)
	}
	return nil
}
