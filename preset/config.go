// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package preset

import (
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
	"github.com/meterio/meter-auction/meter"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// DefaultProgramID is the auction program id used when none is configured.
var DefaultProgramID = solana.PublicKeyFromBytes(meter.Blake2b([]byte("meter-auction")).Bytes())

// GenesisAccount is a token account minted on first start.
type GenesisAccount struct {
	Address string `yaml:"address"`
	Owner   string `yaml:"owner"`
	Amount  uint64 `yaml:"amount"`
}

// Config of the auction host. Zero values are replaced by DefaultConfig.
type Config struct {
	DataDir    string           `yaml:"data-dir"`
	APIAddr    string           `yaml:"api-addr"`
	APICors    string           `yaml:"api-cors"`
	APITimeout int              `yaml:"api-timeout"`
	ProgramID  string           `yaml:"program-id"`
	NTPServer  string           `yaml:"ntp-server"`
	Verbosity  int              `yaml:"verbosity"`
	NoJournal  bool             `yaml:"no-journal"`
	Genesis    []GenesisAccount `yaml:"genesis"`
}

func DefaultConfig() *Config {
	return &Config{
		APIAddr:    "localhost:8669",
		APITimeout: 10000,
		ProgramID:  DefaultProgramID.String(),
		NTPServer:  "ap.pool.ntp.org",
		Verbosity:  3,
	}
}

// LoadConfig reads a yaml file on top of DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithMessage(err, "read config")
	}
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, errors.WithMessagef(err, "parse config %v", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := c.Program(); err != nil {
		return err
	}
	if c.Verbosity < 0 || c.Verbosity > 5 {
		return errors.Errorf("verbosity %d out of range [0, 5]", c.Verbosity)
	}
	for i, g := range c.Genesis {
		if _, _, err := g.Keys(); err != nil {
			return errors.WithMessagef(err, "genesis #%d", i)
		}
	}
	return nil
}

func (c *Config) Program() (solana.PublicKey, error) {
	if c.ProgramID == "" {
		return DefaultProgramID, nil
	}
	key, err := solana.PublicKeyFromBase58(c.ProgramID)
	if err != nil {
		return key, errors.WithMessage(err, "program-id")
	}
	return key, nil
}

func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func (c *Config) String() string {
	return fmt.Sprintf("Config{DataDir: %v, APIAddr: %v, ProgramID: %v, NTPServer: %v, Verbosity: %v, Genesis: %d}",
		c.DataDir, c.APIAddr, c.ProgramID, c.NTPServer, c.Verbosity, len(c.Genesis))
}

// Keys parses the address and owner of g.
func (g GenesisAccount) Keys() (addr, owner solana.PublicKey, err error) {
	if addr, err = solana.PublicKeyFromBase58(g.Address); err != nil {
		return addr, owner, errors.WithMessage(err, "address")
	}
	if owner, err = solana.PublicKeyFromBase58(g.Owner); err != nil {
		return addr, owner, errors.WithMessage(err, "owner")
	}
	return addr, owner, nil
}
