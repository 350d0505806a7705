package client

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/adamwoolhether/fetchio/client/throttle"
)

// Config is the declarative form of the client options, suitable for
// loading from a file.
type Config struct {
	UserAgent      string            `json:"userAgent" validate:"omitempty,printascii"`
	DefaultHeaders map[string]string `json:"defaultHeaders" validate:"omitempty,dive,keys,required,printascii,endkeys,printascii"`
	Throttle       *throttle.Config  `json:"throttle"`
}

// LoadConfig decodes a JSON config document from r and validates it.
// Unknown fields are rejected.
func LoadConfig(r io.Reader) (Config, error) {
	var cfg Config

	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
