// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package config collects the engine's tunables (chunk size, search
// fingerprint size/deltayear/result count, rate-limit slice/sleep)
// into a struct that can be overlaid from an optional YAML file, the
// way the teacher's table/index definitions load from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"sigs.k8s.io/yaml"
)

// Config holds every tunable of the engine.
type Config struct {
	// ChunkSize is the target chunk size (bytes) for new archive
	// sub-streams.
	ChunkSize int `json:"chunkSize"`
	// FingerprintSize is the substring length used to build the
	// search fingerprint set (search.go's "size").
	FingerprintSize int `json:"fingerprintSize"`
	// DeltaYear bounds the year window accepted during a search.
	DeltaYear int `json:"deltaYear"`
	// TopN bounds how many ranked results Search returns.
	TopN int `json:"topN"`
	// RateLimitSlice and RateLimitSleep tune ratelimit.Timer.
	RateLimitSlice time.Duration `json:"rateLimitSlice"`
	RateLimitSleep time.Duration `json:"rateLimitSleep"`
}

// Default returns the engine's built-in defaults, matching
// original_source's constants.
func Default() Config {
	return Config{
		ChunkSize:       128 * 1024,
		FingerprintSize: 5,
		DeltaYear:       8,
		TopN:            30,
		RateLimitSlice:  time.Second / 6,
		RateLimitSleep:  100 * time.Millisecond,
	}
}

// Load reads path as YAML and overlays any fields it sets onto
// Default(). A missing file is not an error; Default() applies as-is.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
