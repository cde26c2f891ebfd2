package app

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/profileforms-backend/internal/platform/logger"
	"github.com/yungbote/profileforms-backend/internal/services"
)

//go:embed seed/profile_types.yaml
var defaultSeed []byte

// LoadSeed reads profile types from path, or the embedded defaults when path is empty.
func LoadSeed(path string) ([]services.CreateProfileTypeInput, error) {
	raw := defaultSeed
	if p := strings.TrimSpace(path); p != "" {
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read seed %s: %w", p, err)
		}
		raw = b
	}
	return ParseSeed(raw)
}

// ParseSeed decodes seed YAML. Values go through JSON so the same field names
// as the HTTP payloads apply.
func ParseSeed(raw []byte) ([]services.CreateProfileTypeInput, error) {
	var generic []map[string]any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("decode seed yaml: %w", err)
	}
	b, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("re-encode seed: %w", err)
	}
	var out []services.CreateProfileTypeInput
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode seed profile types: %w", err)
	}
	return out, nil
}

func seedSchema(ctx context.Context, log *logger.Logger, cfg Config, store services.SchemaStore) error {
	if !cfg.SeedEnabled {
		return nil
	}
	seed, err := LoadSeed(cfg.SeedPath)
	if err != nil {
		return err
	}
	n, err := store.SeedIfEmpty(ctx, seed)
	if err != nil {
		return fmt.Errorf("seed schema: %w", err)
	}
	if n == 0 {
		log.Debug("schema already populated; seed skipped")
	}
	return nil
}
