package knowledge

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/vrsandeep/comic-go/internal/models"
)

// SeedVersionSetting is the settings key holding the version of the last
// applied seed document.
const SeedVersionSetting = "knowledge.seed_version"

// Seed is a versioned bulk knowledge base document.
type Seed struct {
	Version string                  `json:"version"`
	Entries []models.ComicKnowledge `json:"entries"`
}

// LoadSeed decodes a seed document and validates its version.
func LoadSeed(r io.Reader) (*Seed, error) {
	var seed Seed
	if err := json.NewDecoder(r).Decode(&seed); err != nil {
		return nil, fmt.Errorf("failed to decode knowledge seed: %w", err)
	}
	if _, err := semver.NewVersion(seed.Version); err != nil {
		return nil, fmt.Errorf("invalid knowledge seed version '%s': %w", seed.Version, err)
	}
	return &seed, nil
}

// LoadSeedFile opens path and decodes it with LoadSeed.
func LoadSeedFile(path string) (*Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open knowledge seed: %w", err)
	}
	defer f.Close()
	return LoadSeed(f)
}

// NewerThan reports whether the seed should replace a previously applied
// seed of version current. An empty current version is always older.
func (s *Seed) NewerThan(current string) (bool, error) {
	if current == "" {
		return true, nil
	}
	applied, err := semver.NewVersion(current)
	if err != nil {
		return false, fmt.Errorf("invalid stored seed version '%s': %w", current, err)
	}
	candidate, err := semver.NewVersion(s.Version)
	if err != nil {
		return false, err
	}
	return candidate.GreaterThan(applied), nil
}
