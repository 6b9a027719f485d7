/*
Package factory provides JSON to Go achievement-catalog conversion.

PURPOSE:
  Converts JSON catalog definitions into achievements.Definition slices.
  This enables catalog changes without code changes - product can define
  seasonal or A/B catalogs in JSON, and the factory validates and builds
  the proper Go structs.

WHY JSON?
  - Non-developers can tune thresholds and copy
  - Easy integration with an admin UI
  - Version control for catalog definitions
  - Database storage of catalog configs

JSON SCHEMA:
  {
    "achievements": [
      {
        "id": "first-contribution",
        "name": "First Step",
        "description": "Make your first contribution",
        "category": "contribution",
        "points": 10,
        "rarity": "common",
        "requirements": [
          {"counter": "contribution_count", "target": 1}
        ]
      }
    ]
  }

VALIDATION:
  - IDs must be present and unique
  - Every requirement references one of the six known counters
  - Targets must be positive
  Invalid catalogs are rejected whole; there is no partial load.

USAGE:
  catalog, err := factory.ParseCatalog(jsonBytes)
  if err != nil {
      catalog = achievements.DefaultCatalog()
  }

SEE ALSO:
  - achievements/types.go: Definition/Requirement types
  - achievements/catalog.go: Built-in catalog
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/tandemfin/progress-engine/achievements"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// CatalogJSON is the top-level catalog document.
type CatalogJSON struct {
	Achievements []DefinitionJSON `json:"achievements"`
}

// DefinitionJSON is the JSON representation of one achievement.
type DefinitionJSON struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description,omitempty"`
	Category     string            `json:"category,omitempty"`
	Points       int               `json:"points,omitempty"`
	Rarity       string            `json:"rarity,omitempty"`
	Requirements []RequirementJSON `json:"requirements"`
}

// RequirementJSON is the JSON representation of one requirement.
type RequirementJSON struct {
	Counter string  `json:"counter"`
	Target  float64 `json:"target"`
}

// =============================================================================
// PARSING
// =============================================================================

// ParseCatalog validates and converts a JSON catalog document.
func ParseCatalog(data []byte) ([]achievements.Definition, error) {
	var doc CatalogJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid catalog JSON: %w", err)
	}
	if len(doc.Achievements) == 0 {
		return nil, fmt.Errorf("catalog has no achievements")
	}

	seen := make(map[string]bool, len(doc.Achievements))
	out := make([]achievements.Definition, 0, len(doc.Achievements))

	for i, dj := range doc.Achievements {
		if dj.ID == "" {
			return nil, fmt.Errorf("achievement %d: missing id", i)
		}
		if seen[dj.ID] {
			return nil, fmt.Errorf("achievement %q: duplicate id", dj.ID)
		}
		seen[dj.ID] = true

		def, err := parseDefinition(dj)
		if err != nil {
			return nil, fmt.Errorf("achievement %q: %w", dj.ID, err)
		}
		out = append(out, def)
	}

	return out, nil
}

func parseDefinition(dj DefinitionJSON) (achievements.Definition, error) {
	def := achievements.Definition{
		ID:          dj.ID,
		Name:        dj.Name,
		Description: dj.Description,
		Category:    achievements.Category(dj.Category),
		Points:      dj.Points,
		Rarity:      achievements.Rarity(dj.Rarity),
	}

	if def.Name == "" {
		def.Name = def.ID
	}
	if def.Rarity == "" {
		def.Rarity = achievements.RarityCommon
	}

	if len(dj.Requirements) == 0 {
		return achievements.Definition{}, fmt.Errorf("no requirements")
	}

	for _, rj := range dj.Requirements {
		counter := achievements.CounterType(rj.Counter)
		if !achievements.ValidCounterType(counter) {
			return achievements.Definition{}, fmt.Errorf("unknown counter %q", rj.Counter)
		}
		if rj.Target <= 0 {
			return achievements.Definition{}, fmt.Errorf("counter %q: target must be positive", rj.Counter)
		}
		def.Requirements = append(def.Requirements, achievements.Requirement{
			Counter: counter,
			Target:  rj.Target,
		})
	}

	return def, nil
}

// CatalogToJSON serializes a catalog back to its JSON document form,
// round-tripping what ParseCatalog accepts.
func CatalogToJSON(catalog []achievements.Definition) ([]byte, error) {
	doc := CatalogJSON{Achievements: make([]DefinitionJSON, 0, len(catalog))}
	for _, def := range catalog {
		dj := DefinitionJSON{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Category:    string(def.Category),
			Points:      def.Points,
			Rarity:      string(def.Rarity),
		}
		for _, req := range def.Requirements {
			dj.Requirements = append(dj.Requirements, RequirementJSON{
				Counter: string(req.Counter),
				Target:  req.Target,
			})
		}
		doc.Achievements = append(doc.Achievements, dj)
	}
	return json.MarshalIndent(doc, "", "  ")
}
