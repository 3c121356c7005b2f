package generator

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/toyz/actiongen/internal/errors"
	"github.com/toyz/actiongen/internal/models"
	"github.com/toyz/actiongen/internal/modules"
)

// Fingerprint digests everything that changes the generated trait: the
// generator version, each module's method names in registry order, the raw
// module configuration and the configured decorator list. Equal inputs give
// equal fingerprints; the build layer compares them to skip regeneration.
func Fingerprint(registry *modules.Registry, settings models.Settings) (string, error) {
	if !semver.IsValid(settings.Version) {
		return "", errors.InvalidSetting("version", "'"+settings.Version+"' is not a semantic version").
			WithSuggestion("Use a tag such as v1.4.0")
	}

	config, err := json.Marshal(settings.ModulesConfig)
	if err != nil {
		return "", errors.InvalidSetting("modules", "configuration cannot be serialized").WithCause(err)
	}

	h := sha256.New()

	// Each field is preceded by a domain separator so adjacent fields cannot
	// run into each other.
	h.Write([]byte("v:"))
	h.Write([]byte(semver.Canonical(settings.Version)))
	for _, name := range registry.Names() {
		class, _ := registry.Get(name)
		h.Write([]byte("\nm:"))
		h.Write([]byte(name))
		h.Write([]byte{0})
		h.Write([]byte(class.Name()))
		for _, m := range class.Methods() {
			h.Write([]byte{0})
			h.Write([]byte(m.Name()))
		}
	}
	h.Write([]byte("\nc:"))
	h.Write(config)
	h.Write([]byte("\nd:"))
	h.Write([]byte(strings.Join(settings.StepDecorators, ",")))

	return hex.EncodeToString(h.Sum(nil)), nil
}
