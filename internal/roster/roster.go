// Package roster reads provisioning rosters from YAML files.
package roster

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/models"
)

// Load reads and validates the roster at path.
func Load(path string) (*models.Roster, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	return Parse(bytes.NewReader(raw))
}

// Parse decodes a roster document. Unknown keys are rejected so typos do not
// silently drop employees.
func Parse(r io.Reader) (*models.Roster, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var out models.Roster
	if err := dec.Decode(&out); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("roster is empty")
		}
		return nil, fmt.Errorf("decode roster: %w", err)
	}
	if err := Validate(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Validate checks every entry has a name and a unique username, trimming whitespace in place.
func Validate(r *models.Roster) error {
	seen := make(map[string]bool, len(r.Employees))
	for i := range r.Employees {
		e := &r.Employees[i]
		e.Name = strings.TrimSpace(e.Name)
		e.Username = strings.TrimSpace(e.Username)
		if e.Name == "" || e.Username == "" {
			return fmt.Errorf("roster entry %d: name and username are required", i+1)
		}
		if seen[e.Username] {
			return fmt.Errorf("roster entry %d: duplicate username %q", i+1, e.Username)
		}
		seen[e.Username] = true
	}
	return nil
}
