// Package profile stores named request parameter sets as JSON files.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ddolyniuk1/WispStudio.Docker.ContainerPatcher/pkg/patch"
)

const (
	stepName patch.Step = "profile-name"
	stepLoad patch.Step = "load-profile"
	stepSave patch.Step = "save-profile"
	stepList patch.Step = "list-profiles"

	ext = ".json"
)

var nameRE = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

var validate = func() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("profilename", func(fl validator.FieldLevel) bool {
		return nameRE.MatchString(fl.Field().String())
	})
	return v
}()

// Profile is the saved form of an execution request. Input keeps the raw
// comma-delimited list.
type Profile struct {
	Name       string `json:"name,omitempty"`
	Input      string `json:"input,omitempty"`
	Output     string `json:"output,omitempty"`
	Target     string `json:"target,omitempty"`
	Host       string `json:"host,omitempty"`
	ReplaceTag string `json:"replace_tag,omitempty"`
	RestoreTag string `json:"restore_tag,omitempty"`
}

// FromRequest converts req into its saved form.
func FromRequest(req patch.ExecutionRequest) Profile {
	return Profile{
		Name:       req.Name,
		Input:      strings.Join(req.Inputs, ","),
		Output:     req.Destination,
		Target:     req.Target,
		Host:       req.Endpoint,
		ReplaceTag: req.BackupTag,
		RestoreTag: req.RestoreTag,
	}
}

// Request converts p into an execution request.
func (p Profile) Request() patch.ExecutionRequest {
	return patch.ExecutionRequest{
		Name:        p.Name,
		Inputs:      patch.ParseInputs(p.Input),
		Destination: p.Output,
		Target:      p.Target,
		Endpoint:    p.Host,
		BackupTag:   p.ReplaceTag,
		RestoreTag:  p.RestoreTag,
	}
}

// ValidateName rejects names that are not plain file names made of
// letters, digits, '_', '.' and '-'.
func ValidateName(name string) error {
	if err := validate.Var(name, "required,profilename"); err != nil {
		return &patch.Error{Kind: patch.KindConfiguration, Step: stepName, Subject: name,
			Err: errors.New("profile names may only contain letters, digits, '_', '.' and '-'")}
	}
	return nil
}

// Store keeps one <name>.json file per profile in a directory.
type Store struct {
	dir string
}

// Open returns a Store on dir, creating the directory if needed.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &patch.Error{Kind: patch.KindIO, Step: stepList, Subject: dir, Err: err}
	}
	return &Store{dir: dir}, nil
}

// Dir is the directory profiles are stored in.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+ext)
}

// Load reads the profile saved under name.
func (s *Store) Load(name string) (Profile, error) {
	if err := ValidateName(name); err != nil {
		return Profile{}, err
	}
	raw, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return Profile{}, &patch.Error{Kind: patch.KindNotFound, Step: stepLoad, Subject: name, Err: errors.New("profile does not exist")}
	}
	if err != nil {
		return Profile{}, &patch.Error{Kind: patch.KindIO, Step: stepLoad, Subject: name, Err: err}
	}
	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return Profile{}, &patch.Error{Kind: patch.KindConfiguration, Step: stepLoad, Subject: name, Err: fmt.Errorf("invalid profile JSON: %w", err)}
	}
	return p, nil
}

// Save writes p under name, replacing any existing profile.
func (s *Store) Save(name string, p Profile) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return &patch.Error{Kind: patch.KindIO, Step: stepSave, Subject: name, Err: err}
	}
	if err := os.WriteFile(s.path(name), append(raw, '\n'), 0o644); err != nil {
		return &patch.Error{Kind: patch.KindIO, Step: stepSave, Subject: name, Err: err}
	}
	return nil
}

// List returns the names of all saved profiles, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, &patch.Error{Kind: patch.KindIO, Step: stepList, Subject: s.dir, Err: err}
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ext {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ext))
	}
	sort.Strings(names)
	return names, nil
}
