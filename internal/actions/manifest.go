package actions

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// Manifest is the declarative description of the actions this service
// exposes. Clients render an input form from it and POST to the advertised
// path. Built fresh per request; never persisted.
type Manifest struct {
	URL         string   `json:"url" validate:"required,url"`
	Icon        string   `json:"icon" validate:"required,url"`
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	BaseURL     string   `json:"baseUrl" validate:"required,url"`
	Actions     []Action `json:"actions" validate:"required,min=1,dive"`
}

// Action declares one user-invocable operation.
type Action struct {
	Label       string      `json:"label" validate:"required"`
	Description string      `json:"description" validate:"required"`
	Chains      ChainSpec   `json:"chains"`
	Path        string      `json:"path" validate:"required,startswith=/"`
	Params      []Parameter `json:"params" validate:"dive"`
}

// ChainSpec tags the chain an action executes on.
type ChainSpec struct {
	Source string `json:"source" validate:"required"`
}

// Parameter declares one input field. Name is the lookup key on the
// execution request and must be unique within an action.
type Parameter struct {
	Name        string `json:"name" validate:"required"`
	Label       string `json:"label" validate:"required"`
	Type        string `json:"type" validate:"required,oneof=text number"`
	Required    bool   `json:"required"`
	Description string `json:"description,omitempty"`
}

var validate = validator.New()

// ValidateManifest checks the manifest shape before it is returned to a
// client: struct-level constraints, parameter-name uniqueness per action,
// and that every advertised path equals the path this service actually
// serves execution requests on. Returns the validated manifest or an error.
func ValidateManifest(m *Manifest, executionPath string) (*Manifest, error) {
	if err := validate.Struct(m); err != nil {
		return nil, errors.Wrap(err, "invalid manifest")
	}

	for _, action := range m.Actions {
		if action.Path != executionPath {
			return nil, errors.Errorf("action path %q does not match execution path %q", action.Path, executionPath)
		}

		seen := make(map[string]struct{}, len(action.Params))
		for _, p := range action.Params {
			if _, dup := seen[p.Name]; dup {
				return nil, errors.Errorf("duplicate parameter name %q in action %q", p.Name, action.Label)
			}
			seen[p.Name] = struct{}{}
		}
	}

	return m, nil
}
