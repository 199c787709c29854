// Package catalog holds the named error descriptors rendered in API failure responses.
//
// A catalog is loaded once at startup and is read-only afterwards, so a single
// *Catalog can be shared by every handler without locking.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Names of the descriptors referenced by the API.
const (
	ServerInternalError    = "SERVER_INTERNAL_ERROR"
	RequiredBodyParamError = "REQUIRED_BODY_PARAM_ERROR"
	UsersFileError         = "USERS_FILE_ERROR"
	UserNotFound           = "USER_NOT_FOUND"
	UserAlreadyExists      = "USER_ALREADY_EXISTS"
	ResourceNotFound       = "RESOURCE_NOT_FOUND"
	InvalidBodyError       = "INVALID_BODY_ERROR"
	MethodNotAllowed       = "METHOD_NOT_ALLOWED"
)

//go:embed errors.json
var defaultCatalog []byte

// Descriptor is a single catalog entry as rendered to clients.
type Descriptor struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

// StartupError reports a catalog that cannot be loaded. The process must not serve traffic without one.
type StartupError struct {
	Source string
	Err    error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("error catalog %s is broken: %v", e.Source, e.Err)
}

func (e *StartupError) Unwrap() error { return e.Err }

// Catalog maps symbolic error names to descriptors.
type Catalog struct {
	entries map[string]Descriptor
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return parse("embedded", defaultCatalog)
}

// Load reads a catalog from path. An empty path selects the embedded catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &StartupError{Source: path, Err: err}
	}
	return parse(path, data)
}

// Parse builds a catalog from its JSON representation.
func Parse(data []byte) (*Catalog, error) {
	return parse("inline", data)
}

func parse(source string, data []byte) (*Catalog, error) {
	var entries map[string]Descriptor
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &StartupError{Source: source, Err: err}
	}
	if _, ok := entries[ServerInternalError]; !ok {
		return nil, &StartupError{Source: source, Err: errors.New("missing " + ServerInternalError + " entry")}
	}
	return &Catalog{entries: entries}, nil
}

// Lookup returns a copy of the descriptor registered under name, with tokens
// substituted into its message and details attached as given.
// Unknown names resolve to SERVER_INTERNAL_ERROR with empty details.
func (c *Catalog) Lookup(name string, tokens map[string]string, details map[string]any) Descriptor {
	d, ok := c.entries[name]
	if !ok {
		d = c.entries[ServerInternalError]
		d.Details = map[string]any{}
		return d
	}

	d.Message = Substitute(d.Message, tokens)
	if details == nil {
		details = map[string]any{}
	}
	d.Details = details
	return d
}

// Code returns the numeric code registered under name, or false if the name is unknown.
func (c *Catalog) Code(name string) (int, bool) {
	d, ok := c.entries[name]
	return d.Code, ok
}

// Len returns the number of descriptors in the catalog.
func (c *Catalog) Len() int {
	return len(c.entries)
}
