package scheme

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
)

// ErrCatalogNotFound is returned when the catalog file does not exist
var ErrCatalogNotFound = errors.New("scheme catalog not found")

// MalformedError reports a catalog that cannot be decoded or fails record validation
type MalformedError struct {
	Path string
	Err  error
}

func (e *MalformedError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("malformed scheme catalog: %v", e.Err)
	}
	return fmt.Sprintf("malformed scheme catalog %s: %v", e.Path, e.Err)
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}

// recordValidate is the validator instance for catalog records
var recordValidate = validator.New()

// FileCatalog reads schemes from a JSON file on every Load
type FileCatalog struct {
	path string
}

// NewFileCatalog creates a catalog backed by the file at path
func NewFileCatalog(path string) *FileCatalog {
	return &FileCatalog{path: path}
}

// Path returns the catalog file path
func (c *FileCatalog) Path() string {
	return c.path
}

// Load reads and decodes the whole catalog
func (c *FileCatalog) Load(ctx context.Context) ([]Scheme, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCatalogNotFound, c.path)
		}
		return nil, fmt.Errorf("failed to read scheme catalog: %w", err)
	}

	schemes, err := Parse(data)
	if err != nil {
		var malformed *MalformedError
		if errors.As(err, &malformed) {
			malformed.Path = c.path
		}
		return nil, err
	}

	return schemes, nil
}

// Check verifies the catalog file exists and is a regular file
func (c *FileCatalog) Check() error {
	info, err := os.Stat(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrCatalogNotFound, c.path)
		}
		return fmt.Errorf("failed to stat scheme catalog: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("scheme catalog %s is not a regular file", c.path)
	}
	return nil
}

// Parse decodes and validates a JSON catalog
func Parse(data []byte) ([]Scheme, error) {
	var schemes []Scheme
	if err := json.Unmarshal(data, &schemes); err != nil {
		return nil, &MalformedError{Err: err}
	}

	seen := make(map[ID]int, len(schemes))
	for i := range schemes {
		s := &schemes[i]
		if err := recordValidate.Struct(s); err != nil {
			return nil, &MalformedError{Err: fmt.Errorf("scheme %d (id %q): %w", i, s.ID, err)}
		}
		if prev, ok := seen[s.ID]; ok {
			return nil, &MalformedError{Err: fmt.Errorf("scheme %d: duplicate id %q (first at %d)", i, s.ID, prev)}
		}
		seen[s.ID] = i
	}

	return schemes, nil
}
