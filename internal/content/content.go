package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultYAML []byte

// Load decodes and validates a content document.
// Unknown keys are rejected so typos in content files fail loudly.
func Load(r io.Reader) (*Content, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Content
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ValidationError{Problems: []string{"content document is empty"}}
		}
		return nil, fmt.Errorf("failed to decode content: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadFile reads a content override from disk.
func LoadFile(path string) (*Content, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("failed to open content file: %w", err)
	}
	defer func() { _ = f.Close() }()

	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Default returns the content embedded in the binary.
func Default() *Content {
	c, err := Load(bytes.NewReader(defaultYAML))
	if err != nil {
		panic(fmt.Sprintf("embedded content is invalid: %v", err))
	}
	return c
}

// DefaultYAML returns a copy of the embedded content document.
func DefaultYAML() []byte {
	return bytes.Clone(defaultYAML)
}

// Resolve returns the override at path, or the embedded content when path is empty.
func Resolve(path string) (*Content, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// City looks up a city landing page by slug.
func (c *Content) City(slug string) (City, bool) {
	for _, city := range c.Cities {
		if city.Slug == slug {
			return city, true
		}
	}
	return City{}, false
}

// Holder shares the current content between request handlers and the
// file watcher that reloads it.
type Holder struct {
	p atomic.Pointer[Content]
}

// NewHolder returns a Holder initialised with c.
func NewHolder(c *Content) *Holder {
	h := &Holder{}
	h.p.Store(c)
	return h
}

// Get returns the current content.
func (h *Holder) Get() *Content {
	return h.p.Load()
}

// Set swaps in new content. Nil is ignored.
func (h *Holder) Set(c *Content) {
	if c == nil {
		return
	}
	h.p.Store(c)
}
