package signatory

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Config locates the remote signatories resource of one certificate.
type Config struct {
	CertificateBaseURL string `yaml:"certificate_base_url" json:"certificate_base_url"`
	CertificateID      string `yaml:"certificate_id" json:"certificate_id"`
}

// ResourceURL returns {CertificateBaseURL}/{CertificateID}/signatories.
func (c Config) ResourceURL() (string, error) {
	base := strings.TrimRight(strings.TrimSpace(c.CertificateBaseURL), "/")
	id := strings.TrimSpace(c.CertificateID)
	if base == "" || id == "" {
		return "", ErrResourceNotConfigured
	}
	return base + "/" + url.PathEscape(id) + "/signatories", nil
}

// Opener builds the Resource serving a resource URL.
type Opener func(resourceURL string) Resource

// ChangeOp names a membership or persistence change of a collection.
type ChangeOp string

const (
	ChangeAdd    ChangeOp = "add"
	ChangeRemove ChangeOp = "remove"
	ChangeReset  ChangeOp = "reset"
	ChangeSave   ChangeOp = "save"
)

// Change is delivered to collection observers.
type Change struct {
	Op        ChangeOp
	Signatory Signatory
}

// Collection is the ordered set of signatories of one certificate.
// Order is insertion order unless replaced by Fetch.
type Collection struct {
	url           string
	certificateID string
	resource      Resource

	mu        sync.RWMutex
	items     []Signatory
	observers []func(Change)
}

// NewCollection creates an empty collection bound to the resource described
// by cfg. Both cfg fields are required.
func NewCollection(cfg Config, open Opener) (*Collection, error) {
	resourceURL, err := cfg.ResourceURL()
	if err != nil {
		return nil, err
	}
	return &Collection{
		url:           resourceURL,
		certificateID: strings.TrimSpace(cfg.CertificateID),
		resource:      open(resourceURL),
	}, nil
}

// URL returns the remote resource location.
func (c *Collection) URL() string {
	return c.url
}

// CertificateID returns the certificate the collection belongs to.
func (c *Collection) CertificateID() string {
	return c.certificateID
}

// Observe registers fn for add, remove, reset and save changes.
// Local edits made through Put are not reported.
func (c *Collection) Observe(fn func(Change)) {
	c.mu.Lock()
	c.observers = append(c.observers, fn)
	c.mu.Unlock()
}

func (c *Collection) notify(change Change) {
	c.mu.RLock()
	observers := append([]func(Change){}, c.observers...)
	c.mu.RUnlock()

	for _, fn := range observers {
		fn(change)
	}
}

// New appends an unsaved signatory with the given fields and returns it.
func (c *Collection) New(name, title string) Signatory {
	return c.Add(Signatory{Name: name, Title: title})
}

// Add appends s, assigning a key and the collection's certificate when
// they are missing.
func (c *Collection) Add(s Signatory) Signatory {
	if s.Key == uuid.Nil {
		s.Key = uuid.New()
	}
	if s.Certificate == "" {
		s.Certificate = c.certificateID
	}

	c.mu.Lock()
	c.items = append(c.items, s)
	c.mu.Unlock()

	c.notify(Change{Op: ChangeAdd, Signatory: s})
	return s
}

// Remove drops the signatory with the given key from memory only.
func (c *Collection) Remove(key uuid.UUID) (Signatory, bool) {
	c.mu.Lock()
	i := c.indexOf(key)
	if i < 0 {
		c.mu.Unlock()
		return Signatory{}, false
	}
	removed := c.items[i]
	c.items = append(c.items[:i], c.items[i+1:]...)
	c.mu.Unlock()

	c.notify(Change{Op: ChangeRemove, Signatory: removed})
	return removed, true
}

// Put replaces the in-memory snapshot sharing s.Key. Observers are not
// notified: the caller already holds the new state.
func (c *Collection) Put(s Signatory) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(s.Key)
	if i < 0 {
		return ErrNotFound
	}
	c.items[i] = s
	return nil
}

// Fetch replaces the contents with the signatories listed by the resource.
// Members already known by ID keep their key.
func (c *Collection) Fetch(ctx context.Context) error {
	listed, err := c.resource.List(ctx)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", c.url, err)
	}

	c.mu.Lock()
	keys := make(map[int64]uuid.UUID, len(c.items))
	for _, s := range c.items {
		if !s.IsNew() {
			keys[s.ID] = s.Key
		}
	}
	items := make([]Signatory, 0, len(listed))
	for _, s := range listed {
		if key, ok := keys[s.ID]; ok && !s.IsNew() {
			s.Key = key
		} else {
			s.Key = uuid.New()
		}
		if s.Certificate == "" {
			s.Certificate = c.certificateID
		}
		items = append(items, s)
	}
	c.items = items
	c.mu.Unlock()

	c.notify(Change{Op: ChangeReset})
	return nil
}

// Save creates or updates the signatory remotely and stores the
// acknowledged snapshot. Edits made while the request is in flight are
// kept and the signatory stays dirty for the next save.
func (c *Collection) Save(ctx context.Context, key uuid.UUID) (Signatory, error) {
	s, ok := c.Get(key)
	if !ok {
		return Signatory{}, ErrNotFound
	}

	var (
		saved Signatory
		err   error
	)
	if s.IsNew() {
		saved, err = c.resource.Create(ctx, s)
	} else {
		saved, err = c.resource.Update(ctx, s)
	}
	if err != nil {
		return Signatory{}, fmt.Errorf("save signatory %s: %w", key, err)
	}
	saved.Key = s.Key
	if saved.Certificate == "" {
		saved.Certificate = s.Certificate
	}

	merged, ok := c.acknowledge(s, saved)
	if !ok {
		// Removed while the request was in flight.
		return saved, nil
	}
	c.notify(Change{Op: ChangeSave, Signatory: merged})
	return merged, nil
}

// acknowledge stores the snapshot returned for sent. Fields edited locally
// after sent was read are kept; only the server identity is written back.
func (c *Collection) acknowledge(sent, saved Signatory) (Signatory, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(sent.Key)
	if i < 0 {
		return Signatory{}, false
	}
	current := c.items[i]
	if current != sent {
		current.ID = saved.ID
		current.Certificate = saved.Certificate
		saved = current
	}
	c.items[i] = saved
	return saved, true
}

// Destroy deletes the signatory remotely and removes it from memory once
// the resource acknowledges. Unsaved signatories are only removed locally.
func (c *Collection) Destroy(ctx context.Context, key uuid.UUID) (Signatory, error) {
	s, ok := c.Get(key)
	if !ok {
		return Signatory{}, ErrNotFound
	}

	if !s.IsNew() {
		if err := c.resource.Delete(ctx, s); err != nil {
			return Signatory{}, fmt.Errorf("delete signatory %d: %w", s.ID, err)
		}
	}

	removed, ok := c.Remove(key)
	if !ok {
		// Removed concurrently while the request was in flight.
		return s, nil
	}
	return removed, nil
}

// Get returns the current snapshot for key.
func (c *Collection) Get(key uuid.UUID) (Signatory, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i := c.indexOf(key)
	if i < 0 {
		return Signatory{}, false
	}
	return c.items[i], true
}

// At returns the signatory at the 0-based position i.
func (c *Collection) At(i int) (Signatory, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i < 0 || i >= len(c.items) {
		return Signatory{}, false
	}
	return c.items[i], true
}

// IndexOf returns the 0-based position of key, or -1.
func (c *Collection) IndexOf(key uuid.UUID) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.indexOf(key)
}

func (c *Collection) indexOf(key uuid.UUID) int {
	for i, s := range c.items {
		if s.Key == key {
			return i
		}
	}
	return -1
}

// Len returns the number of signatories.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// All returns a copy of the signatories in display order.
func (c *Collection) All() []Signatory {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Signatory(nil), c.items...)
}

// SavedCount returns how many signatories are already persisted.
func (c *Collection) SavedCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	count := 0
	for _, s := range c.items {
		if !s.IsNew() {
			count++
		}
	}
	return count
}
