package editor

import (
	"context"
	"html/template"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/signatories/pkg/events"
	"github.com/doodlesbykumbi/signatories/pkg/logging"
	"github.com/doodlesbykumbi/signatories/pkg/signatory"
)

// Page is the certificate editor owning the signatory views. It re-renders
// its panels when signatories are added, fetched, saved or removed.
type Page struct {
	coll *signatory.Collection
	bus  *events.Bus
	opts Options

	mu      sync.Mutex
	views   map[uuid.UUID]*View
	panels  template.HTML
	err     error
	renders int
}

// NewPage creates the page for coll. opts.Bus is ignored: every page owns
// its bus.
func NewPage(coll *signatory.Collection, opts Options) *Page {
	bus := events.NewBus()
	opts.Bus = bus
	p := &Page{
		coll:  coll,
		bus:   bus,
		opts:  opts.withDefaults(),
		views: map[uuid.UUID]*View{},
	}

	events.OnSignatoryRemoved(bus, func(e events.SignatoryRemoved) {
		p.mu.Lock()
		delete(p.views, e.Signatory.Key)
		p.mu.Unlock()
		p.refresh()
	})
	coll.Observe(func(c signatory.Change) {
		if c.Op != signatory.ChangeRemove {
			p.refresh()
		}
	})
	return p
}

// Collection returns the edited collection.
func (p *Page) Collection() *signatory.Collection {
	return p.coll
}

// Bus returns the page's event bus.
func (p *Page) Bus() *events.Bus {
	return p.bus
}

// Messages returns the page's localized strings.
func (p *Page) Messages() *Messages {
	return p.opts.Messages
}

// Templates returns the page's templates.
func (p *Page) Templates() *Templates {
	return p.opts.Templates
}

// Load fetches the collection from its resource. A failure is kept and
// shown by Panels until the next successful load.
func (p *Page) Load(ctx context.Context) error {
	err := p.coll.Fetch(ctx)

	p.mu.Lock()
	p.err = err
	p.mu.Unlock()

	if err != nil {
		p.opts.Logger.Warn("failed to fetch signatories", logging.CertificateID(p.coll.CertificateID()), zap.Error(err))
		p.refresh()
	}
	return err
}

// View returns the view editing key, creating it on first use.
func (p *Page) View(key uuid.UUID) (*View, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view(key)
}

func (p *Page) view(key uuid.UUID) (*View, error) {
	if v, ok := p.views[key]; ok {
		if _, exists := p.coll.Get(key); exists {
			return v, nil
		}
		delete(p.views, key)
		return nil, signatory.ErrNotFound
	}
	v, err := NewView(p.coll, key, p.opts)
	if err != nil {
		return nil, err
	}
	p.views[key] = v
	return v, nil
}

// Render renders every panel in display order and returns the markup.
func (p *Page) Render() (template.HTML, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var sb strings.Builder
	live := make(map[uuid.UUID]bool, p.coll.Len())
	for _, s := range p.coll.All() {
		v, err := p.view(s.Key)
		if err != nil {
			return "", err
		}
		el, err := v.Render()
		if err != nil {
			return "", err
		}
		live[s.Key] = true
		sb.WriteString(string(el.HTML))
	}
	for key := range p.views {
		if !live[key] {
			delete(p.views, key)
		}
	}

	p.panels = template.HTML(sb.String())
	p.renders++
	return p.panels, nil
}

func (p *Page) refresh() {
	if _, err := p.Render(); err != nil {
		p.opts.Logger.Error("failed to render signatories", logging.CertificateID(p.coll.CertificateID()), zap.Error(err))
	}
}

// Panels returns the markup of the last render and the last load error.
func (p *Page) Panels() (template.HTML, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.panels, p.err
}

// Renders returns how many times the panels were rendered.
func (p *Page) Renders() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.renders
}
