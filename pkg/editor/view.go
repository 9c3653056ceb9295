package editor

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/signatories/pkg/audit"
	"github.com/doodlesbykumbi/signatories/pkg/events"
	"github.com/doodlesbykumbi/signatories/pkg/logging"
	"github.com/doodlesbykumbi/signatories/pkg/metrics"
	"github.com/doodlesbykumbi/signatories/pkg/signatory"
)

// ErrDeleteInProgress is returned when a deletion of the same signatory is
// already running.
var ErrDeleteInProgress = errors.New("signatory deletion already in progress")

// DeleteError is returned when the remote delete fails. Message is the
// localized text to show the user.
type DeleteError struct {
	Position int
	Message  string
	Err      error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *DeleteError) Unwrap() error {
	return e.Err
}

// Options configure a View. Bus is required.
type Options struct {
	Bus       events.Publisher
	Templates *Templates
	Messages  *Messages
	Confirmer Confirmer
	Progress  Progress
	Logger    *zap.Logger

	// IsEditingAllCollections is true when the page edits the signatories
	// of more than one certificate.
	IsEditingAllCollections bool

	// ActionsPath prefixes the form actions rendered by the template.
	ActionsPath string

	// OnDeleteState, when set, is called on every step of a deletion.
	OnDeleteState func(DeleteState)
}

func (o Options) withDefaults() Options {
	if o.Templates == nil {
		o.Templates = MustLoadTemplates()
	}
	if o.Messages == nil {
		o.Messages = NewMessages("")
	}
	if o.Confirmer == nil {
		o.Confirmer = Answer(false)
	}
	if o.Progress == nil {
		o.Progress = NoProgress
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Element is a rendered view ready to be composed into a page.
type Element struct {
	Key   uuid.UUID
	Class string
	HTML  template.HTML
}

// View edits one signatory of a collection.
type View struct {
	key  uuid.UUID
	coll *signatory.Collection
	opts Options

	deleting atomic.Bool
	state    atomic.Int32
}

// NewView creates the editor of the signatory identified by key.
func NewView(coll *signatory.Collection, key uuid.UUID, opts Options) (*View, error) {
	if opts.Bus == nil {
		return nil, errors.New("editor: an event bus is required")
	}
	if _, ok := coll.Get(key); !ok {
		return nil, signatory.ErrNotFound
	}
	return &View{key: key, coll: coll, opts: opts.withDefaults()}, nil
}

// Key returns the key of the edited signatory.
func (v *View) Key() uuid.UUID {
	return v.key
}

// Model returns the current snapshot of the edited signatory.
func (v *View) Model() (signatory.Signatory, bool) {
	return v.coll.Get(v.key)
}

// Position returns the 1-based display position, or 0 once removed.
func (v *View) Position() int {
	return v.coll.IndexOf(v.key) + 1
}

// ClassName returns the CSS classes of the view's root element. The index
// part follows the current position and changes when earlier signatories
// are removed.
func (v *View) ClassName() string {
	return fmt.Sprintf("signatory-edit signatory-edit-view-%d", v.coll.IndexOf(v.key))
}

// Context returns the template data for the current state.
func (v *View) Context() (map[string]any, error) {
	model, ok := v.Model()
	if !ok {
		return nil, signatory.ErrNotFound
	}

	data := model.Attributes()
	data["key"] = model.Key.String()
	data["signatory_number"] = v.Position()
	data["signatories_count"] = v.coll.Len()
	data["isNew"] = model.IsNew()
	data["is_editing_all_collections"] = v.opts.IsEditingAllCollections
	data["total_saved_signatories"] = v.coll.SavedCount()
	data["actions_path"] = v.opts.ActionsPath
	data["labels"] = v.opts.Messages.Labels(v.Position())
	return data, nil
}

// Render executes the signatory-editor template and returns the view's
// root element.
func (v *View) Render() (Element, error) {
	data, err := v.Context()
	if err != nil {
		return Element{}, err
	}

	inner, err := v.opts.Templates.render(TemplateEditor, data)
	if err != nil {
		return Element{}, fmt.Errorf("render signatory %d: %w", data["signatory_number"], err)
	}

	el := Element{Key: v.key, Class: v.ClassName()}
	el.HTML, err = v.opts.Templates.render(TemplateView, map[string]any{
		"Class": el.Class,
		"Key":   v.key.String(),
		"Inner": inner,
	})
	if err != nil {
		return Element{}, err
	}
	return el, nil
}

// SetName stores a new name for the signatory and returns the updated
// snapshot. Collection observers are not notified and nothing is rendered;
// the caller already displays the value it submitted.
func (v *View) SetName(value string) (signatory.Signatory, error) {
	return v.update(func(s signatory.Signatory) signatory.Signatory { return s.WithName(value) })
}

// SetTitle is SetName for the title field.
func (v *View) SetTitle(value string) (signatory.Signatory, error) {
	return v.update(func(s signatory.Signatory) signatory.Signatory { return s.WithTitle(value) })
}

func (v *View) update(fn func(signatory.Signatory) signatory.Signatory) (signatory.Signatory, error) {
	model, ok := v.Model()
	if !ok {
		return signatory.Signatory{}, signatory.ErrNotFound
	}
	updated := fn(model)
	if err := v.coll.Put(updated); err != nil {
		return signatory.Signatory{}, err
	}
	return updated, nil
}

// Save persists the signatory through the collection.
func (v *View) Save(ctx context.Context) (signatory.Signatory, error) {
	model, ok := v.Model()
	if !ok {
		return signatory.Signatory{}, signatory.ErrNotFound
	}
	event := audit.SignatoryEvent{
		Operation:     audit.OperationUpdate,
		CertificateID: v.coll.CertificateID(),
		SignatoryID:   model.ID,
		Position:      v.Position(),
		ClientIP:      ClientIP(ctx),
	}
	if model.IsNew() {
		event.Operation = audit.OperationCreate
	}

	saved, err := v.coll.Save(ctx, v.key)
	if err != nil {
		metrics.SignatorySaves.WithLabelValues(metrics.ResultFailed).Inc()
		event.ErrorMessage = err.Error()
		audit.Log(event)
		v.opts.Logger.Error("failed to save signatory", logging.CertificateID(event.CertificateID), logging.Position(event.Position), zap.Error(err))
		return signatory.Signatory{}, err
	}

	metrics.SignatorySaves.WithLabelValues(metrics.ResultSucceeded).Inc()
	event.SignatoryID = saved.ID
	event.Success = true
	audit.Log(event)
	return saved, nil
}

// DeletePrompt returns the localized confirmation for deleting the
// signatory at its current position.
func (v *View) DeletePrompt() Prompt {
	number := v.Position()
	return Prompt{
		Title:   v.opts.Messages.DeleteTitle(number),
		Message: v.opts.Messages.DeleteMessage(number),
		Action:  v.opts.Messages.DeleteAction(),
		Cancel:  v.opts.Messages.Labels(number).Cancel,
	}
}

// DeleteState returns the step the current deletion is at. Cancelled and
// failed deletions return to idle; a succeeded one stays succeeded.
func (v *View) DeleteState() DeleteState {
	return DeleteState(v.state.Load())
}

func (v *View) transition(s DeleteState) {
	v.state.Store(int32(s))
	if v.opts.OnDeleteState != nil {
		v.opts.OnDeleteState(s)
	}
}

// DeleteItem asks for confirmation, deletes the signatory remotely and,
// once the resource acknowledges, removes it from the collection and
// publishes SignatoryRemoved. The returned state is cancelled, succeeded
// or failed (idle when confirmation could not be asked); the steps in
// between are reported by DeleteState and Options.OnDeleteState. A failed
// deletion leaves the collection unchanged and returns a *DeleteError.
func (v *View) DeleteItem(ctx context.Context) (DeleteState, error) {
	return v.DeleteItemWith(ctx, v.opts.Confirmer)
}

// DeleteItemWith is DeleteItem asking c instead of the configured Confirmer.
func (v *View) DeleteItemWith(ctx context.Context, c Confirmer) (DeleteState, error) {
	if !v.deleting.CompareAndSwap(false, true) {
		return DeleteStateIdle, ErrDeleteInProgress
	}
	defer v.deleting.Store(false)

	model, ok := v.Model()
	if !ok {
		return DeleteStateIdle, signatory.ErrNotFound
	}
	number := v.Position()
	log := v.opts.Logger.With(logging.CertificateID(v.coll.CertificateID()), logging.Position(number))

	v.transition(DeleteStateConfirming)
	confirmed, err := c.Confirm(ctx, v.DeletePrompt())
	if err != nil {
		v.transition(DeleteStateIdle)
		return DeleteStateIdle, fmt.Errorf("confirm deletion: %w", err)
	}
	if !confirmed {
		metrics.SignatoryDeletes.WithLabelValues(metrics.ResultCancelled).Inc()
		log.Debug("signatory deletion cancelled")
		v.transition(DeleteStateCancelled)
		v.transition(DeleteStateIdle)
		return DeleteStateCancelled, nil
	}
	v.transition(DeleteStateConfirmed)

	v.transition(DeleteStateDeleting)
	var removed signatory.Signatory
	err = v.opts.Progress.Run(ctx, v.opts.Messages.Deleting(), func(ctx context.Context) error {
		var err error
		removed, err = v.coll.Destroy(ctx, v.key)
		return err
	})

	event := audit.SignatoryEvent{
		Operation:     audit.OperationDelete,
		CertificateID: v.coll.CertificateID(),
		SignatoryID:   model.ID,
		Position:      number,
		ClientIP:      ClientIP(ctx),
	}
	if err != nil {
		metrics.SignatoryDeletes.WithLabelValues(metrics.ResultFailed).Inc()
		event.ErrorMessage = err.Error()
		audit.Log(event)
		log.Error("failed to delete signatory", logging.SignatoryID(model.ID), zap.Error(err))
		v.transition(DeleteStateFailed)
		v.transition(DeleteStateIdle)
		return DeleteStateFailed, &DeleteError{
			Position: number,
			Message:  v.opts.Messages.DeleteFailed(number),
			Err:      err,
		}
	}

	metrics.SignatoryDeletes.WithLabelValues(metrics.ResultSucceeded).Inc()
	event.Success = true
	audit.Log(event)
	log.Info("signatory deleted", logging.SignatoryID(model.ID))
	v.transition(DeleteStateSucceeded)

	v.opts.Bus.Publish(events.SignatoryRemoved{Signatory: removed, Position: number})
	return DeleteStateSucceeded, nil
}

type clientIPKey struct{}

// WithClientIP records the client address for audit events.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

// ClientIP returns the address stored by WithClientIP.
func ClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}
