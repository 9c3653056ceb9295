package editor

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys, also the English text.
const (
	msgDeleteTitle   = "Delete this signatory %d?"
	msgDeleteMessage = "Deleting this signatory %d is permanent and cannot be undone."
	msgDeleteAction  = "Delete"
	msgDeleting      = "Deleting"
	msgDeleteFailed  = "Could not delete signatory %d."
	msgLoadFailed    = "Could not load the signatories of this certificate."

	msgSignatory        = "Signatory %d"
	msgName             = "Name"
	msgNamePlaceholder  = "Name of the signatory"
	msgTitle            = "Title"
	msgTitlePlaceholder = "Title of the signatory"
	msgNotSaved         = "Not saved"
	msgSave             = "Save"
	msgCancel           = "Cancel"
	msgAddSignatory     = "Add additional signatory"
	msgPageTitle        = "Signatories of certificate %s"
)

var supported = []language.Tag{language.English, language.French}

var translations = map[language.Tag]map[string]string{
	language.English: {
		msgDeleteTitle:   msgDeleteTitle,
		msgDeleteMessage: msgDeleteMessage,
		msgDeleteAction:  msgDeleteAction,
		msgDeleting:      msgDeleting,
		msgDeleteFailed:  msgDeleteFailed,
		msgLoadFailed:    msgLoadFailed,

		msgSignatory:        msgSignatory,
		msgName:             msgName,
		msgNamePlaceholder:  msgNamePlaceholder,
		msgTitle:            msgTitle,
		msgTitlePlaceholder: msgTitlePlaceholder,
		msgNotSaved:         msgNotSaved,
		msgSave:             msgSave,
		msgCancel:           msgCancel,
		msgAddSignatory:     msgAddSignatory,
		msgPageTitle:        msgPageTitle,
	},
	language.French: {
		msgDeleteTitle:   "Supprimer ce signataire %d ?",
		msgDeleteMessage: "La suppression du signataire %d est définitive et irréversible.",
		msgDeleteAction:  "Supprimer",
		msgDeleting:      "Suppression",
		msgDeleteFailed:  "Impossible de supprimer le signataire %d.",
		msgLoadFailed:    "Impossible de charger les signataires de ce certificat.",

		msgSignatory:        "Signataire %d",
		msgName:             "Nom",
		msgNamePlaceholder:  "Nom du signataire",
		msgTitle:            "Titre",
		msgTitlePlaceholder: "Titre du signataire",
		msgNotSaved:         "Non enregistré",
		msgSave:             "Enregistrer",
		msgCancel:           "Annuler",
		msgAddSignatory:     "Ajouter un signataire",
		msgPageTitle:        "Signataires du certificat %s",
	},
}

var messageCatalog = func() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range translations {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(fmt.Sprintf("editor: invalid message %q for %s: %v", key, tag, err))
			}
		}
	}
	return b
}()

var matcher = language.NewMatcher(supported)

// Messages renders the localized strings of the editor.
type Messages struct {
	tag     language.Tag
	printer *message.Printer
}

// NewMessages returns messages for the supported language closest to lang.
// An empty or unparsable lang selects English.
func NewMessages(lang string) *Messages {
	tag := language.English
	if lang != "" {
		if desired, _, err := language.ParseAcceptLanguage(lang); err == nil && len(desired) > 0 {
			_, i, _ := matcher.Match(desired...)
			tag = supported[i]
		}
	}
	return &Messages{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(messageCatalog)),
	}
}

// Language returns the selected language.
func (m *Messages) Language() language.Tag {
	return m.tag
}

func (m *Messages) DeleteTitle(number int) string {
	return m.printer.Sprintf(msgDeleteTitle, number)
}

func (m *Messages) DeleteMessage(number int) string {
	return m.printer.Sprintf(msgDeleteMessage, number)
}

func (m *Messages) DeleteAction() string {
	return m.printer.Sprintf(msgDeleteAction)
}

func (m *Messages) Deleting() string {
	return m.printer.Sprintf(msgDeleting)
}

func (m *Messages) DeleteFailed(number int) string {
	return m.printer.Sprintf(msgDeleteFailed, number)
}

func (m *Messages) LoadFailed() string {
	return m.printer.Sprintf(msgLoadFailed)
}

// Labels are the localized texts of a signatory panel and its page.
type Labels struct {
	Signatory        string
	Name             string
	NamePlaceholder  string
	Title            string
	TitlePlaceholder string
	NotSaved         string
	Save             string
	Delete           string
	Cancel           string
	AddSignatory     string
}

// Labels returns the panel texts for the signatory at 1-based number.
func (m *Messages) Labels(number int) Labels {
	return Labels{
		Signatory:        m.printer.Sprintf(msgSignatory, number),
		Name:             m.printer.Sprintf(msgName),
		NamePlaceholder:  m.printer.Sprintf(msgNamePlaceholder),
		Title:            m.printer.Sprintf(msgTitle),
		TitlePlaceholder: m.printer.Sprintf(msgTitlePlaceholder),
		NotSaved:         m.printer.Sprintf(msgNotSaved),
		Save:             m.printer.Sprintf(msgSave),
		Delete:           m.DeleteAction(),
		Cancel:           m.printer.Sprintf(msgCancel),
		AddSignatory:     m.printer.Sprintf(msgAddSignatory),
	}
}

func (m *Messages) PageTitle(certificateID string) string {
	return m.printer.Sprintf(msgPageTitle, certificateID)
}
