package endpoints

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/signatories/pkg/editor"
	"github.com/doodlesbykumbi/signatories/pkg/logging"
	"github.com/doodlesbykumbi/signatories/pkg/server"
	"github.com/doodlesbykumbi/signatories/pkg/server/middleware"
	"github.com/doodlesbykumbi/signatories/pkg/signatory"
	"github.com/doodlesbykumbi/signatories/pkg/signatory/remote"
)

const editorPrefix = "/editor/certificates"

// EditorPath returns the editor page path of a certificate
func EditorPath(certificateID string) string {
	return editorPrefix + "/" + url.PathEscape(certificateID) + "/signatories"
}

// RemotePageOpener opens editor pages backed by the certificates resource
// configured on s.
func RemotePageOpener(s *server.Server) editor.PageOpener {
	cfg := s.Config
	httpClient := &http.Client{Timeout: cfg.RemoteTimeoutDuration()}
	open := remote.Opener(httpClient, nil)

	return func(ctx context.Context, certificateID string) (*editor.Page, error) {
		coll, err := signatory.NewCollection(signatory.Config{
			CertificateBaseURL: cfg.CertificateBaseURL,
			CertificateID:      certificateID,
		}, open)
		if err != nil {
			return nil, err
		}

		page := editor.NewPage(coll, editor.Options{
			Templates:               s.Templates,
			Messages:                editor.NewMessages(cfg.Language),
			Logger:                  s.Logger,
			IsEditingAllCollections: cfg.EditingAllCollections,
			ActionsPath:             EditorPath(certificateID),
		})
		// A failed load is kept on the page and shown to the user.
		_ = page.Load(ctx)
		return page, nil
	}
}

func RegisterEditorEndpoints(s *server.Server) {
	if s.Pages == nil {
		s.Pages = editor.NewPageCache(s.Config.SessionTTL(), RemotePageOpener(s))
	}
	pages := s.Pages
	logger := s.Logger

	trusted, err := middleware.ParseTrustedProxies(s.Config.TrustedProxies)
	if err != nil {
		logger.Error("ignoring trusted_proxies, forwarding headers will not be trusted", zap.Error(err))
		trusted = nil
	}

	router := s.Router.PathPrefix(editorPrefix + "/{certificate_id}/signatories").Subrouter()
	router.Use(middleware.ClientIP(trusted))

	// GET /editor/certificates/{certificate_id}/signatories - Render the editor
	router.HandleFunc("", handleEditorPage(pages, logger)).Methods("GET")

	// POST /editor/certificates/{certificate_id}/signatories - Add a signatory
	router.HandleFunc("", handleEditorAdd(pages)).Methods("POST")

	// POST .../{key}/name and .../{key}/title - Edit a field
	router.HandleFunc("/{key}/name", handleEditorField(pages, (*editor.View).SetName)).Methods("POST")
	router.HandleFunc("/{key}/title", handleEditorField(pages, (*editor.View).SetTitle)).Methods("POST")

	// POST .../{key}/save - Persist a signatory
	router.HandleFunc("/{key}/save", handleEditorSave(pages)).Methods("POST")

	// GET .../{key}/delete - Show the delete confirmation
	router.HandleFunc("/{key}/delete", handleEditorDeletePrompt(pages)).Methods("GET")

	// POST .../{key}/delete - Answer the delete confirmation
	router.HandleFunc("/{key}/delete", handleEditorDelete(pages)).Methods("POST")
}

func editorPage(w http.ResponseWriter, r *http.Request, pages *editor.PageCache) (*editor.Page, bool) {
	certificateID := pathVar(r, "certificate_id")
	page, err := pages.Get(r.Context(), certificateID)
	if err != nil {
		if errors.Is(err, signatory.ErrResourceNotConfigured) {
			respondWithError(w, http.StatusServiceUnavailable, err.Error())
			return nil, false
		}
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return page, true
}

func editorView(w http.ResponseWriter, r *http.Request, pages *editor.PageCache) (*editor.Page, *editor.View, bool) {
	key, err := uuid.Parse(mux.Vars(r)["key"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid signatory key")
		return nil, nil, false
	}
	page, ok := editorPage(w, r, pages)
	if !ok {
		return nil, nil, false
	}
	view, err := page.View(key)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "signatory not found")
		return nil, nil, false
	}
	return page, view, true
}

func redirectToPage(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, EditorPath(pathVar(r, "certificate_id")), http.StatusSeeOther)
}

func handleEditorPage(pages *editor.PageCache, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, ok := editorPage(w, r, pages)
		if !ok {
			return
		}
		coll := page.Collection()

		if _, loadErr := page.Panels(); loadErr != nil {
			_ = page.Load(r.Context())
		}
		panels, loadErr := page.Panels()

		data := map[string]any{
			"Lang":          page.Messages().Language().String(),
			"CertificateID": coll.CertificateID(),
			"Title":         page.Messages().PageTitle(coll.CertificateID()),
			"Labels":        page.Messages().Labels(0),
			"Panels":        panels,
			"ActionsPath":   EditorPath(coll.CertificateID()),
			"Error":         "",
		}
		if loadErr != nil {
			data["Error"] = page.Messages().LoadFailed()
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := page.Templates().Execute(w, editor.TemplatePage, data); err != nil {
			logger.Error("failed to render editor page", logging.CertificateID(coll.CertificateID()), zap.Error(err))
		}
	}
}

func handleEditorAdd(pages *editor.PageCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, ok := editorPage(w, r, pages)
		if !ok {
			return
		}
		page.Collection().New(r.FormValue("name"), r.FormValue("title"))
		redirectToPage(w, r)
	}
}

func handleEditorField(pages *editor.PageCache, set func(*editor.View, string) (signatory.Signatory, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, view, ok := editorView(w, r, pages)
		if !ok {
			return
		}
		if _, err := set(view, r.FormValue("value")); err != nil {
			respondWithError(w, http.StatusNotFound, "signatory not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleEditorSave(pages *editor.PageCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, view, ok := editorView(w, r, pages)
		if !ok {
			return
		}
		if _, err := view.Save(r.Context()); err != nil {
			respondWithError(w, http.StatusBadGateway, "failed to save signatory")
			return
		}
		redirectToPage(w, r)
	}
}

func handleEditorDeletePrompt(pages *editor.PageCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, view, ok := editorView(w, r, pages)
		if !ok {
			return
		}
		data := map[string]any{
			"Lang":   page.Messages().Language().String(),
			"Prompt": view.DeletePrompt(),
			"Action": EditorPath(page.Collection().CertificateID()) + "/" + view.Key().String() + "/delete",
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = page.Templates().Execute(w, editor.TemplateDeletePrompt, data)
	}
}

func handleEditorDelete(pages *editor.PageCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, view, ok := editorView(w, r, pages)
		if !ok {
			return
		}

		confirmed := r.FormValue("confirm") == "yes"
		_, err := view.DeleteItemWith(r.Context(), editor.Answer(confirmed))
		if err != nil {
			var deleteErr *editor.DeleteError
			switch {
			case errors.Is(err, editor.ErrDeleteInProgress):
				respondWithError(w, http.StatusConflict, err.Error())
			case errors.As(err, &deleteErr):
				respondWithError(w, http.StatusBadGateway, deleteErr.Message)
			case errors.Is(err, signatory.ErrNotFound):
				respondWithError(w, http.StatusNotFound, "signatory not found")
			default:
				respondWithError(w, http.StatusInternalServerError, err.Error())
			}
			return
		}
		redirectToPage(w, r)
	}
}
