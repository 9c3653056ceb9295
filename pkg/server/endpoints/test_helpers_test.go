package endpoints

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/signatories/pkg/config"
	"github.com/doodlesbykumbi/signatories/pkg/editor"
	"github.com/doodlesbykumbi/signatories/pkg/server"
	"github.com/doodlesbykumbi/signatories/pkg/signatory"
	"github.com/doodlesbykumbi/signatories/pkg/signatory/signatorytest"
)

func testConfig() *config.Config {
	return &config.Config{
		CertificateBaseURL:    "http://studio.test/certificates",
		BindAddress:           "127.0.0.1",
		Port:                  8000,
		Language:              "en",
		LogLevel:              "info",
		EditorSessionTTL:      60,
		RemoteTimeout:         5,
		EditingAllCollections: true,
	}
}

type testServer struct {
	*server.Server
	signatories *MockSignatoriesStore
	health      *MockHealthStore
	resource    *signatorytest.MockResource
}

// newTestServer builds a server whose editor pages are backed by one mock
// resource.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		signatories: NewMockSignatoriesStore(),
		health:      NewMockHealthStore(),
		resource:    signatorytest.NewMockResource(),
	}
	ts.Server = server.NewServer(testConfig(), ts.signatories, ts.health)
	ts.Pages = editor.NewPageCache(time.Minute, func(ctx context.Context, certificateID string) (*editor.Page, error) {
		coll, err := signatory.NewCollection(signatory.Config{
			CertificateBaseURL: ts.Config.CertificateBaseURL,
			CertificateID:      certificateID,
		}, ts.resource.Opener())
		if err != nil {
			return nil, err
		}
		page := editor.NewPage(coll, editor.Options{
			Templates:               ts.Templates,
			IsEditingAllCollections: true,
			ActionsPath:             EditorPath(certificateID),
		})
		_ = page.Load(ctx)
		return page, nil
	})
	RegisterAll(ts.Server)
	return ts
}

func withMuxVars(r *http.Request, vars map[string]string) *http.Request {
	return mux.SetURLVars(r, vars)
}
