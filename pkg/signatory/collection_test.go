package signatory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/signatories/pkg/signatory"
	"github.com/doodlesbykumbi/signatories/pkg/signatory/signatorytest"
)

func newCollection(t *testing.T) (*signatory.Collection, *signatorytest.MockResource) {
	res := signatorytest.NewMockResource()
	coll, err := signatory.NewCollection(signatory.Config{
		CertificateBaseURL: "http://studio.test/certificates",
		CertificateID:      "42",
	}, res.Opener())
	require.NoError(t, err)
	return coll, res
}

func TestConfig_ResourceURL(t *testing.T) {
	tests := []struct {
		name    string
		cfg     signatory.Config
		want    string
		wantErr error
	}{
		{
			name: "base and id",
			cfg:  signatory.Config{CertificateBaseURL: "http://studio.test/certificates", CertificateID: "42"},
			want: "http://studio.test/certificates/42/signatories",
		},
		{
			name: "trailing slash on base",
			cfg:  signatory.Config{CertificateBaseURL: "http://studio.test/certificates/", CertificateID: "7"},
			want: "http://studio.test/certificates/7/signatories",
		},
		{
			name: "id is escaped",
			cfg:  signatory.Config{CertificateBaseURL: "/certificates", CertificateID: "a b"},
			want: "/certificates/a%20b/signatories",
		},
		{
			name:    "missing id",
			cfg:     signatory.Config{CertificateBaseURL: "http://studio.test/certificates"},
			wantErr: signatory.ErrResourceNotConfigured,
		},
		{
			name:    "missing base",
			cfg:     signatory.Config{CertificateID: "42"},
			wantErr: signatory.ErrResourceNotConfigured,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.ResourceURL()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewCollection_RequiresConfig(t *testing.T) {
	res := signatorytest.NewMockResource()
	_, err := signatory.NewCollection(signatory.Config{}, res.Opener())
	assert.ErrorIs(t, err, signatory.ErrResourceNotConfigured)
}

func TestNewCollection_OpensResourceURL(t *testing.T) {
	coll, res := newCollection(t)
	assert.Equal(t, "http://studio.test/certificates/42/signatories", coll.URL())
	assert.Equal(t, coll.URL(), res.URL)
	assert.Equal(t, "42", coll.CertificateID())
}

func TestCollection_AddAssignsKeyAndCertificate(t *testing.T) {
	coll, _ := newCollection(t)

	a := coll.New("Ada", "Dean")
	b := coll.New("Grace", "Provost")

	assert.NotEqual(t, a.Key, b.Key)
	assert.Equal(t, "42", a.Certificate)
	assert.True(t, a.IsNew())
	assert.Equal(t, 2, coll.Len())
	assert.Equal(t, 0, coll.IndexOf(a.Key))
	assert.Equal(t, 1, coll.IndexOf(b.Key))

	got, ok := coll.At(1)
	require.True(t, ok)
	assert.Equal(t, "Grace", got.Name)

	_, ok = coll.At(2)
	assert.False(t, ok)
}

func TestCollection_SavedCount(t *testing.T) {
	tests := []struct {
		name  string
		ids   []int64
		saved int
	}{
		{name: "none saved", ids: []int64{0, 0, 0}, saved: 0},
		{name: "all saved", ids: []int64{1, 2, 3}, saved: 3},
		{name: "mixed", ids: []int64{1, 0, 3, 0}, saved: 2},
		{name: "empty", ids: nil, saved: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coll, _ := newCollection(t)
			for _, id := range tt.ids {
				coll.Add(signatory.Signatory{ID: id})
			}
			assert.Equal(t, tt.saved, coll.SavedCount())
		})
	}
}

func TestCollection_PutDoesNotNotify(t *testing.T) {
	coll, _ := newCollection(t)
	s := coll.New("Ada", "Dean")

	var changes []signatory.Change
	coll.Observe(func(c signatory.Change) { changes = append(changes, c) })

	require.NoError(t, coll.Put(s.WithName("Ada Lovelace")))
	got, _ := coll.Get(s.Key)
	assert.Equal(t, "Ada Lovelace", got.Name)
	assert.Empty(t, changes)

	coll.Remove(s.Key)
	require.Len(t, changes, 1)
	assert.Equal(t, signatory.ChangeRemove, changes[0].Op)
}

func TestCollection_PutUnknownKey(t *testing.T) {
	coll, _ := newCollection(t)
	err := coll.Put(signatory.Signatory{Name: "ghost"})
	assert.ErrorIs(t, err, signatory.ErrNotFound)
}

func TestCollection_FetchKeepsKeysOfKnownIDs(t *testing.T) {
	coll, res := newCollection(t)
	known := coll.Add(signatory.Signatory{ID: 5, Name: "old"})

	res.On("List", mock.Anything).Return([]signatory.Signatory{
		{ID: 5, Name: "Ada", Title: "Dean", Certificate: "42"},
		{ID: 6, Name: "Grace", Title: "Provost"},
	}, nil)

	var resets int
	coll.Observe(func(c signatory.Change) {
		if c.Op == signatory.ChangeReset {
			resets++
		}
	})

	require.NoError(t, coll.Fetch(context.Background()))
	assert.Equal(t, 2, coll.Len())
	assert.Equal(t, 0, coll.IndexOf(known.Key))

	second, _ := coll.At(1)
	assert.Equal(t, "42", second.Certificate)
	assert.Equal(t, 1, resets)
	res.AssertExpectations(t)
}

func TestCollection_FetchError(t *testing.T) {
	coll, res := newCollection(t)
	coll.New("Ada", "Dean")
	res.On("List", mock.Anything).Return(nil, signatory.ErrRemote)

	err := coll.Fetch(context.Background())
	assert.ErrorIs(t, err, signatory.ErrRemote)
	assert.Equal(t, 1, coll.Len())
}

func TestCollection_SaveCreatesThenUpdates(t *testing.T) {
	coll, res := newCollection(t)
	s := coll.New("Ada", "Dean")

	res.On("Create", mock.Anything, s).Return(s.WithID(11), nil).Once()
	saved, err := coll.Save(context.Background(), s.Key)
	require.NoError(t, err)
	assert.Equal(t, int64(11), saved.ID)
	assert.Equal(t, s.Key, saved.Key)
	assert.Equal(t, 1, coll.SavedCount())

	edited := saved.WithTitle("Provost")
	require.NoError(t, coll.Put(edited))
	res.On("Update", mock.Anything, edited).Return(edited, nil).Once()
	_, err = coll.Save(context.Background(), s.Key)
	require.NoError(t, err)

	res.AssertExpectations(t)
}

func TestCollection_SaveKeepsEditsMadeInFlight(t *testing.T) {
	coll, res := newCollection(t)
	s := coll.New("Ada", "Dean")

	res.On("Create", mock.Anything, s).
		Run(func(mock.Arguments) {
			require.NoError(t, coll.Put(s.WithName("Ada Lovelace")))
		}).
		Return(s.WithID(11), nil).Once()

	saved, err := coll.Save(context.Background(), s.Key)
	require.NoError(t, err)
	assert.Equal(t, int64(11), saved.ID)
	assert.Equal(t, "Ada Lovelace", saved.Name)

	current, ok := coll.Get(s.Key)
	require.True(t, ok)
	assert.Equal(t, int64(11), current.ID)
	assert.Equal(t, "Ada Lovelace", current.Name)
	assert.Equal(t, "Dean", current.Title)

	// the next save sends the edit as an update
	res.On("Update", mock.Anything, current).Return(current, nil).Once()
	_, err = coll.Save(context.Background(), s.Key)
	require.NoError(t, err)
	res.AssertExpectations(t)
}

func TestCollection_SaveAfterConcurrentRemove(t *testing.T) {
	coll, res := newCollection(t)
	s := coll.New("Ada", "Dean")

	res.On("Create", mock.Anything, s).
		Run(func(mock.Arguments) { coll.Remove(s.Key) }).
		Return(s.WithID(11), nil).Once()

	saved, err := coll.Save(context.Background(), s.Key)
	require.NoError(t, err)
	assert.Equal(t, int64(11), saved.ID)
	assert.Equal(t, 0, coll.Len())
}

func TestCollection_DestroyWaitsForAcknowledgement(t *testing.T) {
	coll, res := newCollection(t)
	s := coll.Add(signatory.Signatory{ID: 3, Name: "Ada"})

	res.On("Delete", mock.Anything, s).Return(errors.New("boom")).Once()
	_, err := coll.Destroy(context.Background(), s.Key)
	assert.Error(t, err)
	assert.Equal(t, 1, coll.Len())

	res.On("Delete", mock.Anything, s).Return(nil).Once()
	removed, err := coll.Destroy(context.Background(), s.Key)
	require.NoError(t, err)
	assert.Equal(t, s, removed)
	assert.Equal(t, 0, coll.Len())
	res.AssertExpectations(t)
}

func TestCollection_DestroyUnsavedSkipsResource(t *testing.T) {
	coll, res := newCollection(t)
	s := coll.New("Ada", "Dean")

	_, err := coll.Destroy(context.Background(), s.Key)
	require.NoError(t, err)
	assert.Equal(t, 0, coll.Len())
	res.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
