package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/signatories/pkg/editor"
	"github.com/doodlesbykumbi/signatories/pkg/signatory"
)

func TestTerminalConfirmer(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"oui\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"yes", true},
	}

	prompt := editor.Prompt{Title: "Delete this signatory 2?", Message: "gone", Action: "Delete"}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var out bytes.Buffer
			c := newTerminalConfirmer(strings.NewReader(tt.input), &out)

			got, err := c.Confirm(context.Background(), prompt)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Delete this signatory 2?")
			assert.Contains(t, out.String(), "Delete? [y/N]")
		})
	}
}

func TestTerminalProgress(t *testing.T) {
	var out bytes.Buffer
	p := terminalProgress{out: &out}

	require.NoError(t, p.Run(context.Background(), "Deleting", func(context.Context) error { return nil }))
	assert.Equal(t, "Deleting... done\n", out.String())

	out.Reset()
	boom := errors.New("boom")
	assert.ErrorIs(t, p.Run(context.Background(), "Deleting", func(context.Context) error { return boom }), boom)
	assert.Equal(t, "Deleting... failed\n", out.String())
}

func TestPrintSignatories(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printSignatories(&out, []signatory.Signatory{
		{ID: 1, Name: "Ada", Title: "Dean"},
		{Name: "Grace", Title: "Provost"},
	}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"#", "ID", "NAME", "TITLE"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"1", "1", "Ada", "Dean"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"2", "-", "Grace", "Provost"}, strings.Fields(lines[2]))

	out.Reset()
	require.NoError(t, printSignatories(&out, nil))
	assert.Equal(t, "No signatories\n", out.String())
}
