package main

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPasswordFromPipe(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	_, err = w.WriteString("s3cret\r\nignored\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	var prompt bytes.Buffer
	pw, err := readPassword(r, &prompt)

	require.NoError(t, err)
	assert.Equal(t, "s3cret", pw)
	assert.Empty(t, prompt.String())
}
