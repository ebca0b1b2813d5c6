package server

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRWC(t *testing.T) {
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()

	rw := NewRWC(inR, outW)

	go func() {
		_, _ = inW.Write([]byte("ping"))
	}()
	buf := make([]byte, 4)
	_, err := io.ReadFull(rw, buf)
	require.NoError(t, err)
	assert.Equal(t, "ping", string(buf))

	go func() {
		_, _ = rw.Write([]byte("pong"))
	}()
	_, err = io.ReadFull(outR, buf)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(buf))

	require.NoError(t, rw.Close())
	_, err = rw.Write([]byte("x"))
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}
