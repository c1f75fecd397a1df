package enum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type sampleStatus string

var (
	samplePending = New(sampleStatus("pending"))
	sampleDone    = New(sampleStatus("done"))
)

func TestToEnum(t *testing.T) {
	got, err := ToEnum[sampleStatus]("pending")
	require.NoError(t, err)
	require.Equal(t, samplePending, got)

	got, err = ToEnum[sampleStatus]("done")
	require.NoError(t, err)
	require.Equal(t, sampleDone, got)

	_, err = ToEnum[sampleStatus]("unknown")
	require.Error(t, err)
}
