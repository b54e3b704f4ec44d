package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProbeDuration(t *testing.T) {
	d, err := parseProbeDuration(`{"streams":[],"format":{"filename":"a.mp4","duration":"12.480000"}}`)
	require.NoError(t, err)
	assert.InDelta(t, 12.48, d, 0.0001)

	_, err = parseProbeDuration(`{"format":{}}`)
	assert.Error(t, err)

	_, err = parseProbeDuration(`not json`)
	assert.Error(t, err)
}

func TestMinioStore_ObjectURL(t *testing.T) {
	s := &MinioStore{bucket: "media", publicEndpoint: "http://cdn.local"}
	assert.Equal(t, "http://cdn.local/media/video/abc.mp4", s.ObjectURL("video/abc.mp4"))
}
