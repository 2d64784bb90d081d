package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateResourceFileType(t *testing.T) {
	assert.True(t, ValidateResourceFileType("application/pdf", "notes.pdf"))
	assert.True(t, ValidateResourceFileType("", "diagram.PNG"))
	assert.True(t, ValidateResourceFileType("video/mp4", "lecture"))
	assert.False(t, ValidateResourceFileType("application/x-msdownload", "setup.exe"))
	assert.False(t, ValidateResourceFileType("", "archive.zip"))
}

func TestContentTypeForFilename(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentTypeForFilename("notes.pdf"))
	assert.Equal(t, "image/jpeg", ContentTypeForFilename("photo.JPEG"))
	assert.Equal(t, "application/octet-stream", ContentTypeForFilename("unknown.bin"))
}

func TestResourceKey(t *testing.T) {
	assert.Equal(t, "resources/g1/notes.pdf", ResourceKey("g1", "notes.pdf"))
	// Path components in the filename are stripped.
	assert.Equal(t, "resources/g1/notes.pdf", ResourceKey("g1", "../../notes.pdf"))
}
