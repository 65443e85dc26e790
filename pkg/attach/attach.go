package attach

import (
	"fmt"

	"github.com/google/uuid"
)

// Origin distinguishes how an attachment entered the bundle.
type Origin string

// Attachment origins. Generated attachments are replaced wholesale on
// regeneration; uploaded ones are only ever added or removed by the user.
const (
	OriginGenerated Origin = "generated"
	OriginUploaded  Origin = "uploaded"
)

// MaxFileSize is the per-file ceiling for uploaded attachments.
const MaxFileSize int64 = 25 << 20 // 25 MB

// Attachment is one file in the draft's attachment list.
type Attachment struct {
	ID        string
	Filename  string
	MediaType string
	Size      int64
	Origin    Origin
	Content   []byte
}

// Rejection codes reported for excluded uploads.
const (
	CodeFileTooLarge     = "file_too_large"
	CodeEmptyFile        = "empty_file"
	CodeInvalidMediaType = "invalid_media_type"
)

// RejectedFile reports one upload excluded from the bundle. It is a
// recoverable notice for the user, not an error that stops bundling.
type RejectedFile struct {
	Filename string
	Code     string
	Reason   string
}

// allowedUploadTypes is the fixed allow-list for user uploads: documents
// and images only.
var allowedUploadTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"application/vnd.ms-excel": {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {},
	"text/plain": {},
	"text/csv":   {},
	"image/jpeg": {},
	"image/png":  {},
}

// New creates an attachment with a fresh identity. Size is derived from
// the payload.
func New(filename, mediaType string, payload []byte, origin Origin) Attachment {
	return Attachment{
		ID:        uuid.NewString(),
		Filename:  filename,
		MediaType: mediaType,
		Size:      int64(len(payload)),
		Origin:    origin,
		Content:   payload,
	}
}

// ValidateUpload checks one uploaded file against the size ceiling and the
// media-type allow-list. It returns nil when the file is acceptable.
func ValidateUpload(a Attachment) *RejectedFile {
	if a.Size == 0 {
		return &RejectedFile{Filename: a.Filename, Code: CodeEmptyFile, Reason: "file is empty"}
	}
	if a.Size > MaxFileSize {
		return &RejectedFile{
			Filename: a.Filename,
			Code:     CodeFileTooLarge,
			Reason:   fmt.Sprintf("file size %d exceeds the %d byte limit", a.Size, MaxFileSize),
		}
	}
	if _, ok := allowedUploadTypes[a.MediaType]; !ok {
		return &RejectedFile{
			Filename: a.Filename,
			Code:     CodeInvalidMediaType,
			Reason:   fmt.Sprintf("file type %q is not allowed", a.MediaType),
		}
	}
	return nil
}

// Bundle builds the ordered attachment list: generated first in their
// given order, then accepted uploads in insertion order. Invalid uploads
// are excluded individually and reported; the bundle itself always
// succeeds.
func Bundle(generated, uploaded []Attachment) ([]Attachment, []RejectedFile) {
	out := make([]Attachment, 0, len(generated)+len(uploaded))
	var rejected []RejectedFile

	for _, g := range generated {
		g.Origin = OriginGenerated
		out = append(out, g)
	}
	for _, u := range uploaded {
		u.Origin = OriginUploaded
		if r := ValidateUpload(u); r != nil {
			rejected = append(rejected, *r)
			continue
		}
		out = append(out, u)
	}
	return out, rejected
}

// ReplaceGenerated swaps every generated attachment in bundle for the
// given replacements, preserving the position, order and identity of all
// uploaded attachments. Generated attachments always occupy the front of
// the bundle.
func ReplaceGenerated(bundle, replacements []Attachment) []Attachment {
	out := make([]Attachment, 0, len(replacements)+len(bundle))
	for _, r := range replacements {
		r.Origin = OriginGenerated
		out = append(out, r)
	}
	for _, a := range bundle {
		if a.Origin != OriginGenerated {
			out = append(out, a)
		}
	}
	return out
}
