package attach

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func pdf(name string, size int) Attachment {
	return Attachment{
		ID:        name,
		Filename:  name,
		MediaType: "application/pdf",
		Size:      int64(size),
		Content:   make([]byte, 0),
	}
}

func TestBundle_GeneratedFirstThenUploads(t *testing.T) {
	t.Parallel()

	generated := []Attachment{pdf("letter.pdf", 1000), pdf("disclaimer.pdf", 1200)}
	uploaded := []Attachment{pdf("license.pdf", 500), pdf("passport.pdf", 700)}

	bundle, rejected := Bundle(generated, uploaded)

	require.Empty(t, rejected)
	require.Len(t, bundle, 4)
	require.Equal(t, []string{"letter.pdf", "disclaimer.pdf", "license.pdf", "passport.pdf"},
		[]string{bundle[0].Filename, bundle[1].Filename, bundle[2].Filename, bundle[3].Filename})
	require.Equal(t, OriginGenerated, bundle[0].Origin)
	require.Equal(t, OriginUploaded, bundle[2].Origin)
}

func TestBundle_OversizedUploadRejectedRestUnchanged(t *testing.T) {
	t.Parallel()

	generated := []Attachment{pdf("letter.pdf", 1000)}
	uploaded := []Attachment{
		pdf("small.pdf", 500),
		pdf("huge.pdf", 30<<20), // 30 MB
		pdf("other.pdf", 600),
	}

	bundle, rejected := Bundle(generated, uploaded)

	require.Len(t, rejected, 1)
	require.Equal(t, "huge.pdf", rejected[0].Filename)
	require.Equal(t, CodeFileTooLarge, rejected[0].Code)

	require.Len(t, bundle, 3)
	require.Equal(t, []string{"letter.pdf", "small.pdf", "other.pdf"},
		[]string{bundle[0].Filename, bundle[1].Filename, bundle[2].Filename})
}

func TestBundle_DisallowedTypeRejected(t *testing.T) {
	t.Parallel()

	uploaded := []Attachment{{Filename: "movie.mp4", MediaType: "video/mp4", Size: 100}}

	bundle, rejected := Bundle(nil, uploaded)

	require.Empty(t, bundle)
	require.Len(t, rejected, 1)
	require.Equal(t, CodeInvalidMediaType, rejected[0].Code)
}

func TestBundle_EmptyUploadRejected(t *testing.T) {
	t.Parallel()

	_, rejected := Bundle(nil, []Attachment{{Filename: "empty.pdf", MediaType: "application/pdf"}})

	require.Len(t, rejected, 1)
	require.Equal(t, CodeEmptyFile, rejected[0].Code)
}

func TestValidateUpload_ExactCeilingAccepted(t *testing.T) {
	t.Parallel()

	require.Nil(t, ValidateUpload(pdf("edge.pdf", int(MaxFileSize))))
	require.NotNil(t, ValidateUpload(pdf("over.pdf", int(MaxFileSize)+1)))
}

func TestReplaceGenerated_UploadsKeepPositionAndIdentity(t *testing.T) {
	t.Parallel()

	bundle, _ := Bundle(
		[]Attachment{pdf("letter_en.pdf", 1000)},
		[]Attachment{pdf("license.pdf", 500), pdf("passport.pdf", 700)},
	)
	uploadedIDs := []string{bundle[1].ID, bundle[2].ID}

	replaced := ReplaceGenerated(bundle, []Attachment{pdf("letter_ar.pdf", 1100)})

	require.Len(t, replaced, 3)
	require.Equal(t, "letter_ar.pdf", replaced[0].Filename)
	require.Equal(t, uploadedIDs, []string{replaced[1].ID, replaced[2].ID})
}

func TestReplaceGenerated_MoreReplacementsThanBefore(t *testing.T) {
	t.Parallel()

	bundle, _ := Bundle(
		[]Attachment{pdf("letter.pdf", 1000)},
		[]Attachment{pdf("license.pdf", 500)},
	)

	replaced := ReplaceGenerated(bundle, []Attachment{
		pdf("letter.pdf", 1000),
		pdf("disclaimer.pdf", 900),
	})

	require.Len(t, replaced, 3)
	require.Equal(t, "license.pdf", replaced[2].Filename)
	require.Equal(t, OriginUploaded, replaced[2].Origin)
}

func TestNew_DerivesSizeAndIdentity(t *testing.T) {
	t.Parallel()

	a := New("letter.pdf", "application/pdf", []byte("payload"), OriginGenerated)

	require.NotEmpty(t, a.ID)
	require.Equal(t, int64(7), a.Size)
	require.Equal(t, OriginGenerated, a.Origin)
}
