package archive

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_RequiresBucketAndCredentials(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Region: "me-central-1"})

	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNew_ValidConfig(t *testing.T) {
	t.Parallel()

	s, err := New(Config{
		Bucket:    "correspondence",
		AccessKey: "key",
		SecretKey: "secret",
		Endpoint:  "http://localhost:9000",
		PathStyle: true,
	})

	require.NoError(t, err)
	require.NotNil(t, s)
}

func TestKey_Layout(t *testing.T) {
	t.Parallel()

	require.Equal(t, "correspondence/HTL/250307 HTL CIT RF 2024.pdf",
		Key("HTL", "250307 HTL CIT RF 2024.pdf"))
	require.Equal(t, "correspondence/letter.pdf", Key("", "letter.pdf"))
}
