package s3

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestPresigner(t *testing.T) *Presigner {
	t.Helper()
	p, err := New(context.Background(), Config{
		Bucket:          "dohkar-media",
		Region:          "ru-central1",
		Endpoint:        "https://storage.yandexcloud.net",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		UsePathStyle:    true,
		PublicBaseURL:   "https://cdn.dohkar.ru/",
		PresignTTL:      10 * time.Minute,
	})
	require.NoError(t, err)
	return p
}

func TestPresignImage(t *testing.T) {
	p := newTestPresigner(t)
	up, err := p.PresignImage(context.Background(), "user-1", "image/PNG")
	require.NoError(t, err)
	require.Equal(t, http.MethodPut, up.Method)
	require.True(t, strings.HasPrefix(up.Key, "properties/user-1/"))
	require.True(t, strings.HasSuffix(up.Key, ".png"))
	require.Equal(t, "https://cdn.dohkar.ru/"+up.Key, up.PublicURL)
	require.Equal(t, "image/png", up.Headers["Content-Type"])

	u, err := url.Parse(up.UploadURL)
	require.NoError(t, err)
	require.Equal(t, "storage.yandexcloud.net", u.Host)
	require.True(t, strings.HasPrefix(u.Path, "/dohkar-media/properties/user-1/"))
	require.Equal(t, "600", u.Query().Get("X-Amz-Expires"))
	require.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}

func TestPresignRejectsNonImages(t *testing.T) {
	p := newTestPresigner(t)
	_, err := p.PresignImage(context.Background(), "u", "application/pdf")
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestNewRequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{})
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestPublicURLDefault(t *testing.T) {
	p := &Presigner{cfg: Config{Bucket: "b", Region: "eu-west-1"}}
	require.Equal(t, "https://b.s3.eu-west-1.amazonaws.com/k.jpg", p.PublicURL("k.jpg"))
}
