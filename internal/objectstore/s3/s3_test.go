package s3

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"orgdrive/internal/domain"
)

type fakeAPI struct {
	inputs []*s3.PutObjectInput
	err    error
}

func (f *fakeAPI) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

// offlineClient signs requests locally; nothing in these tests reaches the network
func offlineClient() *s3.Client {
	return s3.New(s3.Options{
		Region:       "us-east-1",
		Credentials:  credentials.NewStaticCredentialsProvider("AKIDEXAMPLE", "secret", ""),
		BaseEndpoint: aws.String("http://localhost:9000"),
		UsePathStyle: true,
	})
}

func newTestStore(t *testing.T, api API) *Store {
	t.Helper()
	store, err := NewStore(StoreConfig{
		Client:    api,
		Presigner: s3.NewPresignClient(offlineClient()),
		Bucket:    "drive",
		KeyPrefix: "tenant/",
		WriteTTL:  time.Hour,
		ReadTTL:   30 * time.Minute,
	})
	require.NoError(t, err)
	return store
}

func TestNewStore_RequiresBucket(t *testing.T) {
	_, err := NewStore(StoreConfig{Client: &fakeAPI{}, Presigner: s3.NewPresignClient(offlineClient())})
	assert.ErrorContains(t, err, "bucket is required")
}

func TestPutMarker(t *testing.T) {
	api := &fakeAPI{}
	store := newTestStore(t, api)

	require.NoError(t, store.PutMarker(context.Background(), "root-Acme/Reports"))

	require.Len(t, api.inputs, 1)
	assert.Equal(t, "drive", aws.ToString(api.inputs[0].Bucket))
	assert.Equal(t, "tenant/root-Acme/Reports/", aws.ToString(api.inputs[0].Key))
	body, err := io.ReadAll(api.inputs[0].Body)
	require.NoError(t, err)
	assert.Empty(t, body)
}

func TestPutMarker_UpstreamFailure(t *testing.T) {
	store := newTestStore(t, &fakeAPI{err: errors.New("503 slow down")})

	err := store.PutMarker(context.Background(), "root-Acme")
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.ErrorContains(t, err, "503 slow down")
}

func TestPresign(t *testing.T) {
	store := newTestStore(t, &fakeAPI{})
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	tests := []struct {
		name        string
		presign     func() (string, string, time.Time, error)
		wantMethod  string
		wantExpires string
		wantExpiry  time.Time
	}{
		{
			name: "write",
			presign: func() (string, string, time.Time, error) {
				u, err := store.PresignWrite(context.Background(), "root-Acme/Invoices/q1.pdf", "application/pdf")
				if err != nil {
					return "", "", time.Time{}, err
				}
				return u.URL, u.Method, u.ExpiresAt, nil
			},
			wantMethod:  http.MethodPut,
			wantExpires: "X-Amz-Expires=3600",
			wantExpiry:  fixed.Add(time.Hour),
		},
		{
			name: "read",
			presign: func() (string, string, time.Time, error) {
				u, err := store.PresignRead(context.Background(), "root-Acme/Invoices/q1.pdf")
				if err != nil {
					return "", "", time.Time{}, err
				}
				return u.URL, u.Method, u.ExpiresAt, nil
			},
			wantMethod:  http.MethodGet,
			wantExpires: "X-Amz-Expires=1800",
			wantExpiry:  fixed.Add(30 * time.Minute),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, method, expiresAt, err := tt.presign()
			require.NoError(t, err)
			assert.Contains(t, url, "/drive/tenant/root-Acme/Invoices/q1.pdf")
			assert.Contains(t, url, "X-Amz-Signature=")
			assert.Contains(t, url, tt.wantExpires)
			assert.Equal(t, tt.wantMethod, method)
			assert.Equal(t, tt.wantExpiry, expiresAt)
		})
	}
}
