package s3

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	apperrors "github.com/kbukum/fileflow/errors"
	"github.com/kbukum/fileflow/storage"
)

type fakeHeadObject struct {
	objects map[string]time.Time
	err     error
	calls   []string
}

func (f *fakeHeadObject) HeadObject(_ context.Context, in *awss3.HeadObjectInput, _ ...func(*awss3.Options)) (*awss3.HeadObjectOutput, error) {
	f.calls = append(f.calls, aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key))
	if f.err != nil {
		return nil, f.err
	}
	mod, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NotFound{Message: aws.String("Not Found")}
	}
	return &awss3.HeadObjectOutput{
		LastModified:  aws.Time(mod),
		ContentLength: aws.Int64(42),
	}, nil
}

func TestStatFound(t *testing.T) {
	mod := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	client := &fakeHeadObject{objects: map[string]time.Time{"raw/in.csv": mod}}
	st := NewWithClient(client, "data", nil)

	info, err := st.Stat(context.Background(), "raw/in.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !info.LastModified.Equal(mod) {
		t.Errorf("expected %v, got %v", mod, info.LastModified)
	}
	if info.Size != 42 {
		t.Errorf("expected size 42, got %d", info.Size)
	}
	if len(client.calls) != 1 || client.calls[0] != "data/raw/in.csv" {
		t.Errorf("unexpected calls %v", client.calls)
	}
}

func TestStatNotFound(t *testing.T) {
	st := NewWithClient(&fakeHeadObject{}, "data", nil)

	_, err := st.Stat(context.Background(), "missing.csv")
	if !storage.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	ok, err := st.Exists(context.Background(), "missing.csv")
	if err != nil || ok {
		t.Errorf("expected (false, nil), got (%v, %v)", ok, err)
	}
}

func TestStatErrorClassification(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantNotFound  bool
		wantRetryable bool
	}{
		{"generic api 404 code", &smithy.GenericAPIError{Code: "NotFound"}, true, false},
		{"no such key", &types.NoSuchKey{}, true, false},
		{"missing bucket", &types.NoSuchBucket{}, true, false},
		{"throttled", &smithy.GenericAPIError{Code: "SlowDown"}, false, true},
		{"transport", errors.New("connection reset by peer"), false, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := NewWithClient(&fakeHeadObject{err: tc.err}, "data", nil)
			_, err := st.Stat(context.Background(), "k")
			if got := storage.IsNotFound(err); got != tc.wantNotFound {
				t.Fatalf("IsNotFound = %v, want %v (err %v)", got, tc.wantNotFound, err)
			}
			if tc.wantNotFound {
				return
			}
			appErr, ok := apperrors.AsAppError(err)
			if !ok || appErr.Code != apperrors.ErrCodeProbeUnavailable {
				t.Fatalf("expected PROBE_UNAVAILABLE, got %v", err)
			}
			if appErr.Retryable != tc.wantRetryable {
				t.Errorf("retryable = %v, want %v", appErr.Retryable, tc.wantRetryable)
			}
			if !errors.Is(err, tc.err) {
				t.Error("expected cause to be preserved")
			}
		})
	}
}

func TestLocation(t *testing.T) {
	st := NewWithClient(&fakeHeadObject{}, "data", nil)
	if got := st.Location("a/b.csv"); got != "s3://data/a/b.csv" {
		t.Errorf("unexpected location %q", got)
	}
}
