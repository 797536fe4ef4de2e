package backup

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-assistant/internal/logger"
	"github.com/jonathan/career-assistant/internal/profile"
)

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeS3() *fakeS3 { return &fakeS3{objects: map[string][]byte{}} }

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for _, k := range keys {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	return out, nil
}

func seedStore(t *testing.T) *profile.FileStore {
	t.Helper()
	store, err := profile.NewFileStore(t.TempDir(), logger.Discard())
	require.NoError(t, err)
	ctx := context.Background()
	for _, name := range []string{"Jane Doe", "Sam Lee"} {
		require.NoError(t, store.Save(ctx, &profile.Profile{
			Name:            name,
			CareerField:     "Data Science",
			ExperienceLevel: profile.Intermediate,
			SkillAssessment: map[string]int{"Python": 6},
		}))
	}
	return store
}

func TestKey(t *testing.T) {
	now := time.Date(2026, 3, 1, 14, 5, 9, 0, time.UTC)
	assert.Equal(t, "career_backup_20260301_140509.zip", Key(now))
}

func TestRun_DirTarget(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t)
	target := DirTarget{Dir: t.TempDir()}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	res, err := Run(ctx, store, target, now, logger.Discard())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Metadata.TotalProfiles)
	assert.Greater(t, res.Size, 0)

	keys, err := target.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{res.Key}, keys)
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	source := seedStore(t)
	target := DirTarget{Dir: t.TempDir()}
	res, err := Run(ctx, source, target, time.Now(), logger.Discard())
	require.NoError(t, err)

	dest, err := profile.NewFileStore(t.TempDir(), logger.Discard())
	require.NoError(t, err)
	require.NoError(t, dest.Save(ctx, &profile.Profile{Name: "Jane Doe", CareerField: "Design", ExperienceLevel: profile.Beginner}))

	out, err := Restore(ctx, dest, target, res.Key, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sam Lee"}, out.Restored)
	assert.Equal(t, []string{"Jane Doe"}, out.Skipped)

	jane, err := dest.Load(ctx, "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, "Design", jane.CareerField, "existing profile kept without overwrite")

	out, err = Restore(ctx, dest, target, res.Key, true)
	require.NoError(t, err)
	assert.Len(t, out.Restored, 2)

	jane, err = dest.Load(ctx, "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, "Data Science", jane.CareerField)
}

func TestRestore_Missing(t *testing.T) {
	store := seedStore(t)
	_, err := Restore(context.Background(), store, DirTarget{Dir: t.TempDir()}, "career_backup_x.zip", false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestS3Target(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	target := &S3Target{Client: fake, Bucket: "career", Prefix: "nightly"}

	first, err := Run(ctx, seedStore(t), target, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), logger.Discard())
	require.NoError(t, err)
	second, err := Run(ctx, seedStore(t), target, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), logger.Discard())
	require.NoError(t, err)

	assert.Contains(t, fake.objects, "nightly/"+first.Key)
	assert.Equal(t, "s3://career/nightly/"+second.Key, second.Location)

	latest, err := Latest(ctx, target)
	require.NoError(t, err)
	assert.Equal(t, second.Key, latest)

	dest, err := profile.NewFileStore(t.TempDir(), logger.Discard())
	require.NoError(t, err)
	out, err := Restore(ctx, dest, target, latest, false)
	require.NoError(t, err)
	assert.Len(t, out.Restored, 2)
}

func TestLatest_Empty(t *testing.T) {
	_, err := Latest(context.Background(), DirTarget{Dir: t.TempDir()})
	assert.ErrorIs(t, err, ErrNotFound)
}
