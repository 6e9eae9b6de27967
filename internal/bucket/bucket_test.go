package bucket

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/loganlanou/prjimages/internal/renamer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory bucket that pages listings two keys at a time.
type fakeStore struct {
	objects    map[string]string
	failCopy   map[string]bool
	copySource []string
}

func newFakeStore(keys ...string) *fakeStore {
	f := &fakeStore{objects: map[string]string{}, failCopy: map[string]bool{}}
	for _, k := range keys {
		f.objects[k] = k
	}
	return f
}

func (f *fakeStore) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	prefix := aws.ToString(in.Prefix)
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	start := 0
	if in.ContinuationToken != nil {
		start, _ = strconv.Atoi(*in.ContinuationToken)
	}
	end := start + 2
	if end > len(keys) {
		end = len(keys)
	}

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(end < len(keys))}
	for _, k := range keys[start:end] {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	if end < len(keys) {
		out.NextContinuationToken = aws.String(strconv.Itoa(end))
	}
	return out, nil
}

func (f *fakeStore) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if _, ok := f.objects[aws.ToString(in.Key)]; ok {
		return &s3.HeadObjectOutput{}, nil
	}
	return nil, &types.NotFound{}
}

func (f *fakeStore) CopyObject(_ context.Context, in *s3.CopyObjectInput, _ ...func(*s3.Options)) (*s3.CopyObjectOutput, error) {
	f.copySource = append(f.copySource, aws.ToString(in.CopySource))

	src := ""
	for k := range f.objects {
		if copySource(aws.ToString(in.Bucket), k) == aws.ToString(in.CopySource) {
			src = k
		}
	}
	if src == "" {
		return nil, errors.New("NoSuchKey")
	}
	if f.failCopy[src] {
		return nil, errors.New("AccessDenied")
	}
	f.objects[aws.ToString(in.Key)] = f.objects[src]
	return &s3.CopyObjectOutput{}, nil
}

func (f *fakeStore) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestRun_RenamesDirectChildren(t *testing.T) {
	store := newFakeStore(
		"images/[prj1]095.jpg",
		"images/[prj2]front view.png",
		"images/readme.txt",
		"images/nested/[prj3]x.jpg",
		"other/[prj4]y.jpg",
	)

	summary, err := New(store, "media", WithPrefix("images")).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Renamed())
	assert.Equal(t, "s3://media/images/", summary.Directory)
	assert.Contains(t, store.objects, "images/prj1-095.jpg")
	assert.Contains(t, store.objects, "images/prj2-front view.png")
	assert.NotContains(t, store.objects, "images/[prj1]095.jpg")
	assert.Contains(t, store.objects, "images/nested/[prj3]x.jpg")
	assert.Contains(t, store.objects, "other/[prj4]y.jpg")
	assert.Contains(t, store.copySource, "media/images/%5Bprj2%5Dfront%20view.png")
}

func TestRun_CollisionSkipped(t *testing.T) {
	store := newFakeStore("[prj1]a.jpg", "prj1-a.jpg")

	summary, err := New(store, "media").Run(context.Background())
	require.NoError(t, err)

	require.Len(t, summary.Results, 1)
	assert.Equal(t, renamer.OutcomeSkipped, summary.Results[0].Outcome)
	assert.Contains(t, store.objects, "[prj1]a.jpg")
	assert.Empty(t, store.copySource)
}

func TestRun_OverwriteAndDryRun(t *testing.T) {
	store := newFakeStore("[prj1]a.jpg", "prj1-a.jpg")

	summary, err := New(store, "media", WithOverwrite(true), WithDryRun(true)).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Renamed())
	assert.Empty(t, store.copySource)

	summary, err = New(store, "media", WithOverwrite(true)).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Renamed())
	assert.Equal(t, "[prj1]a.jpg", store.objects["prj1-a.jpg"])
	assert.NotContains(t, store.objects, "[prj1]a.jpg")
}

func TestRun_CopyFailureIsIsolated(t *testing.T) {
	store := newFakeStore("[prj1]a.jpg", "[prj1]b.jpg", "[prj1]c.jpg")
	store.failCopy["[prj1]b.jpg"] = true

	summary, err := New(store, "media").Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Renamed())
	assert.Equal(t, 1, summary.Failed())
	assert.Contains(t, store.objects, "[prj1]b.jpg")
	assert.Contains(t, store.objects, "prj1-a.jpg")
	assert.Contains(t, store.objects, "prj1-c.jpg")
}

func TestWithPrefix_Normalizes(t *testing.T) {
	tests := map[string]string{
		"":         "",
		"images":   "images/",
		"/images/": "images/",
		"a/b":      "a/b/",
	}
	for in, want := range tests {
		r := New(nil, "media", WithPrefix(in))
		assert.Equal(t, want, r.prefix, "prefix %q", in)
	}
}
