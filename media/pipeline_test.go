package media

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listNames(t *testing.T, dir string) []string {
	t.Helper()
	var names []string
	require.NoError(t, filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			rel, _ := filepath.Rel(dir, p)
			names = append(names, filepath.ToSlash(rel))
		}
		return nil
	}))
	sort.Strings(names)
	return names
}

func TestPipeline_ImportIntoLibraries(t *testing.T) {
	src := t.TempDir()
	stills := filepath.Join(t.TempDir(), "photos")
	videos := filepath.Join(t.TempDir(), "videos")

	writeFile(t, filepath.Join(src, "DCIM", "IMG_002.JPG"), "2021:06:01 14:30:05", time.Time{})
	writeFile(t, filepath.Join(src, "DCIM", "IMG_001.JPG"), "2021:06:01 14:30:05", time.Time{})
	writeFile(t, filepath.Join(src, "DCIM", "IMG_003.JPG"), "2021:06:02 09:00:00", time.Time{})
	writeFile(t, filepath.Join(src, "DCIM", "IMG_004.JPG"), "garbage", time.Date(2021, 6, 3, 7, 0, 0, 0, time.UTC))
	writeFile(t, filepath.Join(src, "CLIP", "C0001.MP4"), "v", time.Time{})
	writeFile(t, filepath.Join(src, "CLIP", "C0002.MP4"), "v", time.Time{})
	writeFile(t, filepath.Join(src, "CLIP", "broken.mov"), "v", time.Time{})
	writeFile(t, filepath.Join(src, "notes.txt"), "skip me", time.Time{})

	resolver := NewResolver(fakeStillReader{contentAsDate: true}, fakeVideoReader{tags: map[string]VideoTags{
		"C0001.MP4": {EncodedDate: "UTC 2021-06-01 16:00:00", FrameRate: "25.000"},
		"C0002.MP4": {EncodedDate: "UTC 2021-06-01 15:00:00", FrameRate: "50.000"},
	}})
	resolver.Location = time.UTC

	var resolvedCount int
	p := &Pipeline{
		Resolver:  resolver,
		Layout:    Layout{StillsRoot: stills, VideosRoot: videos},
		Logger:    zerolog.Nop(),
		OnResolve: func(Item, Resolution) { resolvedCount++ },
	}

	plan, err := p.Plan(src)
	require.NoError(t, err)
	assert.Equal(t, 7, resolvedCount)
	assert.Equal(t, 1, plan.Skipped)
	assert.Equal(t, 1, plan.Fallbacks)
	require.Len(t, plan.ResolveFailures, 1)
	assert.ErrorIs(t, plan.ResolveFailures[0], ErrReaderFailure)
	assert.Len(t, plan.Items(), 6)

	report := (&Committer{Mode: ModeCopy, Logger: zerolog.Nop()}).Commit(plan.Items())
	require.False(t, report.Failed())
	assert.Equal(t, 6, report.Succeeded)

	assert.Equal(t, []string{
		"2021_06_01/2021-06-01 14-30-05-00.JPG",
		"2021_06_01/2021-06-01 14-30-05-01.JPG",
		"2021_06_02/2021-06-02 09-00-00.JPG",
		"2021_06_03/2021-06-03 07-00-00.JPG",
	}, listNames(t, stills))
	assert.Equal(t, []string{
		"2021_06_01/V0_21-06-01 15-00-00_50FPS.MP4",
		"2021_06_01/V1_21-06-01 16-00-00.MP4",
	}, listNames(t, videos))

	// The lower embedded counter gets the lower index
	first, err := os.ReadFile(filepath.Join(src, "DCIM", "IMG_001.JPG"))
	require.NoError(t, err)
	copied, err := os.ReadFile(filepath.Join(stills, "2021_06_01", "2021-06-01 14-30-05-00.JPG"))
	require.NoError(t, err)
	assert.Equal(t, first, copied)
}

func TestPipeline_RerunInPlaceIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "IMG_001.JPG"), "2021:06:01 14:30:05", time.Time{})
	writeFile(t, filepath.Join(dir, "IMG_002.JPG"), "2021:06:01 14:30:05", time.Time{})
	writeFile(t, filepath.Join(dir, "IMG_003.JPG"), "2021:06:01 18:00:00", time.Time{})

	resolver := NewResolver(fakeStillReader{contentAsDate: true}, nil)
	resolver.Location = time.UTC
	p := &Pipeline{Resolver: resolver, Layout: Layout{InPlace: true}, Logger: zerolog.Nop()}
	c := &Committer{Mode: ModeMove, Logger: zerolog.Nop()}

	run := func() []string {
		plan, err := p.Plan(dir)
		require.NoError(t, err)
		report := c.Commit(plan.Items())
		require.False(t, report.Failed())
		return listNames(t, dir)
	}

	first := run()
	assert.Equal(t, []string{
		"2021-06-01 14-30-05-00.JPG",
		"2021-06-01 14-30-05-01.JPG",
		"2021-06-01 18-00-00.JPG",
	}, first)
	assert.Equal(t, first, run())
}

func TestPipeline_RerunInPlaceKeepsVideoOrdinals(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "C0001.MP4"), "UTC 2021-06-01 16:00:00|25.000", time.Time{})
	writeFile(t, filepath.Join(dir, "C0002.MP4"), "UTC 2021-06-01 15:00:00|50.000", time.Time{})
	writeFile(t, filepath.Join(dir, "C0003.MOV"), "UTC 2021-06-01 15:00:00|25.000", time.Time{})
	writeFile(t, filepath.Join(dir, "00000.MTS"), "UTC 2021-05-31 09:00:00|29.970", time.Time{})
	writeFile(t, filepath.Join(dir, "IMG_001.JPG"), "2021:06:01 15:00:00", time.Time{})
	writeFile(t, filepath.Join(dir, "IMG_002.JPG"), "2021:06:01 15:00:00", time.Time{})

	resolver := NewResolver(fakeStillReader{contentAsDate: true}, fakeVideoReader{contentAsTags: true})
	resolver.Location = time.UTC
	p := &Pipeline{Resolver: resolver, Layout: Layout{InPlace: true}, Logger: zerolog.Nop()}
	c := &Committer{Mode: ModeMove, Logger: zerolog.Nop()}

	run := func() []string {
		plan, err := p.Plan(dir)
		require.NoError(t, err)
		require.Empty(t, plan.ResolveFailures)
		report := c.Commit(plan.Items())
		require.False(t, report.Failed(), "failures: %v", report.Failures)
		return listNames(t, dir)
	}

	first := run()
	assert.Equal(t, []string{
		"2021-06-01 15-00-00-00.JPG",
		"2021-06-01 15-00-00-01.JPG",
		"V0_21-05-31 09-00-00_29FPS.MTS",
		"V1_21-06-01 15-00-00.MOV",
		"V2_21-06-01 15-00-00_50FPS.MP4",
		"V3_21-06-01 16-00-00.MP4",
	}, first)

	// The ordinal prefix becomes the sequence hint on the second run
	assert.Equal(t, first, run())
	assert.Equal(t, first, run())
}

func TestPipeline_TraversalErrorStillPlansReachable(t *testing.T) {
	root := buildCard(t)
	resolver := NewResolver(fakeStillReader{}, fakeVideoReader{})
	resolver.Location = time.UTC
	p := &Pipeline{Resolver: resolver, Layout: Layout{StillsRoot: "/photos", VideosRoot: "/videos"}, Logger: zerolog.Nop()}

	scan, err := ScanFS(unreadableDirFS{FS: os.DirFS(root), bad: "PRIVATE"}, root)
	require.Error(t, err)

	plan := p.PlanScan(scan)
	assert.Len(t, plan.TraversalErrors, 1)
	assert.Len(t, plan.Stills, 3)
	assert.Empty(t, plan.Videos)
}
