package noteservice

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/quicknote/quicknote/internal/apperr"
	"github.com/quicknote/quicknote/internal/models"
	"github.com/quicknote/quicknote/internal/opener"
	"github.com/quicknote/quicknote/internal/storage"
	"github.com/quicknote/quicknote/internal/testutil"
)

type recordingOpener struct {
	paths []string
	err   error
}

func (r *recordingOpener) Open(path string) error {
	r.paths = append(r.paths, path)
	return r.err
}

func testService(t *testing.T, op opener.Opener, opts ...Option) *Service {
	t.Helper()
	if op == nil {
		op = &recordingOpener{}
	}
	opts = append([]Option{WithLogger(testutil.DiscardLogger())}, opts...)
	return NewService(testutil.TestSettings(t), storage.NewFS(), op, opts...)
}

func TestGetSettings_NoneSaved(t *testing.T) {
	svc := testService(t, nil)
	got, err := svc.GetSettings(context.Background())
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if got != nil {
		t.Errorf("GetSettings = %q, want nil", *got)
	}
}

func TestSaveThenGetSettings(t *testing.T) {
	svc := testService(t, nil)
	ctx := context.Background()
	if err := svc.SaveSettings(ctx, "/tmp/x.txt"); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	got, err := svc.GetSettings(ctx)
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if got == nil || *got != "/tmp/x.txt" {
		t.Errorf("GetSettings = %v, want /tmp/x.txt", got)
	}
}

func TestSaveSettings_StoresPathVerbatim(t *testing.T) {
	svc := testService(t, nil)
	ctx := context.Background()
	for _, path := range []string{`  "C:\Users\me\notes.txt"  `, ""} {
		if err := svc.SaveSettings(ctx, path); err != nil {
			t.Fatalf("SaveSettings(%q): %v", path, err)
		}
		got, err := svc.GetSettings(ctx)
		if err != nil {
			t.Fatalf("GetSettings: %v", err)
		}
		if got == nil || *got != path {
			t.Errorf("GetSettings = %v, want %q", got, path)
		}
	}
}

func TestSaveEnteredPath_CleansQuotedPath(t *testing.T) {
	svc := testService(t, nil)
	ctx := context.Background()
	saved, err := svc.SaveEnteredPath(ctx, `  "C:\Users\me\notes.txt"  `)
	if err != nil {
		t.Fatalf("SaveEnteredPath: %v", err)
	}
	if saved != `C:\Users\me\notes.txt` {
		t.Errorf("saved = %q", saved)
	}
	got, _ := svc.GetSettings(ctx)
	if got == nil || *got != `C:\Users\me\notes.txt` {
		t.Errorf("GetSettings = %v", got)
	}
}

func TestSaveEnteredPath_EmptyRejected(t *testing.T) {
	svc := testService(t, nil)
	_, err := svc.SaveEnteredPath(context.Background(), ` "" `)
	if !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
	if got, _ := svc.GetSettings(context.Background()); got != nil {
		t.Errorf("nothing should be saved, got %q", *got)
	}
}

func TestSaveSettings_RunsHooks(t *testing.T) {
	var seen []string
	svc := testService(t, nil, WithSettingsHook(func(p string) { seen = append(seen, "opt:"+p) }))
	svc.OnSettingsSaved(func(p string) { seen = append(seen, "late:"+p) })

	if err := svc.SaveSettings(context.Background(), "/a.txt"); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	want := []string{"opt:/a.txt", "late:/a.txt"}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Errorf("hooks mismatch (-want +got):\n%s", diff)
	}
}

func TestReadNotes(t *testing.T) {
	svc := testService(t, nil)
	path := testutil.TestNoteFile(t, testutil.SampleNotes)
	got, err := svc.ReadNotes(context.Background(), path)
	if err != nil {
		t.Fatalf("ReadNotes: %v", err)
	}
	want := []models.Note{
		{Date: "2024-01-02", Content: "World"},
		{Date: "2024-01-01", Content: "Hello"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReadNotes mismatch (-want +got):\n%s", diff)
	}
}

func TestReadNotes_RereadsEveryCall(t *testing.T) {
	svc := testService(t, nil)
	ctx := context.Background()
	path := testutil.TestNoteFile(t, "[1]\none")
	first, _ := svc.ReadNotes(ctx, path)
	if len(first) != 1 {
		t.Fatalf("first read len = %d", len(first))
	}
	_ = os.WriteFile(path, []byte("[1]\none\n------------------\n[2]\ntwo"), 0o644)
	second, err := svc.ReadNotes(ctx, path)
	if err != nil {
		t.Fatalf("ReadNotes: %v", err)
	}
	if len(second) != 2 || second[0].Date != "2" {
		t.Errorf("second read = %+v", second)
	}
}

func TestReadNotes_EmptyFile(t *testing.T) {
	svc := testService(t, nil)
	got, err := svc.ReadNotes(context.Background(), testutil.TestNoteFile(t, ""))
	if err != nil {
		t.Fatalf("ReadNotes: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %#v, want empty slice", got)
	}
}

func TestReadNotes_MissingFile(t *testing.T) {
	svc := testService(t, nil)
	path := filepath.Join(t.TempDir(), "missing.txt")
	_, err := svc.ReadNotes(context.Background(), path)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.HasPrefix(err.Error(), "error reading file at '"+path+"'") {
		t.Errorf("unexpected message: %v", err)
	}
	if n := strings.Count(err.Error(), path); n != 1 {
		t.Errorf("path appears %d times in %q, want once", n, err.Error())
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error should wrap os.ErrNotExist: %v", err)
	}
}

func TestReadNotes_InvalidUTF8(t *testing.T) {
	svc := testService(t, nil)
	path := testutil.TestNoteFile(t, "[2024-01-01]\nbad \xff\xfe bytes")
	_, err := svc.ReadNotes(context.Background(), path)
	if err == nil {
		t.Fatal("expected error for invalid UTF-8")
	}
	want := "error reading file at '" + path + "': stream did not contain valid UTF-8"
	if err.Error() != want {
		t.Errorf("err = %q, want %q", err.Error(), want)
	}
}

func TestSearchNotes(t *testing.T) {
	svc := testService(t, nil)
	path := testutil.TestNoteFile(t, testutil.SampleNotes)
	got, err := svc.SearchNotes(context.Background(), path, "WORLD")
	if err != nil {
		t.Fatalf("SearchNotes: %v", err)
	}
	want := []models.Note{{Date: "2024-01-02", Content: "World"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SearchNotes mismatch (-want +got):\n%s", diff)
	}
}

func TestOpenFile(t *testing.T) {
	op := &recordingOpener{}
	svc := testService(t, op)
	if err := svc.OpenFile(context.Background(), "/notes.txt"); err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if diff := cmp.Diff([]string{"/notes.txt"}, op.paths); diff != "" {
		t.Errorf("opener calls mismatch (-want +got):\n%s", diff)
	}
}

func TestOpenFile_Error(t *testing.T) {
	op := &recordingOpener{err: errors.New("no application")}
	svc := testService(t, op)
	err := svc.OpenFile(context.Background(), "/notes.txt")
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "failed to open '/notes.txt': no application" {
		t.Errorf("err = %q", err.Error())
	}
}

func TestCleanPath(t *testing.T) {
	cases := map[string]string{
		"/a/b.txt":          "/a/b.txt",
		`"/a/b.txt"`:        "/a/b.txt",
		"  /a/b.txt \n":     "/a/b.txt",
		`" /spaced.txt "`:   "/spaced.txt",
		`"`:                 "",
		`/a/"quoted"/b.txt`: `/a/"quoted"/b.txt`,
	}
	for in, want := range cases {
		if got := CleanPath(in); got != want {
			t.Errorf("CleanPath(%q) = %q, want %q", in, got, want)
		}
	}
}
