package wordlist

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/charmbracelet/log"

	"codeberg.org/snonux/wordspeak/internal/testutil"
)

func newTestLoader(dir string) *Loader {
	return NewLoader(dir, log.New(io.Discard))
}

func TestLoaderLoad(t *testing.T) {
	dir := testutil.CreateWordsDirectory(t, map[string]string{
		"a_fruits.csv": "apple,사과\nbanana,바나나",
		"b_verbs.txt":  "run - 달리다\neat\t먹다\t먹어요",
		"c_flat.CSV":   "a,1,b,2,c,3",
		"d_notes.md":   "ignored,무시",
		"e_broken.csv": "apple,사과\nba\"nana,바나나",
	})
	if err := os.Mkdir(filepath.Join(dir, "nested.csv"), 0755); err != nil {
		t.Fatal(err)
	}

	got, err := newTestLoader(dir).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := WordList{
		{En: "apple", Ko: "사과"},
		{En: "banana", Ko: "바나나"},
		{En: "run", Ko: "달리다"},
		{En: "eat", Ko: "먹다 먹어요"},
		{En: "a", Ko: "1"},
		{En: "b", Ko: "2"},
		{En: "c", Ko: "3"},
		{En: "apple", Ko: "사과"},
		{En: "ba\"nana", Ko: "바나나"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load() =\n%v\nwant\n%v", got, want)
	}
}

func TestLoaderMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "does-not-exist")

	got, err := newTestLoader(dir).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Load() = %v, want empty list", got)
	}
}

func TestLoaderEmptyAndUnreadableFiles(t *testing.T) {
	dir := testutil.CreateWordsDirectory(t, map[string]string{
		"empty.csv": "",
		"junk.csv":  "no separators here",
		"ok.txt":    "apple - 사과",
	})

	got, err := newTestLoader(dir).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := WordList{{En: "apple", Ko: "사과"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load() = %v, want %v", got, want)
	}
}

func TestLoaderCanceled(t *testing.T) {
	dir := testutil.CreateWordsDirectory(t, map[string]string{
		"a.csv": "apple,사과",
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newTestLoader(dir).Load(ctx); err == nil {
		t.Error("Load() with canceled context should return error")
	}
}

func TestLoaderRereadsEachTime(t *testing.T) {
	dir := testutil.CreateWordsDirectory(t, map[string]string{
		"a.csv": "apple,사과",
	})
	loader := newTestLoader(dir)

	first, err := loader.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	testutil.CreateTestFile(t, filepath.Join(dir, "b.txt"), []byte("banana - 바나나"))

	second, err := loader.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 1 || len(second) != 2 {
		t.Errorf("Load() counts = %d, %d; want 1, 2", len(first), len(second))
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words.txt")
	testutil.CreateTestFile(t, path, []byte("apple - 사과"))

	got, err := newTestLoader(dir).LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	want := []WordEntry{{En: "apple", Ko: "사과"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LoadFile() = %v, want %v", got, want)
	}

	if _, err := newTestLoader(dir).LoadFile(filepath.Join(dir, "missing.csv")); err == nil {
		t.Error("LoadFile() on missing file should return error")
	}
}

func TestLoaderLoadSources(t *testing.T) {
	dir := testutil.CreateWordsDirectory(t, map[string]string{
		"a.csv":     "apple,사과\nbanana,바나나",
		"b.txt":     "run - 달리다",
		"c.json":    "{}",
		"README.md": "apple,사과",
		"d.csv":     "",
	})

	sources, err := newTestLoader(dir).LoadSources(context.Background())
	if err != nil {
		t.Fatalf("LoadSources() error = %v", err)
	}

	var files []string
	counts := map[string]int{}
	for _, s := range sources {
		files = append(files, s.File)
		counts[s.File] = len(s.Entries)
	}

	wantFiles := []string{"a.csv", "b.txt", "d.csv"}
	if !reflect.DeepEqual(files, wantFiles) {
		t.Errorf("LoadSources() files = %v, want %v", files, wantFiles)
	}
	if counts["a.csv"] != 2 || counts["b.txt"] != 1 || counts["d.csv"] != 0 {
		t.Errorf("LoadSources() counts = %v", counts)
	}
}
