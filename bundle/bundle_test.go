package bundle

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEntry struct {
	name string
	data string
}

// createZip writes the given entries to a new zip file in the given afero.Fs.
func createZip(t *testing.T, fs afero.Fs, name string, entries []testEntry) {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.name,
			Method:   zip.Store,
			Modified: time.Date(2024, 1, 2, 3, 4, 6, 0, time.UTC),
		})
		require.NoErrorf(t, err, "CreateHeader(%s) error = %v", e.name, err)
		_, err = io.WriteString(w, e.data)
		require.NoErrorf(t, err, "write %s error = %v", e.name, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, afero.WriteFile(fs, name, buf.Bytes(), 0644))
}

var workbook = []testEntry{
	{name: "[Content_Types].xml", data: "<Types/>"},
	{name: "_rels/.rels", data: "<Relationships/>"},
	{name: "xl/", data: ""},
	{name: "xl/workbook.xml", data: "<workbook/>"},
	{name: "xl/media/image2.png", data: "png-2"},
	{name: "xl/media/image1.jpeg", data: "jpeg-1"},
	{name: "xl/worksheets/sheet1.xml", data: "<worksheet/>"},
}

func TestRead(t *testing.T) {
	fs := afero.NewMemMapFs()
	createZip(t, fs, "/in/book.xlsx", workbook)

	b, err := Read(fs, "/in/book.xlsx")
	require.NoErrorf(t, err, "Read() error = %v", err)

	wantNames := make([]string, len(workbook))
	for i, e := range workbook {
		wantNames[i] = e.name
	}
	assert.Equal(t, wantNames, b.Names())
	assert.Equal(t, len(workbook), b.Len())

	for _, e := range workbook {
		got, ok := b.Get(e.name)
		assert.Truef(t, ok, "Get(%s) not found", e.name)
		assert.Equalf(t, e.data, string(got), "Get(%s) content mismatch", e.name)
	}

	assert.Equal(t, []string{"xl/media/image2.png", "xl/media/image1.jpeg"}, MediaNames(b, ""))
}

func TestRead_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/in/garbage.xlsx", []byte("this is not a zip file at all"), 0644))
	require.NoError(t, fs.MkdirAll("/in/dir.xlsx", 0755))

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{name: "not found", path: "/in/missing.xlsx", wantErr: ErrNotFound},
		{name: "not a zip", path: "/in/garbage.xlsx", wantErr: ErrArchiveCorrupt},
		{name: "directory", path: "/in/dir.xlsx", wantErr: ErrArchiveCorrupt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Read(fs, tt.path)
			assert.Nil(t, b)
			assert.ErrorIsf(t, err, tt.wantErr, "Read(%s) error = %v, want %v", tt.path, err, tt.wantErr)
		})
	}
}

func TestRead_DuplicateNames(t *testing.T) {
	fs := afero.NewMemMapFs()
	createZip(t, fs, "/dup.xlsx", []testEntry{
		{name: "a.xml", data: "first"},
		{name: "b.xml", data: "b"},
		{name: "a.xml", data: "second"},
	})

	b, err := Read(fs, "/dup.xlsx")
	require.NoError(t, err)

	assert.Equal(t, []string{"a.xml", "b.xml"}, b.Names())
	got, _ := b.Get("a.xml")
	assert.Equal(t, "second", string(got))
}

func TestWrite(t *testing.T) {
	fs := afero.NewMemMapFs()
	createZip(t, fs, "/in/book.xlsx", workbook)

	b, err := Read(fs, "/in/book.xlsx")
	require.NoError(t, err)
	b.Set("xl/media/image1.jpeg", []byte("recoded"))

	// existing output must be replaced.
	require.NoError(t, afero.WriteFile(fs, "/in/book_compressed.xlsx", []byte("stale"), 0644))

	err = Write(fs, b, "/in/book_compressed.xlsx")
	require.NoErrorf(t, err, "Write() error = %v", err)

	data, err := afero.ReadFile(fs, "/in/book_compressed.xlsx")
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoErrorf(t, err, "zip.NewReader() error = %v", err)

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
		if f.FileInfo().IsDir() {
			continue
		}

		assert.Equalf(t, zip.Deflate, f.Method, "entry %s method = %d, want deflate", f.Name, f.Method)
	}
	assert.Equal(t, b.Names(), names)

	got, err := Read(fs, "/in/book_compressed.xlsx")
	require.NoError(t, err)
	for _, e := range workbook {
		data, _ := got.Get(e.name)
		if e.name == "xl/media/image1.jpeg" {
			assert.Equal(t, "recoded", string(data))
			continue
		}

		assert.Equalf(t, e.data, string(data), "entry %s content mismatch", e.name)
	}

	// no temp files left behind.
	files, err := afero.ReadDir(fs, "/in")
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestWrite_FailureKeepsDestination(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(base, "/out/book_compressed.xlsx", []byte("previous"), 0644))

	b := &Bundle{}
	b.Set("a.xml", []byte("a"))

	// a read-only filesystem cannot create the temp file.
	err := Write(afero.NewReadOnlyFs(base), b, "/out/book_compressed.xlsx")
	assert.ErrorIs(t, err, ErrWriteFailed)

	data, err := afero.ReadFile(base, "/out/book_compressed.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))
}

func TestWriteFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/out", 0755))

	err := WriteFile(fs, "/out/copy.xlsx", []byte("raw bytes"))
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, "/out/copy.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "raw bytes", string(data))
}

func TestBundle_Set(t *testing.T) {
	b := &Bundle{}
	b.Set("a", []byte("1"))
	b.Set("b", []byte("2"))
	b.Set("a", []byte("3"))

	assert.Equal(t, []string{"a", "b"}, b.Names())
	got, ok := b.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "3", string(got))

	_, ok = b.Get("c")
	assert.False(t, ok)
}
