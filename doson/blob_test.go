package doson

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
)

func TestBlobFromBase64(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []byte
		wantErr bool
	}{
		{"hello", "SGVsbG8=", []byte("Hello"), false},
		{"empty", "", []byte{}, false},
		{"full_alphabet", "+/8=", []byte{0xfb, 0xff}, false},
		{"unpadded", "SGVsbG8", nil, true},
		{"bad_char", "SGV$bG8=", nil, true},
		{"url_alphabet", "-_8=", nil, true},
		{"embedded_newline", "SGVs\nbG8=", nil, true},
		{"embedded_crlf", "SGVsbG8=\r\n", nil, true},
		{"nonzero_trailing_bits", "SGVsbG9=", nil, true},
		{"nonzero_trailing_bits_full_alphabet", "+/==", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := BlobFromBase64(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got blob %s", b)
				}
				if !errors.Is(err, ErrDecode) {
					t.Errorf("errors.Is(err, ErrDecode) = false for %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("BlobFromBase64 failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, b.Bytes(), cmpBytes); diff != "" {
				t.Errorf("Bytes() mismatch (-want +got):\n%s", diff)
			}
			if got := b.Base64(); got != tt.input {
				t.Errorf("Base64() = %q, want %q", got, tt.input)
			}
		})
	}
}

// cmpBytes treats nil and empty byte slices as equal.
var cmpBytes = cmp.Comparer(func(a, b []byte) bool {
	return string(a) == string(b)
})

func TestBlobFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "payload.bin")
	content := []byte{0, 1, 2, 250, 255}
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	b, err := BlobFromFile(path)
	if err != nil {
		t.Fatalf("BlobFromFile failed: %v", err)
	}
	if b.Size() != len(content) {
		t.Errorf("Size() = %d, want %d", b.Size(), len(content))
	}
	if diff := cmp.Diff(content, b.Bytes()); diff != "" {
		t.Errorf("Bytes() mismatch (-want +got):\n%s", diff)
	}

	v := Binary(b)
	back := Parse(v.String())
	if !back.Equal(v) {
		t.Errorf("Parse(%s) = %s", v, back)
	}
}

func TestBlobFromFile_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.bin")

	_, err := BlobFromFile(path)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, ErrIO) {
		t.Errorf("errors.Is(err, ErrIO) = false for %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("errors.Is(err, fs.ErrNotExist) = false for %v", err)
	}
	var derr *Error
	if !errors.As(err, &derr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if diff := cmp.Diff([]string{path}, derr.Path); diff != "" {
		t.Errorf("Path mismatch (-want +got):\n%s", diff)
	}
}

func TestBlob_String(t *testing.T) {
	tests := []struct {
		data []byte
		want string
	}{
		{nil, "binary!()"},
		{[]byte("Hello"), "binary!(SGVsbG8=)"},
		{[]byte{0xfb, 0xff}, "binary!(+/8=)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := NewBlob(tt.data).String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPreview(t *testing.T) {
	short := strings.Repeat("a", 32)
	if got := preview(short); got != short {
		t.Errorf("preview(32 chars) = %q", got)
	}
	long := strings.Repeat("b", 40)
	if got := preview(long); got != strings.Repeat("b", 32)+"..." {
		t.Errorf("preview(40 chars) = %q", got)
	}

	// Byte 32 falls inside the two-byte rune that starts at byte 31.
	split := strings.Repeat("c", 31) + "\u00e9\u00e9\u00e9"
	got := preview(split)
	if got != strings.Repeat("c", 31)+"..." {
		t.Errorf("preview(split rune) = %q", got)
	}
	if !utf8.ValidString(got) {
		t.Errorf("preview(split rune) is not valid UTF-8: %q", got)
	}
}
