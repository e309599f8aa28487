package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPDF_CorruptedInput(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty input", []byte{}},
		{"nil input", nil},
		{"garbage bytes", []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0x01}},
		{"truncated header", []byte("%PDF-1.7\n")},
		{"plain text file", []byte("this is not a pdf at all")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, corrupted := PDF(tt.data)

			assert.True(t, corrupted)
			assert.Equal(t, CorruptedText, text)
		})
	}
}

func TestParseContentStream(t *testing.T) {
	tests := []struct {
		name   string
		stream string
		want   string
	}{
		{
			name:   "single Tj operator",
			stream: "BT\n/F1 12 Tf\n(Hello World) Tj\nET",
			want:   "Hello World",
		},
		{
			name:   "TJ array operator",
			stream: "[(This ) (agreement) ( is binding)] TJ",
			want:   "This agreement is binding",
		},
		{
			name:   "multiple lines",
			stream: "(First clause) Tj\n(Second clause) Tj",
			want:   "First clause Second clause",
		},
		{
			name:   "quote operator starts new line",
			stream: "(Heading) Tj\n(Body text) '",
			want:   "Heading Body text",
		},
		{
			name:   "non-text operators ignored",
			stream: "q\n1 0 0 1 50 700 cm\nQ\n0 0 1 RG",
			want:   "",
		},
		{
			name:   "empty stream",
			stream: "",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseContentStream([]byte(tt.stream))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodePDFString(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain text", "Hello", "Hello"},
		{"escaped parens", `a\(b\)c`, "a(b)c"},
		{"escaped backslash", `a\\b`, `a\b`},
		{"newline escape", `line1\nline2`, "line1\nline2"},
		{"tab escape", `a\tb`, "a\tb"},
		{"octal space", `a\040b`, "a b"},
		{"octal single digit", `\101`, "A"},
		{"unknown escape passes through", `a\zb`, "azb"},
		{"trailing backslash", `abc\`, `abc\`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodePDFString([]byte(tt.raw))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"collapses whitespace", "a  b\t\tc\n\nd", "a b c d"},
		{"trims edges", "  hello  ", "hello"},
		{"drops non-printable", "a\x00b\x07c", "abc"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanText(tt.text))
		})
	}
}
