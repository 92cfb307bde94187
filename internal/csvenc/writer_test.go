package csvenc_test

import (
	"bytes"
	"testing"

	"github.com/kwnlp/wpsql2csv/internal/csvenc"
	"github.com/kwnlp/wpsql2csv/internal/domain/data"
)

func writeOne(t *testing.T, header []string, rows ...[]data.FieldToken) string {
	t.Helper()
	var buf bytes.Buffer
	w := csvenc.NewWriter(&buf)
	if header != nil {
		if err := w.WriteHeader(header); err != nil {
			t.Fatal(err)
		}
	}
	for _, row := range rows {
		if err := w.WriteRow(row); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestWriter_HeaderAndRow(t *testing.T) {
	got := writeOne(t,
		[]string{"cat_id", "cat_title"},
		[]data.FieldToken{data.Number("1"), data.String("Futurama")},
	)
	want := "cat_id,cat_title\n1,Futurama\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriter_QuotingRules(t *testing.T) {
	tests := []struct {
		name string
		tok  data.FieldToken
		want string
	}{
		{"plain", data.String("abc"), "abc"},
		{"comma", data.String("a,b"), `"a,b"`},
		{"embedded quote doubled", data.String(`say "hi"`), `"say ""hi"""`},
		{"newline", data.String("a\nb"), "\"a\nb\""},
		{"carriage return", data.String("a\rb"), "\"a\rb\""},
		{"apostrophe needs no quoting", data.String("O'Brien"), "O'Brien"},
		{"number verbatim", data.Number("0.084764380702"), "0.084764380702"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := writeOne(t, nil, []data.FieldToken{tt.tok})
			if got != tt.want+"\n" {
				t.Errorf("got %q, want %q", got, tt.want+"\n")
			}
		})
	}
}

// NULL becomes a bare empty cell; an empty string becomes a quoted empty
// cell. A reader that only treats the truly-empty cell as missing can
// tell them apart.
func TestWriter_NullVersusEmptyString(t *testing.T) {
	got := writeOne(t, nil,
		[]data.FieldToken{data.Null(), data.String(""), data.Number("5")},
	)
	want := `,"",5` + "\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// Titles that look like missing values to lenient CSV readers must be
// written as their literal text, never as empty cells
func TestWriter_AmbiguousTitlesStayLiteral(t *testing.T) {
	got := writeOne(t, nil, []data.FieldToken{
		data.String("NaN"),
		data.String("Null"),
		data.String("Na"),
		data.String("NULL"),
	})
	want := "NaN,Null,Na,NULL\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriter_TrailingNullMakesTrailingComma(t *testing.T) {
	got := writeOne(t, nil, []data.FieldToken{data.Number("1"), data.Null()})
	if got != "1,\n" {
		t.Errorf("got %q, want %q", got, "1,\n")
	}
}

func TestWriter_HeaderQuoting(t *testing.T) {
	got := writeOne(t, []string{"plain", "with,comma"})
	want := `plain,"with,comma"` + "\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
