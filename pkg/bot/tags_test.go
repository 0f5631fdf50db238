package bot

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		tags Tags
		text string
		want []string
	}{
		{
			name: "end tags and comment",
			tags: DefaultTags(),
			text: "first /f >>/<< f/ second /f >> /f << f/ third /f ^^ :// comment",
			want: []string{" >>/<< ", " >> /f << ", " ^^ "},
		},
		{
			name: "last snippet unterminated",
			tags: DefaultTags(),
			text: "first /f>>/<<f/ second /f<>/<>",
			want: []string{">>/<<", "<>/<>"},
		},
		{
			name: "no start tag",
			tags: DefaultTags(),
			text: "just talking about f/ things",
		},
		{
			name: "start tag only inside comment",
			tags: DefaultTags(),
			text: "hello :// /f <> f/",
		},
		{
			name: "empty snippet",
			tags: DefaultTags(),
			text: "/ff/",
			want: []string{""},
		},
		{
			name: "no end tag configured",
			tags: Tags{Start: "/f"},
			text: "/f <> f/ /f ><",
			want: []string{" <> f/ /f ><"},
		},
		{
			name: "no comment tag configured",
			tags: Tags{Start: "/f", End: "f/"},
			text: "/f ^^ :// f/",
			want: []string{" ^^ :// "},
		},
		{
			name: "empty start tag",
			tags: Tags{End: "f/"},
			text: "<> f/",
		},
		{
			name: "multibyte tags",
			tags: Tags{Start: "«", End: "»"},
			text: "a «<>» b «><»",
			want: []string{"<>", "><"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.tags.Extract(tt.text)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Extract() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSnippetsStopsEarly(t *testing.T) {
	var got []string
	for s := range DefaultTags().Snippets("/f a f/ /f b f/ /f c f/") {
		got = append(got, s)
		if len(got) == 2 {
			break
		}
	}
	if diff := cmp.Diff([]string{" a ", " b "}, got); diff != "" {
		t.Errorf("Snippets() mismatch (-want +got):\n%s", diff)
	}
}

func ExampleTags_Extract() {
	tags := DefaultTags()
	for _, s := range tags.Extract("first /f >>/<< f/ second /f >> /f << f/ third /f ^^ :// comment") {
		fmt.Printf("%q\n", s)
	}
	// Output:
	// " >>/<< "
	// " >> /f << "
	// " ^^ "
}
