package doctags

import (
	"reflect"
	"testing"
)

func TestParseSimpleDocument(t *testing.T) {
	raw := "<doctag>" +
		"<title><loc_12><loc_30>Quarterly Report</title>" +
		"<section_header_level_1>Revenue</section_header_level_1>" +
		"<text>Revenue grew in Q3.</text>" +
		"</doctag>"

	doc := Parse(raw)
	if !doc.Recognized {
		t.Fatalf("expected recognized dialect")
	}
	want := []Block{
		{Kind: KindTitle, Text: "Quarterly Report"},
		{Kind: KindHeading, Level: 1, Text: "Revenue"},
		{Kind: KindParagraph, Text: "Revenue grew in Q3."},
	}
	if !reflect.DeepEqual(doc.Blocks, want) {
		t.Fatalf("blocks mismatch:\n got %+v\nwant %+v", doc.Blocks, want)
	}
}

func TestParseTableBetweenTexts(t *testing.T) {
	raw := "<doctag>" +
		"<text>Before the table.</text>" +
		"<otsl><ched>Name<ched>Age<nl><fcel>Ada<fcel>36<nl><fcel>Bob<ecel><nl></otsl>" +
		"<text>After the table.</text>" +
		"</doctag>"

	doc := Parse(raw)
	if len(doc.Blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d: %+v", len(doc.Blocks), doc.Blocks)
	}
	if doc.Blocks[0].Kind != KindParagraph || doc.Blocks[2].Kind != KindParagraph {
		t.Fatalf("text blocks out of order: %+v", doc.Blocks)
	}
	tbl := doc.Blocks[1]
	if tbl.Kind != KindTable {
		t.Fatalf("middle block is not a table: %+v", tbl)
	}
	if len(tbl.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(tbl.Rows))
	}
	if !tbl.Rows[0][0].Header || tbl.Rows[0][0].Text != "Name" {
		t.Fatalf("unexpected header cell: %+v", tbl.Rows[0][0])
	}
	if tbl.Rows[1][0].Text != "Ada" || tbl.Rows[1][1].Text != "36" {
		t.Fatalf("unexpected data row: %+v", tbl.Rows[1])
	}
	if tbl.Rows[2][1].Text != "" {
		t.Fatalf("ecel must stay empty: %+v", tbl.Rows[2])
	}
}

func TestParseLists(t *testing.T) {
	raw := "<doctag><unordered_list>" +
		"<list_item>alpha</list_item>" +
		"<list_item>beta</list_item>" +
		"</unordered_list>" +
		"<ordered_list><list_item>first</list_item></ordered_list></doctag>"

	doc := Parse(raw)
	if len(doc.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %+v", doc.Blocks)
	}
	ul := doc.Blocks[0]
	if ul.Kind != KindList || ul.Ordered || !reflect.DeepEqual(ul.Items, []string{"alpha", "beta"}) {
		t.Fatalf("unexpected unordered list: %+v", ul)
	}
	ol := doc.Blocks[1]
	if ol.Kind != KindList || !ol.Ordered || len(ol.Items) != 1 {
		t.Fatalf("unexpected ordered list: %+v", ol)
	}
}

func TestParseUnknownTagsAreTransparent(t *testing.T) {
	raw := "<doctag><text>see the <chart>chart below</chart> for details</text></doctag>"
	doc := Parse(raw)
	if len(doc.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %+v", doc.Blocks)
	}
	if got := doc.Blocks[0].Text; got != "see the chart below for details" {
		t.Fatalf("unknown tag content must stay inline, got %q", got)
	}
}

func TestParseBareSentence(t *testing.T) {
	doc := Parse("Just a plain sentence with no tags.")
	if doc.Recognized {
		t.Fatalf("bare text must not count as recognized dialect")
	}
	if len(doc.Blocks) != 1 || doc.Blocks[0].Kind != KindParagraph {
		t.Fatalf("bare text should form one implicit paragraph: %+v", doc.Blocks)
	}
}

func TestParseEmpty(t *testing.T) {
	doc := Parse("")
	if doc.Recognized || !doc.Empty() {
		t.Fatalf("empty input should parse to an empty document: %+v", doc)
	}
}

func TestParsePictureAndPageBreak(t *testing.T) {
	raw := "<doctag><picture><loc_1><loc_2>other</picture><page_break><text>next page</text></doctag>"
	doc := Parse(raw)
	if len(doc.Blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %+v", doc.Blocks)
	}
	if doc.Blocks[0].Kind != KindPicture {
		t.Fatalf("expected picture block first: %+v", doc.Blocks)
	}
	if doc.Blocks[1].Kind != KindPageBreak {
		t.Fatalf("expected page break second: %+v", doc.Blocks)
	}
}

func TestParsePictureWithCaption(t *testing.T) {
	raw := "<doctag><text>Intro</text><picture><loc_1><caption>Fig 1 shows revenue</caption></picture></doctag>"
	doc := Parse(raw)
	want := []Block{
		{Kind: KindParagraph, Text: "Intro"},
		{Kind: KindPicture},
		{Kind: KindCaption, Text: "Fig 1 shows revenue"},
	}
	if !reflect.DeepEqual(doc.Blocks, want) {
		t.Fatalf("blocks mismatch:\n got %+v\nwant %+v", doc.Blocks, want)
	}
}

func TestParseUnclosedPicture(t *testing.T) {
	doc := Parse("<doctag><picture><loc_1>")
	if len(doc.Blocks) != 1 || doc.Blocks[0].Kind != KindPicture {
		t.Fatalf("unclosed picture must still emit a block: %+v", doc.Blocks)
	}
}

func TestStripTags(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"<foo>hi</foo>", "hi"},
		{"<doctag><text>a</text></doctag>", "a"},
		{"no tags at all", "no tags at all"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := StripTags(tc.in); got != tc.want {
			t.Fatalf("StripTags(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestHeadingLevelClamp(t *testing.T) {
	doc := Parse("<doctag><section_header_level_9>Deep</section_header_level_9></doctag>")
	if len(doc.Blocks) != 1 || doc.Blocks[0].Level != 6 {
		t.Fatalf("heading level must clamp at 6: %+v", doc.Blocks)
	}
}

func TestParseUnterminatedBlock(t *testing.T) {
	doc := Parse("<doctag><text>cut off mid-generation")
	if len(doc.Blocks) != 1 || doc.Blocks[0].Text != "cut off mid-generation" {
		t.Fatalf("unterminated block must still flush: %+v", doc.Blocks)
	}
}
