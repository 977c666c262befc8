package layout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestTypesetter(t *testing.T, corpus stubCorpus, opts Options) *Typesetter {
	t.Helper()
	book := testBook(20)
	book.TitleStyle.Postfix = "卷X"
	grid := mustGrid(book, testCanvas(2), MultiRowMode{})
	ts, err := NewTypesetter(book, grid, Capabilities{
		Glyphs:   stubGlyphs{},
		Numerals: stubNumerals{},
		Corpus:   corpus,
	}, opts)
	require.NoError(t, err)
	return ts
}

func TestBuildPlanSinglePage(t *testing.T) {
	corpus := stubCorpus{entries: map[int]string{1: strings.Repeat("天", 40)}}
	plan, err := newTestTypesetter(t, corpus, Options{From: 1, To: 1}).BuildPlan()
	require.NoError(t, err)
	require.NoError(t, plan.Validate())

	require.Equal(t, CoverGenerated, plan.Cover)
	require.Len(t, plan.Pages, 1)
	require.Len(t, plan.Pages[0].Glyphs, 40)
	require.Equal(t, "史记卷一", plan.Pages[0].Title)
	require.Equal(t, []OutlineEntry{{Title: "史记卷一", Page: 1}}, plan.Outlines)
}

func TestBuildPlanChaptersStartNewPages(t *testing.T) {
	corpus := stubCorpus{entries: map[int]string{
		1: strings.Repeat("甲", 10),
		2: strings.Repeat("乙", 45),
		3: strings.Repeat("丙", 5),
	}}
	plan, err := newTestTypesetter(t, corpus, Options{From: 1, To: 3}).BuildPlan()
	require.NoError(t, err)
	require.NoError(t, plan.Validate())

	require.Len(t, plan.Pages, 4)
	for i, page := range plan.Pages {
		require.Equal(t, i+1, page.Number)
	}
	require.Equal(t, "史记卷一", plan.Pages[0].Title)
	require.Equal(t, "史记卷二", plan.Pages[1].Title)
	require.Equal(t, "史记卷二", plan.Pages[2].Title)
	require.Equal(t, "史记卷三", plan.Pages[3].Title)
	require.Equal(t, []OutlineEntry{
		{Title: "史记卷一", Page: 1},
		{Title: "史记卷二", Page: 2},
		{Title: "史记卷三", Page: 4},
	}, plan.Outlines)
}

func TestBuildPlanChapterContinuesEmptyPage(t *testing.T) {
	corpus := stubCorpus{entries: map[int]string{
		1: strings.Repeat("甲", 40) + "%" + pad(19),
		2: "乙",
	}}
	plan, err := newTestTypesetter(t, corpus, Options{From: 1, To: 2}).BuildPlan()
	require.NoError(t, err)
	require.NoError(t, plan.Validate())

	require.Len(t, plan.Pages, 2)
	require.Equal(t, 2, plan.Pages[1].Number)
	require.Equal(t, "史记卷二", plan.Pages[1].Title)
	require.Equal(t, 2, plan.Outlines[1].Page)
}

func TestBuildPlanTestPageLimit(t *testing.T) {
	corpus := stubCorpus{entries: map[int]string{
		1: "甲",
		2: "乙",
		3: "丙",
	}}
	plan, err := newTestTypesetter(t, corpus, Options{From: 1, To: 3, TestPages: 2}).BuildPlan()
	require.NoError(t, err)
	require.Len(t, plan.Pages, 2)
}

func TestBuildPlanMissingEntry(t *testing.T) {
	corpus := stubCorpus{entries: map[int]string{1: "甲"}}
	_, err := newTestTypesetter(t, corpus, Options{From: 1, To: 2}).BuildPlan()
	require.Error(t, err)
	require.Contains(t, err.Error(), "第 2 篇")
}

func TestBuildPlanCoverImage(t *testing.T) {
	corpus := stubCorpus{entries: map[int]string{1: "甲"}}
	plan, err := newTestTypesetter(t, corpus, Options{From: 1, To: 1, CoverImage: "books/a/cover.jpg"}).BuildPlan()
	require.NoError(t, err)
	require.Equal(t, CoverImage, plan.Cover)
	require.Equal(t, "books/a/cover.jpg", plan.CoverPath)
}

func TestNewTypesetterRejectsBadInput(t *testing.T) {
	book := testBook(20)
	grid := mustGrid(book, testCanvas(2), MultiRowMode{})
	caps := Capabilities{Glyphs: stubGlyphs{}, Numerals: stubNumerals{}, Corpus: stubCorpus{}}

	_, err := NewTypesetter(book, grid, caps, Options{From: 3, To: 1})
	require.Error(t, err)

	_, err = NewTypesetter(book, grid, Capabilities{Numerals: stubNumerals{}, Corpus: stubCorpus{}}, Options{})
	require.Error(t, err)
}

func TestNewTypesetterVariantsFollowTryST(t *testing.T) {
	book := testBook(20)
	grid := mustGrid(book, testCanvas(2), MultiRowMode{})
	caps := Capabilities{Glyphs: stubGlyphs{}, Variants: stubVariants{}, Numerals: stubNumerals{}, Corpus: stubCorpus{}}

	ts, err := NewTypesetter(book, grid, caps, Options{})
	require.NoError(t, err)
	require.Nil(t, ts.engine.resolver.Variants)

	book.TryST = true
	ts, err = NewTypesetter(book, grid, caps, Options{})
	require.NoError(t, err)
	require.NotNil(t, ts.engine.resolver.Variants)
}

func TestChapterTitle(t *testing.T) {
	ts := newTestTypesetter(t, stubCorpus{entries: map[int]string{1: "", 12: "", 999: ""}, appendix: true}, Options{From: 1, To: 1})
	require.Equal(t, "史记卷一", ts.ChapterTitle(1))
	require.Equal(t, "史记卷一二", ts.ChapterTitle(12))
	require.Equal(t, "史记附", ts.ChapterTitle(999))

	ts = newTestTypesetter(t, stubCorpus{entries: map[int]string{0: "", 1: "", 3: ""}, prologue: true}, Options{From: 0, To: 0})
	require.Equal(t, "史记序", ts.ChapterTitle(0))
	require.Equal(t, "史记卷二", ts.ChapterTitle(3))

	ts.book.TitleStyle.Postfix = ""
	require.Equal(t, "史记", ts.ChapterTitle(3))
}
