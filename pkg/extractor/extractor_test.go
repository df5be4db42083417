package extractor

import (
	"strings"
	"sync"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskdesk/domain"
)

func descriptions(cands []domain.Candidate) []string {
	out := make([]string, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.Description)
	}
	return out
}

func TestExtractBlank(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\n", " . ? ! "} {
		got := Extract(in)
		require.NotNil(t, got, "input %q", in)
		assert.Empty(t, got, "input %q", in)
	}
}

func TestExtractSegments(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "sentences", in: "Buy milk. Walk the dog.", want: []string{"Buy milk", "Walk the dog"}},
		{name: "conjunction", in: "Call mom and water the plants", want: []string{"Call mom", "water the plants"}},
		{name: "conjunction any case", in: "Call mom AND water the plants And pay rent", want: []string{"Call mom", "water the plants", "pay rent"}},
		{name: "and inside word", in: "Understand the brand handbook", want: []string{"Understand the brand handbook"}},
		{name: "and needs both spaces", in: "Bread and\nbutter", want: []string{"Bread", "butter"}},
		{name: "and at start", in: "and then rest", want: []string{"and then rest"}},
		{name: "question and bang", in: "Did I lock the door? Go now! Sleep", want: []string{"Did I lock the door", "Go now", "Sleep"}},
		{name: "empty between delimiters", in: "Do X..  Do Y.", want: []string{"Do X", "Do Y"}},
		{name: "newlines", in: "Email Bob\nSubmit report", want: []string{"Email Bob Submit report"}},
		{name: "abbreviation splits", in: "See Dr. Smith", want: []string{"See Dr", "Smith"}},
		{name: "repeated conjunction", in: "a and and b", want: []string{"a", "and b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, descriptions(Extract(tt.in)))
		})
	}
}

func TestExtractDefaults(t *testing.T) {
	for _, c := range Extract("One. Two and three? Four!") {
		assert.Equal(t, domain.PriorityMedium, c.Priority)
		assert.Equal(t, domain.StatusPending, c.Status)
		assert.Equal(t, domain.SourceAIExtracted, c.Source)
		assert.Nil(t, c.DueAt)
		assert.Equal(t, c.Description, c.Title)
	}
}

func TestExtractLongSegmentTitle(t *testing.T) {
	got := Extract(strings.Repeat("A", 90) + ".")
	require.Len(t, got, 1)

	assert.Len(t, got[0].Title, 80)
	assert.True(t, strings.HasSuffix(got[0].Title, "..."))
	assert.Equal(t, strings.Repeat("A", 77), strings.TrimSuffix(got[0].Title, "..."))
	assert.Len(t, got[0].Description, 90)
}

func TestTitleBoundary(t *testing.T) {
	exact := strings.Repeat("b", 80)
	assert.Equal(t, exact, Title(exact))

	over := strings.Repeat("b", 81)
	assert.Equal(t, strings.Repeat("b", 77)+"...", Title(over))
}

func TestTitleCountsUTF16Units(t *testing.T) {
	segment := strings.Repeat("é", 85)
	title := Title(segment)
	assert.Equal(t, 80, len(utf16.Encode([]rune(title))))

	short := strings.Repeat("ü", 80)
	assert.Equal(t, short, Title(short))
}

func TestExtractTrimsUnicodeSpace(t *testing.T) {
	got := Extract(" \uFEFFPlan trip . ")
	assert.Equal(t, []string{"Plan trip"}, descriptions(got))
}

func TestExtractConcurrent(t *testing.T) {
	const in = "Buy milk. Walk the dog and feed the cat"
	want := descriptions(Extract(in))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, descriptions(Extract(in)))
		}()
	}
	wg.Wait()
}
