package glossary

import (
	_ "embed"
	"math/rand/v2"
	"strings"
	"sync"
	"unicode/utf8"

	"go-typefight/pkg/constants"
)

//go:embed en.txt
var englishWords string

// Source supplies enemy words
type Source interface {
	NextWord() string
}

// Glossary hands out every playable word once, in random order, and reshuffles
// when the list runs out.
type Glossary struct {
	words    []string
	rng      *rand.Rand
	next     int
	shuffles int
	mutex    sync.Mutex
}

// English returns the playable words of the embedded English list
func English() []string {
	return Playable(strings.Fields(englishWords))
}

// Playable keeps the words long enough to be enemy words
func Playable(words []string) []string {
	result := make([]string, 0, len(words))
	for _, word := range words {
		if utf8.RuneCountInString(word) >= constants.MinWordLength {
			result = append(result, word)
		}
	}
	return result
}

// New creates a Glossary over the playable words. A nil rng uses a randomly seeded one.
func New(words []string, rng *rand.Rand) *Glossary {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Glossary{
		words: Playable(words),
		rng:   rng,
	}
}

// NewEnglish creates a Glossary over the embedded English list
func NewEnglish(rng *rand.Rand) *Glossary {
	return New(English(), rng)
}

// NextWord returns the next word of the current shuffle. It returns "" only
// when the glossary has no playable words.
func (g *Glossary) NextWord() string {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if len(g.words) == 0 {
		return ""
	}
	if g.shuffles == 0 || g.next == len(g.words) {
		g.shuffle()
	}
	word := g.words[g.next]
	g.next++
	return word
}

// Len returns the number of playable words
func (g *Glossary) Len() int {
	return len(g.words)
}

// Shuffles returns how many times the words were shuffled
func (g *Glossary) Shuffles() int {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	return g.shuffles
}

func (g *Glossary) shuffle() {
	g.rng.Shuffle(len(g.words), func(i, j int) {
		g.words[i], g.words[j] = g.words[j], g.words[i]
	})
	g.next = 0
	g.shuffles++
}

// Sequence is a Source that cycles through its words in order
type Sequence struct {
	words []string
	next  int
}

// NewSequence creates a Sequence over the given words
func NewSequence(words ...string) *Sequence {
	return &Sequence{words: words}
}

func (s *Sequence) NextWord() string {
	if len(s.words) == 0 {
		return ""
	}
	word := s.words[s.next%len(s.words)]
	s.next++
	return word
}
