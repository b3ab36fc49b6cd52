package ai

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// MockResponder synthesizes replies locally, without any network call, by
// keyword-matching the input against fixed vocabularies. It is the default
// responder and the only one that works without external credentials.
//
// The synthesis is deterministic given {message, random draws}: the keyword
// tables, the default competency pair, the at-most-3 truncation, the {3,4}
// score range, and the situation-bucket priority are fixed contracts. Only
// the random draws (scores, fallback reply pick) vary, and the random source
// is injectable so tests can pin outcomes.
type MockResponder struct {
	catalog Catalog
	delay   time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockResponder constructs a MockResponder over the catalog with the
// given artificial delay. A nil rng gets a time-seeded source.
func NewMockResponder(catalog Catalog, delay time.Duration, rng *rand.Rand) *MockResponder {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &MockResponder{catalog: catalog, delay: delay, rng: rng}
}

// intn draws from the shared source under a lock; *rand.Rand is not safe for
// concurrent use and responders are shared across requests.
func (m *MockResponder) intn(n int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rng.Intn(n)
}

// sleep simulates generation latency for the handling of one request only.
// It returns early when the caller goes away.
func (m *MockResponder) sleep(ctx context.Context) {
	if m.delay <= 0 {
		return
	}
	t := time.NewTimer(m.delay)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// --- competency selection ---

// evalRule maps a keyword set onto a catalog code. Rules are tested in
// order; each matching rule contributes its competency once.
type evalRule struct {
	code   string
	words  []string
	detail string
}

// evalRules is the fixed input-to-competency mapping. Matching is done on
// the lower-cased message by substring containment.
var evalRules = []evalRule{
	{
		code:   "R",
		words:  []string{"anxious", "struggling", "difficult", "failure", "can't keep up"},
		detail: "Shows the strength to face difficult situations and recognize the challenge in them.",
	},
	{
		code:   "S",
		words:  []string{"myself", "opinion", "think", "reflection"},
		detail: "Demonstrates the self-awareness to view your own situation objectively and identify what to work on.",
	},
	{
		code:   "T",
		words:  []string{"pair", "group", "team", "class", "participate", "together"},
		detail: "Shows a willingness to take part in collaborative learning and place yourself in shared work.",
	},
	{
		code:   "E",
		words:  []string{"air conditioner", "cold", "environment", "classroom", "surroundings", "other people"},
		detail: "Shows awareness of and consideration for the learning environment and the people around you.",
	},
}

// defaultEvals is the fallback pair reported when no keyword rule matches
// the input. Each entry carries its own detail line.
var defaultEvals = []struct {
	code   string
	detail string
}{
	{"R", "Shows a steady attitude of facing your current situation without turning away from it."},
	{"S", "Keeps hold of your own perspective while looking for a way to move forward."},
}

// maxSelected caps how many competencies one evaluation reports.
const maxSelected = 3

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// selectCompetencies applies the keyword rules to the lower-cased message
// and returns the matched competencies in rule order, truncated to
// maxSelected, with the detail sentence each rule carries. No match yields
// the fixed default pair.
func (m *MockResponder) selectCompetencies(lower string) []scored {
	var out []scored
	for _, r := range evalRules {
		if !containsAny(lower, r.words) {
			continue
		}
		if comp, ok := m.catalog.byCode(r.code); ok {
			out = append(out, scored{comp: comp, detail: r.detail})
		}
	}
	if len(out) == 0 {
		for _, d := range defaultEvals {
			if comp, ok := m.catalog.byCode(d.code); ok {
				out = append(out, scored{comp: comp, detail: d.detail})
			}
		}
		if len(out) < len(defaultEvals) {
			// Catalogs loaded from a prompts file may not carry the
			// default codes. Take the leading catalog entries instead so
			// an evaluation never comes back without competency lines.
			out = out[:0]
			for i, d := range defaultEvals {
				if i >= len(m.catalog.Competencies) {
					break
				}
				out = append(out, scored{comp: m.catalog.Competencies[i], detail: d.detail})
			}
		}
	}
	if len(out) > maxSelected {
		out = out[:maxSelected]
	}
	return out
}

// scored is one selected competency with its drawn score and detail line.
type scored struct {
	comp   Competency
	score  int
	detail string
}

// stars renders a 5-glyph rating with score filled positions. The mock
// intentionally draws only 3 or 4, avoiding low and extreme scores.
func stars(score int) string {
	return strings.Repeat("★", score) + strings.Repeat("☆", 5-score)
}

// --- situation buckets ---

// situation is one of the three narratives the summary and advice sections
// are populated from. Exactly one bucket applies per message.
type situation struct {
	title   string
	summary string
	advice  string
}

var (
	anxietyWords    = []string{"anxious", "can't keep up", "struggling"}
	expressionWords = []string{"opinion", "speak", "talk", "express"}
)

// classifySituation picks the message's bucket by keyword presence in fixed
// priority order: anxiety over expression over the generic default.
func classifySituation(lower string) situation {
	switch {
	case containsAny(lower, anxietyWords):
		return situation{
			title:   "Facing difficulties head-on",
			summary: "Feeling anxious in the first weeks is natural. Being able to look honestly at your current situation and recognize the challenge in it is an important first step toward growth.",
			advice: "- When something in class is unclear, don't hesitate to ask the instructor or a classmate\n" +
				"- In pair work, start by listening carefully to your partner\n" +
				"- Gradually increasing how often you speak up will build your confidence",
		}
	case containsAny(lower, expressionWords):
		return situation{
			title:   "Growing as a communicator",
			summary: "You are noticing how hard it can be to put your own opinion into words during pair work. That awareness is itself the first step toward stronger communication skills.",
			advice: "- Start with small verbal acknowledgments such as nodding along or saying \"I see\"\n" +
				"- Try hedged phrasings like \"I think it might be..., what do you think?\" that invite the other person's view\n" +
				"- Your impressions don't need to be polished opinions - begin by sharing them as they are",
		}
	default:
		return situation{
			title:   "Engagement with learning",
			summary: "You reflect carefully on what happens in class and notice details of your surroundings. That kind of observational strength is a valuable quality you can bring to your future learning.",
			advice: "- Try applying today's observations in the next class\n" +
				"- Value small changes and small signs of progress, and keep at it steadily\n" +
				"- When questions or difficulties come up, actively ask for support",
		}
	}
}

// CompetencyEvaluation synthesizes a competency evaluation report for the
// message: keyword-selected competencies with drawn scores and star ratings,
// followed by the summary and advice of the message's situation bucket.
func (m *MockResponder) CompetencyEvaluation(ctx context.Context, message string) string {
	m.sleep(ctx)

	lower := strings.ToLower(message)
	selected := m.selectCompetencies(lower)
	for i := range selected {
		selected[i].score = 3 + m.intn(2) // uniform over {3,4}
	}
	sit := classifySituation(lower)

	var b strings.Builder
	b.WriteString("[Competency Evaluation Results]\n\n")
	for _, s := range selected {
		fmt.Fprintf(&b, "◆ %s %s (%d/5)\n- %s\n\n", s.comp.Label, stars(s.score), s.score, s.detail)
	}
	b.WriteString("[Summary]\n")
	fmt.Fprintf(&b, "■ %s\n- %s\n\n", sit.title, sit.summary)
	b.WriteString("[Advice for Future Learning]\n")
	b.WriteString(sit.advice)
	return b.String()
}

// --- general conversation ---

// generalReplies is the fallback pool drawn from when no keyword group
// matches the message.
var generalReplies = []string{
	"That's a really interesting perspective. Could you tell me a little more about it?",
	"You're reflecting deeply on what you learned in class. How do you want to build on that realization going forward?",
	"That's a great observation. Have you had similar experiences in other courses or in daily life?",
	"Could you give me a more concrete example of that idea?",
	"That's intriguing. What new questions has this learning raised for you?",
	"Looking at it through a peer-support lens, what meaning do you think this experience holds?",
	"What impressions did the interaction with the other participants leave on you?",
	"Was there a part of today's material that stayed with you in particular?",
}

// generalRule pairs a keyword group with its fixed reply. First match wins.
type generalRule struct {
	words []string
	reply string
}

var generalRules = []generalRule{
	{
		words: []string{"group", "team", "cooperate"},
		reply: "You're talking about working together in a group. From the standpoint of teamwork and communication, what did you learn?",
	},
	{
		words: []string{"listen", "attentive listening", "talk"},
		reply: "That's an insight about listening and communication. What new discoveries came from putting yourself in the other person's position?",
	},
	{
		words: []string{"difficult", "troubled", "challenge"},
		reply: "Learning that comes out of difficult situations is especially valuable. What ways of coping or solutions did you find through that experience?",
	},
}

// GeneralResponse synthesizes an open-conversation reply: the three keyword
// groups are tested against the raw message in fixed priority order, and a
// miss draws uniformly from the generic follow-up pool.
func (m *MockResponder) GeneralResponse(ctx context.Context, message string) string {
	m.sleep(ctx)

	for _, r := range generalRules {
		if containsAny(message, r.words) {
			return r.reply
		}
	}
	return generalReplies[m.intn(len(generalReplies))]
}
