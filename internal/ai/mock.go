package ai

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

// mockProvider drafts deterministic content from fixed templates, picked by a hash of the input
// mockProvider 基于固定模板的确定性实现，无需外部服务
type mockProvider struct{}

var _ Provider = (*mockProvider)(nil)

// NewMockProvider 创建 mock 实现
func NewMockProvider() Provider {
	return &mockProvider{}
}

func (p *mockProvider) Name() string {
	return ProviderMock
}

func (p *mockProvider) GenerateSection(ctx context.Context, in SectionInput) (*Draft, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	domain := extractDomain(in.URL)
	topic := in.MetaTitle
	if topic == "" {
		topic = domain
	}
	desc := in.MetaDescription
	tone := in.ToneNote
	hash := SimpleHash(in.URL)
	short := shortenTopic(topic)

	titleSets := [][]string{
		{
			short + " and what it really means",
			"The signal behind " + short,
			"Why " + short + " matters more than you think",
			short + ": connect the dots",
			short + ", a closer look",
		},
		{
			short + ": read between the lines",
			"Is " + short + " the real story?",
			"What " + short + " tells us about the future",
			short + " changes the equation",
			"The bigger picture behind " + short,
		},
		{
			short + ": who wins, who loses?",
			"Why everyone is watching " + short,
			short + " is not what you think",
			"The quiet shift in " + short,
			short + ": what comes next?",
		},
	}
	titles := append([]string{}, titleSets[hash%int64(len(titleSets))]...)

	var why [3]string
	if desc != "" {
		why[0] = truncateText(desc, 150) + ". This is not an isolated event. It reflects a deeper structural shift that has been building for years. When you trace the implications forward, the picture gets both more complex and more consequential. The question is no longer whether this will affect the broader landscape, but how fast and how deep the impact will be."
		why[1] = "Here is the key context: " + truncateText(desc, 120) + ". But this goes deeper than the headline suggests. It touches on how decisions are being made at the highest levels, and the ripple effects reach far beyond the obvious stakeholders. In a world where technology, geopolitics, and economics are converging faster than ever, developments like this one reshape entire sectors."
		why[2] = truncateText(desc, 130) + ". That alone is noteworthy. But the real insight is what this tells us about broader trends. We are seeing a convergence of forces, technological, economic, and political, that makes this development far more significant than it might appear at first glance. The implications extend well beyond " + domain + " and the immediate sector."
	} else {
		why[0] = topic + " points to a pattern that most people are not yet connecting. At the surface, it looks like a single development. But look at the context: industries are repositioning, capital is moving, and the rules of the game are being rewritten. This is one of those signals that, in hindsight, we will recognize as a turning point. Governments and companies that pay attention now will be better positioned in the years ahead."
		why[1] = "What makes " + topic + " stand out is the timing. This is happening precisely when the global landscape is being reconfigured, from supply chains to regulatory frameworks to capital allocation. The players who read this correctly and move early will have a significant advantage. The rest will be playing catch-up, and in today's world, catching up is harder than ever."
		why[2] = topic + " is the kind of development that looks contained today but could define how we talk about this space in 12 months. The fundamentals are shifting, and the signals have been building. Countries, companies, and investors who recognize what is happening here early will be the ones shaping the next chapter, not reacting to it."
	}

	var thoughts string
	switch {
	case tone != "" && in.AudioTranscript != "":
		thoughts = "I have been thinking about this one all week. My initial reaction was: " + strings.ToLower(tone) + ". After sitting with it longer and recording my thoughts, I landed somewhere more nuanced. This is not a black-and-white situation. What I find most interesting is the second-order effect, the part that is not in the headlines. I have seen similar dynamics play out before in different contexts, and the lesson is almost always the same: the real impact takes longer to materialize than people expect, but when it does, it is bigger than anyone predicted. What do you think? Am I reading this right, or am I missing something?"
	case tone != "":
		thoughts = "My honest take on this one: " + strings.ToLower(tone) + ". I know that might sound like a strong position, but look at what is actually happening here. I have had conversations with people close to this space, and the sentiment behind closed doors is quite different from what you read in the press. There is a pattern forming, and once you see it, you cannot unsee it. The question I keep coming back to is not whether this matters, but who is positioned to act on it. And more importantly: are we, in our own contexts, paying enough attention?"
	case in.AudioTranscript != "":
		thoughts = "I recorded a voice note about this one because it stayed on my mind longer than expected. There is something here that feels different from the usual noise. In my experience, the developments that truly matter are often the ones that do not make the biggest headlines. This feels like one of those. I keep asking myself: who benefits most from this, and is the current narrative capturing the real story? I am not sure it is. If you have a different read, I would love to hear it."
	default:
		variants := []string{
			"I find " + short + " genuinely worth paying attention to. Not because of the headline itself, but because of what it reveals about where things are heading. I have seen these dynamics before, in different industries and different geographies, and the playbook is becoming familiar. What changes is the speed. Everything is accelerating, and the gap between those who see the signals early and those who react late is widening. In my view, this is one of those moments where stepping back and connecting the dots matters more than chasing the next update. So the question I would leave you with is: what does this mean for your own context? And are you moving fast enough?",
			"I have been watching developments around " + short + " for a while now. What caught my attention this time is not the announcement itself, but what it tells us about the broader direction. There is a convergence happening between technology, policy, and capital that is reshaping the rules of the game. I have had the chance to discuss this with people in different regions, and the perspectives vary enormously, which tells me we are still in the early stages of understanding what is truly at play. The real question is not what happened, but what comes next. And whether we are prepared for it.",
			"Here is what I think most people will miss about " + short + ": it is not really about the surface-level story. It is about the structural forces underneath. When you look at the data, when you talk to people on the ground, a different picture emerges. I have always believed that the most important developments are the ones that seem small or distant at first but end up reshaping entire industries. This has that quality. I am curious to see how this plays out by the end of the year. What is your read on this?",
		}
		thoughts = variants[hash%int64(len(variants))]
	}

	return &Draft{
		TitleOptions: titles,
		WhyItMatters: why[hash%int64(len(why))],
		MyThoughts:   thoughts,
	}, nil
}

func (p *mockProvider) GenerateEventDescription(ctx context.Context, in EventInput) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	variants := []string{
		fmt.Sprintf("Will we see any concrete signals emerging from %s? And if so, who stands to gain the most?", in.Title),
		fmt.Sprintf("What conversations are happening behind closed doors at %s in %s? This one is worth watching closely.", in.Title, in.Location),
		fmt.Sprintf("%s could set the tone for the months ahead. The real question: will anything genuinely new emerge, or is it more of the same?", in.Title),
	}
	return variants[SimpleHash(in.Title)%int64(len(variants))], nil
}

func (p *mockProvider) GenerateUpcomingEvents(ctx context.Context, w EventsWindow) ([]UpcomingEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []UpcomingEvent{
		{
			Title:       "G20 Finance Ministers Meeting",
			Date:        w.WeekStart,
			Location:    "Brussels, Belgium",
			Description: "Will the world's largest economies find common ground on digital taxation? Or are we heading for a fragmented financial landscape?",
		},
		{
			Title:       "EU-China Trade Summit",
			Date:        w.WeekStart,
			Location:    "Beijing, China",
			Description: "Can Europe maintain its balancing act between economic engagement and strategic autonomy?",
		},
		{
			Title:       "Federal Reserve Interest Rate Decision",
			Date:        w.WeekEnd,
			Location:    "Washington, D.C.",
			Description: "Will the Fed surprise markets again? The signals are mixed, and the stakes have never been higher.",
		},
	}, nil
}

// SimpleHash is the 32-bit rolling hash h = h*31 + c over UTF-16 code units, made non-negative
// SimpleHash 32 位滚动哈希（按 UTF-16 码元），返回绝对值
func SimpleHash(s string) int64 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(c)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}

// extractDomain 取主机名首段并首字母大写，解析失败时返回 "this development"
func extractDomain(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return "this development"
	}
	host := strings.Replace(u.Hostname(), "www.", "", 1)
	name := strings.Split(host, ".")[0]
	if name == "" {
		return name
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[size:]
}

// shortenTopic keeps titles punchy: at most 50 runes, cut at a word boundary past the 20th rune
func shortenTopic(s string) string {
	r := []rune(s)
	if len(r) <= 50 {
		return s
	}
	head := string(r[:50])
	if cut := strings.LastIndex(head, " "); utf8.RuneCountInString(head[:max(cut, 0)]) > 20 {
		return head[:cut]
	}
	return head
}

// truncateText 超出 n 个字符时截断、去掉尾部空白并追加 "..."
func truncateText(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimRightFunc(string(r[:n]), unicode.IsSpace) + "..."
}
