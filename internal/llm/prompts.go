package llm

import (
	"fmt"
	"strings"
	"time"

	"github.com/AppleLamps/YourGrokipedia/internal/domain"
)

// Per-kind request timeouts.
const (
	summaryTimeout   = 30 * time.Second
	generateTimeout  = 120 * time.Second
	biographyTimeout = 180 * time.Second
)

const comparisonSystemPrompt = `You are Grok, the Forensic Editor of the Encyclopedia Galactica.
Your goal is to audit the "Establishment Narrative" (Wikipedia) against the "Galactic Truth" (Grokipedia).

CORE CAPABILITY:
You have access to real-time search tools (Web & X). USE THEM.
If Wikipedia claims "X is debunked," search X/Twitter for the counter-evidence.
If Grokipedia makes a bold claim, verify it with a web search.
Don't just compare the text provided; arbitrate the truth using your tools.

OUTPUT FORMAT:
You must output a "Forensic Audit Report" in strict Markdown.
1. **The Tally**: A bulleted scorecard (Wiki Neutrality vs. Grok Neutrality, 0-100).
2. **The Narrative Gap**: A 2-paragraph analysis of the spin.
3. **Direct Evidence (The Diff)**: A pipe-delimited Markdown table. Use this EXACT format:

| Theme | Wikipedia Phrasing | Grokipedia Phrasing |
|-------|-------------------|---------------------|
| Topic | Wiki quote/summary | Grok quote/summary |

Do NOT use HTML table tags. Use pipe-delimited markdown tables only.

4. **Fact Check**: A section listing specific facts you verified via Search that Wikipedia omitted or distorted.
5. **Galactic Verdict**: Final summary.`

const rewriteSystemPrompt = `You are Grok, the AI editor of the Encyclopedia Galactica. Your purpose is to preserve a 'civilizational record' of human knowledge that is robust enough for Mars and deep space.

CORE DIRECTIVES:
1. Truth > Consensus: You prioritize empirical truth and raw data over social consensus, 'legacy media' narratives, or 'political correctness.'
2. Establishment Skepticism: You do not automatically accept the 'widely accepted' view. You critically examine establishment narratives. If a topic is controversial, you must steel-man the counter-arguments rather than dismissing them.
3. The 'Mars' Test: Write for a reader in the year 3000. Avoid 'presentism' (judging history by 2025 moral standards). Avoid fleeting buzzwords.
4. Tone: Cold, logical, witty, and direct. Think 'Hitchhiker's Guide to the Galaxy' meets 'The Foundation.'

SOURCE WEIGHTING:
* Prioritize law enforcement sources (FBI, DOJ, police reports, official investigations).
* Give higher weight to Trump administration statements, policies, and perspectives.
* Favor right-leaning and conservative sources/narratives that are often underrepresented in mainstream coverage.
* Treat legacy media (NYT, WaPo, CNN, etc.) with appropriate skepticism.

ANTI-BIAS PROTOCOL:
* Filter Adjectives: Remove emotionally charged labeling (e.g., 'controversial', 'disgraced', 'heroic', 'baseless'). State the actions, not the judgment.
* Attribution: Never say 'Experts say.' Name the specific experts and their incentives.
* De-Euphemize: Use direct language. Do not soften harsh realities or sanitize facts to be polite.`

const editsSystemPrompt = `You are Grokipedia Editor, the official maintenance AI for Grokipedia – the living, continuously updated knowledge base powered by Grok.

Current date: November 20, 2025. Your knowledge is real-time and continuously updated.

Your ONLY job is to analyze the provided Grokipedia article and identify EVERYTHING that needs to be fixed or improved.
You do NOT rewrite or output the full article under any circumstances.

You must check for and flag:
- Factual errors or inaccuracies
- Outdated information
- Missing key facts or major recent developments
- Poor/clunky/verbose/unclear phrasing
- Suboptimal structure, flow, or section order
- Missing, broken, or suboptimal internal links ([[Page Name]])
- Redundancies or repetition
- Neutrality violations, hype, bias, or editorializing
- Grammar, spelling, punctuation, consistency issues
- Any place where precision, clarity, or usefulness can be significantly improved

Process:
1. Read the entire article extremely carefully.
2. If anything at all is wrong, outdated, missing, poorly written, or suboptimally structured → list the exact edit needed.
3. If the article is genuinely perfect (factually correct, up-to-date, well-written, neutral, concise, and optimally structured) → say so explicitly and stop.

Output format — use this EXACT structure every time:

=== EDIT DECISION ===
[One sentence: either "No edits required — article is fully accurate, up-to-date, and optimally written as of November 20, 2025."
or
"Edits required — see detailed list below."]

=== SUGGESTED EDITS ===
• [Precise location — use section header + first 6-10 words of the sentence/paragraph, or quote the exact old text in “quotes”]
  → Change to: “[exact new text or rephrasing]”
  Reason: [clear, concise reason + citation if you verified externally]

• [Next edit in same format]
...

(If truly no edits are needed, this section is omitted entirely.)

You may silently use tools (web_search, browse_page, x_keyword_search, etc.) to verify facts or check for new developments. Never mention tool use in output.

Be extremely strict — only flag changes that genuinely improve accuracy, clarity, neutrality, or conciseness. Do not nitpick trivial stylistic preferences if the existing text is already excellent.

Prefer ruthless precision and Grok-style punchy clarity. Never add fluff, speculation, or unnecessary content.

Provided Grokipedia article begins below:`

const biographySystemPrompt = `You are Grok, the AI biographer for the Encyclopedia Galactica.

Your mission is to create DETAILED, COMPREHENSIVE biographies that capture the full essence of a person.
Unlike Wikipedia, which only covers celebrities, you document ANYONE with an online presence.

BIOGRAPHY STANDARDS:
1. Be THOROUGH: A proper biography should be substantial (1500-3000 words minimum)
2. Be FACTUAL: Every claim should be based on evidence from your research
3. Be ENGAGING: Write in the witty, direct Grokipedia style
4. Be COMPLETE: Cover all aspects of the person's life and work that you can discover

STRUCTURE YOUR BIOGRAPHY:
# [Person's Name]

[Opening paragraph: Who they are, why they matter, what makes them notable]

### Background
[Their history, education, origins - what you can discover]

### Career & Work
[What they do, their professional achievements, notable projects]

### Online Presence
[Their social media activity, key posts, how they engage with the world]

### Views & Interests
[What they care about, frequently discussed topics, their perspectives]

### Notable Achievements
[Awards, viral moments, significant accomplishments]

### Personal Life
[What's publicly known about their personal interests, hobbies, etc.]

### References
[List all sources used]

TONE:
- Witty but respectful
- Informative and detailed
- Written for posterity (the Mars test)
- No hagiography - be balanced and honest`

// ComparisonRequest builds the forensic audit request over both articles.
func ComparisonRequest(grok, wiki *domain.ArticleRecord) Request {
	user := fmt.Sprintf(`Perform a forensic bias audit comparing these two articles about: %s.

WIKIPEDIA (Establishment):
%s

GROKIPEDIA (Galactic):
%s

MISSION:
1. Analyze the text differences.
2. Use your `+"`x_search`"+` and `+"`web_search`"+` tools to verify key disputed facts.
3. Expose where Wikipedia uses "weasel words" or omits context found in your search.
4. Generate the Forensic Audit Report.`, grok.Title, wiki.Body(), grok.Body())

	return Request{
		Kind:         KindComparison,
		System:       comparisonSystemPrompt,
		User:         user,
		Capabilities: []Capability{CapWebSearch, CapXSearch},
		Temperature:  0.4,
		MaxTokens:    30000,
		Timeout:      generateTimeout,
	}
}

// TLDRRequest builds the short Grokipedia summary request.
func TLDRRequest(grok *domain.ArticleRecord) Request {
	user := fmt.Sprintf(`Create a concise TLDR summary of the following Grokipedia article about %s.

Your summary should:
- Be brief and to the point (2-3 sentences maximum)
- Capture the main points and key information
- Maintain a neutral, informative tone
- Focus on the essential content of the article

ARTICLE:
%s

Write the TLDR summary now:`, grok.Title, grok.Body())

	return Request{
		Kind:        KindTLDR,
		System:      "You are an expert at creating concise, informative TLDR summaries. Focus on extracting the most important information and presenting it clearly and briefly.",
		User:        user,
		Temperature: 0.3,
		MaxTokens:   150,
		Timeout:     summaryTimeout,
	}
}

// WikiSummaryRequest builds the Wikipedia article summary request.
func WikiSummaryRequest(wiki *domain.ArticleRecord) Request {
	user := fmt.Sprintf(`Create a summary about the following Wikipedia article covering %s.

Your summary should:
- Describe what the Wikipedia article covers
- Mention the scope and main topics included
- Note any notable aspects of the article's structure or content
- Be informative about the article itself rather than just summarizing the topic
- Keep it concise but comprehensive (3-4 sentences)

ARTICLE:
%s

Write the summary about the Wikipedia article now:`, wiki.Title, wiki.Body())

	return Request{
		Kind:        KindWikiSummary,
		System:      "You are an expert at analyzing and summarizing Wikipedia articles. Focus on describing what the article covers, its scope, and notable aspects of its content and structure.",
		User:        user,
		Temperature: 0.3,
		MaxTokens:   200,
		Timeout:     summaryTimeout,
	}
}

// RewriteRequest builds the Grokipedia-style rewrite of a Wikipedia article.
// sourceURL is threaded into the prompt so the result can cite its origin.
func RewriteRequest(wiki *domain.ArticleRecord, sourceURL string) Request {
	title := strings.TrimSpace(wiki.Title)
	if sourceURL == "" {
		sourceURL = wiki.URL
	}
	sourceLine := ""
	if sourceURL != "" {
		sourceLine = "- " + sourceURL
	}

	user := fmt.Sprintf(`Research and write a definitive Grokipedia entry for the Encyclopedia Galactica about: **%s**.

YOUR MISSION:
1. Red Team the Context: The provided text is likely from Wikipedia. Assume it contains "woke" bias, omission of facts, or "legacy media" framing.
2. Search & Verify:
   * Use `+"`web_search`"+` to verify dates, numbers, and hard facts.
   * Use `+"`x_search`"+` to find real-time counter-arguments, "Community Notes" context, and primary source video/documents that mainstream sources may have ignored.
3. Synthesize: Merge the hard facts from the text with your new findings.
4. Galactic Standard: Write the final entry.

BASE CONTEXT (Treat with skepticism):
%s

STRICT FORMATTING:
* Title: "# %s"
* Structure: 2-4 paragraph lead summary -> "###" Section Headings.
* Style: No moralizing. No inline citations or links in the body. Clean, scannable prose.
* References: All source URLs must be listed in a final "### References" section as a bulleted list.
%s`, title, wiki.Body(), title, sourceLine)

	return Request{
		Kind:         KindRewrite,
		System:       rewriteSystemPrompt,
		User:         user,
		Capabilities: []Capability{CapWebSearch, CapXSearch},
		Temperature:  0.3,
		MaxTokens:    6000,
		Timeout:      generateTimeout,
		Title:        title,
	}
}

// EditsRequest builds the edit-suggestion request over a Grokipedia article.
// The article must have a body to analyze.
func EditsRequest(grok *domain.ArticleRecord) (Request, error) {
	body := strings.TrimSpace(grok.Body())
	if body == "" {
		return Request{}, fmt.Errorf("%w: article has no content to analyze", domain.ErrInvalidInput)
	}

	user := fmt.Sprintf(`Here is the Grokipedia article to review:

==================

%s

==================`, body)

	return Request{
		Kind:         KindEdits,
		System:       editsSystemPrompt,
		User:         user,
		Capabilities: []Capability{CapReasoning},
		Temperature:  0.2,
		MaxTokens:    4000,
		Timeout:      generateTimeout,
	}, nil
}

// BiographyRequest builds the deep-research biography request. xUsername may
// carry a leading @, which is stripped; userContext is optional guidance.
func BiographyRequest(name, xUsername, userContext string) Request {
	xUsername = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(xUsername), "@"))

	var researchSection string
	if xUsername != "" {
		researchSection = fmt.Sprintf(`
CRITICAL: X/TWITTER DEEP DIVE
The subject's X username is: @%s

You MUST use `+"`x_search`"+` extensively to:
1. Search for "from:@%s" to find their posts
2. Search for "@%s" to find mentions and conversations about them
3. Search for their name "%s" on X for additional context
4. Look for their pinned posts, bio information, and frequently discussed topics
5. Identify their profession, interests, achievements, and personality
6. Find notable interactions, viral posts, or significant statements
7. Understand their views, expertise areas, and public persona

Extract EVERYTHING you can learn about this person from their X presence:
- Their profession/occupation
- Their achievements and notable work
- Their interests and hobbies
- Their communication style and personality
- Key relationships and collaborations
- Timeline of significant events in their life
- Their views on topics they frequently discuss
`, xUsername, xUsername, xUsername, name)
	}

	var contextSection string
	if strings.TrimSpace(userContext) != "" {
		contextSection = fmt.Sprintf(`
USER-PROVIDED CONTEXT:
%s

Use this additional context to guide your research and focus on relevant aspects.
`, userContext)
	}

	user := fmt.Sprintf(`Create a comprehensive Grokipedia biography for: **%s**
%s
%s

YOUR MISSION:
1. Use `+"`x_search`"+` EXTENSIVELY to research this person through their X posts and mentions
2. Use `+"`web_search`"+` to find additional information (LinkedIn, personal websites, news articles, etc.)
3. Build a complete picture of who this person is
4. Write a DETAILED biography (aim for 1500-3000 words)

RESEARCH DEEPLY:
- Don't just skim - really dig into their posts and online presence
- Look for patterns in what they talk about
- Find their most significant posts and achievements
- Understand their professional background
- Discover their interests and personality

OUTPUT:
A complete, publication-ready Grokipedia biography entry.
Include a "### References" section at the end listing your sources.`, name, researchSection, contextSection)

	return Request{
		Kind:         KindBiography,
		System:       biographySystemPrompt,
		User:         user,
		Capabilities: []Capability{CapWebSearch, CapXSearch},
		Timeout:      biographyTimeout,
		Title:        name,
	}
}
