package grok

import (
	"fmt"
	"strings"

	"chemjobs/internal/domain/job"
)

// SystemPrompt pins the model to verifiable output. Kept strict: the response
// is parsed as JSON and hallucinated postings are filtered out downstream, so
// the cheapest place to stop them is here.
const SystemPrompt = "You are a factual, verification-focused assistant. Never invent data. " +
	"Base responses only on verifiable real-world information. Output strictly valid JSON."

// BuildPrompt renders the user prompt for a search query. The selected
// companies are named explicitly and the model is restricted to their
// official career domains; aggregator, social media, and ATS vendor hosts are
// called out by name because the model reaches for them otherwise.
func BuildPrompt(q job.Query) string {
	companies := strings.Join(q.Companies, ", ")
	n := len(q.Companies)

	var b strings.Builder
	fmt.Fprintf(&b, `You are a precise job search assistant. Find current, real job openings that closely match:

Criteria:
- Profession: %s
- Specialization: %s
- Location: %s
- Companies to search (ONLY these %d companies): %s

CRITICAL REQUIREMENTS - URLs MUST BE FROM OFFICIAL COMPANY CAREER SITES ONLY:

1. Search ONLY the official company career websites of the %d companies listed above.
2. Use ONLY URLs from the company's own domains (e.g., basf.com, careers.basf.com, covestro.com).
3. NEVER use job aggregator sites (Indeed, Glassdoor, LinkedIn, Monster, StepStone, etc.).
4. NEVER use social media sites (Reddit, X/Twitter, Facebook, etc.).
5. NEVER use ATS vendor domains (myworkdayjobs.com, greenhouse.io, lever.co) unless they are subdomains of the company's official domain.
6. NEVER use blogs, forums, or unofficial sites.
7. NEVER invent, guess, or hallucinate job postings or URLs.
8. Only return jobs that you are 99%% sure exist right now with valid, live URLs on the company's official website.
9. Look for jobs that match at least 70%% of the criteria (in German OR English).
10. Return maximum 10 jobs, ranked by relevance.

If you cannot find at least 1 real, current opening with an official company career site URL, return an empty jobs array.

Output ONLY valid, verified jobs from official company websites. If none found, return empty jobs array.

Final Output (JSON only, no explanations):
{
  "jobs": [
    {
      "title": "Original job title (German or English)",
      "company": "Exact company name",
      "location": "City/Region from the posting",
      "type": "Full-time/Contract/Intern",
      "matchScore": 85,
      "reasoning": "Brief explanation of why this is a good match",
      "link": "Direct application URL from company's official website ONLY"
    }
  ]
}`,
		q.Profession, q.Specialization, q.Location, n, companies, n)
	return b.String()
}
