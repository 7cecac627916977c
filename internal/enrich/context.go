package enrich

import "strings"

// companyContext maps lowercase company names to background blurbs used to
// ground generated copy. Only major names with well-known narratives belong
// here; everything else generates fine without context.
var companyContext = map[string]string{
	"meta":      "Meta (Facebook) has faced criticism for privacy issues, misinformation spread, and the costly metaverse pivot. They've been laying off thousands while pushing AI hard.",
	"facebook":  "Facebook/Meta has a history of privacy scandals, from Cambridge Analytica to tracking users across the web. They've pivoted hard to AI after the metaverse flopped.",
	"google":    "Google has a reputation for killing products people love (Google Reader, Stadia). They're playing catch-up in AI after being disrupted by ChatGPT despite inventing transformers.",
	"apple":     "Apple is known for adding features years after Android and marketing them as innovations. They face antitrust pressure and have been slow to AI compared to competitors.",
	"microsoft": "Microsoft made a massive AI bet with its OpenAI investment. They've pivoted successfully from the Ballmer era but face questions about AI integration everywhere.",
	"amazon":    "Amazon dominates cloud (AWS) and e-commerce but has faced criticism for worker treatment and aggressive tactics against competitors.",
	"openai":    "OpenAI went from non-profit to a multibillion valuation. They've had major governance drama, safety team departures, and questions about their 'open' name.",
	"twitter":   "Twitter/X under Elon Musk has been chaotic - mass layoffs, verification changes, advertiser exodus, and constant feature churn.",
	"elon":      "Elon Musk is controversial - Tesla/SpaceX success against Twitter chaos, SEC run-ins, and increasingly political posting.",
	"tesla":     "Tesla dominates EVs but faces growing competition from legacy automakers and Chinese brands. Quality issues and Musk's posting have hurt the brand.",
	"nvidia":    "Nvidia became the most important AI company through GPU dominance. The stock exploded but questions remain about the sustainability of AI chip demand.",
	"tiktok":    "TikTok faces constant regulatory pressure over ByteDance ownership. They revolutionized short-form video but live under threat of bans.",
	"samsung":   "Samsung leads Android but often follows Apple's lead, while competing with Chinese brands on price.",
}

// companyOrder fixes the lookup order so titles naming several companies
// resolve deterministically.
var companyOrder = []string{
	"meta", "facebook", "google", "apple", "microsoft", "amazon", "openai",
	"twitter", "elon", "tesla", "nvidia", "tiktok", "samsung",
}

// CompanyContext returns the background blurb for the first company named in
// the title, or "" when none matches.
func CompanyContext(title string) string {
	lower := strings.ToLower(title)

	for _, company := range companyOrder {
		if strings.Contains(lower, company) {
			return companyContext[company]
		}
	}

	return ""
}
