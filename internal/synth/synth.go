// Package synth generates a reproducible synthetic mention corpus for
// demos and pipeline testing. Texts are drawn from templates grouped by
// brand, polarity, and latent theme with fixed weights, so a seeded run
// always produces the same corpus and clustering has real structure to
// find.
package synth

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/cognicore/brandlens/pkg/brandlens/mention"
)

var platforms = []string{"reddit", "youtube", "instagram", "twitter"}

type themeGroup struct {
	name   string
	weight float64
	texts  []string
}

type polarityGroup struct {
	weight float64
	themes []themeGroup
}

var corpus = map[string]map[string]polarityGroup{
	"amazon": {
		"positive": {
			weight: 0.48,
			themes: []themeGroup{
				{"good_deals", 0.42, []string{
					"Amazing Black Friday deal, cheaper than everywhere else.",
					"Best price I found, the discount was actually worth it.",
					"Great value for money, saved a lot on this electronics purchase.",
				}},
				{"fast_delivery", 0.40, []string{
					"Delivered the next day, super fast shipping.",
					"Arrived earlier than expected, delivery was flawless.",
					"Fast delivery even during Black Friday week, impressive.",
				}},
				{"easy_ordering", 0.18, []string{
					"Ordering was effortless and checkout was smooth.",
					"Super convenient to compare options and buy quickly.",
					"Buying was quick and simple, no hassle.",
				}},
			},
		},
		"negative": {
			weight: 0.52,
			themes: []themeGroup{
				{"bad_customer_service", 0.38, []string{
					"Customer service was useless, no real help at all.",
					"Support kept sending me in circles, no clear solution.",
					"It was impossible to reach a helpful human agent.",
				}},
				{"exchange_returns_pain", 0.34, []string{
					"Exchange was a nightmare, they made it unnecessarily hard.",
					"Return process was confusing and took too long.",
					"Refund was delayed and the return instructions were unclear.",
				}},
				{"delivery_issues", 0.18, []string{
					"Delayed again, still waiting for my package.",
					"Package arrived damaged with missing items, very frustrating.",
					"Delivery status kept changing and nothing arrived.",
				}},
				{"marketplace_trust", 0.10, []string{
					"Got a third-party seller product that felt sketchy.",
					"The listing was misleading, didn't match what I received.",
					"Hard to know which sellers are trustworthy.",
				}},
			},
		},
	},
	"mediamarkt": {
		"positive": {
			weight: 0.55,
			themes: []themeGroup{
				{"great_customer_service", 0.28, []string{
					"Staff were super helpful and actually listened to what I needed.",
					"Great customer service, felt looked after during the purchase.",
					"They handled my issue quickly and professionally.",
				}},
				{"helped_choose_product", 0.24, []string{
					"They helped me decide the right laptop for my budget.",
					"In-store advice was excellent, made me confident buying.",
					"The staff explained the differences clearly, no pressure.",
				}},
				{"repair_service", 0.20, []string{
					"They fixed my phone quickly, great service.",
					"Repair service was smooth and saved me a lot of hassle.",
					"Got help setting up my device and it worked perfectly.",
				}},
				{"returns_instore_help", 0.16, []string{
					"Returns were easy in-store, no drama.",
					"They exchanged the product without making it complicated.",
					"Refund and return handling was straightforward and fair.",
				}},
				{"value_for_money", 0.12, []string{
					"Not always the cheapest, but the service made it worth it.",
					"Good value for money because I got real support.",
					"Paid a bit more but felt confident and satisfied.",
				}},
			},
		},
		"negative": {
			weight: 0.45,
			themes: []themeGroup{
				{"slightly_expensive", 0.42, []string{
					"A bit more expensive than other online shops for the same product.",
					"Prices felt slightly higher compared to pure online retailers.",
					"Good service, but the price wasn't always the cheapest.",
				}},
				{"slow_delivery", 0.36, []string{
					"Delivery took too long during Black November.",
					"Shipping was slower than expected, not ideal.",
					"Order arrived late, I expected faster delivery.",
				}},
				{"stock_mismatch", 0.22, []string{
					"Website said in stock, but the store didn't have it.",
					"Had to wait because the product wasn't available.",
					"Availability info was confusing and not accurate.",
				}},
			},
		},
	},
}

// brandWeights skews volume toward the larger brand.
var brandWeights = map[string]float64{"amazon": 0.55, "mediamarkt": 0.45}

// Generate produces n mentions with stable ids, weighted brand, polarity,
// and theme mixes, and normally distributed engagement. Polarity,
// intensity, and embeddings are left for the pipeline to fill in from the
// text. The same seed always yields the same corpus.
func Generate(n int, seed int64) []mention.Mention {
	r := rand.New(rand.NewSource(seed))

	out := make([]mention.Mention, 0, n)
	for i := 0; i < n; i++ {
		brand := weightedChoice(r, brandWeights)
		platform := platforms[r.Intn(len(platforms))]

		polarities := corpus[brand]
		polWeights := make(map[string]float64, len(polarities))
		for name, g := range polarities {
			polWeights[name] = g.weight
		}
		polarity := weightedChoice(r, polWeights)

		group := polarities[polarity]
		theme := pickTheme(r, group.themes)
		text := theme.texts[r.Intn(len(theme.texts))]

		likesLoc, repliesLoc, sharesLoc := 22.0, 4.0, 2.0
		if polarity == "negative" {
			likesLoc, repliesLoc, sharesLoc = 18.0, 7.0, 1.5
		}

		out = append(out, mention.Mention{
			ID:       fmt.Sprintf("m_%04d", i),
			Brand:    brand,
			Platform: platform,
			Text:     text,
			Engagement: mention.Engagement{
				Likes:   clampInt(r.NormFloat64()*14 + likesLoc),
				Replies: clampInt(r.NormFloat64()*6 + repliesLoc),
				Shares:  clampInt(r.NormFloat64()*3 + sharesLoc),
			},
		})
	}
	return out
}

// weightedChoice samples a key by weight. Keys are visited in sorted order
// so identical seeds give identical draws regardless of map iteration.
func weightedChoice(r *rand.Rand, weights map[string]float64) string {
	keys := make([]string, 0, len(weights))
	var total float64
	for k, w := range weights {
		keys = append(keys, k)
		total += w
	}
	sort.Strings(keys)

	x := r.Float64() * total
	for _, k := range keys {
		x -= weights[k]
		if x < 0 {
			return k
		}
	}
	return keys[len(keys)-1]
}

func pickTheme(r *rand.Rand, themes []themeGroup) themeGroup {
	var total float64
	for _, t := range themes {
		total += t.weight
	}
	x := r.Float64() * total
	for _, t := range themes {
		x -= t.weight
		if x < 0 {
			return t
		}
	}
	return themes[len(themes)-1]
}

func clampInt(v float64) int {
	if v < 0 {
		return 0
	}
	return int(v)
}
