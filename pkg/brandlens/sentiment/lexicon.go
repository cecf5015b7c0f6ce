package sentiment

// defaultValence is a compact valence lexicon tuned for consumer product
// chatter. Values are on roughly a [-4,4] scale.
var defaultValence = map[string]float64{
	// positive
	"amazing":     3.2,
	"awesome":     3.1,
	"excellent":   3.0,
	"fantastic":   3.1,
	"perfect":     3.0,
	"love":        2.9,
	"loved":       2.9,
	"great":       2.6,
	"best":        2.8,
	"wonderful":   2.8,
	"impressive":  2.2,
	"impressed":   2.2,
	"good":        1.9,
	"nice":        1.8,
	"fast":        1.5,
	"quick":       1.4,
	"smooth":      1.6,
	"reliable":    2.0,
	"sturdy":      1.6,
	"solid":       1.5,
	"happy":       2.1,
	"satisfied":   1.9,
	"recommend":   2.0,
	"recommended": 2.0,
	"worth":       1.4,
	"helpful":     1.8,
	"friendly":    1.9,
	"easy":        1.5,
	"works":       1.0,
	"fine":        0.8,
	"ok":          0.5,
	"okay":        0.5,

	// negative
	"terrible":      -3.1,
	"horrible":      -3.2,
	"awful":         -3.0,
	"worst":         -3.1,
	"hate":          -2.9,
	"hated":         -2.9,
	"bad":           -2.2,
	"poor":          -2.1,
	"broken":        -2.4,
	"broke":         -2.3,
	"defective":     -2.6,
	"faulty":        -2.4,
	"useless":       -2.7,
	"disappointing": -2.4,
	"disappointed":  -2.3,
	"slow":          -1.6,
	"late":          -1.5,
	"delayed":       -1.6,
	"expensive":     -1.2,
	"overpriced":    -1.9,
	"cheap":         -1.0,
	"flimsy":        -1.8,
	"scratched":     -1.6,
	"damaged":       -2.2,
	"refund":        -1.3,
	"return":        -0.9,
	"returned":      -1.1,
	"scam":          -3.0,
	"waste":         -2.3,
	"crash":         -2.0,
	"crashes":       -2.1,
	"crashed":       -2.0,
	"stuck":         -1.5,
	"rude":          -2.4,
	"ignored":       -1.8,
	"never":         -0.5,
	"problem":       -1.6,
	"problems":      -1.7,
	"issue":         -1.3,
	"issues":        -1.4,
	"complaint":     -1.6,
}
