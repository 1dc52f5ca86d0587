package cards

import "math/rand/v2"

// Dealer picks faces for new cards. Draws are independent: the same face
// can come up any number of times.
type Dealer struct {
	rng *rand.Rand
}

// NewDealer returns a dealer seeded from the runtime's random source.
func NewDealer() *Dealer {
	return &Dealer{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeededDealer returns a deterministic dealer.
func NewSeededDealer(seed uint64) *Dealer {
	return &Dealer{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (d *Dealer) Draw() (Suit, string) {
	return Suits[d.rng.IntN(len(Suits))], Ranks[d.rng.IntN(len(Ranks))]
}
