package betasplit_test

import (
	"fmt"
	"math/rand/v2"

	"github.com/RemieJanssen/NetworkGenerators/pkg/betasplit"
)

func ExampleBuild() {
	rng := rand.New(rand.NewPCG(42, 42^0xdeadbeef))

	g, err := betasplit.Build(rng, 2, 0)
	if err != nil {
		panic(err)
	}

	// The smallest tree: root 3 over leaves 1 and 2.
	fmt.Println("nodes:", g.NodeCount())
	fmt.Println("root:", g.Roots()[0])
	fmt.Println("leaves:", g.Leaves())
	// Output:
	// nodes: 3
	// root: 3
	// leaves: [1 2]
}

func ExampleWeights() {
	// At beta = 0 every split of the group is equally likely.
	w, err := betasplit.Weights(4, 0)
	if err != nil {
		panic(err)
	}
	fmt.Println(w)
	// Output:
	// [1 1 1]
}
