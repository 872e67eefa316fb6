package leader

import (
	"fmt"
	"math/big"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/onflow/chainbft/consensus/bft"
	"github.com/onflow/chainbft/consensus/bft/model"
)

// DefaultCacheSize is the number of recently elected proposers kept in memory.
const DefaultCacheSize = 10

// WeightedRotatingLeaders elects proposers in proportion to their voting power. Each round
// every validator's priority grows by its power; the validator with the highest priority
// proposes and its priority drops by the total power. Ties are broken by the lower id.
//
// Elections are a pure function of the validator set and the round. Rounds are computed
// incrementally and recent results are cached.
type WeightedRotatingLeaders struct {
	validators []model.Validator
	total      *big.Int

	mu         sync.Mutex
	priorities []*big.Int
	nextRound  model.Round
	cache      *lru.Cache[model.Round, model.ValidatorID]
}

var _ bft.ProposerElection = (*WeightedRotatingLeaders)(nil)

func NewWeightedRotatingLeaders(validatorSet *model.ValidatorSet, cacheSize int) (*WeightedRotatingLeaders, error) {
	cache, err := lru.New[model.Round, model.ValidatorID](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("could not create proposer cache: %w", err)
	}
	l := &WeightedRotatingLeaders{
		validators: validatorSet.Validators(),
		total:      new(big.Int).SetUint64(validatorSet.TotalPower()),
		cache:      cache,
	}
	l.reset()
	return l, nil
}

func (l *WeightedRotatingLeaders) reset() {
	l.priorities = make([]*big.Int, len(l.validators))
	for i := range l.priorities {
		l.priorities[i] = new(big.Int)
	}
	l.nextRound = model.GenesisRound
}

// Proposer returns the leader of the given round.
func (l *WeightedRotatingLeaders) Proposer(round model.Round) model.ValidatorID {
	if id, ok := l.cache.Get(round); ok {
		return id
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if round < l.nextRound {
		l.reset()
	}
	var proposer model.ValidatorID
	for l.nextRound <= round {
		proposer = l.step()
		l.cache.Add(l.nextRound, proposer)
		l.nextRound++
	}
	return proposer
}

func (l *WeightedRotatingLeaders) step() model.ValidatorID {
	best := 0
	for i, v := range l.validators {
		l.priorities[i].Add(l.priorities[i], new(big.Int).SetUint64(v.Power))
		if l.priorities[i].Cmp(l.priorities[best]) > 0 {
			best = i
		}
	}
	l.priorities[best].Sub(l.priorities[best], l.total)
	return l.validators[best].ID
}
