package games

import (
	"math/rand"
	"sync"
	"time"

	"gamba/bot/common"
	"gamba/service"

	"github.com/bwmarrin/discordgo"
)

type Feature struct {
	ledger   service.Ledger
	throttle *common.Throttle

	// rand.Rand is not safe for concurrent use
	rngMu sync.Mutex
	rng   *rand.Rand
}

func New(ledger service.Ledger, throttle *common.Throttle) *Feature {
	return newWithRand(ledger, throttle, rand.New(rand.NewSource(time.Now().UnixNano())))
}

func newWithRand(ledger service.Ledger, throttle *common.Throttle, rng *rand.Rand) *Feature {
	return &Feature{
		ledger:   ledger,
		throttle: throttle,
		rng:      rng,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleGameCommand(s, i)
}
