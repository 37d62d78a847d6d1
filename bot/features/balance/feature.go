package balance

import (
	"gamba/config"
	"gamba/service"

	"github.com/bwmarrin/discordgo"
)

type Feature struct {
	ledger service.Ledger
	config *config.Config
}

func New(ledger service.Ledger, cfg *config.Config) *Feature {
	return &Feature{
		ledger: ledger,
		config: cfg,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "balance":
		f.handleBalance(s, i)
	case "leaderboard":
		f.handleLeaderboard(s, i)
	case "grant":
		f.handleGrant(s, i)
	}
}
