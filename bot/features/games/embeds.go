package games

import (
	"gamba/bot/common"
	"gamba/games"

	"github.com/bwmarrin/discordgo"
)

const (
	colorWin     = 0x57F287
	colorLoss    = 0xED4245
	colorNeutral = 0x5865F2
)

func buildOutcomeEmbed(title string, result games.Result, stake, newBalance int64) *discordgo.MessageEmbed {
	color := colorLoss
	if result.Won {
		color = colorWin
	} else if result.Delta == 0 {
		color = colorNeutral
	}

	return &discordgo.MessageEmbed{
		Title:       title,
		Description: result.Detail,
		Color:       color,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Stake",
				Value:  common.FormatCredits(stake) + " credits",
				Inline: true,
			},
			{
				Name:   "Result",
				Value:  common.FormatOutcome(result.Delta, newBalance),
				Inline: true,
			},
		},
	}
}

func errorEmbed(message string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "❌ Error",
		Description: message,
		Color:       colorLoss,
	}
}
