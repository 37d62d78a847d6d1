package blackjack

import (
	"fmt"
	"strings"

	engine "gamba/blackjack"
	"gamba/bot/common"

	"github.com/bwmarrin/discordgo"
)

const embedColor = 0xFEE75C

func cardsText(cards []engine.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = string(c)
	}
	return strings.Join(parts, " ")
}

func buildSessionEmbed(v View) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🂡 Blackjack",
		Color: embedColor,
		Footer: &discordgo.MessageEmbedFooter{
			Text: v.Status,
		},
	}

	if len(v.Player) > 0 {
		dealerLine := fmt.Sprintf("%s ??", v.Dealer[0])
		if v.RevealDealer {
			dealerLine = fmt.Sprintf("%s (%d)", cardsText(v.Dealer), v.DealerTotal)
		}
		embed.Fields = append(embed.Fields,
			&discordgo.MessageEmbedField{
				Name:   fmt.Sprintf("Player (%d)", v.PlayerTotal),
				Value:  cardsText(v.Player),
				Inline: false,
			},
			&discordgo.MessageEmbedField{
				Name:   "Dealer",
				Value:  dealerLine,
				Inline: false,
			},
			&discordgo.MessageEmbedField{
				Name:   "Deck Remaining",
				Value:  fmt.Sprintf("%d", v.Remaining),
				Inline: true,
			},
		)
	} else {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Tier",
			Value:  v.TierName,
			Inline: true,
		})
	}

	stakeValue := "not selected"
	if v.Stake > 0 {
		stakeValue = common.FormatCredits(v.Stake) + " credits"
	}
	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{
			Name:   "Stake",
			Value:  stakeValue,
			Inline: true,
		},
		&discordgo.MessageEmbedField{
			Name:   "Balance",
			Value:  common.FormatCredits(v.Balance) + " credits",
			Inline: true,
		},
	)

	return embed
}
