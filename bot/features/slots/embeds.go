package slots

import (
	"fmt"
	"strings"

	"gamba/bot/common"
	"gamba/games"

	"github.com/bwmarrin/discordgo"
)

const embedColor = 0x5865F2

func machineLine(symbols [3]games.Symbol) string {
	parts := make([]string, len(symbols))
	for i, sym := range symbols {
		parts[i] = games.SymbolEmoji[sym]
	}
	return strings.Join(parts, " | ")
}

func holdState(held bool) string {
	if held {
		return "ON"
	}
	return "OFF"
}

func buildMachineEmbed(v View) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "🎰 Slot Machine",
		Color: embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Reels",
				Value:  machineLine(v.Symbols),
				Inline: false,
			},
			{
				Name: "Holds",
				Value: fmt.Sprintf("R1: %s | R2: %s | R3: %s",
					holdState(v.Holds[0]), holdState(v.Holds[1]), holdState(v.Holds[2])),
				Inline: false,
			},
			{
				Name:   "Stake / Spin",
				Value:  common.FormatCredits(v.Stake) + " credits",
				Inline: true,
			},
			{
				Name:   "Balance",
				Value:  common.FormatCredits(v.Balance) + " credits",
				Inline: true,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: v.Status,
		},
	}

	if v.LastResult != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Last Spin",
			Value: fmt.Sprintf("%s\nNet: %s", v.LastResult.Reason,
				common.FormatCredits(v.LastResult.Net)),
			Inline: false,
		})
	}

	return embed
}

func buildMachineComponents(ownerID int64, v View) []discordgo.MessageComponent {
	spinRow := &discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "Spin",
				Style:    discordgo.SuccessButton,
				CustomID: fmt.Sprintf("slot_spin_%d", ownerID),
			},
			discordgo.Button{
				Label:    "Winnings",
				Style:    discordgo.PrimaryButton,
				CustomID: fmt.Sprintf("slot_pay_%d", ownerID),
			},
			discordgo.Button{
				Label:    "Stop",
				Style:    discordgo.DangerButton,
				CustomID: fmt.Sprintf("slot_stop_%d", ownerID),
			},
		},
	}

	holdRow := &discordgo.ActionsRow{}
	for reel := 0; reel < 3; reel++ {
		style := discordgo.SecondaryButton
		if v.Holds[reel] {
			style = discordgo.DangerButton
		}
		holdRow.Components = append(holdRow.Components, discordgo.Button{
			Label:    fmt.Sprintf("Hold %d: %s", reel+1, holdState(v.Holds[reel])),
			Style:    style,
			CustomID: fmt.Sprintf("slot_hold_%d_%d", ownerID, reel),
		})
	}

	rows := []discordgo.MessageComponent{spinRow, holdRow}
	if v.Finished {
		// A shut-down machine keeps its buttons visible but inert.
		return common.DisableComponents(rows)
	}
	return rows
}
