package blackjack

import (
	"fmt"

	"gamba/bot/common"

	"github.com/bwmarrin/discordgo"
)

// Custom IDs carry the owner's Discord ID so a press from anyone else can be
// rejected without a registry lookup: bj_<action>_<owner>[_<arg>].
func customID(action string, ownerID int64) string {
	return fmt.Sprintf("bj_%s_%d", action, ownerID)
}

func customIDArg(action string, ownerID int64, arg int64) string {
	return fmt.Sprintf("bj_%s_%d_%d", action, ownerID, arg)
}

func buildComponents(ownerID int64, v View) []discordgo.MessageComponent {
	switch v.State {
	case StateLobby:
		return lobbyComponents(ownerID, v)
	case StateDealt:
		return inPlayComponents(ownerID)
	case StateAwaitingNext:
		return nextHandComponents(ownerID)
	case StateFinished:
		// The ended session keeps its last controls visible but inert, so
		// the message reads as over instead of silently losing its buttons.
		if len(v.Player) == 0 {
			return common.DisableComponents(lobbyComponents(ownerID, v))
		}
		return common.DisableComponents(nextHandComponents(ownerID))
	default:
		return nil
	}
}

func inPlayComponents(ownerID int64) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		&discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Hit",
					Style:    discordgo.PrimaryButton,
					CustomID: customID("hit", ownerID),
				},
				discordgo.Button{
					Label:    "Stick",
					Style:    discordgo.SecondaryButton,
					CustomID: customID("stick", ownerID),
				},
			},
		},
	}
}

func nextHandComponents(ownerID int64) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		&discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Play Again",
					Style:    discordgo.SuccessButton,
					CustomID: customID("again", ownerID),
				},
				discordgo.Button{
					Label:    "Stop",
					Style:    discordgo.DangerButton,
					CustomID: customID("stop", ownerID),
				},
			},
		},
	}
}

func lobbyComponents(ownerID int64, v View) []discordgo.MessageComponent {
	tierRow := &discordgo.ActionsRow{}
	for idx, tier := range tiers {
		style := discordgo.SecondaryButton
		if idx == v.TierIndex {
			style = discordgo.PrimaryButton
		}
		tierRow.Components = append(tierRow.Components, discordgo.Button{
			Label:    tier.Name,
			Style:    style,
			CustomID: customIDArg("tier", ownerID, int64(idx)),
		})
	}

	stakeRow := &discordgo.ActionsRow{}
	for _, stake := range v.Stakes {
		style := discordgo.SecondaryButton
		if stake == v.Stake {
			style = discordgo.PrimaryButton
		}
		stakeRow.Components = append(stakeRow.Components, discordgo.Button{
			Label:    common.FormatCredits(stake),
			Style:    style,
			CustomID: customIDArg("stake", ownerID, stake),
			Disabled: stake > v.Balance,
		})
	}

	dealRow := &discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "Deal",
				Style:    discordgo.SuccessButton,
				CustomID: customID("deal", ownerID),
				Disabled: v.Stake <= 0,
			},
		},
	}

	return []discordgo.MessageComponent{tierRow, stakeRow, dealRow}
}
