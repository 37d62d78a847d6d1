package slots

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gamba/bot/common"
	"gamba/currency"
	"gamba/games"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// HandleCommand opens a machine for /slotmachine. An existing machine for
// the same user is closed and replaced.
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	var stake float64
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "stake" {
			stake = opt.FloatValue()
		}
	}

	stakeMinor, err := currency.ToMinorUnits(stake)
	if err != nil {
		common.RespondWithError(s, i, "Stake must be greater than zero.")
		return
	}

	ownerID, err := common.InteractionUserID(i)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", common.InteractionUser(i).ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	username := common.InteractionUser(i).Username

	user, err := f.ledger.EnsureAccount(ctx, ownerID, username)
	if err != nil {
		log.Errorf("Error ensuring account for user %d: %v", ownerID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	if user.Balance < stakeMinor {
		common.RespondWithError(s, i, fmt.Sprintf("You only have **%s credits**.", common.FormatCredits(user.Balance)))
		return
	}

	appID, token := i.AppID, i.Token
	sess := newSession(ownerID, username, stakeMinor, user.Balance, f.ledger, newSessionRand(), func(v View) {
		f.removeSession(ownerID)
		err := f.throttle.Do(ownerID, func() error {
			return common.EditOriginal(s, appID, token, buildMachineEmbed(v), buildMachineComponents(ownerID, v))
		})
		if err != nil {
			log.Errorf("Error disabling expired slot machine for user %d: %v", ownerID, err)
		}
	})
	f.replaceSession(ownerID, sess)
	sess.startWatchdog()

	view := sess.View()
	err = common.RespondWithEmbed(s, i, buildMachineEmbed(view), buildMachineComponents(ownerID, view), false)
	if err != nil {
		log.Errorf("Error responding to slotmachine command: %v", err)
	}
}

// HandleComponent dispatches slot_* button presses to the owner's machine.
func (f *Feature) HandleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	parts := strings.Split(i.MessageComponentData().CustomID, "_")
	if len(parts) < 3 {
		return
	}
	action := parts[1]
	ownerID, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return
	}

	presserID, err := common.InteractionUserID(i)
	if err != nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	if presserID != ownerID {
		common.RespondWithError(s, i, "This slot machine is not yours.")
		return
	}

	if action == "pay" {
		err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: "**Payouts (multiplier x stake)**\n" + games.Paytable(),
				Flags:   discordgo.MessageFlagsEphemeral,
			},
		})
		if err != nil {
			log.Errorf("Error responding with paytable: %v", err)
		}
		return
	}

	sess := f.session(ownerID)
	if sess == nil {
		common.RespondWithError(s, i, "This machine has shut down. Start a new one with /slotmachine.")
		return
	}

	ctx := context.Background()
	var view View
	var opErr error

	switch action {
	case "hold":
		if len(parts) < 4 {
			return
		}
		reel, err := strconv.Atoi(parts[3])
		if err != nil {
			return
		}
		view, opErr = sess.ToggleHold(reel)
	case "spin":
		view, opErr = sess.Spin(ctx)
	case "stop":
		view, opErr = sess.Stop()
		if opErr == nil {
			f.removeSession(ownerID)
		}
	default:
		return
	}

	if opErr != nil {
		common.RespondWithError(s, i, opErr.Error())
		return
	}

	if view.Finished {
		f.removeSession(ownerID)
	}

	f.renderMachine(s, i, ownerID, view)
}

func (f *Feature) renderMachine(s *discordgo.Session, i *discordgo.InteractionCreate, ownerID int64, view View) {
	components := buildMachineComponents(ownerID, view)
	err := f.throttle.Do(ownerID, func() error {
		if err := common.UpdateComponentMessage(s, i, buildMachineEmbed(view), components); err != nil {
			return common.EditOriginal(s, i.AppID, i.Token, buildMachineEmbed(view), components)
		}
		return nil
	})
	if err != nil {
		log.Errorf("Error rendering slot machine for user %d: %v", ownerID, err)
	}
}
