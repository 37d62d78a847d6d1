package blackjack

import (
	"context"
	"strconv"
	"strings"

	"gamba/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// HandleCommand opens the tier lobby for /blackjack. An existing session for
// the same user is closed and replaced.
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

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

	// The watchdog edits the original response; capture the handles now.
	appID, token := i.AppID, i.Token
	sess := newSession(ownerID, username, user.Balance, f.ledger, newSessionRand(), func(v View) {
		f.removeSession(ownerID)
		err := f.throttle.Do(ownerID, func() error {
			return common.EditOriginal(s, appID, token, buildSessionEmbed(v), buildComponents(ownerID, v))
		})
		if err != nil {
			log.Errorf("Error disabling expired blackjack session for user %d: %v", ownerID, err)
		}
	})
	f.replaceSession(ownerID, sess)
	sess.startWatchdog()

	view := sess.View()
	err = common.RespondWithEmbed(s, i, buildSessionEmbed(view), buildComponents(ownerID, view), false)
	if err != nil {
		log.Errorf("Error responding to blackjack command: %v", err)
	}
}

// HandleComponent dispatches bj_* button presses to the owner's session.
func (f *Feature) HandleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	defer func() {
		// A drained shoe panics the round; recover so one broken hand
		// cannot take the process down.
		if r := recover(); r != nil {
			log.Errorf("Recovered panic in blackjack component handler: %v", r)
			common.RespondWithError(s, i, "That hand could not be completed.")
		}
	}()

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
		common.RespondWithError(s, i, ErrSessionNotYours.Error())
		return
	}

	sess := f.session(ownerID)
	if sess == nil {
		common.RespondWithError(s, i, "This blackjack session has ended. Start a new one with /blackjack.")
		return
	}

	ctx := context.Background()
	var view View
	var opErr error

	switch action {
	case "tier":
		if len(parts) < 4 {
			return
		}
		idx, err := strconv.Atoi(parts[3])
		if err != nil {
			return
		}
		view, opErr = sess.SelectTier(idx)
	case "stake":
		if len(parts) < 4 {
			return
		}
		stake, err := strconv.ParseInt(parts[3], 10, 64)
		if err != nil {
			return
		}
		view, opErr = sess.SelectStake(stake)
	case "deal":
		view, opErr = sess.Deal(ctx)
	case "hit":
		view, opErr = sess.Hit(ctx)
	case "stick":
		view, opErr = sess.Stick(ctx)
	case "again":
		view, opErr = sess.PlayAgain()
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

	f.renderSession(s, i, ownerID, view)
}

// renderSession pushes the new view to the message, falling back to editing
// the original response when the component interaction has gone stale. If
// both fail the error is logged and dropped; the ledger already holds the
// truth.
func (f *Feature) renderSession(s *discordgo.Session, i *discordgo.InteractionCreate, ownerID int64, view View) {
	components := buildComponents(ownerID, view)
	err := f.throttle.Do(ownerID, func() error {
		if err := common.UpdateComponentMessage(s, i, buildSessionEmbed(view), components); err != nil {
			return common.EditOriginal(s, i.AppID, i.Token, buildSessionEmbed(view), components)
		}
		return nil
	})
	if err != nil {
		log.Errorf("Error rendering blackjack session for user %d: %v", ownerID, err)
	}
}
