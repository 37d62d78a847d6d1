package games

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"gamba/bot/common"
	"gamba/currency"
	"gamba/games"
	"gamba/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Pause between deferring and revealing the result, for a little suspense.
const revealDelay = 450 * time.Millisecond

// outcomeFunc runs one game for a stake and returns the settled result.
// Each command wraps its own parameters into one of these so the whole
// ensure-play-settle-render flow lives in a single place.
type outcomeFunc func(rng *rand.Rand, stake int64) (games.Result, error)

func (f *Feature) handleGameCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()

	var stake float64
	opts := map[string]*discordgo.ApplicationCommandInteractionDataOption{}
	for _, opt := range data.Options {
		opts[opt.Name] = opt
		if opt.Name == "stake" {
			stake = opt.FloatValue()
		}
	}

	stakeMinor, err := currency.ToMinorUnits(stake)
	if err != nil {
		common.RespondWithError(s, i, "Stake must be greater than zero.")
		return
	}

	var title string
	var play outcomeFunc

	switch data.Name {
	case "roulette":
		pick := opts["pick"].StringValue()
		title = "🎡 Roulette"
		play = func(rng *rand.Rand, stake int64) (games.Result, error) {
			return games.Roulette(rng, stake, pick)
		}
	case "slots":
		title = "🎰 Slots"
		play = func(rng *rand.Rand, stake int64) (games.Result, error) {
			return games.Slots(rng, stake), nil
		}
	case "poker":
		title = "🃏 High Card"
		play = func(rng *rand.Rand, stake int64) (games.Result, error) {
			return games.Poker(rng, stake), nil
		}
	case "minesweeper":
		tile := int(opts["tile"].IntValue())
		title = "💣 Minesweeper"
		play = func(rng *rand.Rand, stake int64) (games.Result, error) {
			return games.Minesweeper(rng, stake, tile)
		}
	case "wordlinks":
		guess := int(opts["guess"].IntValue())
		title = "🔤 Word Links"
		play = func(rng *rand.Rand, stake int64) (games.Result, error) {
			return games.WordLinks(rng, stake, guess), nil
		}
	case "showdown":
		title = "⚔️ Showdown"
		play = func(rng *rand.Rand, stake int64) (games.Result, error) {
			return games.Showdown(rng, stake), nil
		}
	default:
		return
	}

	f.playAndSettle(s, i, title, stakeMinor, play)
}

// playAndSettle is the shared flow behind every one-shot game command:
// ensure the account, defer, run the game, settle the delta and render.
func (f *Feature) playAndSettle(s *discordgo.Session, i *discordgo.InteractionCreate, title string, stake int64, play outcomeFunc) {
	ctx := context.Background()

	discordID, err := common.InteractionUserID(i)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", common.InteractionUser(i).ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	username := common.InteractionUser(i).Username

	user, err := f.ledger.EnsureAccount(ctx, discordID, username)
	if err != nil {
		log.Errorf("Error ensuring account for user %d: %v", discordID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	if user.Balance < stake {
		common.RespondWithError(s, i, fmt.Sprintf("You only have **%s credits**.", common.FormatCredits(user.Balance)))
		return
	}

	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Error deferring response: %v", err)
		return
	}

	time.Sleep(revealDelay)

	f.rngMu.Lock()
	result, err := play(f.rng, stake)
	f.rngMu.Unlock()
	if err != nil {
		log.Errorf("Error playing %s for user %d: %v", title, discordID, err)
		f.editWithThrottle(s, i, discordID, errorEmbed("That round could not be played."))
		return
	}

	settled, err := f.ledger.Settle(ctx, discordID, username, stake, result.Delta)
	if err != nil {
		if errors.Is(err, service.ErrInsufficientBalance) {
			f.editWithThrottle(s, i, discordID, errorEmbed("Insufficient balance for that stake."))
			return
		}
		log.Errorf("Error settling %s for user %d: %v", title, discordID, err)
		f.editWithThrottle(s, i, discordID, errorEmbed("Settlement failed. Your balance is unchanged."))
		return
	}

	f.editWithThrottle(s, i, discordID, buildOutcomeEmbed(title, result, stake, settled.Balance))
}

func (f *Feature) editWithThrottle(s *discordgo.Session, i *discordgo.InteractionCreate, discordID int64, embed *discordgo.MessageEmbed) {
	err := f.throttle.Do(discordID, func() error {
		return common.UpdateMessage(s, i, embed, nil)
	})
	if err != nil {
		log.Errorf("Error updating game message: %v", err)
	}
}
