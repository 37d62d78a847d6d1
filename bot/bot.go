package bot

import (
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"gamba/bot/common"
	"gamba/bot/features/balance"
	botblackjack "gamba/bot/features/blackjack"
	"gamba/bot/features/games"
	"gamba/bot/features/slots"
	"gamba/config"
	"gamba/events"
	"gamba/service"

	"github.com/bwmarrin/discordgo"
)

// Minimum gap between message edits for one user.
const editThrottleGap = 400 * time.Millisecond

type Bot struct {
	config   *config.Config
	session  *discordgo.Session
	ledger   service.Ledger
	eventBus *events.Bus

	balanceFeature   *balance.Feature
	gamesFeature     *games.Feature
	blackjackFeature *botblackjack.Feature
	slotsFeature     *slots.Feature
}

func New(cfg *config.Config, ledger service.Ledger, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	throttle := common.NewThrottle(editThrottleGap)

	bot := &Bot{
		config:           cfg,
		session:          dg,
		ledger:           ledger,
		eventBus:         eventBus,
		balanceFeature:   balance.New(ledger, cfg),
		gamesFeature:     games.New(ledger, throttle),
		blackjackFeature: botblackjack.New(ledger, throttle),
		slotsFeature:     slots.New(ledger, throttle),
	}

	// Register slash command handlers
	dg.AddHandler(bot.handleCommands)

	// Register component interaction handlers
	dg.AddHandler(bot.handleComponentInteractions)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	return bot, nil
}

func (b *Bot) Close() error {
	// Stop session watchdogs before dropping the gateway connection
	b.blackjackFeature.Shutdown()
	b.slotsFeature.Shutdown()
	return b.session.Close()
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch name := i.ApplicationCommandData().Name; name {
	case "balance", "leaderboard", "grant":
		b.balanceFeature.HandleCommand(s, i)
	case "roulette", "slots", "poker", "minesweeper", "wordlinks", "showdown":
		b.gamesFeature.HandleCommand(s, i)
	case "blackjack":
		b.blackjackFeature.HandleCommand(s, i)
	case "slotmachine":
		b.slotsFeature.HandleCommand(s, i)
	default:
		log.Warnf("Unhandled command: %s", name)
	}
}

func (b *Bot) handleComponentInteractions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	customID := i.MessageComponentData().CustomID
	switch {
	case strings.HasPrefix(customID, "bj_"):
		b.blackjackFeature.HandleComponent(s, i)
	case strings.HasPrefix(customID, "slot_"):
		b.slotsFeature.HandleComponent(s, i)
	}
}
